package chat

import "strings"

const titleMaxRunes = 20

// TitleFromPrompt derives a conversation title from the first user prompt: its
// first 20 runes, followed by "..." when the prompt is longer.
func TitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	runes := []rune(prompt)
	if len(runes) <= titleMaxRunes {
		return prompt
	}
	return string(runes[:titleMaxRunes]) + "..."
}
