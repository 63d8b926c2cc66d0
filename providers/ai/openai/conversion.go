package openai

import (
	"github.com/leofalp/chatstream/providers/ai"
)

// requestFromMessages converts canonical messages into a streaming chat
// completion request. Optional sampling parameters are sent only when set.
func requestFromMessages(config ai.ProviderConfig, messages []ai.Message) chatCompletionRequest {
	converted := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	return chatCompletionRequest{
		Model:       config.Model,
		Messages:    converted,
		Stream:      true,
		Temperature: config.Temperature,
		TopP:        config.TopP,
		MaxTokens:   config.MaxTokens,
	}
}

func probeRequest(config ai.ProviderConfig) chatCompletionRequest {
	maxTokens := probeMaxTokens
	return chatCompletionRequest{
		Model:     config.Model,
		Messages:  []chatMessage{{Role: string(ai.RoleUser), Content: probePrompt}},
		MaxTokens: &maxTokens,
	}
}
