package anthropic

import (
	"github.com/leofalp/chatstream/providers/ai"
)

// requestFromMessages converts canonical messages into a streaming Messages
// API request.
//
// System-role messages are dropped, not hoisted into the top-level "system"
// field.
// TODO: hoist system content into messagesRequest.System once product confirms
// system prompts should reach Anthropic.
func requestFromMessages(config ai.ProviderConfig, messages []ai.Message) messagesRequest {
	converted := make([]messageContent, 0, len(messages))
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			continue
		}
		converted = append(converted, messageContent{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	maxTokens := DefaultMaxTokens
	if config.MaxTokens != nil {
		maxTokens = *config.MaxTokens
	}

	return messagesRequest{
		Model:       config.Model,
		Messages:    converted,
		MaxTokens:   maxTokens,
		Stream:      true,
		Temperature: config.Temperature,
		TopP:        config.TopP,
	}
}

func probeRequest(config ai.ProviderConfig) messagesRequest {
	return messagesRequest{
		Model:     config.Model,
		Messages:  []messageContent{{Role: string(ai.RoleUser), Content: probePrompt}},
		MaxTokens: probeMaxTokens,
	}
}
