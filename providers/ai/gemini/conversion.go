package gemini

import (
	"github.com/leofalp/chatstream/providers/ai"
)

// requestFromMessages converts canonical messages into Gemini contents.
// The assistant role becomes "model"; system messages are dropped, not moved
// to systemInstruction. Generation parameters are nested under
// generationConfig, which is omitted when none is set.
func requestFromMessages(config ai.ProviderConfig, messages []ai.Message) generateContentRequest {
	contents := make([]content, 0, len(messages))
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			continue
		}
		contents = append(contents, content{
			Role:  roleToGemini(message.Role),
			Parts: []part{{Text: message.Content}},
		})
	}

	request := generateContentRequest{Contents: contents}
	if config.Temperature != nil || config.TopP != nil || config.MaxTokens != nil {
		request.GenerationConfig = &generationConfig{
			Temperature:     config.Temperature,
			TopP:            config.TopP,
			MaxOutputTokens: config.MaxTokens,
		}
	}
	return request
}

func roleToGemini(role ai.MessageRole) string {
	if role == ai.RoleAssistant {
		return roleModel
	}
	return string(role)
}
