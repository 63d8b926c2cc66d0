package gemini

/*
	GENERATE CONTENT API - REQUEST TYPES
*/

// generateContentRequest is the body of POST :streamGenerateContent.
type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

/*
	GENERATE CONTENT STREAMING API - RESPONSE TYPES

	With alt=sse every SSE data payload is a complete GenerateContentResponse
	holding only the new fragment of each candidate.
*/

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      *responseContent `json:"content,omitempty"`
	FinishReason *string          `json:"finishReason,omitempty"` // "STOP", "MAX_TOKENS", "SAFETY", ...
	Index        int              `json:"index"`
}

type responseContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []responsePart `json:"parts"`
}

type responsePart struct {
	Text *string `json:"text,omitempty"`
}
