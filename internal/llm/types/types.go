package types

// GenerateRequest represents one generation call
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// ContentBlock is one block of a model reply
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Generation is the reply of a generation call
type Generation struct {
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason,omitempty"`
	Blocks     []ContentBlock `json:"blocks"`
}

// FirstText returns the text of the first text block
func (g *Generation) FirstText() (string, bool) {
	if g == nil {
		return "", false
	}
	for _, block := range g.Blocks {
		if block.Type == "text" {
			return block.Text, true
		}
	}
	return "", false
}
