package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"resume-tailor/internal/config"
	"resume-tailor/internal/llm/types"
	"resume-tailor/internal/logging"
)

// ClaudeProvider generates text with Anthropic's Messages API
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance.
// Retries are disabled: a failed call surfaces to the caller unchanged.
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("provider", "claude"),
	}
}

// Generate sends the prompt as a single user message
func (cp *ClaudeProvider) Generate(ctx context.Context, req types.GenerateRequest) (*types.Generation, error) {
	startTime := time.Now()

	if cp.config.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cp.config.LLM.Timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = cp.config.LLM.MaxTokens
	}

	cp.logger.Debug("Sending generation request", map[string]interface{}{
		"model":         cp.config.LLM.Model,
		"prompt_length": len(req.Prompt),
		"max_tokens":    maxTokens,
	})

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	generation := &types.Generation{
		Model:      string(response.Model),
		StopReason: string(response.StopReason),
		Blocks:     make([]types.ContentBlock, 0, len(response.Content)),
	}
	for _, block := range response.Content {
		generation.Blocks = append(generation.Blocks, types.ContentBlock{
			Type: block.Type,
			Text: block.Text,
		})
	}

	cp.logger.Info("Generation completed", map[string]interface{}{
		"model":           generation.Model,
		"stop_reason":     generation.StopReason,
		"blocks":          len(generation.Blocks),
		"input_tokens":    response.Usage.InputTokens,
		"output_tokens":   response.Usage.OutputTokens,
		"processing_time": time.Since(startTime).String(),
	})

	return generation, nil
}

// IsHealthy reports whether the provider has credentials. It does not call the API.
func (cp *ClaudeProvider) IsHealthy(_ context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set ANTHROPIC_API_KEY or LLM_API_KEY environment variable")
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
