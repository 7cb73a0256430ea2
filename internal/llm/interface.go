package llm

import (
	"context"

	"resume-tailor/internal/llm/types"
)

// Re-export types for convenience
type (
	GenerateRequest = types.GenerateRequest
	ContentBlock    = types.ContentBlock
	Generation      = types.Generation
)

// LLMProvider defines the interface for text generation providers
type LLMProvider interface {
	// Generate sends a single-turn prompt and returns the content blocks of the reply
	Generate(ctx context.Context, req GenerateRequest) (*Generation, error)

	// IsHealthy checks if the provider is configured and usable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
