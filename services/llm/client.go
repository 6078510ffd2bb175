package llm

import "context"

// GenerationParams tunes a single generation call. Nil fields fall back to
// backend defaults.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any text-generation backend.
//
// system carries the specialist persona (may be empty); prompt is the woven
// technique text. Implementations must honor ctx cancellation.
type LLMClient interface {
	Generate(ctx context.Context, system, prompt string, params GenerationParams) (string, error)
}
