package ai

import (
	"context"
	"fmt"

	"guardian/internal/config"
)

// NewFromConfig returns the client selected by LLM_PROVIDER and a close func
// the caller must run on shutdown.
func NewFromConfig(ctx context.Context, cfg config.Config) (LanguageModelClient, func(), error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIURL, cfg.AI.OpenAIModel), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider %q", cfg.AI.Provider)
	}
}
