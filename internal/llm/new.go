// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// New builds the adapter named by cfg.Provider and wraps it in Limited.
func New(ctx context.Context, cfg types.AIConfig, log zerolog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrNoAPIKey)
	}

	var base Client
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		base = NewOpenAI(cfg)
	case types.ProviderGemini:
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case types.ProviderAnthropic:
		c := NewClaude(cfg)
		// DoWithRetry already retries throttling for this adapter.
		c.MaxRetries = 1
		base = c
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}

	log.Debug().Str("provider", string(cfg.Provider)).Str("model", cfg.Model).Msg("language model client ready")
	return NewLimited(base, cfg.RateLimit, cfg.Burst, cfg.MaxRetries, log), nil
}
