// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/cache"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/container"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/document"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/llm"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/pipeline"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/secrets"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// envKeys maps nested keys to env names: ai.api_key reads THESIS_EXTRACT_AI_API_KEY.
var envKeys = strings.NewReplacer(".", "_")

// wordExtensions are converted through the markitdown container when a
// container runtime is available.
var wordExtensions = []string{".docx", ".doc"}

// setDefaults registers every configuration key with its default so env
// variables and config files can override any of them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("ai.provider", string(d.AI.Provider))
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("ai.rate_limit", d.AI.RateLimit)
	v.SetDefault("ai.burst", d.AI.Burst)

	e := d.Extraction
	v.SetDefault("extraction.section_workers", e.SectionWorkers)
	v.SetDefault("extraction.section_timeout", e.SectionTimeout)
	v.SetDefault("extraction.global_workers", e.GlobalWorkers)
	v.SetDefault("extraction.global_timeout", e.GlobalTimeout)
	v.SetDefault("extraction.min_section_chars", e.MinSectionChars)
	v.SetDefault("extraction.max_prompt_chars", e.MaxPromptChars)
	v.SetDefault("extraction.disable_ai", false)

	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.backend", string(d.Cache.Backend))

	v.SetDefault("document.text_dir", "output/text")
}

// loadConfig reads the pipeline configuration from v.
func loadConfig(v *viper.Viper) types.PipelineConfig {
	return types.PipelineConfig{
		AI: types.AIConfig{
			Provider:   types.AIProvider(v.GetString("ai.provider")),
			Model:      v.GetString("ai.model"),
			APIKey:     v.GetString("ai.api_key"),
			BaseURL:    v.GetString("ai.base_url"),
			Timeout:    v.GetDuration("ai.timeout"),
			MaxRetries: v.GetInt("ai.max_retries"),
			RateLimit:  v.GetFloat64("ai.rate_limit"),
			Burst:      v.GetInt("ai.burst"),
		},
		Extraction: types.ExtractionConfig{
			SectionWorkers:  v.GetInt("extraction.section_workers"),
			SectionTimeout:  v.GetDuration("extraction.section_timeout"),
			GlobalWorkers:   v.GetInt("extraction.global_workers"),
			GlobalTimeout:   v.GetDuration("extraction.global_timeout"),
			MinSectionChars: v.GetInt("extraction.min_section_chars"),
			MaxPromptChars:  v.GetInt("extraction.max_prompt_chars"),
			DisableAI:       v.GetBool("extraction.disable_ai"),
		},
		Cache: types.CacheConfig{
			Dir:     v.GetString("cache.dir"),
			Backend: types.CacheBackend(v.GetString("cache.backend")),
		},
	}
}

// newProvider returns the document provider. Word files are supported only
// when a container runtime with the markitdown image is present.
func newProvider(ctx context.Context, textDir string) *document.FileProvider {
	opts := []document.Option{document.WithTextDir(textDir), document.WithLogger(logger)}

	rt, err := container.Detect(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("no container runtime; Word documents are unsupported")
		return document.NewFileProvider(opts...)
	}
	for _, ext := range wordExtensions {
		c, err := document.NewMarkitdownConverter(ctx, rt, ext)
		if err != nil {
			logger.Debug().Err(err).Str("runtime", rt.Name()).Msg("markitdown unavailable; Word documents are unsupported")
			break
		}
		opts = append(opts, document.WithConverter(ext, c))
	}
	return document.NewFileProvider(opts...)
}

// newClient returns the language model client, or nil when AI analysis is
// disabled or no API key is configured.
func newClient(ctx context.Context, cfg types.PipelineConfig) (llm.Client, error) {
	if cfg.Extraction.DisableAI {
		return nil, nil
	}
	ai := cfg.AI
	ai.APIKey = loadedSecrets.APIKey(ai.Provider, ai.APIKey)
	c, err := llm.New(ctx, ai, logger)
	if errors.Is(err, llm.ErrNoAPIKey) {
		logger.Warn().
			Str("provider", string(ai.Provider)).
			Str("secret", secrets.KeyName(ai.Provider)).
			Msg("no API key configured; running without AI analysis")
		return nil, nil
	}
	return c, err
}

// newPipeline wires the configured provider, cache, and AI client. The
// returned func releases the cache.
func newPipeline(ctx context.Context, v *viper.Viper) (*pipeline.Pipeline, func(), error) {
	cfg := loadConfig(v)

	store, err := cache.Open(cfg.Cache, cache.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	opts := []pipeline.Option{pipeline.WithStore(store), pipeline.WithLogger(logger)}
	if client != nil {
		opts = append(opts, pipeline.WithClient(client))
	}
	p := pipeline.New(newProvider(ctx, v.GetString("document.text_dir")), cfg.Extraction, opts...)
	return p, func() { store.Close() }, nil
}
