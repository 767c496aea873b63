// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIProvider selects the Generative AI backend.
type AIProvider string

const (
	ProviderOpenAI    AIProvider = "openai"
	ProviderGemini    AIProvider = "gemini"
	ProviderAnthropic AIProvider = "anthropic"
)

// AIConfig holds settings for the AI service used by section analysis.
type AIConfig struct {
	// Provider selects the backend: openai, gemini, or anthropic.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini", "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key. When empty it is read from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (OpenAI-compatible gateways, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds a single HTTP round trip (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for failed calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RateLimit is the sustained request rate in requests per second shared by
	// all concurrent tasks (default 2).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// Burst is the token bucket size for RateLimit (default 4).
	Burst int `json:"burst" yaml:"burst"`
}

// ExtractionConfig holds settings for the extraction pipeline.
type ExtractionConfig struct {
	// SectionWorkers bounds concurrent per-section AI calls (default 4).
	SectionWorkers int `json:"section_workers" yaml:"section_workers"`

	// SectionTimeout bounds one per-section AI task (default 60s).
	SectionTimeout time.Duration `json:"section_timeout" yaml:"section_timeout"`

	// GlobalWorkers bounds concurrent whole-document AI calls (default 2).
	GlobalWorkers int `json:"global_workers" yaml:"global_workers"`

	// GlobalTimeout bounds one whole-document AI task (default 45s).
	GlobalTimeout time.Duration `json:"global_timeout" yaml:"global_timeout"`

	// MinSectionChars is the content length below which a section gets no
	// AI task (default 500).
	MinSectionChars int `json:"min_section_chars" yaml:"min_section_chars"`

	// MaxPromptChars truncates section content embedded in prompts (default 6000).
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars"`

	// DisableAI skips AI analysis; the record holds pattern and structure results only.
	DisableAI bool `json:"disable_ai" yaml:"disable_ai"`
}

// CacheBackend selects the cache storage.
type CacheBackend string

const (
	CacheJSON   CacheBackend = "json"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// Dir is the directory holding cache files or the SQLite database.
	Dir string `json:"dir" yaml:"dir"`

	// Backend selects json files or a sqlite database (default json).
	Backend CacheBackend `json:"backend" yaml:"backend"`
}

// PipelineConfig groups all configuration for the extraction pipeline.
type PipelineConfig struct {
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
}

// DefaultExtractionConfig returns the pool sizes and thresholds used when
// nothing is configured.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		SectionWorkers:  4,
		SectionTimeout:  60 * time.Second,
		GlobalWorkers:   2,
		GlobalTimeout:   45 * time.Second,
		MinSectionChars: 500,
		MaxPromptChars:  6000,
	}
}

// DefaultPipelineConfig returns a complete default configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AI: AIConfig{
			Provider:   ProviderOpenAI,
			Model:      "gpt-4o-mini",
			Timeout:    90 * time.Second,
			MaxRetries: 2,
			RateLimit:  2,
			Burst:      4,
		},
		Extraction: DefaultExtractionConfig(),
		Cache: CacheConfig{
			Dir:     "output/cache",
			Backend: CacheJSON,
		},
	}
}

// WithDefaults fills zero values from DefaultExtractionConfig.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	d := DefaultExtractionConfig()
	if c.SectionWorkers <= 0 {
		c.SectionWorkers = d.SectionWorkers
	}
	if c.SectionTimeout <= 0 {
		c.SectionTimeout = d.SectionTimeout
	}
	if c.GlobalWorkers <= 0 {
		c.GlobalWorkers = d.GlobalWorkers
	}
	if c.GlobalTimeout <= 0 {
		c.GlobalTimeout = d.GlobalTimeout
	}
	if c.MinSectionChars <= 0 {
		c.MinSectionChars = d.MinSectionChars
	}
	if c.MaxPromptChars <= 0 {
		c.MaxPromptChars = d.MaxPromptChars
	}
	return c
}
