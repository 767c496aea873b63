// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one thesis through the whole extraction: text and
// identity from the document provider, a cache lookup, pattern extraction,
// structure analysis, AI section analysis, merge, scoring, and the cache
// write. A cancelled run returns ctx.Err() and writes nothing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/analyzer"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/cache"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/document"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/llm"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/patterns"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/quality"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/structure"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// ErrEmptyDocument is returned when a document yields no text.
var ErrEmptyDocument = errors.New("document has no text")

// warnAISkipped is recorded when a run has no AI analysis.
const warnAISkipped = "AI analysis skipped; analysis fields are empty"

// Pipeline extracts structured records from thesis documents.
type Pipeline struct {
	docs      document.Provider
	store     cache.Store
	client    llm.Client
	cfg       types.ExtractionConfig
	extractor *patterns.Extractor
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore enables the result cache.
func WithStore(s cache.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithClient enables AI analysis through c.
func WithClient(c llm.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithPatterns replaces the default pattern table.
func WithPatterns(t *patterns.Table) Option {
	return func(p *Pipeline) { p.extractor = patterns.New(t) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New returns a pipeline reading documents from docs.
func New(docs document.Provider, cfg types.ExtractionConfig, opts ...Option) *Pipeline {
	p := &Pipeline{
		docs:      docs,
		cfg:       cfg.WithDefaults(),
		extractor: patterns.New(nil),
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// RunOptions adjusts one run.
type RunOptions struct {
	// Force ignores any cached entry.
	Force bool
	// Discipline overrides discipline classification.
	Discipline types.Discipline
}

// Result is the outcome of Run.
type Result struct {
	Entry     *types.CacheEntry
	FromCache bool
}

// Run returns the cached record for ref when one is usable, and otherwise
// extracts and caches a new one.
func (p *Pipeline) Run(ctx context.Context, ref string, opts RunOptions) (*Result, error) {
	key, err := p.docs.Identity(ref)
	if err != nil {
		return nil, err
	}

	if p.store != nil && !opts.Force {
		e, err := p.store.Load(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log.Warn().Err(err).Str("document", key).Msg("cache lookup failed")
		}
		if e != nil {
			p.log.Info().Str("document", key).Str("method", e.Metadata.Method).Msg("using cached record")
			return &Result{Entry: e, FromCache: true}, nil
		}
	}

	text, err := p.docs.Text(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}

	e, err := p.Extract(ctx, key, text, opts)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.Store(ctx, e); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log.Warn().Err(err).Str("document", key).Msg("could not cache record")
		}
	}
	return &Result{Entry: e}, nil
}

// Extract builds a cache entry for text without touching the cache.
func (p *Pipeline) Extract(ctx context.Context, key, text string, opts RunOptions) (*types.CacheEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptyDocument)
	}
	start := p.now()
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Str("document", key).Logger()
	log.Info().Int("chars", len([]rune(text))).Msg("extracting")

	res := p.extractor.Extract(text)
	record, flags := res.Record, res.Flags
	log.Debug().Int("matched", countMatched(flags)).Msg("pattern extraction done")

	outline := structure.Analyze(text)
	warnings := append([]string(nil), outline.Warnings...)
	fillFromStructure(&record, flags, text, outline)
	log.Debug().Int("sections", len(outline.Sections)).Int("references", len(record.References)).Msg("structure analysis done")

	discipline := quality.Discipline(&record, opts.Discipline)

	if p.cfg.DisableAI || p.client == nil {
		warnings = append(warnings, warnAISkipped)
	} else {
		a := analyzer.New(p.client, p.cfg, analyzer.WithLogger(log))
		results, err := a.Analyze(ctx, analyzer.Input{
			Text:       text,
			Outline:    outline,
			Record:     &record,
			Flags:      flags,
			Discipline: discipline,
		})
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, analyzer.Merge(&record, flags, results)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record.Normalize()
	stats := quality.Score(quality.Input{Record: &record, Flags: flags, DisciplineHint: discipline})
	elapsed := p.now().Sub(start)
	stats.ProcessingTime = math.Round(elapsed.Seconds()*1000) / 1000

	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Int("filled", stats.FilledFields).
		Float64("confidence", stats.Confidence).
		Str("discipline", string(stats.Discipline)).
		Dur("elapsed", elapsed).
		Msg("extraction finished")

	if warnings == nil {
		warnings = []string{}
	}
	return &types.CacheEntry{
		Metadata: types.CacheMetadata{
			DocumentKey:      key,
			ExtractionTime:   start.UTC(),
			Method:           types.MethodPro,
			ExtractorVersion: cache.ExtractorVersion,
			SessionID:        runID,
			Warnings:         warnings,
			Stats:            stats,
		},
		Record:     record,
		FieldFlags: flags,
	}, nil
}

func countMatched(flags types.FieldFlags) int {
	n := 0
	for _, f := range flags {
		if f.Matched {
			n++
		}
	}
	return n
}
