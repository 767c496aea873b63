// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists extraction results keyed by document identity and
// extraction method. Entries carry the extractor version that produced
// them; a load returns the freshest entry whose version the running
// pipeline still accepts. Unreadable and stale entries are reported as
// warnings and treated as misses. They are never deleted or rewritten.
package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// Sentinel errors. Both are surfaced as warnings; Load never returns them.
var (
	ErrCorruptEntry = errors.New("corrupt cache entry")
	ErrStaleEntry   = errors.New("stale cache entry")
)

// ExtractorVersion is the version written into every new entry.
const ExtractorVersion = "2.0"

// Versions lists the extractor versions a store accepts. Compatible is
// ordered newest first; Current is what Store writes.
type Versions struct {
	Current    string
	Compatible []string
}

// DefaultVersions accepts the current format and the previous one.
func DefaultVersions() Versions {
	return Versions{Current: ExtractorVersion, Compatible: []string{ExtractorVersion, "1.1"}}
}

// rank orders versions for selection: lower is fresher, -1 is stale.
func (v Versions) rank(version string) int {
	return slices.Index(v.Compatible, version)
}

// oldest is assumed for legacy entries that predate version tags.
func (v Versions) oldest() string {
	if len(v.Compatible) == 0 {
		return v.Current
	}
	return v.Compatible[len(v.Compatible)-1]
}

// Store reads and writes cache entries.
type Store interface {
	// Store writes e, replacing any entry with the same key and method.
	Store(ctx context.Context, e *types.CacheEntry) error
	// Load returns the freshest usable entry for key, or nil on a miss.
	Load(ctx context.Context, key string) (*types.CacheEntry, error)
	// Entries describes every entry held for key, usable or not.
	Entries(ctx context.Context, key string) ([]Info, error)
	Close() error
}

// Info describes one stored entry.
type Info struct {
	Method         string    `json:"method" yaml:"method"`
	Version        string    `json:"extractor_version" yaml:"extractor_version"`
	ExtractionTime time.Time `json:"extraction_time" yaml:"extraction_time"`
	Location       string    `json:"location" yaml:"location"`
	Size           int64     `json:"size" yaml:"size"`
	Usable         bool      `json:"usable" yaml:"usable"`
	Problem        string    `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// Option configures a store.
type Option func(*options)

type options struct {
	versions Versions
	log      zerolog.Logger
}

// WithVersions overrides the accepted versions.
func WithVersions(v Versions) Option {
	return func(o *options) { o.versions = v }
}

// WithLogger sets the logger that receives cache warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{versions: DefaultVersions(), log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Open returns the store selected by cfg.Backend.
func Open(cfg types.CacheConfig, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case types.CacheJSON, "":
		return NewFileStore(cfg.Dir, opts...)
	case types.CacheSQLite:
		return NewSQLiteStore(cfg.Dir, opts...)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// candidate is one entry found for a key, in preference order.
type candidate struct {
	entry    *types.CacheEntry
	location string
}

// pick returns the candidate with the freshest accepted version. Ties go
// to the earlier candidate, so callers list pro entries before legacy ones.
// Stale candidates are logged and skipped.
func pick(v Versions, log zerolog.Logger, cands []candidate) *types.CacheEntry {
	var best *types.CacheEntry
	bestRank := -1
	for _, c := range cands {
		r := v.rank(c.entry.Metadata.ExtractorVersion)
		if r < 0 {
			log.Warn().
				Err(ErrStaleEntry).
				Str("location", c.location).
				Str("version", c.entry.Metadata.ExtractorVersion).
				Msg("ignoring cache entry")
			continue
		}
		if best == nil || r < bestRank {
			best, bestRank = c.entry, r
		}
	}
	return best
}

// prepare stamps e with defaults before a write.
func prepare(e *types.CacheEntry, v Versions) error {
	if e.Metadata.DocumentKey == "" {
		return errors.New("cache entry has no document key")
	}
	if e.Metadata.Method == "" {
		e.Metadata.Method = types.MethodPro
	}
	if e.Metadata.Method != types.MethodPro {
		return fmt.Errorf("method %q is read-only", e.Metadata.Method)
	}
	if e.Metadata.ExtractorVersion == "" {
		e.Metadata.ExtractorVersion = v.Current
	}
	if e.Metadata.Warnings == nil {
		e.Metadata.Warnings = []string{}
	}
	e.Record.Normalize()
	return nil
}
