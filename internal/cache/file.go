// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

const (
	proSuffix    = "_pro_extracted_info.json"
	legacySuffix = "_extracted_info.json"
)

// FileStore keeps one JSON file per document and method in a directory.
// Pro entries are written to <key>_pro_extracted_info.json; legacy
// <key>_extracted_info.json files are read but never written.
type FileStore struct {
	dir string
	opt options
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir, opt: buildOptions(opts)}, nil
}

// Path returns the file a method's entry for key lives in.
func (s *FileStore) Path(key, method string) string {
	if method == types.MethodStandard {
		return filepath.Join(s.dir, key+legacySuffix)
	}
	return filepath.Join(s.dir, key+proSuffix)
}

// Store writes e to a temporary file and renames it over the previous
// entry, so a reader sees either the old or the new file.
func (s *FileStore) Store(ctx context.Context, e *types.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepare(e, s.opt.versions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	dst := s.Path(e.Metadata.DocumentKey, e.Metadata.Method)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	return nil
}

// Load reads the pro and legacy files for key and returns the freshest
// usable one. Missing, corrupt, and stale files are misses.
func (s *FileStore) Load(ctx context.Context, key string) (*types.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var cands []candidate
	for _, method := range []string{types.MethodPro, types.MethodStandard} {
		path := s.Path(key, method)
		e, err := s.read(path, method)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			s.opt.log.Warn().Err(err).Str("path", path).Msg("ignoring cache entry")
			continue
		}
		cands = append(cands, candidate{entry: e, location: path})
	}
	e := pick(s.opt.versions, s.opt.log, cands)
	if e != nil {
		s.opt.log.Debug().Str("key", key).Str("method", e.Metadata.Method).
			Str("version", e.Metadata.ExtractorVersion).Msg("cache hit")
	}
	return e, nil
}

// Entries describes the pro and legacy files present for key.
func (s *FileStore) Entries(ctx context.Context, key string) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var infos []Info
	for _, method := range []string{types.MethodPro, types.MethodStandard} {
		path := s.Path(key, method)
		fi, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		info := Info{Method: method, Location: path, Size: fi.Size()}
		e, err := s.read(path, method)
		if err != nil {
			info.Problem = err.Error()
		} else {
			info.Version = e.Metadata.ExtractorVersion
			info.ExtractionTime = e.Metadata.ExtractionTime
			info.Usable = s.opt.versions.rank(info.Version) >= 0
			if !info.Usable {
				info.Problem = ErrStaleEntry.Error()
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }

// read decodes one cache file. The method named by the file wins over
// whatever the metadata claims; legacy files without a version are taken
// to be the oldest accepted version.
func (s *FileStore) read(path, method string) (*types.CacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Info json.RawMessage `json:"extracted_info"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if len(probe.Info) == 0 || string(probe.Info) == "null" {
		return nil, fmt.Errorf("%w: no extracted_info", ErrCorruptEntry)
	}
	var e types.CacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	e.Metadata.Method = method
	if e.Metadata.ExtractorVersion == "" && method == types.MethodStandard {
		e.Metadata.ExtractorVersion = s.opt.versions.oldest()
	}
	if e.Metadata.DocumentKey == "" {
		suffix := proSuffix
		if method == types.MethodStandard {
			suffix = legacySuffix
		}
		e.Metadata.DocumentKey = strings.TrimSuffix(filepath.Base(path), suffix)
	}
	e.Record.Normalize()
	return &e, nil
}
