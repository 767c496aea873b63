// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

const dbFile = "cache.db"

// SQLiteStore keeps entries in a single SQLite database, one row per
// document key and method.
type SQLiteStore struct {
	db   *sql.DB
	path string
	opt  options
}

// NewSQLiteStore opens or creates dir/cache.db.
func NewSQLiteStore(dir string, opts ...Option) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, opt: buildOptions(opts)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			document_key TEXT NOT NULL,
			method TEXT NOT NULL,
			extractor_version TEXT NOT NULL,
			extraction_time TEXT,
			body TEXT NOT NULL,
			PRIMARY KEY (document_key, method)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_version ON entries(extractor_version)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Store upserts e under its key and method.
func (s *SQLiteStore) Store(ctx context.Context, e *types.CacheEntry) error {
	if err := prepare(e, s.opt.versions); err != nil {
		return err
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (document_key, method, extractor_version, extraction_time, body)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(document_key, method) DO UPDATE SET
			extractor_version = excluded.extractor_version,
			extraction_time = excluded.extraction_time,
			body = excluded.body`,
		e.Metadata.DocumentKey, e.Metadata.Method, e.Metadata.ExtractorVersion,
		e.Metadata.ExtractionTime.UTC().Format(time.RFC3339), string(body),
	)
	if err != nil {
		return fmt.Errorf("storing %s: %w", e.Metadata.DocumentKey, err)
	}
	return nil
}

type row struct {
	method  string
	version string
	body    string
}

func (s *SQLiteStore) rows(ctx context.Context, key string) ([]row, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT method, extractor_version, body FROM entries
		 WHERE document_key = ?
		 ORDER BY CASE method WHEN ? THEN 0 ELSE 1 END, method`,
		key, types.MethodPro,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	defer rs.Close()

	var out []row
	for rs.Next() {
		var r row
		if err := rs.Scan(&r.method, &r.version, &r.body); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

func decodeRow(r row) (*types.CacheEntry, error) {
	var e types.CacheEntry
	if err := json.Unmarshal([]byte(r.body), &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	e.Metadata.Method = r.method
	e.Metadata.ExtractorVersion = r.version
	e.Record.Normalize()
	return &e, nil
}

// Load returns the freshest usable entry for key, pro rows first.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*types.CacheEntry, error) {
	rows, err := s.rows(ctx, key)
	if err != nil {
		return nil, err
	}
	var cands []candidate
	for _, r := range rows {
		loc := s.path + "#" + r.method
		e, err := decodeRow(r)
		if err != nil {
			s.opt.log.Warn().Err(err).Str("location", loc).Msg("ignoring cache entry")
			continue
		}
		cands = append(cands, candidate{entry: e, location: loc})
	}
	return pick(s.opt.versions, s.opt.log, cands), nil
}

// Entries describes every row held for key.
func (s *SQLiteStore) Entries(ctx context.Context, key string) ([]Info, error) {
	rows, err := s.rows(ctx, key)
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(rows))
	for _, r := range rows {
		info := Info{
			Method:   r.method,
			Version:  r.version,
			Location: s.path + "#" + r.method,
			Size:     int64(len(r.body)),
		}
		e, err := decodeRow(r)
		switch {
		case err != nil:
			info.Problem = err.Error()
		case s.opt.versions.rank(r.version) < 0:
			info.ExtractionTime = e.Metadata.ExtractionTime
			info.Problem = ErrStaleEntry.Error()
		default:
			info.ExtractionTime = e.Metadata.ExtractionTime
			info.Usable = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}
