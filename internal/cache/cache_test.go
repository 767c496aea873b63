// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

func testEntry(key, title string) *types.CacheEntry {
	return &types.CacheEntry{
		Metadata: types.CacheMetadata{
			DocumentKey:    key,
			ExtractionTime: time.Date(2026, 5, 20, 8, 30, 0, 0, time.UTC),
			SessionID:      "run-1",
			Stats: types.ExtractionStats{
				TotalFields:  31,
				FilledFields: 3,
				FillRatio:    0.097,
				Discipline:   types.DisciplineEngineering,
			},
		},
		Record: types.Record{
			TitleCN:    title,
			AbstractCN: "本文研究了遥感图像目标检测。",
			References: []string{"[1] 张三. 目标检测综述[J]. 2020."},
		},
		FieldFlags: types.FieldFlags{
			types.FieldTitleCN: {Matched: true, Source: types.SourcePattern, Confidence: 0.9},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func bufLogger() (*bytes.Buffer, Option) {
	var buf bytes.Buffer
	return &buf, WithLogger(zerolog.New(&buf))
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	e := testEntry("thesis", "遥感图像目标检测研究")
	require.NoError(t, s.Store(ctx, e))
	assert.FileExists(t, s.Path("thesis", types.MethodPro))

	got, err := s.Load(ctx, "thesis")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Record, got.Record)
	assert.Equal(t, e.FieldFlags, got.FieldFlags)
	assert.Equal(t, types.MethodPro, got.Metadata.Method)
	assert.Equal(t, ExtractorVersion, got.Metadata.ExtractorVersion)
	assert.Equal(t, e.Metadata.ExtractionTime, got.Metadata.ExtractionTime)
	assert.Equal(t, types.DisciplineEngineering, got.Metadata.Stats.Discipline)
	assert.NotNil(t, got.Record.ChapterSummaries, "lists decode as empty, never nil")
}

func TestFileStoreMiss(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := s.Load(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Store(ctx, testEntry("thesis", "第一次")))
	require.NoError(t, s.Store(ctx, testEntry("thesis", "第二次")))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1, "no temp files or duplicates remain")

	got, err := s.Load(ctx, "thesis")
	require.NoError(t, err)
	assert.Equal(t, "第二次", got.Record.TitleCN)
}

func TestFileStoreSelection(t *testing.T) {
	tests := []struct {
		name       string
		proVersion string
		legacy     string
		wantTitle  string
		wantMethod string
	}{
		{
			name:       "pro wins a version tie",
			proVersion: "2.0",
			legacy:     `{"metadata":{"extractor_version":"2.0"},"extracted_info":{"title_cn":"旧"}}`,
			wantTitle:  "新",
			wantMethod: types.MethodPro,
		},
		{
			name:       "newer legacy beats older pro",
			proVersion: "1.1",
			legacy:     `{"metadata":{"extractor_version":"2.0"},"extracted_info":{"title_cn":"旧"}}`,
			wantTitle:  "旧",
			wantMethod: types.MethodStandard,
		},
		{
			name:       "stale pro falls back to legacy",
			proVersion: "0.9",
			legacy:     `{"metadata":{"method":"standard"},"extracted_info":{"title_cn":"旧"}}`,
			wantTitle:  "旧",
			wantMethod: types.MethodStandard,
		},
		{
			name:       "stale everywhere is a miss",
			proVersion: "0.9",
			legacy:     `{"metadata":{"extractor_version":"0.5"},"extracted_info":{"title_cn":"旧"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)

			e := testEntry("doc", "新")
			e.Metadata.ExtractorVersion = tt.proVersion
			require.NoError(t, s.Store(ctx, e))
			writeFile(t, s.Path("doc", types.MethodStandard), tt.legacy)

			got, err := s.Load(ctx, "doc")
			require.NoError(t, err)
			if tt.wantTitle == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantTitle, got.Record.TitleCN)
			assert.Equal(t, tt.wantMethod, got.Metadata.Method)
		})
	}
}

func TestFileStoreLegacyOnly(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	writeFile(t, s.Path("old", types.MethodStandard),
		`{"metadata":{"extraction_time":"2024-03-01T10:00:00Z","method":"standard"},"extracted_info":{"title_cn":"旧论文","abstract_cn":"旧摘要"}}`)

	got, err := s.Load(context.Background(), "old")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "旧论文", got.Record.TitleCN)
	assert.Equal(t, "1.1", got.Metadata.ExtractorVersion)
	assert.Equal(t, "old", got.Metadata.DocumentKey)
	assert.NotNil(t, got.Record.References)
}

func TestFileStoreCorruptEntryIsWarningAndMiss(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"metadata": {`},
		{"missing record", `{"metadata":{"extractor_version":"2.0"}}`},
		{"wrong field type", `{"extracted_info":{"references":"not a list"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, logOpt := bufLogger()
			s, err := NewFileStore(t.TempDir(), logOpt)
			require.NoError(t, err)
			path := s.Path("doc", types.MethodPro)
			writeFile(t, path, tt.content)

			got, err := s.Load(context.Background(), "doc")
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.Contains(t, buf.String(), ErrCorruptEntry.Error())
			assert.FileExists(t, path, "corrupt entries are kept")
		})
	}
}

func TestFileStoreCorruptProFallsBackToLegacy(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	writeFile(t, s.Path("doc", types.MethodPro), "garbage")
	writeFile(t, s.Path("doc", types.MethodStandard), `{"extracted_info":{"title_cn":"旧"}}`)

	got, err := s.Load(context.Background(), "doc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "旧", got.Record.TitleCN)
}

func TestFileStoreStaleIsLogged(t *testing.T) {
	buf, logOpt := bufLogger()
	s, err := NewFileStore(t.TempDir(), logOpt)
	require.NoError(t, err)

	e := testEntry("doc", "题目")
	e.Metadata.ExtractorVersion = "0.9"
	require.NoError(t, s.Store(context.Background(), e))

	got, err := s.Load(context.Background(), "doc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Contains(t, buf.String(), ErrStaleEntry.Error())
}

func TestFileStoreEntries(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Store(ctx, testEntry("doc", "题目")))
	writeFile(t, s.Path("doc", types.MethodStandard), "garbage")

	infos, err := s.Entries(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, types.MethodPro, infos[0].Method)
	assert.True(t, infos[0].Usable)
	assert.Equal(t, ExtractorVersion, infos[0].Version)
	assert.Positive(t, infos[0].Size)

	assert.Equal(t, types.MethodStandard, infos[1].Method)
	assert.False(t, infos[1].Usable)
	assert.Contains(t, infos[1].Problem, ErrCorruptEntry.Error())
}

func TestStoreRejectsInvalidEntries(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Store(context.Background(), testEntry("", "题目")))

	legacy := testEntry("doc", "题目")
	legacy.Metadata.Method = types.MethodStandard
	assert.Error(t, s.Store(context.Background(), legacy))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Store(ctx, testEntry("doc", "题目")), context.Canceled)
	assert.NoFileExists(t, s.Path("doc", types.MethodPro))
}

func TestSQLiteStoreRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	e := testEntry("thesis", "第一次")
	require.NoError(t, s.Store(ctx, e))
	got, err := s.Load(ctx, "thesis")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Record, got.Record)
	assert.Equal(t, e.FieldFlags, got.FieldFlags)

	require.NoError(t, s.Store(ctx, testEntry("thesis", "第二次")))
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM entries WHERE document_key = ?`, "thesis").Scan(&n))
	assert.Equal(t, 1, n)

	got, err = s.Load(ctx, "thesis")
	require.NoError(t, err)
	assert.Equal(t, "第二次", got.Record.TitleCN)

	miss, err := s.Load(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestSQLiteStoreSelection(t *testing.T) {
	ctx := context.Background()
	buf, logOpt := bufLogger()
	s, err := NewSQLiteStore(t.TempDir(), logOpt)
	require.NoError(t, err)
	defer s.Close()

	insert := func(method, version, body string) {
		_, err := s.db.Exec(
			`INSERT INTO entries (document_key, method, extractor_version, body) VALUES (?, ?, ?, ?)`,
			"doc", method, version, body)
		require.NoError(t, err)
	}

	insert(types.MethodStandard, "2.0", `{"extracted_info":{"title_cn":"旧"}}`)
	require.NoError(t, s.Store(ctx, testEntry("doc", "新")))

	got, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "新", got.Record.TitleCN)

	_, err = s.db.Exec(`UPDATE entries SET body = 'garbage' WHERE method = ?`, types.MethodPro)
	require.NoError(t, err)
	got, err = s.Load(ctx, "doc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "旧", got.Record.TitleCN)
	assert.Contains(t, buf.String(), ErrCorruptEntry.Error())

	_, err = s.db.Exec(`UPDATE entries SET extractor_version = '0.1' WHERE method = ?`, types.MethodStandard)
	require.NoError(t, err)
	got, err = s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Nil(t, got)

	infos, err := s.Entries(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, types.MethodPro, infos[0].Method)
	assert.False(t, infos[0].Usable)
	assert.Equal(t, ErrStaleEntry.Error(), infos[1].Problem)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(types.CacheConfig{Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(types.CacheConfig{Dir: dir, Backend: types.CacheSQLite})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, dbFile))

	_, err = Open(types.CacheConfig{Dir: dir, Backend: "redis"})
	assert.Error(t, err)
}

func TestDefaultVersions(t *testing.T) {
	v := DefaultVersions()
	assert.Equal(t, 0, v.rank("2.0"))
	assert.Equal(t, 1, v.rank("1.1"))
	assert.Equal(t, -1, v.rank("1.0"))
	assert.Equal(t, "1.1", v.oldest())
}
