// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document turns thesis files into plain text and derives the
// identity used as their cache key. Text and Markdown files are read
// directly; PDFs and Word files go through pluggable converters. Converted
// text can be kept as Markdown beside the cache so later runs skip the
// conversion.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("document not found")
	ErrUnsupported = errors.New("unsupported document format")
)

// Provider supplies the text of a document and a stable identity for it.
type Provider interface {
	Text(ctx context.Context, ref string) (string, error)
	Identity(ref string) (string, error)
}

// Converter turns one file into text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, path string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// FileProvider reads documents from the local filesystem.
type FileProvider struct {
	converters map[string]Converter
	textDir    string
	log        zerolog.Logger
}

// Option configures a FileProvider.
type Option func(*FileProvider)

// WithConverter registers c for a file extension such as ".docx".
func WithConverter(ext string, c Converter) Option {
	return func(p *FileProvider) { p.converters[strings.ToLower(ext)] = c }
}

// WithTextDir keeps converted text as Markdown files in dir.
func WithTextDir(dir string) Option {
	return func(p *FileProvider) { p.textDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *FileProvider) { p.log = l }
}

// NewFileProvider returns a provider that reads .txt and .md files
// directly and .pdf files with PDFConverter. Other formats need a
// converter registered with WithConverter.
func NewFileProvider(opts ...Option) *FileProvider {
	p := &FileProvider{
		converters: map[string]Converter{".pdf": PDFConverter{}},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Identity returns the file's base name without its extension.
func (p *FileProvider) Identity(ref string) (string, error) {
	base := filepath.Base(ref)
	key := strings.TrimSuffix(base, filepath.Ext(base))
	if key == "" || key == "." || key == string(filepath.Separator) {
		return "", fmt.Errorf("%w: no file name in %q", ErrNotFound, ref)
	}
	return key, nil
}

// Text returns the document's text with line endings normalized.
func (p *FileProvider) Text(ctx context.Context, ref string) (string, error) {
	fi, err := os.Stat(ref)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", ref, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrUnsupported, ref)
	}

	ext := strings.ToLower(filepath.Ext(ref))
	switch ext {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(ref)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", ref, err)
		}
		return normalize(string(data)), nil
	}

	c, ok := p.converters[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	key, err := p.Identity(ref)
	if err != nil {
		return "", err
	}
	if text, ok := p.cachedText(key, fi.ModTime()); ok {
		p.log.Debug().Str("document", key).Msg("using converted text")
		return text, nil
	}

	start := time.Now()
	text, err := c.Convert(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", ref, err)
	}
	text = normalize(text)
	p.log.Info().Str("document", key).Str("format", ext).Dur("elapsed", time.Since(start)).Msg("converted document")

	if p.textDir != "" && strings.TrimSpace(text) != "" {
		if err := p.saveText(key, ref, text); err != nil {
			p.log.Warn().Err(err).Str("document", key).Msg("could not keep converted text")
		}
	}
	return text, nil
}

// frontmatter heads every kept Markdown file.
type frontmatter struct {
	DocumentKey string    `yaml:"document_key"`
	Source      string    `yaml:"source"`
	ConvertedAt time.Time `yaml:"converted_at"`
}

func (p *FileProvider) textPath(key string) string {
	return filepath.Join(p.textDir, key+".md")
}

// cachedText returns kept text that is newer than the source file.
func (p *FileProvider) cachedText(key string, sourceMod time.Time) (string, bool) {
	if p.textDir == "" {
		return "", false
	}
	path := p.textPath(key)
	fi, err := os.Stat(path)
	if err != nil || fi.ModTime().Before(sourceMod) {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	_, body, ok := splitFrontmatter(data)
	if !ok || strings.TrimSpace(body) == "" {
		return "", false
	}
	return body, true
}

func (p *FileProvider) saveText(key, source, text string) error {
	if err := os.MkdirAll(p.textDir, 0o755); err != nil {
		return err
	}
	fm, err := yaml.Marshal(frontmatter{DocumentKey: key, Source: source, ConvertedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(text)
	return os.WriteFile(p.textPath(key), b.Bytes(), 0o644)
}

// splitFrontmatter separates a leading YAML block from the body.
func splitFrontmatter(data []byte) (frontmatter, string, bool) {
	var fm frontmatter
	s := string(data)
	if !strings.HasPrefix(s, "---\n") {
		return fm, "", false
	}
	end := strings.Index(s[4:], "\n---\n")
	if end < 0 {
		return fm, "", false
	}
	if err := yaml.Unmarshal([]byte(s[4:4+end]), &fm); err != nil {
		return fm, "", false
	}
	body := strings.TrimPrefix(s[4+end+len("\n---\n"):], "\n")
	return fm, body, true
}

// normalize strips a byte order mark and converts line endings to \n.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
