// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/container"
)

// PDFConverter extracts the text layer of a PDF. Scanned PDFs without a
// text layer come back empty.
type PDFConverter struct{}

// Convert reads every page of the PDF at path.
func (PDFConverter) Convert(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reading PDF %s: %v", path, p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", path, err)
	}
	return buf.String(), nil
}

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts Word documents by piping them through the
// markitdown image.
type MarkitdownConverter struct {
	runtime container.Runtime
	ext     string
}

// NewMarkitdownConverter returns a converter for files with extension ext
// (".docx" or ".doc"). It fails when the image is not available locally.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, ext string) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, ext: strings.TrimPrefix(ext, ".")}, nil
}

// Convert streams the file at path through the container.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, []string{"-x", m.ext}, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}
	return out.String(), nil
}
