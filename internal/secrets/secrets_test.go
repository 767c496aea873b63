// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "  sk-abc123  \n")
				writeFile(t, dir, "gemini-api-key", "AIza-xyz")
				return dir
			},
			want: Secrets{
				"openai-api-key": "sk-abc123",
				"gemini-api-key": "AIza-xyz",
			},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak-valid")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				return dir
			},
			want: Secrets{"anthropic-api-key": "ak-valid"},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "sk-1")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{"openai-api-key": "sk-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := t.TempDir()
	writeFile(t, dir, "openai-api-key", "sk-good")
	bad := filepath.Join(dir, "gemini-api-key")
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))

	var buf bytes.Buffer
	got, err := Load(dir, zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, Secrets{"openai-api-key": "sk-good"}, got)
	assert.Contains(t, buf.String(), "gemini-api-key")
}

func TestAPIKey(t *testing.T) {
	s := Secrets{"openai-api-key": "sk-file", "gemini-api-key": "g-file"}
	tests := []struct {
		name       string
		provider   types.AIProvider
		configured string
		want       string
	}{
		{"configured wins", types.ProviderOpenAI, "sk-config", "sk-config"},
		{"from file", types.ProviderGemini, "", "g-file"},
		{"default provider", "", "", "sk-file"},
		{"missing", types.ProviderAnthropic, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.APIKey(tt.provider, tt.configured))
		})
	}
	assert.Equal(t, "anthropic-api-key", KeyName(types.ProviderAnthropic))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
