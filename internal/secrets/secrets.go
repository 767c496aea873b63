// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads AI service credentials from a directory of
// plain-text files. The filename is the key name and the trimmed contents
// are the value, for example .secrets/openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, log zerolog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// KeyName returns the file name holding the API key for provider.
func KeyName(provider types.AIProvider) string {
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	return string(provider) + "-api-key"
}

// APIKey returns configured when it is set, and otherwise the stored key
// for provider.
func (s Secrets) APIKey(provider types.AIProvider, configured string) string {
	if configured != "" {
		return configured
	}
	return s[KeyName(provider)]
}
