// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/httputil"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const claudeMaxTokens = 4096

// Claude calls the Anthropic Messages API.
type Claude struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client

	// URL overrides claudeAPIURL.
	URL string

	hist history
}

// NewClaude builds an adapter from cfg. BaseURL, when set, replaces the
// API host.
func NewClaude(cfg types.AIConfig) *Claude {
	c := &Claude{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		c.URL = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	}
	return c
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send implements Client.
func (c *Claude) Send(ctx context.Context, prompt, session string) (Response, error) {
	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: claudeMaxTokens,
		System:    systemPrompt,
	}
	for _, t := range c.hist.get(session) {
		reqBody.Messages = append(reqBody.Messages,
			claudeMessage{Role: "user", Content: t.prompt},
			claudeMessage{Role: "assistant", Content: t.answer},
		)
	}
	reqBody.Messages = append(reqBody.Messages, claudeMessage{Role: "user", Content: prompt})

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.URL
	if url == "" {
		url = claudeAPIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return Response{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Response{}, &StatusError{Provider: "Claude", Code: resp.StatusCode, Body: string(body)}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Response{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	var sb strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return Response{}, ErrEmptyResponse
	}

	content := sb.String()
	c.hist.add(session, prompt, content)
	return Response{Content: content}, nil
}
