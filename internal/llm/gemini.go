// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// Gemini talks to Google's Gemini API. Sessions map to genai chat sessions.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel

	mu       sync.Mutex
	sessions map[string]*chat
}

type chat struct {
	mu sync.Mutex
	cs *genai.ChatSession
}

// NewGemini creates a Gemini client. Call Close when done.
func NewGemini(ctx context.Context, cfg types.AIConfig) (*Gemini, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	return &Gemini{client: client, model: model, sessions: make(map[string]*chat)}, nil
}

// Send implements Client.
func (g *Gemini) Send(ctx context.Context, prompt, session string) (Response, error) {
	var resp *genai.GenerateContentResponse
	var err error
	if session == "" {
		resp, err = g.model.GenerateContent(ctx, genai.Text(prompt))
	} else {
		c := g.chat(session)
		c.mu.Lock()
		resp, err = c.cs.SendMessage(ctx, genai.Text(prompt))
		c.mu.Unlock()
	}
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{Content: text}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) chat(session string) *chat {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.sessions[session]
	if !ok {
		c = &chat{cs: g.model.StartChat()}
		g.sessions[session] = c
	}
	return c
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
