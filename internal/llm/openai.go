// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

const systemPrompt = "You are an expert reviewer of academic theses. Answer with a single JSON object and no other text."

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	hist   history
}

// NewOpenAI builds an adapter from cfg. BaseURL points it at a compatible
// gateway instead of api.openai.com.
func NewOpenAI(cfg types.AIConfig) *OpenAI {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAI{client: openai.NewClientWithConfig(c), model: cfg.Model}
}

// Send implements Client.
func (o *OpenAI) Send(ctx context.Context, prompt, session string) (Response, error) {
	msgs := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: systemPrompt}}
	for _, t := range o.hist.get(session) {
		msgs = append(msgs,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.prompt},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.answer},
		)
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: 0.2,
	})
	if err != nil {
		return Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Response{}, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	o.hist.add(session, prompt, content)
	return Response{Content: content}, nil
}
