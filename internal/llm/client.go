// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm adapts language model services to one small interface. The
// analyzer depends only on Client; adapters exist for OpenAI-compatible
// endpoints, Gemini, and the Anthropic Messages API. Limited wraps any
// Client with a shared token bucket and retries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("empty response from language model")

// ErrNoAPIKey is returned by New when the provider needs a key and none is set.
var ErrNoAPIKey = errors.New("no API key configured")

// Response is one answer from the model.
type Response struct {
	Content string
}

// Client sends a prompt and returns the model's answer. session is an
// optional conversation handle: calls that share a non-empty session see
// earlier turns, an empty session is a single stateless exchange.
// Implementations must be safe for concurrent use.
type Client interface {
	Send(ctx context.Context, prompt, session string) (Response, error)
}

// NewSession returns a fresh conversation handle.
func NewSession() string {
	return uuid.NewString()
}

// StatusError is a non-success HTTP status from a service.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.Code, e.Body)
}

// maxTurns bounds the turns remembered per session.
const maxTurns = 8

type turn struct {
	prompt, answer string
}

// history keeps recent turns per session for adapters whose APIs are
// stateless.
type history struct {
	mu    sync.Mutex
	turns map[string][]turn
}

func (h *history) get(session string) []turn {
	if session == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]turn(nil), h.turns[session]...)
}

func (h *history) add(session, prompt, answer string) {
	if session == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.turns == nil {
		h.turns = make(map[string][]turn)
	}
	t := append(h.turns[session], turn{prompt: prompt, answer: answer})
	if len(t) > maxTurns {
		t = t[len(t)-maxTurns:]
	}
	h.turns[session] = t
}
