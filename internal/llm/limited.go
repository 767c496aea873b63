// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/httputil"
)

// backoffBase is the delay before the first retry; it doubles each attempt.
// Tests override it to avoid real sleeps.
var backoffBase = time.Second

// Limited wraps a Client with a token bucket shared by every caller and
// with retries on transient failures. Waiting for a token and backing off
// both respect ctx, so a task deadline bounds the whole call.
type Limited struct {
	next       Client
	limiter    *rate.Limiter
	maxRetries int
	log        zerolog.Logger
}

// NewLimited wraps next. A non-positive perSecond disables rate limiting.
func NewLimited(next Client, perSecond float64, burst, maxRetries int, log zerolog.Logger) *Limited {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Limited{
		next:       next,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: maxRetries,
		log:        log,
	}
}

// Send implements Client.
func (l *Limited) Send(ctx context.Context, prompt, session string) (Response, error) {
	var lastErr error
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffBase * time.Duration(1<<(attempt-1))
			l.log.Debug().Err(lastErr).Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying model call")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return Response{}, ctx.Err()
			}
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return Response{}, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		resp, err := l.next.Send(ctx, prompt, session)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		lastErr = err
		if !isRetryable(err) {
			return Response{}, err
		}
	}
	return Response{}, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable reports whether err may succeed on a later attempt. Client
// errors such as bad keys or malformed requests are permanent.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return httputil.Retryable(se.Code) || se.Code >= http.StatusInternalServerError
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return httputil.Retryable(apiErr.HTTPStatusCode) || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return httputil.Retryable(reqErr.HTTPStatusCode) || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return true
}
