// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the language model adapters
// that speak plain HTTP.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff delay; it doubles on each attempt.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-provided Retry-After value.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether status is a transient failure worth repeating:
// 429 Too Many Requests or a 502/503/504 gateway error.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes req and repeats it while the response status is
// Retryable. The delay starts at RetryBaseDelay and doubles each attempt;
// a Retry-After header in seconds replaces the computed delay when it is
// longer, up to one minute.
//
// When maxRetries is 0 the default (3) is used. The body of a retried
// response is drained and closed before sleeping. If ctx is cancelled
// during a wait the function returns ctx.Err(). After exhausting retries
// the last response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := RetryBaseDelay << attempt
		if ra := retryAfter(resp.Header.Get("Retry-After")); ra > wait {
			wait = ra
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}
