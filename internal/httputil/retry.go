// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the external gene databases.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay is the default base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// Retrier executes HTTP requests and retries responses that signal a
// transient overload: 429 Too Many Requests and 503 Service Unavailable.
type Retrier struct {
	Client     *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *zap.Logger
}

// Do executes req, retrying with exponential backoff starting at BaseDelay
// (RetryBaseDelay when zero) and doubling each attempt. When MaxRetries is 0
// the default (3) is used.
//
// On each retryable response the body is drained and closed before sleeping.
// If the context is cancelled during a backoff wait Do returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect it.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	delay := r.BaseDelay
	if delay <= 0 {
		delay = RetryBaseDelay
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := delay << attempt
		log.Debug("retrying request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}
