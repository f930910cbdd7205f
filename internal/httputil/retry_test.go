// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

// statusSequence serves the given statuses in order, then the last one forever.
func statusSequence(t *testing.T, calls *int32, statuses ...int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(calls, 1))
		if n > len(statuses) {
			n = len(statuses)
		}
		w.WriteHeader(statuses[n-1])
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRetrier_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusOK)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	r := &Retrier{Client: ts.Client(), MaxRetries: 5}
	resp, err := r.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetrier_RetriesThen200(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusOK)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	r := &Retrier{Client: ts.Client(), MaxRetries: 5, Logger: zap.New(core)}
	resp, err := r.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 2, logs.FilterMessage("retrying request").Len())
}

func TestRetrier_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusTooManyRequests)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	r := &Retrier{Client: ts.Client(), MaxRetries: 3}
	resp, err := r.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	// 1 initial + 3 retries = 4 total calls.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRetrier_ContextCancelled(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusTooManyRequests)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	r := &Retrier{Client: ts.Client(), MaxRetries: 5, BaseDelay: time.Second}
	_, err = r.Do(ctx, req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetrier_DefaultMaxRetries(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusServiceUnavailable)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	r := &Retrier{Client: ts.Client()}
	resp, err := r.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	// 1 initial + 3 default retries = 4 total calls.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRetrier_OtherErrorsPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound} {
		var calls int32
		ts := statusSequence(t, &calls, status)

		req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
		require.NoError(t, err)

		r := &Retrier{Client: ts.Client(), MaxRetries: 5}
		resp, err := r.Do(context.Background(), req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	}
}
