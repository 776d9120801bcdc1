// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the catalog and awards clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter bounds how long a server-supplied Retry-After may stall us.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 5

// Retrier executes requests and retries HTTP 429 (Too Many Requests) and
// 503 (Service Unavailable) with exponential backoff. A Retry-After header
// given in seconds replaces the computed backoff, capped at one minute.
type Retrier struct {
	Client     *http.Client
	MaxRetries int
	Logger     *zap.Logger
}

// Do sends req until it gets a non-retryable response or retries run out.
// The delay starts at RetryBaseDelay and doubles each attempt. On each
// retry the response body is drained and closed before sleeping. If the
// context is cancelled during a backoff wait Do returns ctx.Err(). After
// exhausting retries the last throttled response is returned so the caller
// can inspect it.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if wait, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = wait
		}
		log.Debug("throttled, retrying",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

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

// retryAfter parses a Retry-After header expressed in whole seconds.
// HTTP-date values are ignored and fall back to exponential backoff.
func retryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
