package target

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// RequestBuilder produces a fresh request for each send attempt. Requests
// cannot be replayed once their body has been consumed, so retries rebuild.
type RequestBuilder func() (*http.Request, error)

// RetryFunc is notified before each retry sleep.
type RetryFunc func(attempt int, wait time.Duration, status int)

// SenderConfig tunes the retrying sender.
type SenderConfig struct {
	Timeout         time.Duration
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// RequestsPerSecond caps the outgoing call rate against the live
	// store. Zero disables rate limiting.
	RequestsPerSecond float64
}

// DefaultSenderConfig returns conservative defaults for a live store.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		Timeout:         30 * time.Second,
		MaxAttempts:     5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// Sender sends HTTP requests with transport-level retry handling. Only 429
// and 503 are retried, honoring a Retry-After header when present and
// falling back to exponential backoff otherwise. Application-level
// conflicts (400/409) pass through untouched: the reconcilers own those.
type Sender struct {
	client  *http.Client
	limiter *rate.Limiter
	config  SenderConfig
}

// NewSender creates a sender from the given configuration.
func NewSender(cfg SenderConfig) *Sender {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultSenderConfig().MaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSenderConfig().Timeout
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultSenderConfig().InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultSenderConfig().MaxInterval
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Sender{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		config:  cfg,
	}
}

// Send performs the request, retrying retryable statuses. The caller owns
// the returned response body.
func (s *Sender) Send(ctx context.Context, build RequestBuilder, onRetry RetryFunc) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.config.InitialInterval
	bo.MaxInterval = s.config.MaxInterval
	bo.MaxElapsedTime = 0
	bo.Reset()

	for attempt := 1; ; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("target: build request: %w", err)
		}
		resp, err := s.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("target: send request: %w", err)
		}

		if !isRetryable(resp.StatusCode) || attempt >= s.config.MaxAttempts {
			return resp, nil
		}

		wait := retryAfter(resp)
		if wait <= 0 {
			wait = bo.NextBackOff()
		}
		status := resp.StatusCode
		drain(resp)

		if onRetry != nil {
			onRetry(attempt, wait, status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// retryAfter parses the Retry-After header, which may be a delay in
// seconds or an HTTP date. Returns zero when absent or unparsable.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
