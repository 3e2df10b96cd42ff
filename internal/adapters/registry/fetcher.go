// Package registry implements the Fetcher port over HTTP against an npm CDN registry.
package registry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

const (
	initialRetryInterval = 200 * time.Millisecond
	maxRetryInterval     = 2 * time.Second
	statusTransportError = "error"
)

// Fetcher implements ports.Fetcher with retries and client-side rate limiting.
type Fetcher struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	newBackOff   func() backoff.BackOff
	maxAttempts  uint
	maxBodyBytes int64
	metrics      ports.Metrics
	logger       ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMetrics records every HTTP attempt.
func WithMetrics(m ports.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithLogger logs retried attempts at debug level.
func WithLogger(l ports.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithBackOff replaces the exponential backoff between attempts.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(f *Fetcher) {
		f.newBackOff = newBackOff
	}
}

// NewFetcher creates a Fetcher configured by cfg.
func NewFetcher(cfg domain.FetchConfig, opts ...Option) *Fetcher {
	return newFetcherWithClient(cfg, &http.Client{Timeout: cfg.Timeout}, opts...)
}

// newFetcherWithClient creates a Fetcher with a custom http client (used for testing).
func newFetcherWithClient(cfg domain.FetchConfig, client *http.Client, opts ...Option) *Fetcher {
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}

	attempts := uint(1)
	if cfg.MaxAttempts > 1 {
		attempts = uint(cfg.MaxAttempts)
	}

	f := &Fetcher{
		httpClient:   client,
		limiter:      rate.NewLimiter(limit, burst),
		maxAttempts:  attempts,
		maxBodyBytes: cfg.MaxBodyBytes,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initialRetryInterval
			b.MaxInterval = maxRetryInterval
			return b
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL, following redirects.
// 404 and other 4xx answers fail immediately; transport errors, 429 and 5xx are retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.FetchedModule, error) {
	attempt := 0
	operation := func() (*domain.FetchedModule, error) {
		attempt++
		if attempt > 1 && f.logger != nil {
			f.logger.With("url", rawURL).With("attempt", attempt).Debug("retrying registry fetch")
		}
		return f.fetchOnce(ctx, rawURL)
	}

	mod, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(f.newBackOff()),
		backoff.WithMaxTries(f.maxAttempts),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return nil, err
	}
	return mod, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*domain.FetchedModule, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(zerr.With(zerr.Wrap(err, domain.ErrInvalidRegistryURL.Error()), "url", rawURL))
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.observe(statusTransportError, start)
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", rawURL)
		if ctx.Err() != nil {
			return nil, backoff.Permanent(wrapped)
		}
		return nil, wrapped
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	f.observe(strconv.Itoa(resp.StatusCode), start)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(zerr.With(domain.ErrModuleNotFound, "url", rawURL))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		statusErr := zerr.With(domain.ErrRegistryStatus, "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "url", rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		statusErr := zerr.With(domain.ErrRegistryStatus, "status_code", resp.StatusCode)
		return nil, backoff.Permanent(zerr.With(statusErr, "url", rawURL))
	}

	body, err := f.readBody(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(zerr.With(err, "url", rawURL))
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.FetchedModule{Contents: string(body), FinalURL: finalURL}, nil
}

func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	if f.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, zerr.With(domain.ErrRegistryBodyTooLarge, "limit", f.maxBodyBytes)
	}
	return body, nil
}

func (f *Fetcher) observe(status string, start time.Time) {
	if f.metrics != nil {
		f.metrics.ObserveFetch(status, time.Since(start))
	}
}
