package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/internal/logger"
)

const maxPageBytes = 8 << 20

// RetryPolicy bounds page fetch retries.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// newBackOff returns the wait schedule of one Fetch call. Waits are not
// randomized since the rate limiter already spaces requests out.
func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialWait
	b.MaxInterval = p.MaxWait
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

// StatusError is a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetcher downloads result pages with a shared rate limit and retry policy.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	retry     RetryPolicy
	logger    *zap.Logger
}

// NewFetcher builds a fetcher from scraper settings. A non-positive request
// rate disables throttling.
func NewFetcher(cfg config.ScraperConfig, log *zap.Logger) *Fetcher {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		retry: RetryPolicy{
			MaxAttempts: max(cfg.Retry.MaxAttempts, 1),
			InitialWait: time.Duration(cfg.Retry.InitialWaitMs) * time.Millisecond,
			MaxWait:     time.Duration(cfg.Retry.MaxWaitMs) * time.Millisecond,
			Multiplier:  cfg.Retry.Multiplier,
		},
		logger: logger.OrNop(log),
	}
}

// Fetch GETs url and parses the body as HTML. Transient failures (network
// errors, 429 and 5xx) are retried with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	attempts := 0
	operation := func() (*goquery.Document, error) {
		attempts++
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		doc, err := f.fetchOnce(ctx, url)
		if err != nil && !isRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return doc, err
	}

	doc, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(f.retry.newBackOff()),
		backoff.WithMaxTries(uint(f.retry.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			f.logger.Debug("retrying page fetch",
				zap.String("url", url),
				zap.Int("attempt", attempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isRetryable(err) {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempts, err)
		}
		return nil, err
	}
	return doc, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}
