package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// FeedFetcher is satisfied by HTTPFetcher and by Retrying itself.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Retrying repeats failed fetches with exponential backoff. Only network
// failures and 5xx/429 statuses are retried; the last error is returned as is.
type Retrying struct {
	next   FeedFetcher
	policy RetryPolicy
	log    *slog.Logger
}

func NewRetrying(next FeedFetcher, policy RetryPolicy, log *slog.Logger) *Retrying {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}
	if policy.MaxInterval < policy.InitialInterval {
		policy.MaxInterval = policy.InitialInterval
	}
	return &Retrying{next: next, policy: policy, log: log}
}

func (r *Retrying) Fetch(ctx context.Context) ([]byte, error) {
	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, err := r.next.Fetch(ctx)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		r.log.Warn(
			"Feed fetch failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
	}
	if err := backoff.RetryNotify(op, r.backOff(ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (r *Retrying) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.InitialInterval
	exp.MaxInterval = r.policy.MaxInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.policy.MaxAttempts-1)), ctx)
}

func retryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Temporary()
	}
	return false
}
