package fetcher

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quantmind-br/stylekit/internal/domain"
)

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// MaxRetryAfter caps the wait a server can request through Retry-After
const MaxRetryAfter = time.Minute

// RetrierOptions contains options for creating a Retrier
type RetrierOptions struct {
	// MaxRetries is the number of attempts after the first; zero disables
	// retrying and a negative value selects the default of 3
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// NewRetrier creates a new Retrier with the given options
func NewRetrier(opts RetrierOptions) *Retrier {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 1 * time.Second
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	return &Retrier{
		maxRetries:      opts.MaxRetries,
		initialInterval: opts.InitialInterval,
		maxInterval:     opts.MaxInterval,
		multiplier:      opts.Multiplier,
	}
}

// retryAfterBackOff waits at least as long as the last Retry-After hint
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > next {
		next = b.hint
	}
	b.hint = 0
	return next
}

func (b *retryAfterBackOff) Reset() {
	b.hint = 0
	b.BackOff.Reset()
}

// observe records the server's requested delay carried by err
func (b *retryAfterBackOff) observe(err error) {
	var retryable *domain.RetryableError
	if errors.As(err, &retryable) && retryable.RetryAfter > 0 {
		b.hint = min(time.Duration(retryable.RetryAfter)*time.Second, MaxRetryAfter)
	}
}

// newBackoff creates a new exponential backoff
func (r *Retrier) newBackoff() *retryAfterBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.Multiplier = r.multiplier
	b.RandomizationFactor = 0.5
	b.Reset()

	return &retryAfterBackOff{BackOff: backoff.WithMaxRetries(b, uint64(r.maxRetries))}
}

// Retry executes an operation with exponential backoff. A Retry-After
// delay carried by a RetryableError lengthens the next wait.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := r.newBackoff()

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		// Check if error is retryable
		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		b.observe(err)
		return err
	}, backoff.WithContext(b, ctx))
}

// RetryWithValue executes an operation with exponential backoff and returns a value
func RetryWithValue[T any](ctx context.Context, r *Retrier, operation func() (T, error)) (T, error) {
	var result T
	var lastErr error

	err := r.Retry(ctx, func() error {
		var err error
		result, err = operation()
		if err != nil {
			lastErr = err
		}
		return err
	})

	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return result, lastErr
	}

	return result, nil
}

// ShouldRetryStatus returns true if the HTTP status code should be retried
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case 429: // Too Many Requests
		return true
	case 502: // Bad Gateway
		return true
	case 503: // Service Unavailable
		return true
	case 504: // Gateway Timeout
		return true
	}

	// Cloudflare errors (520-530)
	if statusCode >= 520 && statusCode <= 530 {
		return true
	}

	return false
}

// ParseRetryAfter parses the Retry-After header value, given either as
// delay seconds or as an HTTP date relative to now
func ParseRetryAfter(retryAfter string, now time.Time) time.Duration {
	retryAfter = strings.TrimSpace(retryAfter)
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}

	return 0
}
