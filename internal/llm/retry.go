package llm

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"taskman/internal/logger"
)

// Retry defaults for the completion call
const (
	DefaultMaxRetries    = 3
	DefaultBackoffFactor = 1.5
)

// RateLimitedMessage is the user-facing notice surfaced after retries are
// exhausted.
const RateLimitedMessage = "The language model is currently rate limited. " +
	"Please try again in a moment, or switch to fallback mode for basic commands."

// rateLimitMarkers classify an error as recoverable rate limiting when any
// of them appears in its message.
var rateLimitMarkers = []string{"429", "quota exceeded", "rate_limit"}

// IsRateLimit reports whether an error looks like model rate limiting
func IsRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Result is the outcome of a policy-wrapped completion call. RateLimited is
// a sentinel outcome, not an error: retries were exhausted on rate limiting
// and Message carries the degraded-mode notice.
type Result struct {
	Text        string
	RateLimited bool
	Message     string
}

// Policy wraps a single completion call with bounded retry and exponential
// backoff plus jitter. Only rate-limit-classified failures are retried;
// anything else propagates on first occurrence. This is the only retried
// operation in the system.
type Policy struct {
	MaxRetries    int
	BackoffFactor float64
	log           *logger.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

// NewPolicy creates a retry policy with the default bounds
func NewPolicy(log *logger.Logger) *Policy {
	return &Policy{
		MaxRetries:    DefaultMaxRetries,
		BackoffFactor: DefaultBackoffFactor,
		log:           log,
		sleep:         sleepCtx,
		jitter:        rand.Float64,
	}
}

// Execute runs op up to MaxRetries times. The backoff before attempt n+1 is
// factor^n plus uniform(0,1) seconds.
func (p *Policy) Execute(ctx context.Context, op func(ctx context.Context) (string, error)) (*Result, error) {
	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		text, err := op(ctx)
		if err == nil {
			if attempt > 0 && p.log != nil {
				p.log.Debug("Completion succeeded on attempt %d", attempt+1)
			}
			return &Result{Text: text}, nil
		}

		if !IsRateLimit(err) {
			return nil, err
		}

		if attempt == p.MaxRetries-1 {
			if p.log != nil {
				p.log.Warn("Rate limited after %d attempts, giving up", p.MaxRetries)
			}
			return &Result{RateLimited: true, Message: RateLimitedMessage}, nil
		}

		delay := time.Duration((math.Pow(p.BackoffFactor, float64(attempt)) + p.jitter()) * float64(time.Second))
		if p.log != nil {
			p.log.Debug("Rate limited (attempt %d/%d), retrying in %v", attempt+1, p.MaxRetries, delay.Round(time.Millisecond))
		}
		if err := p.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	// MaxRetries <= 0 never runs the operation
	return &Result{RateLimited: true, Message: RateLimitedMessage}, nil
}

// sleepCtx blocks for d or until the context is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
