package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/challenge-hub/backend/internal/logging"
	"github.com/sony/gobreaker/v2"
)

// BreakerGenerator stops calling the backend after consecutive availability
// failures. Open-state rejections surface as Unreachable.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerGenerator(name string, next Generator, failures uint32, openTimeout time.Duration) *BreakerGenerator {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "generator-" + name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("generator circuit breaker state changed")
		},
	})
	return &BreakerGenerator{next: next, cb: cb}
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &AdapterError{Kind: Unreachable, Err: err}
	}
	return out, err
}

func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}

// Malformed 2xx replies and 4xx rejections do not trip the breaker.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) {
		return true
	}
	if adapterErr.Kind == Unreachable {
		return true
	}
	return adapterErr.StatusCode >= http.StatusInternalServerError ||
		adapterErr.StatusCode == http.StatusTooManyRequests
}
