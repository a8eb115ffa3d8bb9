package fetch

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultBreakerFailures trips the breaker after this many consecutive failures.
const DefaultBreakerFailures = 5

// Breaker stops calling an upstream that keeps failing. An open breaker fails
// fast with gobreaker.ErrOpenState; it never retries.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker trips after maxFailures consecutive failures and stays open for
// the rest of a typical run.
func NewBreaker(name string, maxFailures int, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFailures <= 0 {
		maxFailures = DefaultBreakerFailures
	}
	st := gobreaker.Settings{
		Name:    name,
		Timeout: 10 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Do runs fn unless the breaker is open.
func (b *Breaker) Do(fn func() error) error {
	if b == nil {
		return fn()
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Open reports whether calls are currently short-circuited.
func (b *Breaker) Open() bool {
	return b != nil && b.cb.State() == gobreaker.StateOpen
}
