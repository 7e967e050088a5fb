package translator

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultRetries       = 2
	defaultBackoff       = 500 * time.Millisecond
	breakerTripThreshold = 5
	breakerCooldown      = 30 * time.Second
)

// ResilientOptions tunes NewResilient. Zero values select the defaults.
type ResilientOptions struct {
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger
}

// Resilient retries transient failures with exponential backoff and stops
// calling a provider that keeps failing until a cooldown has passed.
type Resilient struct {
	next    Client
	retries int
	backoff time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewResilient wraps next.
func NewResilient(next Client, opts ResilientOptions) *Resilient {
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripThreshold
		},
		// Only provider-side trouble counts against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("translator circuit state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Resilient{
		next:    next,
		retries: retries,
		backoff: backoff,
		breaker: breaker,
		logger:  logger,
		sleep:   sleepContext,
	}
}

func (r *Resilient) Name() string {
	return r.next.Name()
}

func (r *Resilient) Translate(ctx context.Context, req Request) (Result, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			wait := r.backoff << (attempt - 1)
			r.logger.Debug("retrying translation",
				zap.String("provider", r.Name()),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr))
			if err := r.sleep(ctx, wait); err != nil {
				return Result{}, newError(r.Name(), 0, err, "gave up after %d attempt(s)", attempt)
			}
		}
		out, err := r.breaker.Execute(func() (interface{}, error) {
			return r.next.Translate(ctx, req)
		})
		if err == nil {
			return out.(Result), nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, newError(r.Name(), 0, err, "provider temporarily disabled")
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}
	return Result{}, asError(r.Name(), lastErr)
}

func isTransient(err error) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Transient()
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
