package resilience

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sony/gobreaker/v2"

	"ZeroConfigAssistant/pkg/log"
)

type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Degrade runs primary exactly once. If it fails, or the breaker for
// operation is open, the value produced by degraded is returned instead and
// primary is not called again.
//
// The returned error is the reason the degraded value was used. It is nil
// when primary succeeded; callers log it and keep the value either way.
func Degrade[T any](
	ctx context.Context,
	e *Executor,
	operation string,
	primary func(context.Context) (T, error),
	degraded func(error) T,
) (T, error) {
	if err := ctx.Err(); err != nil {
		return degraded(err), err
	}

	if e == nil || !e.cfg.BreakerEnabled {
		value, err := primary(ctx)
		if err != nil {
			return degraded(err), err
		}
		return value, nil
	}

	breaker := e.circuitBreaker(operationName(operation))
	out, err := breaker.Execute(func() (any, error) {
		return primary(ctx)
	})
	if err != nil {
		return degraded(err), err
	}

	value, _ := out.(T)
	return value, nil
}

func (e *Executor) circuitBreaker(operation string) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			// The caller giving up is not a sign of an unhealthy upstream.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(log.Fields{
				"operation": name,
				"from":      from.String(),
				"to":        to.String(),
			}, "[resilience] circuit breaker state change")
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func operationName(operation string) string {
	op := strings.TrimSpace(operation)
	if op == "" {
		return "unknown"
	}
	return op
}
