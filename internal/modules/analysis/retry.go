package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds retries of provider calls at the analyzer stage.
type RetryPolicy struct {
	MaxAttempts int
	// Delay grows linearly: attempt n waits n*Delay before the next try.
	Delay       time.Duration
	CallTimeout time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func callWithRetry[T any](ctx context.Context, p RetryPolicy, logger *zap.Logger, action string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	maxAttempts := p.attempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := callOnce(ctx, p.CallTimeout, fn)
		if err == nil {
			if attempt > 1 {
				logger.Info("retry succeeded", zap.String("action", action), zap.Int("attempt", attempt))
			}
			return result, nil
		}
		lastErr = err
		logger.Warn("provider call failed",
			zap.String("action", action),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))

		if ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		timer := time.NewTimer(time.Duration(attempt) * p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%s: %w", action, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("%s failed after retries: %w", action, lastErr)
}

func callOnce[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
