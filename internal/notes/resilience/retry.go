package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Ошибки retry механизма.
var (
	// ErrContextCanceled возвращается, когда контекст был отменен во время ожидания перед повторной попыткой.
	ErrContextCanceled = errors.New("context was canceled during retry")
)

// Константы для логирования.
const (
	LogRetryOperation   = "retry operation"
	LogRetryAttempt     = "retry attempt"
	LogRetrySuccess     = "retry succeeded"
	LogRetryMaxAttempts = "retry max attempts reached"
)

// Backoff возвращает задержку после неудачной попытки номер attempt (считая с 1).
type Backoff func(attempt int) time.Duration

// LinearBackoff - задержка step*attempt: step, 2*step, 3*step...
func LinearBackoff(step time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// Policy содержит настройки retry механизма.
type Policy struct {
	// MaxAttempts - максимальное количество попыток (включая первую).
	MaxAttempts int
	// Backoff - задержка между попытками.
	Backoff Backoff
	// ShouldRetry - нужно ли повторять запрос для данной ошибки. nil - повторять все, кроме отмены контекста.
	ShouldRetry func(error) bool
}

// defaultShouldRetry - повторять все, кроме отмены и истечения контекста.
func defaultShouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Sleeper ждет d или отмены контекста.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Option настраивает Retry.
type Option func(*Retry)

// WithSleeper подменяет ожидание между попытками (для тестов).
func WithSleeper(sleeper Sleeper) Option {
	return func(r *Retry) {
		r.sleep = sleeper
	}
}

// Retry выполняет функцию с повторными попытками.
type Retry struct {
	name   string
	policy Policy
	sleep  Sleeper
}

// NewRetry создает новый экземпляр retry механизма.
func NewRetry(name string, policy Policy, opts ...Option) *Retry {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Backoff == nil {
		policy.Backoff = func(int) time.Duration { return 0 }
	}
	if policy.ShouldRetry == nil {
		policy.ShouldRetry = defaultShouldRetry
	}

	r := &Retry{
		name:   name,
		policy: policy,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute выполняет операцию с автоматическими повторными попытками.
// После исчерпания попыток возвращается ошибка последней попытки.
func (r *Retry) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("retry", r.name))
	log.Debug(ctx, LogRetryOperation)

	var err error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err = operation(ctx)

		if err == nil || !r.policy.ShouldRetry(err) {
			if attempt > 1 && err == nil {
				log.Info(ctx, LogRetrySuccess, zap.Int("attempts", attempt))
			}
			return err
		}

		if attempt == r.policy.MaxAttempts {
			log.Warn(ctx, LogRetryMaxAttempts,
				zap.Int("attempts", attempt),
				zap.Error(err))
			return err
		}

		backoff := r.policy.Backoff(attempt)
		log.Info(ctx, LogRetryAttempt,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		if sleepErr := r.sleep(ctx, backoff); sleepErr != nil {
			return fmt.Errorf("%w: %w", ErrContextCanceled, sleepErr)
		}
	}

	return err
}
