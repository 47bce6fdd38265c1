// Package shutdown обеспечивает корректное завершение приложения:
// отмену контекста по SIGINT/SIGTERM и выполнение хуков освобождения ресурсов.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook освобождает ресурс в рамках переданного контекста.
type Hook func(context.Context) error

// ErrTimeout возвращается, если хуки не успели завершиться за отведенное время.
var ErrTimeout = errors.New("shutdown hooks timed out")

// NotifyContext возвращает контекст, отменяемый при получении SIGINT или SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Wait блокирует выполнение до получения SIGINT или SIGTERM,
// затем выполняет все хуки в рамках timeout.
func Wait(timeout time.Duration, hooks ...Hook) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh

	return Run(timeout, hooks...)
}

// Run параллельно выполняет хуки и ждет их завершения не дольше timeout.
// Ошибки хуков объединяются.
func Run(timeout time.Duration, hooks ...Hook) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(errs...)
	case <-ctx.Done():
		return ErrTimeout
	}
}
