// Package main - командная строка клиента заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"notekeeper/internal/cli"
	"notekeeper/pkg/logger"
	"notekeeper/pkg/shutdown"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
	ErrSyncLogger = "failed to sync logger"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())

	err := cli.Execute(ctx)
	stop()

	syncLogger(ctx)

	if err != nil {
		// cobra уже напечатал ошибку.
		os.Exit(1)
	}
}

func syncLogger(ctx context.Context) {
	if err := logger.Log(ctx).Sync(); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err)
	}
}
