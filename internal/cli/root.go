// Package cli реализует командную строку клиента заметок поверх cobra.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/config"
	"notekeeper/pkg/logger"
)

// Константы для сообщений.
const (
	ErrLoadConfig   = "failed to load configuration"
	ErrInitLogger   = "failed to initialize logger with configuration settings"
	ErrOpenClient   = "failed to open notes client"
	LogCloseFailed  = "failed to close notes client"
	LogCommandStart = "running command"
)

// runtime - состояние одного запуска: флаги и загруженная конфигурация.
type runtime struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// NewRootCommand собирает дерево команд.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "notes",
		Short: "Personal notes that work offline and sync to your account after sign-in",
		Long: `notes keeps notes in local storage while you are a guest.
After "notes login" they are moved to your account and further edits go to the notes API.`,
		SilenceUsage:      true,
		PersistentPreRunE: rt.setup,
	}

	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "",
		"Path to the YAML configuration file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newListCommand(rt),
		newCreateCommand(rt),
		newUpdateCommand(rt),
		newDeleteCommand(rt),
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newMigrateCommand(rt),
		newStatusCommand(rt),
	)

	return root
}

// Execute выполняет команду с аргументами процесса.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (rt *runtime) setup(cmd *cobra.Command, _ []string) error {
	ctx := logger.NewRequestIDContext(cmd.Context(), "")

	var (
		cfg *config.Config
		err error
	)
	if rt.configPath != "" {
		cfg, err = config.LoadFile(ctx, rt.configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	level := cfg.Logging.Level
	if rt.verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(cfg.Logging.GetEnvironment(), level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitLogger, err)
	}
	logger.SetGlobalLogger(log)

	rt.cfg = cfg
	cmd.SetContext(logger.NewContext(ctx, log))

	log.Debug(ctx, LogCommandStart, zap.String("command", cmd.CommandPath()))
	return nil
}

// withClient открывает клиент заметок на время выполнения fn.
func (rt *runtime) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *notes.Client) error) error {
	ctx := cmd.Context()

	client, err := notes.New(ctx, rt.cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrOpenClient, err)
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			logger.Log(ctx).Warn(ctx, LogCloseFailed, zap.Error(err))
		}
	}()

	return fn(ctx, client)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
