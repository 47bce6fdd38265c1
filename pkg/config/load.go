// Package config загружает конфигурацию из YAML-файла и переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"
	msgConfigFileMissing       = "configuration file not found, using environment only"

	errFailedLoadConfiguration = "failed to load configuration"
	errFailedStatConfiguration = "failed to stat configuration file"

	attrService = "service"
	attrPath    = "path"
)

// Load заполняет T значениями из файла path (если он задан и существует),
// затем переменными окружения и значениями env-default.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx)

	log.Debug(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, path))

	var cfg T

	useFile := path != ""
	if useFile {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", errFailedStatConfiguration, err)
			}
			log.Debug(ctx, msgConfigFileMissing, zap.String(attrPath, path))
			useFile = false
		}
	}

	var err error
	if useFile {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Debug(ctx, msgConfigurationLoaded, zap.String(attrService, serviceName))

	return &cfg, nil
}
