package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// BuildLogger constructs a zap logger from the logging block. A non-empty
// levelOverride takes precedence over the configured level.
func (c LoggingConfig) BuildLogger(levelOverride string) (*zap.Logger, error) {
	level := c.Level
	if levelOverride != "" {
		level = levelOverride
	}
	if level == "" {
		level = "info"
	}
	zapLevel, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var zapConfig zap.Config
	switch c.Format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "", "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", c.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if c.OutputFile != "" {
		if dir := filepath.Dir(c.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		file, err := os.OpenFile(c.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", c.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{c.OutputFile}
		zapConfig.ErrorOutputPaths = []string{c.OutputFile}
	}

	return zapConfig.Build()
}
