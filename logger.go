// FILE: logger.go
// Package main – Logging setup.
//
// Every file logs through a logrus entry tagged with its component. The
// global logrus logger is configured once at boot: level, text format with
// full timestamps, stdout plus an optional size-rotated file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig is the [log] section.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level"` // debug, info, warn, error
	File       string `toml:"file" yaml:"file"`   // empty: stdout only
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

// initLogger applies cfg to the global logrus logger and returns a closer for
// the rotated file (a no-op without one).
func initLogger(cfg LogConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	})

	if cfg.File == "" {
		logrus.SetOutput(os.Stdout)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	return fileWriter, nil
}
