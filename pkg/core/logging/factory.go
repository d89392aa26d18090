// ============================================================================
// grab - scraping script interpreter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating the process logger
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	"github.com/msto63/grab/foundation/utils/filex"
	"github.com/msto63/grab/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: console, text, json or logfmt (default: console)
	Format string

	// Append entries to this file as well, optional
	File string

	// Primary output, stderr when nil
	Output io.Writer

	// Debug forces debug level and console format
	Debug bool

	// NoColor renders console entries as plain text
	NoColor bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "console",
	}
}

// FromConfig derives the logger configuration from the general settings
func FromConfig(name string, general config.GeneralConfig) LoggerConfig {
	return LoggerConfig{
		Name:    name,
		Level:   general.LogLevel,
		Format:  general.LogFormat,
		File:    general.LogFile,
		NoColor: general.NoColor,
	}
}

// NewLogger creates the logger described by cfg. The returned closer
// releases the log file and is never nil.
func NewLogger(cfg LoggerConfig) (*grablog.Logger, io.Closer, error) {
	level, err := grablog.ParseLevel(cfg.Level)
	if err != nil && cfg.Level != "" {
		return nil, nopCloser{}, invalid("level", cfg.Level, err)
	}
	if cfg.Level == "" {
		level = grablog.LevelWarn
	}

	format, err := grablog.ParseFormat(cfg.Format)
	if err != nil && cfg.Format != "" {
		return nil, nopCloser{}, invalid("format", cfg.Format, err)
	}
	if cfg.Format == "" {
		format = grablog.FormatConsole
	}

	if cfg.Debug {
		level = grablog.LevelDebug
		format = grablog.FormatConsole
	}
	if cfg.NoColor && format == grablog.FormatConsole {
		format = grablog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, closer, err
		}
		output = io.MultiWriter(output, file)
		closer = file
	}

	logger := grablog.NewWithConfig(grablog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a console logger on stderr at the default level
func NewSimpleLogger(name string) *grablog.Logger {
	logger, _, _ := NewLogger(DefaultLoggerConfig(name))
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := filex.EnsureParent(path); err != nil {
		return nil, graberror.Wrap(err, "failed to create log directory").
			WithCode(graberror.CodeIO).
			WithOperation("logging.NewLogger")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, graberror.Wrap(err, "failed to open log file").
			WithCode(graberror.CodeIO).
			WithOperation("logging.NewLogger").
			WithDetail("path", path)
	}
	return file, nil
}

func invalid(key, value string, cause error) error {
	return graberror.Wrap(cause, "invalid log "+key+" "+value).
		WithCode(graberror.CodeConfig).
		WithOperation("logging.NewLogger")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
