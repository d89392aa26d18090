// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering and controlling log output.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-14 v0.1.1: Level colors expressed as lipgloss colors

package log

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelTrace is the most verbose level (token streams, resolved arguments)
	LevelTrace Level = iota

	// LevelDebug traces statement execution
	LevelDebug

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates recovered conditions such as a truncated WHILE loop
	LevelWarn

	// LevelError represents failures that abort a run
	LevelError

	// LevelFatal represents errors that terminate the process
	LevelFatal

	// LevelAudit is always logged regardless of the minimum level
	LevelAudit
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	case LevelAudit:
		return "audit"
	default:
		return "unknown"
	}
}

// ShortString returns a short string representation of the log level
func (l Level) ShortString() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelFatal:
		return "FTL"
	case LevelAudit:
		return "AUD"
	default:
		return "???"
	}
}

// Color returns the terminal color used for the level in console output
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelTrace:
		return lipgloss.Color("7")
	case LevelDebug:
		return lipgloss.Color("8")
	case LevelInfo:
		return lipgloss.Color("2")
	case LevelWarn:
		return lipgloss.Color("3")
	case LevelError:
		return lipgloss.Color("9")
	case LevelFatal:
		return lipgloss.Color("5")
	case LevelAudit:
		return lipgloss.Color("4")
	default:
		return lipgloss.Color("")
	}
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel parses a string into a log level
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "trc":
		return LevelTrace, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf", "information":
		return LevelInfo, nil
	case "warn", "wrn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "fatal", "ftl":
		return LevelFatal, nil
	case "audit", "aud":
		return LevelAudit, nil
	default:
		return LevelInfo, &ParseError{
			Input: level,
			Type:  "level",
		}
	}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// AllLevels returns all available log levels
func AllLevels() []Level {
	return []Level{
		LevelTrace,
		LevelDebug,
		LevelInfo,
		LevelWarn,
		LevelError,
		LevelFatal,
		LevelAudit,
	}
}

// DefaultLevel returns the default log level
func DefaultLevel() Level {
	return LevelInfo
}
