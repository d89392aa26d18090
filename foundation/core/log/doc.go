// Package log provides structured logging for grab.
//
// Package: log
// Title: Structured Logging Framework
// Description: Leveled, structured logging with context fields, run ids,
//              JSON/text/console/logfmt output and integration with coded
//              errors. Interpreter components derive their logger with
//              WithField("component", ...) and trace statements at Debug.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-14 v0.1.1: Run ids, lipgloss console output
//
// Usage:
//
//	import grablog "github.com/msto63/grab/foundation/core/log"
//
//	logger := grablog.NewWithConfig(grablog.Config{
//		Level:  grablog.LevelDebug,
//		Format: grablog.FormatConsole,
//		Output: os.Stderr,
//	}).WithField("component", "grab-executor")
//
//	logger.Debug("executing statement", grablog.Fields{"line": 3, "kind": "Command"})
//
//	timer := logger.StartTimer("script run")
//	// ... run the script
//	timer.Stop()
package log
