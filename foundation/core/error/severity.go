// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so the CLI and the logger
//              can rank failures consistently.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-14 v0.1.1: Severity mapping for script interpreter codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks user mistakes in a script: bad syntax, wrong arguments
	SeverityLow Severity = iota

	// SeverityMedium marks failures of a single run: fetch errors, missing elements
	SeverityMedium

	// SeverityHigh marks failures of the environment: unreadable config, broken cache
	SeverityHigh

	// SeverityCritical marks internal faults
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Level returns the numeric level of the severity (0-3)
func (s Severity) Level() int {
	return int(s)
}

// ShouldAlert returns true if this severity level should be surfaced prominently
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the severity level of an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeConfig, CodeIO:
		return SeverityHigh

	case CodeFetch, CodeTimeout, CodeExecution, CodeNotFound:
		return SeverityMedium

	case CodeSyntax, CodeUnknownCommand, CodeCommandArgument, CodeUnboundVariable, CodeInvalidInput:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
