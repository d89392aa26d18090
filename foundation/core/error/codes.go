// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across grab: script syntax and
//              execution failures, command resolution, fetch and file I/O.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-14 v0.1.1: Replaced platform codes with script interpreter codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Script language
	CodeSyntax          Code = "SYNTAX_ERROR"
	CodeUnknownCommand  Code = "UNKNOWN_COMMAND"
	CodeCommandArgument Code = "COMMAND_ARGUMENT"
	CodeUnboundVariable Code = "UNBOUND_VARIABLE"
	CodeExecution       Code = "EXECUTION_ERROR"

	// Collaborators
	CodeFetch  Code = "FETCH_ERROR"
	CodeIO     Code = "IO_ERROR"
	CodeConfig Code = "CONFIG_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeSyntax, CodeUnknownCommand, CodeCommandArgument, CodeUnboundVariable, CodeExecution,
		CodeFetch, CodeIO, CodeConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeSyntax:
		return "parse"
	case CodeUnknownCommand, CodeCommandArgument, CodeUnboundVariable, CodeExecution:
		return "runtime"
	case CodeFetch, CodeTimeout:
		return "network"
	case CodeIO:
		return "storage"
	case CodeConfig:
		return "configuration"
	default:
		return "generic"
	}
}
