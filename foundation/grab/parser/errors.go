// File: errors.go
// Title: Syntax Errors
// Description: SyntaxError is returned by the lexer and the parser. It
//              carries the line and, where known, the column of the
//              offending input.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package parser

import (
	"errors"
	"fmt"

	graberror "github.com/msto63/grab/foundation/core/error"
)

// SyntaxError represents a lexing or parsing error with position information
type SyntaxError struct {
	Message string
	Line    int
	Column  int // 0 when unknown
	Token   string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error at line %d", e.Line)
	if e.Column > 0 {
		msg += fmt.Sprintf(", column %d", e.Column)
	}
	msg += ": " + e.Message
	if e.Token != "" {
		msg += fmt.Sprintf(" (near '%s')", e.Token)
	}
	return msg
}

// Code returns the error code shared with coded errors
func (e *SyntaxError) Code() graberror.Code {
	return graberror.CodeSyntax
}

// AsSyntaxError returns the SyntaxError in the chain of err
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
