// File: errors.go
// Title: Runtime Errors
// Description: RuntimeError attributes an execution failure to the source
//              line of the statement that raised it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package executor

import (
	"errors"
	"fmt"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
)

// RuntimeError is returned by Execute for the first failing statement
type RuntimeError struct {
	Line int
	Kind graberror.Code
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err.Error())
}

// Unwrap returns the underlying error
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Code returns the error code of the underlying failure
func (e *RuntimeError) Code() graberror.Code {
	return e.Kind
}

// AsRuntimeError returns the RuntimeError in the chain of err
func AsRuntimeError(err error) (*RuntimeError, bool) {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return rt, true
	}
	return nil, false
}

func kindOf(err error) graberror.Code {
	if code := graberror.GetCode(err); code != "" && code != graberror.CodeUnknown {
		return code
	}
	return graberror.CodeExecution
}

// unboundVariable reports a missing variable together with the user
// variables that are available
func unboundVariable(name string, env *grabvalue.Environment, operation string) error {
	available := env.UserNames()
	msg := fmt.Sprintf("variable '%s' not found", name)
	if len(available) > 0 {
		msg += ". Available: " + strings.Join(available, ", ")
	}
	return graberror.New(msg).
		WithCode(graberror.CodeUnboundVariable).
		WithOperation(operation).
		WithDetail("variable", name).
		WithDetail("available", available)
}
