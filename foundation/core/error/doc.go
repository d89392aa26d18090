// Package error provides coded, contextual errors for grab.
//
// Package: error
// Title: Error Handling Framework
// Description: Structured errors with codes, severities, operations, details
//              and stack traces. The interpreter, the commands and the CLI all
//              report failures through this package so the exit status and the
//              log output can be derived from the code.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-14 v0.1.1: Script interpreter codes
//
// Usage:
//
//	import graberror "github.com/msto63/grab/foundation/core/error"
//
//	err := graberror.New("no HTML document loaded").
//		WithCode(graberror.CodeCommandArgument).
//		WithOperation("SELECT ALL")
//
//	if graberror.HasCode(err, graberror.CodeCommandArgument) {
//		// wrong usage in the script
//	}
package error
