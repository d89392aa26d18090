// File: doc.go
// Title: Script Executor Package Documentation
// Description: Package documentation for the tree-walking executor.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial documentation

/*
Package executor runs parsed grab scripts.

The Engine walks the tree depth first. Each command line is resolved
through the registry and invoked with the shared environment; a non-null
result becomes _last_result. Block bodies run in the same environment as
their parent, so loop variables and everything a body binds stay visible
after the loop.

FOR visits 0..n-1 for RANGE n, or the items of a variable. WHILE re-checks
its condition after every pass and stops after MaxWhileIterations with a
Warning instead of an error. ELIF and ELSE clauses are kept in the tree but
not run.

The first failing statement ends the run with a *RuntimeError carrying the
line of that statement and the error code of the cause.
*/
package executor
