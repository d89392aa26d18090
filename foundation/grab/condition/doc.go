// File: doc.go
// Title: Condition Package Documentation
// Description: Package documentation for the condition mini-language.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial documentation

/*
Package condition evaluates the conditions of IF and WHILE statements.

A condition is the raw text of its header tokens. The recognized forms are
tried in this order:

	name NOT EXISTS      name is unbound
	name EXISTS          name is bound
	name NOT EMPTY       bound and non-empty (or truthy when it has no length)
	name EMPTY           unbound, or empty (or falsy when it has no length)
	name EQUALS value    string equality
	name CONTAINS value  substring test
	name GREATER value   numeric order, else order of string lengths
	name LESS value

Anything else evaluates to false without an error.
*/
package condition
