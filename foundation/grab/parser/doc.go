// File: doc.go
// Title: Script Parser Package Documentation
// Description: Package documentation for the tokenizer and the recursive
//              descent parser of grab scripts.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial documentation

/*
Package parser turns grab script text into a syntax tree.

Scripts are line oriented. Every physical line holds at most one statement,
and blocks opened with '{' on a control header line are the only multi-line
construct:

	LOAD URL "https://example.com"
	SELECT ALL "a"
	FOR link IN _last_result {
	    PRINT link
	}

The lexer classifies each word by the keyword sets and by its position on
the line. The parser builds ast nodes with one token of lookahead. Conditions
of IF and WHILE are not parsed structurally; their text is stored in a
Condition node and interpreted at run time.

Any lexical or syntax problem is reported as a *SyntaxError carrying line and
column, and no partial tree is returned.
*/
package parser
