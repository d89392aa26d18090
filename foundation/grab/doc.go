// File: doc.go
// Title: Grab Script Language
// Description: Package documentation for the grab interpreter.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial documentation

/*
Package grab is the entry point of the grab scraping script language.

A script is a sequence of command lines with IF, FOR and WHILE blocks:

	LOAD URL "https://example.com"
	SELECT ALL "a"
	SAVE links
	FOR link IN links {
	    GET ATTR "href"
	    PRINT _last_result
	}

The subpackages hold the pieces: parser (tokenizer and parser), ast,
value (values and environment), condition, registry (commands and their
resolution) and executor. Interpreter ties them together:

	reg := registry.New(registry.Options{})
	// register commands
	interp, err := grab.New(grab.Options{Registry: reg})
	result, err := interp.RunFile(ctx, "page.grab")
*/
package grab
