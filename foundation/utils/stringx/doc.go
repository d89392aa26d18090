// Package stringx provides string helpers used across grab.
//
// Package: stringx
// Title: Extended String Operations
// Description: Blank checks, Unicode-safe truncation, quote trimming and
//              whitespace collapsing. All functions are pure and safe for
//              concurrent use.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-14 v0.1.1: Trimmed to the helpers the interpreter uses
package stringx
