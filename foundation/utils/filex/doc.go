// Package filex provides file helpers used across grab.
//
// Package: filex
// Title: Extended File Operations
// Description: Existence checks, directory creation, atomic writes and
//              human readable sizes for the files grab produces: JSON
//              output, the page store and log files.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-25
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive file utilities
// - 2026-10-14 v0.1.1: Trimmed to the helpers grab uses, atomic writes added
package filex
