// Package timex provides time formatting helpers used across grab.
//
// Package: timex
// Title: Extended Time Operations
// Description: Compact duration formatting and relative ages for command
//              line output such as cache statistics and run summaries.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-25
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2026-10-14 v0.1.1: Trimmed to duration and age formatting
package timex
