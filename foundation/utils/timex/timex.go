// File: timex.go
// Title: Core Time Utilities
// Description: Formats durations compactly (1d2h3m) and describes how long
//              ago a moment was.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-25
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2026-10-14 v0.1.1: Business day, timezone and range helpers removed

package timex

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationCompact formats a duration as 1d2h3m4s. Components of zero
// are left out; sub-second durations are shown in milliseconds.
func FormatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	var b strings.Builder
	units := []struct {
		size   time.Duration
		suffix string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}
	for _, u := range units {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			d -= n * u.size
		}
	}
	return b.String()
}

// Ago describes how long before now t was, in its largest unit:
// "just now", "5 minutes ago", "3 days ago"
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}

	var n int
	var unit string
	switch {
	case d < time.Hour:
		n, unit = int(d/time.Minute), "minute"
	case d < 24*time.Hour:
		n, unit = int(d/time.Hour), "hour"
	default:
		n, unit = int(d/(24*time.Hour)), "day"
	}
	return fmt.Sprintf("%d %s%s ago", n, unit, pluralSuffix(n))
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
