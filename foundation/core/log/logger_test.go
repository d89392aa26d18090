// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context derivation, filtering,
//              error integration and timers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	graberror "github.com/msto63/grab/foundation/core/error"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: FormatJSON, Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	logger.Audit("always")

	lines := decodeLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %s", len(lines), buf.String())
	}
	if lines[2]["level"] != "audit" {
		t.Errorf("last level = %v, want audit", lines[2]["level"])
	}
}

func TestLoggerWithDerivesCopies(t *testing.T) {
	base, buf := newBufferLogger(LevelDebug)
	child := base.WithField("component", "grab-parser").WithRunID("run-42").WithName("grab")

	child.Debug("parsed", Fields{"statements": 3})
	base.Debug("plain")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["component"] != "grab-parser" || lines[0]["run_id"] != "run-42" || lines[0]["logger"] != "grab" {
		t.Errorf("child entry = %v", lines[0])
	}
	if lines[0]["statements"] != float64(3) {
		t.Errorf("statements = %v, want 3", lines[0]["statements"])
	}
	if _, ok := lines[1]["component"]; ok {
		t.Errorf("base logger must not inherit child fields: %v", lines[1])
	}
}

func TestLoggerWithLevelDoesNotAffectParent(t *testing.T) {
	base, buf := newBufferLogger(LevelError)
	verbose := base.WithLevel(LevelDebug)

	verbose.Debug("from child")
	base.Debug("from parent")

	if lines := decodeLines(t, buf); len(lines) != 1 {
		t.Errorf("got %d lines, want 1", len(lines))
	}
	if base.IsLevelEnabled(LevelDebug) {
		t.Error("parent level changed")
	}
}

func TestLoggerWithOutputAndFormat(t *testing.T) {
	base, first := newBufferLogger(LevelInfo)
	var second bytes.Buffer
	text := base.WithOutput(&second).WithFormat(FormatText)

	text.Info("hello")
	if first.Len() != 0 {
		t.Errorf("original output received %q", first.String())
	}
	if !strings.Contains(second.String(), "[INF] hello") {
		t.Errorf("text output = %q", second.String())
	}
}

func TestLoggerErrorWithErr(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)
	logger.ErrorWithErr("fetch failed", errors.New("dial tcp"))
	logger.WarnWithErr("retrying", errors.New("timeout"))

	lines := decodeLines(t, buf)
	if lines[0]["error"] != "dial tcp" || lines[0]["level"] != "error" {
		t.Errorf("ErrorWithErr entry = %v", lines[0])
	}
	if lines[1]["error"] != "timeout" || lines[1]["level"] != "warn" {
		t.Errorf("WarnWithErr entry = %v", lines[1])
	}
}

func TestLoggerLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"low severity", graberror.New("bad args").WithCode(graberror.CodeCommandArgument), "info"},
		{"medium severity", graberror.New("fetch").WithCode(graberror.CodeFetch), "warn"},
		{"high severity", graberror.New("config").WithCode(graberror.CodeConfig), "error"},
		{"plain error", errors.New("plain"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace)
			logger.LogError(tt.err)
			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.wantLevel)
			}
		})
	}

	logger, buf := newBufferLogger(LevelTrace)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestLoggerLogErrorDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace)
	logger.LogError(graberror.New("unbound").
		WithCode(graberror.CodeUnboundVariable).
		WithOperation("PRINT").
		WithDetail("variable", "links"))

	line := decodeLines(t, buf)[0]
	if line["error_code"] != "UNBOUND_VARIABLE" {
		t.Errorf("error_code = %v", line["error_code"])
	}
	if line["error_operation"] != "PRINT" {
		t.Errorf("error_operation = %v", line["error_operation"])
	}
	if line["error_variable"] != "links" {
		t.Errorf("error_variable = %v", line["error_variable"])
	}
}

func TestLoggerWithCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Format: FormatText, Output: &buf}).WithCaller(0)
	logger.Info("x")
	if buf.Len() == 0 {
		t.Fatal("nothing logged")
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	timer := logger.StartTimer("script run").WithField("script", "a.grab")
	if !timer.IsRunning() {
		t.Fatal("new timer is not running")
	}
	timer.Stop()
	if timer.IsRunning() {
		t.Error("stopped timer is running")
	}
	if d := timer.Stop(); d != 0 {
		t.Errorf("second Stop() = %v, want 0", d)
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "script run completed" || lines[0]["script"] != "a.grab" {
		t.Errorf("timer entry = %v", lines[0])
	}
	if _, ok := lines[0]["duration_ms"]; !ok {
		t.Error("duration_ms missing")
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	logger.StartTimer("fetch").StopWithError(errors.New("refused"))

	line := decodeLines(t, buf)[0]
	if line["message"] != "fetch failed" || line["level"] != "error" || line["success"] != false {
		t.Errorf("entry = %v", line)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	if logger.IsLevelEnabled(LevelError) {
		t.Error("Discard logger enables error level")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	logger, _ := newBufferLogger(LevelDebug)
	SetDefault(logger)
	if GetDefault() != logger {
		t.Error("GetDefault() did not return the logger set by SetDefault()")
	}
}

func BenchmarkLoggerInfo(b *testing.B) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark", Fields{"i": i})
	}
}
