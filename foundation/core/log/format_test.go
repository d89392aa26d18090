// File: format_test.go
// Title: Log Formatter Tests
// Description: Tests for the JSON, text, console and logfmt formatters.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with formatter tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	graberror "github.com/msto63/grab/foundation/core/error"
)

func testEntry() *Entry {
	entry := NewEntry(LevelWarn, "loop truncated")
	entry.Timestamp = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	entry.Logger = "grab"
	entry.RunID = "0123456789abcdef"
	entry.Fields["line"] = 7
	entry.Fields["component"] = "grab-executor"
	return entry
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"TEXT", FormatText, false},
		{"console", FormatConsole, false},
		{"logfmt", FormatLogfmt, false},
		{"xml", FormatJSON, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !tt.wantErr && got.String() != strings.ToLower(tt.input) {
			t.Errorf("Format.String() = %v, want %v", got.String(), strings.ToLower(tt.input))
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	data, err := NewJSONFormatter().Format(testEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for key, want := range map[string]interface{}{
		"level":     "warn",
		"message":   "loop truncated",
		"logger":    "grab",
		"run_id":    "0123456789abcdef",
		"component": "grab-executor",
		"line":      float64(7),
	} {
		if decoded[key] != want {
			t.Errorf("%s = %v, want %v", key, decoded[key], want)
		}
	}
}

func TestJSONFormatterCodedError(t *testing.T) {
	entry := testEntry()
	entry.Error = graberror.New("no document").WithCode(graberror.CodeCommandArgument)

	data, err := NewJSONFormatter().Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	details, ok := decoded["error_details"].(map[string]interface{})
	if !ok {
		t.Fatalf("error_details missing in %s", data)
	}
	if details["code"] != "COMMAND_ARGUMENT" {
		t.Errorf("error_details.code = %v, want COMMAND_ARGUMENT", details["code"])
	}
}

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()
	data, _ := f.Format(testEntry())
	got := string(data)
	want := "09:30:00 [WRN] {grab} (run=01234567) loop truncated [component=grab-executor line=7]\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	f.DisableTimestamp = true
	data, _ = f.Format(testEntry())
	if strings.HasPrefix(string(data), "09:30:00") {
		t.Errorf("DisableTimestamp output = %q", data)
	}
}

func TestConsoleFormatterPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatterFor(&buf)
	data, _ := f.Format(testEntry())
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("console output for a non-terminal contains escape codes: %q", data)
	}
	if !strings.Contains(string(data), "[WRN]") {
		t.Errorf("console output = %q, want level tag", data)
	}
}

func TestLogfmtFormatter(t *testing.T) {
	entry := testEntry()
	entry.Error = errors.New("boom")
	data, _ := NewLogfmtFormatter().Format(entry)
	got := string(data)
	for _, want := range []string{
		"level=warn",
		`message="loop truncated"`,
		"run_id=0123456789abcdef",
		`component="grab-executor" line=7`,
		`error="boom"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() = %q, missing %q", got, want)
		}
	}
}

func TestGetFormatter(t *testing.T) {
	if _, ok := GetFormatter(FormatText, nil).(*TextFormatter); !ok {
		t.Error("GetFormatter(FormatText) is not a *TextFormatter")
	}
	if _, ok := GetFormatter(FormatConsole, &bytes.Buffer{}).(*ConsoleFormatter); !ok {
		t.Error("GetFormatter(FormatConsole) is not a *ConsoleFormatter")
	}
	if _, ok := GetFormatter(Format(99), nil).(*JSONFormatter); !ok {
		t.Error("GetFormatter(unknown) is not a *JSONFormatter")
	}
}
