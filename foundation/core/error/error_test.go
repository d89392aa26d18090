// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and metadata.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-14 v0.1.1: Chain-aware lookups and run ids

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestNewf(t *testing.T) {
	err := Newf("variable %q not found", "links")
	if got, want := err.Error(), `variable "links" not found`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:    "wrap standard error",
			err:     errors.New("original error"),
			message: "wrapper message",
			wantMsg: "wrapper message: original error",
		},
		{
			name:    "wrap coded error",
			err:     New("original error").WithCode(CodeFetch),
			message: "wrapper message",
			wantMsg: "wrapper message: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)

			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}
			if wrapped == nil {
				t.Fatal("Wrap() returned nil")
			}
			if wrapped.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tt.wantMsg)
			}
			if inner, ok := tt.err.(*Error); ok && wrapped.Code() != inner.Code() {
				t.Errorf("Code() = %v, want %v", wrapped.Code(), inner.Code())
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	original := errors.New("root cause")
	middle := Wrap(original, "middle layer")
	top := Wrap(middle, "top layer")

	if want := "top layer: middle layer: root cause"; top.Error() != want {
		t.Errorf("Error() = %q, want %q", top.Error(), want)
	}
	if !errors.Is(top, middle) {
		t.Error("errors.Is() should find middle layer")
	}
	if !errors.Is(top, original) {
		t.Error("errors.Is() should find original error")
	}
	if rootCause := top.RootCause(); rootCause != original {
		t.Errorf("RootCause() = %v, want %v", rootCause, original)
	}
}

func TestWrapTruncatesDeepChains(t *testing.T) {
	var err error = errors.New("root")
	for i := 0; i < MaxErrorChainDepth+2; i++ {
		err = Wrap(err, fmt.Sprintf("layer %d", i))
	}
	e, ok := As(err)
	if !ok {
		t.Fatal("As() = false, want true")
	}
	if v, _ := e.Detail("truncated"); v != true {
		t.Errorf("Detail(truncated) = %v, want true", v)
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeUnknownCommand, SeverityLow},
		{CodeFetch, SeverityMedium},
		{CodeConfig, SeverityHigh},
		{CodeInternal, SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityCritical).WithCode(CodeSyntax)
	if explicit.Severity() != SeverityCritical {
		t.Errorf("explicit Severity() = %v, want %v", explicit.Severity(), SeverityCritical)
	}
}

func TestDetails(t *testing.T) {
	err := New("x").
		WithDetail("line", 4).
		WithDetails(map[string]interface{}{"command": "GET"})

	details := err.Details()
	if details["line"] != 4 {
		t.Errorf("details[line] = %v, want 4", details["line"])
	}
	if details["command"] != "GET" {
		t.Errorf("details[command] = %v, want GET", details["command"])
	}

	details["line"] = 99
	if v, _ := err.Detail("line"); v != 4 {
		t.Errorf("Details() must return a copy, got line = %v", v)
	}
}

func TestHasCodeThroughChain(t *testing.T) {
	inner := New("boom").WithCode(CodeUnboundVariable)
	outer := fmt.Errorf("line 3: %w", inner)

	if !HasCode(outer, CodeUnboundVariable) {
		t.Error("HasCode() = false, want true")
	}
	if HasCode(outer, CodeSyntax) {
		t.Error("HasCode(CodeSyntax) = true, want false")
	}
	if HasCode(errors.New("plain"), CodeUnknown) {
		t.Error("HasCode(plain) = true, want false")
	}
	if got := GetCode(outer); got != CodeUnboundVariable {
		t.Errorf("GetCode() = %v, want %v", got, CodeUnboundVariable)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v, want %v", got, CodeUnknown)
	}
	if got := GetSeverity(outer); got != SeverityLow {
		t.Errorf("GetSeverity() = %v, want %v", got, SeverityLow)
	}
}

func TestString(t *testing.T) {
	err := New("no document").
		WithCode(CodeCommandArgument).
		WithOperation("SELECT ALL").
		WithRunID("run-1").
		WithDetail("b", 2).
		WithDetail("a", 1)

	s := err.String()
	for _, want := range []string{
		"Error: no document",
		"Code: COMMAND_ARGUMENT",
		"Operation: SELECT ALL",
		"RunID: run-1",
		"Details: {a=1, b=2}",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in:\n%s", want, s)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("dial tcp"), "fetch failed").
		WithCode(CodeFetch).
		WithOperation("LOAD URL").
		WithDetail("url", "http://x")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}
	if decoded["code"] != "FETCH_ERROR" {
		t.Errorf("code = %v, want FETCH_ERROR", decoded["code"])
	}
	if decoded["severity"] != "medium" {
		t.Errorf("severity = %v, want medium", decoded["severity"])
	}
	if decoded["operation"] != "LOAD URL" {
		t.Errorf("operation = %v, want LOAD URL", decoded["operation"])
	}
	if decoded["cause"] != "dial tcp" {
		t.Errorf("cause = %v, want dial tcp", decoded["cause"])
	}
}

func TestStackTracePointsAtCaller(t *testing.T) {
	err := New("x")
	frames := err.StackTrace()
	if len(frames) == 0 {
		t.Fatal("StackTrace() is empty")
	}
	if !strings.Contains(frames[0].Function, "TestStackTracePointsAtCaller") {
		t.Errorf("frames[0].Function = %q, want the test function", frames[0].Function)
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		code     Code
		valid    bool
		category string
	}{
		{CodeSyntax, true, "parse"},
		{CodeUnknownCommand, true, "runtime"},
		{CodeCommandArgument, true, "runtime"},
		{CodeUnboundVariable, true, "runtime"},
		{CodeFetch, true, "network"},
		{CodeIO, true, "storage"},
		{CodeConfig, true, "configuration"},
		{CodeNotFound, true, "generic"},
		{Code("BOGUS"), false, "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.code.Category(); got != tt.category {
				t.Errorf("Category() = %q, want %q", got, tt.category)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityLow, "low"},
		{SeverityMedium, "medium"},
		{SeverityHigh, "high"},
		{SeverityCritical, "critical"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
	if SeverityMedium.ShouldAlert() {
		t.Error("SeverityMedium.ShouldAlert() = true, want false")
	}
	if !SeverityHigh.ShouldAlert() {
		t.Error("SeverityHigh.ShouldAlert() = false, want true")
	}
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = New("benchmark error")
	}
}

func BenchmarkWrap(b *testing.B) {
	base := New("base").WithCode(CodeFetch)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Wrap(base, "wrapped")
	}
}
