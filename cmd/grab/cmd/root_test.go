package cmd

import (
	"errors"
	"testing"

	graberror "github.com/msto63/grab/foundation/core/error"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("script not found"), "script not found"},
		{"low severity", graberror.New("unknown command: FOO").WithCode(graberror.CodeUnknownCommand),
			"unknown command: FOO"},
		{"high severity with operation", graberror.New("failed to open page store").
			WithCode(graberror.CodeIO).WithOperation("store.open"),
			"failed to open page store (IO_ERROR in store.open)"},
		{"critical without operation", graberror.New("boom").WithCode(graberror.CodeInternal),
			"boom (INTERNAL_ERROR)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.err); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
