package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNavErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := New(ProviderInternalFailure, "load failed", cause)

	if !strings.Contains(err.Error(), "PROVIDER_INTERNAL_FAILURE") {
		t.Errorf("Expected code in message, got %s", err.Error())
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Expected cause in message, got %s", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected Unwrap to reach the cause")
	}
}

func TestFromErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nav error passes through", NewSymbolNotFound("no symbol at position"), SymbolNotFound},
		{"wrapped nav error", fmt.Errorf("outer: %w", NewDescriptorNotFound("/src/a.cs")), DescriptorNotFound},
		{"context canceled", context.Canceled, OperationCanceled},
		{"deadline exceeded", context.DeadlineExceeded, OperationCanceled},
		{"unknown error", fmt.Errorf("boom"), ProviderInternalFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CodeOf(tt.err)
			if got != tt.want {
				t.Errorf("CodeOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestFromErrorNil(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestDetails(t *testing.T) {
	err := NewDescriptorNotFound("/work/src/Program.cs")
	details, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("Expected map details, got %T", err.Details)
	}
	if details["searchedPath"] != "/work/src/Program.cs" {
		t.Errorf("Expected searchedPath detail, got %v", details)
	}
}
