package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewError(ErrCodeTransport, "generation endpoint returned an error", nil)
	wrapped := fmt.Errorf("generate: %w", err)

	if !errors.Is(wrapped, ErrTransport) {
		t.Errorf("errors.Is(wrapped, ErrTransport) = false, want true")
	}
	if errors.Is(wrapped, ErrEmptyResponse) {
		t.Errorf("transport error must not match ErrEmptyResponse")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewError(ErrCodeNavigation, "entry page unreachable", cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrCodeTransport, Message: "upstream failed", Status: 502, Body: `{"error":"bad gateway"}`}
	got := err.Error()
	for _, want := range []string{"TRANSPORT_FAILED", "status 502", "bad gateway"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"classified", NewError(ErrCodeInvalidInput, "keyword is required", nil), ErrCodeInvalidInput},
		{"wrapped", fmt.Errorf("x: %w", NewError(ErrCodeAuthConfig, "no key", nil)), ErrCodeAuthConfig},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
