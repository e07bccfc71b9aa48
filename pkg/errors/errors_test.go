package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidImport, "missing %s field", "nodes")

	if err.Code != ErrCodeInvalidImport {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidImport)
	}
	if err.Message != "missing nodes field" {
		t.Errorf("Message = %q, want %q", err.Message, "missing nodes field")
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "generation request failed")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"MatchingCode", New(ErrCodeNetwork, "timeout"), ErrCodeNetwork, true},
		{"DifferentCode", New(ErrCodeNetwork, "timeout"), ErrCodeInvalidImport, false},
		{"WrappedError", fmt.Errorf("context: %w", New(ErrCodePersistence, "save failed")), ErrCodePersistence, true},
		{"PlainError", stderrors.New("plain"), ErrCodeNetwork, false},
		{"NilError", nil, ErrCodeNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeMalformedResponse, "not json")); got != ErrCodeMalformedResponse {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeMalformedResponse)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestErrorString(t *testing.T) {
	plain := New(ErrCodePersistence, "save failed")
	if got := plain.Error(); got != "PERSISTENCE_ERROR: save failed" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeNetwork, stderrors.New("eof"), "fetch")
	if got := wrapped.Error(); got != "NETWORK_ERROR: fetch: eof" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeMissingCredentials, stderrors.New("env empty"), "no API key configured")
	if got := UserMessage(err); got != "no API key configured" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("raw")); got != "raw" {
		t.Errorf("UserMessage() = %q", got)
	}
}
