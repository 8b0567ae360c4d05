package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGrid, "row %d is ragged", 3)

	if err.Code != ErrCodeInvalidGrid {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGrid)
	}

	if err.Message != "row 3 is ragged" {
		t.Errorf("Message = %v, want %v", err.Message, "row 3 is ragged")
	}

	expected := "INVALID_GRID: row 3 is ragged"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeEncode, cause, "write puzzle.png")

	if err.Code != ErrCodeEncode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEncode)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidGrid, "test"),
			code:     ErrCodeInvalidGrid,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidGrid, "test"),
			code:     ErrCodeEncode,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeEncode, New(ErrCodeInvalidFormat, "inner"), "outer"),
			code:     ErrCodeEncode,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidDimensions, "test"), ErrCodeInvalidDimensions},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q, want %q", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidGrid, "x"), true},
		{New(ErrCodeInvalidConfig, "x"), true},
		{New(ErrCodeInvalidFormat, "x"), true},
		{New(ErrCodeEncode, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsInvalid(tt.err); got != tt.want {
			t.Errorf("IsInvalid(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidGrid,
		ErrCodeInvalidDimensions,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeEncode,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
