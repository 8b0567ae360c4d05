package errors

import (
	"testing"
)

func TestValidatePuzzleID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "gbw-042", false},
		{"valid date", "2024.03.17", false},
		{"valid underscore", "mini_7", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"leading dot", ".hidden", true},
		{"control char", "foo\x01bar", true},
		{"space", "my puzzle", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePuzzleID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePuzzleID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePuzzleID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "puzzle_images/gbw-042.png", false},
		{"absolute", "/tmp/out.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
