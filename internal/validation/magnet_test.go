package validation

import (
	"strings"
	"testing"
)

func TestValidateMagnet(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
		errorMsg    string
	}{
		{
			name:        "empty",
			input:       "",
			shouldError: true,
			errorMsg:    "cannot be empty",
		},
		{
			name:        "whitespace only",
			input:       " \t ",
			shouldError: true,
			errorMsg:    "cannot be empty",
		},
		{
			name:     "btih magnet",
			input:    "  magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=ubuntu  ",
			expected: "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=ubuntu",
		},
		{
			name:     "uppercase scheme",
			input:    "MAGNET:?xt=urn:btmh:1220abcd",
			expected: "MAGNET:?xt=urn:btmh:1220abcd",
		},
		{
			name:        "http url",
			input:       "https://example.org/file.torrent",
			shouldError: true,
			errorMsg:    "not a magnet link",
		},
		{
			name:        "missing xt",
			input:       "magnet:?dn=ubuntu",
			shouldError: true,
			errorMsg:    "exact topic",
		},
		{
			name:        "empty urn",
			input:       "magnet:?xt=urn:",
			shouldError: true,
			errorMsg:    "exact topic",
		},
		{
			name:        "control characters",
			input:       "magnet:?xt=urn:btih:abc\n",
			expected:    "magnet:?xt=urn:btih:abc",
			shouldError: false,
		},
		{
			name:        "embedded control character",
			input:       "magnet:?xt=urn:btih:a\x01bc",
			shouldError: true,
			errorMsg:    "control characters",
		},
		{
			name:        "too long",
			input:       "magnet:?xt=urn:btih:" + strings.Repeat("a", 9000),
			shouldError: true,
			errorMsg:    "too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateMagnet(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ValidateMagnet() = %q, want %q", got, tt.expected)
			}
		})
	}
}
