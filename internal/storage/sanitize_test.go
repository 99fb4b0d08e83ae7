package storage

import "testing"

func TestSanitizeSearchTerm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Alpha U", "Alpha U"},
		{"percent", "100%", "100\\%"},
		{"underscore", "main_campus", "main\\_campus"},
		{"backslash", "a\\b", "a\\\\b"},
		{"mixed", "%_\\", "\\%\\_\\\\"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeSearchTerm(tt.input); got != tt.expected {
				t.Errorf("sanitizeSearchTerm(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
