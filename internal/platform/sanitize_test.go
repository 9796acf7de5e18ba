package platform

import (
	"strings"
	"testing"
)

func TestSanitizeFilename_ForbiddenCharacters(t *testing.T) {
	input := "abc/def:ghi*?\"<>|\n"
	result := SanitizeFilename(input)

	if result == "" {
		t.Fatal("Expected non-empty result")
	}

	for _, forbidden := range []string{"\\", "/", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r", "\t"} {
		if strings.Contains(result, forbidden) {
			t.Errorf("Result %q contains forbidden character %q", result, forbidden)
		}
	}
}

func TestSanitizeFilename_Table(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"My Video", "My Video"},
		{"a/b", "a_b"},
		{"  spaced  ", "spaced"},
		{"..dotted..", "dotted"},
		{" .mixed. ", "mixed"},
		{"tab\there", "tab_here"},
		{"pipe|colon:", "pipe_colon_"},
	}

	for _, test := range tests {
		result := SanitizeFilename(test.input)
		if result != test.expected {
			t.Errorf("SanitizeFilename(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestSanitizeFilename_Truncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	result := SanitizeFilename(long)

	if len([]rune(result)) != DefaultMaxNameLength {
		t.Errorf("Expected length %d, got %d", DefaultMaxNameLength, len([]rune(result)))
	}

	custom := SanitizeFilenameN(long, 10)
	if custom != strings.Repeat("a", 10) {
		t.Errorf("SanitizeFilenameN truncation failed, got %q", custom)
	}
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	inputs := []string{"My Video", "already_clean", "short name 123"}
	for _, input := range inputs {
		once := SanitizeFilename(input)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("SanitizeFilename not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestSanitizeFilename_MultibyteTruncation(t *testing.T) {
	input := strings.Repeat("я", 100)
	result := SanitizeFilename(input)
	if got := len([]rune(result)); got != DefaultMaxNameLength {
		t.Errorf("Expected %d runes, got %d", DefaultMaxNameLength, got)
	}
}
