package service

import (
	"strings"
	"testing"
)

func TestFileReader_ValidatePattern(t *testing.T) {
	fr := NewEmbeddingFileReader()

	tests := []struct {
		name        string
		pattern     string
		expectError bool
		errorSubstr string
	}{
		{
			name:        "simple wildcard",
			pattern:     "*.json",
			expectError: false,
		},
		{
			name:        "test file pattern",
			pattern:     "test_*.json",
			expectError: false,
		},
		{
			name:        "directory with globstar",
			pattern:     "node_modules/**",
			expectError: false,
		},
		{
			name:        "globstar with suffix",
			pattern:     "**/vectors.json",
			expectError: false,
		},
		{
			name:        "complex but valid path",
			pattern:     "data/*/embeddings/*.json",
			expectError: false,
		},
		{
			name:        "character class is valid doublestar syntax",
			pattern:     "[abc]*.json",
			expectError: false,
		},
		{
			name:        "brace expansion is valid doublestar syntax",
			pattern:     "*.{json,csv}",
			expectError: false,
		},
		{
			name:        "regex dot-star",
			pattern:     ".*json",
			expectError: true,
			errorSubstr: "looks like regex syntax",
		},
		{
			name:        "regex with dollar",
			pattern:     "vectors.json$",
			expectError: true,
			errorSubstr: "regex anchors",
		},
		{
			name:        "regex with caret",
			pattern:     "^vectors.json",
			expectError: true,
			errorSubstr: "regex anchors",
		},
		{
			name:        "escaped asterisk",
			pattern:     "\\*.json",
			expectError: true,
			errorSubstr: "escaped characters",
		},
		{
			name:        "empty pattern",
			pattern:     "",
			expectError: true,
			errorSubstr: "empty pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fr.validatePattern(tt.pattern)

			if tt.expectError {
				if err == nil {
					t.Errorf("validatePattern(%q) should have returned an error", tt.pattern)
					return
				}
				if tt.errorSubstr != "" && !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("validatePattern(%q) error %q should contain %q", tt.pattern, err.Error(), tt.errorSubstr)
				}
			} else {
				if err != nil {
					t.Errorf("validatePattern(%q) should not have returned an error, got: %v", tt.pattern, err)
				}
			}
		})
	}
}

func TestFileReader_ValidatePatterns(t *testing.T) {
	fr := NewEmbeddingFileReader()

	tests := []struct {
		name        string
		patterns    []string
		patternType string
		expectError bool
		errorSubstr string
	}{
		{
			name:        "all valid patterns",
			patterns:    []string{"*.json", "test_*.json", "node_modules/**"},
			patternType: "exclude",
			expectError: false,
		},
		{
			name:        "mixed valid and invalid",
			patterns:    []string{"*.json", "^bad.json", "node_modules/**"},
			patternType: "include",
			expectError: true,
			errorSubstr: "invalid include pattern '^bad.json'",
		},
		{
			name:        "multiple invalid patterns - reports first",
			patterns:    []string{"^bad.json", "worse.json$"},
			patternType: "exclude",
			expectError: true,
			errorSubstr: "invalid exclude pattern '^bad.json'",
		},
		{
			name:        "empty patterns list",
			patterns:    []string{},
			patternType: "exclude",
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fr.validatePatterns(tt.patterns, tt.patternType)

			if tt.expectError {
				if err == nil {
					t.Errorf("validatePatterns(%v, %q) should have returned an error", tt.patterns, tt.patternType)
					return
				}
				if tt.errorSubstr != "" && !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("validatePatterns(%v, %q) error %q should contain %q", tt.patterns, tt.patternType, err.Error(), tt.errorSubstr)
				}
			} else {
				if err != nil {
					t.Errorf("validatePatterns(%v, %q) should not have returned an error, got: %v", tt.patterns, tt.patternType, err)
				}
			}
		})
	}
}

func TestFileReader_CollectEmbeddingFiles_ValidationIntegration(t *testing.T) {
	fr := NewEmbeddingFileReader()

	_, err := fr.CollectEmbeddingFiles(
		[]string{"."},
		true,
		[]string{"*.json"},
		[]string{"^bad.json"},
	)

	if err == nil {
		t.Error("CollectEmbeddingFiles should have failed due to invalid exclude pattern")
		return
	}

	if !strings.Contains(err.Error(), "invalid exclude pattern") {
		t.Errorf("Error should mention invalid exclude pattern, got: %v", err)
	}
}
