package service

import (
	"strings"

	"github.com/ludo-technologies/annforest/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns initializes error pattern mappings
func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"invalid input",
			"no embedding files found",
			"path",
			"directory",
			"file not found",
			"cannot access",
			"permission denied",
			"dimension mismatch",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"configuration",
			"invalid format",
			"invalid settings",
			"missing configuration",
			"toml",
			"yaml",
			"json",
		},
		domain.ErrorCategoryTimeout: {
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
			"exceeded",
		},
		domain.ErrorCategoryOutput: {
			"write",
			"output",
			"format",
			"cannot create",
			"failed to generate",
			"snapshot",
		},
		domain.ErrorCategoryProcessing: {
			"fit",
			"build",
			"index",
			"tree",
			"failed to build forest",
			"split",
		},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	// Categories are tried in a fixed order so that a message matching
	// several of them always gets the first one listed here.
	for _, category := range []domain.ErrorCategory{
		domain.ErrorCategoryInput,
		domain.ErrorCategoryConfig,
		domain.ErrorCategoryTimeout,
		domain.ErrorCategoryOutput,
		domain.ErrorCategoryProcessing,
	} {
		if containsAnyPattern(errMsg, ec.patterns[category]) {
			message := ec.getCategoryMessage(category)
			return &domain.CategorizedError{
				Category: category,
				Message:  message,
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the embedding file paths/globs resolve to existing files",
			"Check that --include/--exclude patterns do not filter out the intended files",
			"Ensure you have read permissions for the target files",
			"Verify query vectors match the embedding store's dimensionality",
		},
		domain.ErrorCategoryConfig: {
			"Verify .annforest.toml format and values",
			"Check for syntax errors in .annforest.toml",
			"Ensure required configuration fields (n_trees, max_nodes_per_leaf) are present",
		},
		domain.ErrorCategoryTimeout: {
			"Consider building with fewer trees (--n-trees); parallel work stops after 10 minutes",
			"Try building a subset of the embeddings first",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Omit --json/--yaml to use the default text output, or check file system permissions",
			"Ensure the snapshot's output directory exists and is writable",
		},
		domain.ErrorCategoryProcessing: {
			"Some embeddings may be malformed or have inconsistent dimensions",
			"Try annforest build --n-trees 1 to reproduce the failure on a single tree",
			"Check that n_trees and max_nodes_per_leaf are positive",
		},
		domain.ErrorCategoryUnknown: {
			"Check the full error message for the step that failed",
			"Check the documentation for known issues",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to process embedding files or query input",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Forest build or query timed out",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while building or querying the forest",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
