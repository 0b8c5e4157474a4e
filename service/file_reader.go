package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/annforest/domain"
)

// embeddingFileExtensions lists the file extensions CollectEmbeddingFiles
// treats as embedding sources.
var embeddingFileExtensions = map[string]bool{
	".json":  true,
	".jsonl": true,
	".csv":   true,
	".tsv":   true,
	".vec":   true,
	".npy":   true,
}

// EmbeddingFileReader resolves paths, directories, and doublestar glob
// patterns to concrete embedding shard files.
type EmbeddingFileReader struct{}

// NewEmbeddingFileReader creates a new file reader service
func NewEmbeddingFileReader() *EmbeddingFileReader {
	return &EmbeddingFileReader{}
}

// CollectEmbeddingFiles recursively finds all embedding source files in the
// given paths. paths may themselves be files, directories, or doublestar
// glob patterns (e.g. "data/**/*.json").
func (f *EmbeddingFileReader) CollectEmbeddingFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	if err := f.validatePatterns(includePatterns, "include"); err != nil {
		return nil, err
	}
	if err := f.validatePatterns(excludePatterns, "exclude"); err != nil {
		return nil, err
	}

	var files []string

	for _, path := range paths {
		if strings.ContainsAny(path, "*?[") {
			matches, err := doublestar.FilepathGlob(path)
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", path), err)
			}
			for _, m := range matches {
				if f.IsValidEmbeddingFile(m) && f.shouldIncludeFile(m, includePatterns, excludePatterns) {
					files = append(files, m)
				}
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
		} else if f.IsValidEmbeddingFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *EmbeddingFileReader) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidEmbeddingFile checks whether a path's extension marks it as an
// embedding source file.
func (f *EmbeddingFileReader) IsValidEmbeddingFile(path string) bool {
	return embeddingFileExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists
func (f *EmbeddingFileReader) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// collectFromDirectory collects embedding files from a directory
func (f *EmbeddingFileReader) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() && !recursive && path != dirPath {
			return filepath.SkipDir
		}

		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() && f.shouldSkipDirectory(info.Name()) {
			return filepath.SkipDir
		}

		if !info.IsDir() && f.IsValidEmbeddingFile(path) {
			if f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
		}

		return nil
	}

	if err := filepath.Walk(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks if a file should be included based on doublestar patterns
func (f *EmbeddingFileReader) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if f.matchesPattern(pattern, path) {
			return false
		}
	}

	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}

	return false
}

// matchesPattern checks if a path matches a doublestar glob pattern, either
// against the full path or just the base name.
func (f *EmbeddingFileReader) matchesPattern(pattern, path string) bool {
	if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	if matched, _ := doublestar.Match(pattern, filepath.ToSlash(path)); matched {
		return true
	}
	return false
}

// validatePatterns checks for common pattern syntax issues and provides helpful error messages
func (f *EmbeddingFileReader) validatePatterns(patterns []string, patternType string) error {
	for _, pattern := range patterns {
		if err := f.validatePattern(pattern); err != nil {
			return fmt.Errorf("invalid %s pattern '%s': %w", patternType, pattern, err)
		}
	}
	return nil
}

// validatePattern validates a single doublestar pattern for common issues
func (f *EmbeddingFileReader) validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty pattern not allowed")
	}
	if strings.Contains(pattern, "\\") {
		return fmt.Errorf("escaped characters not fully supported, avoid backslashes in patterns")
	}
	if strings.Contains(pattern, ".*") {
		return fmt.Errorf("looks like regex syntax, use glob syntax instead (e.g., '*.json' not '.*\\.json')")
	}
	if strings.HasSuffix(pattern, "$") || strings.HasPrefix(pattern, "^") {
		return fmt.Errorf("regex anchors (^ $) not supported, use glob syntax instead")
	}

	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob syntax")
	}

	return nil
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *EmbeddingFileReader) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		".git",
		".svn",
		".hg",
		".bzr",
		"node_modules",
		"build",
		"dist",
		".cache",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if dirLower == skipDir {
			return true
		}
	}

	return false
}

// GetFileInfo provides additional information about a file
func (f *EmbeddingFileReader) GetFileInfo(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return info, nil
}

// ValidatePaths validates that all provided paths exist and are accessible,
// treating glob patterns as always valid (resolved lazily by CollectEmbeddingFiles).
func (f *EmbeddingFileReader) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if strings.ContainsAny(path, "*?[") {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}
