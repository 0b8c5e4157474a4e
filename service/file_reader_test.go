package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test helpers
func createTempDir(t *testing.T) string {
	tmpDir, err := os.MkdirTemp("", "file_reader_test")
	assert.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})
	return tmpDir
}

func createTestFile(t *testing.T, dirPath, fileName, content string) string {
	filePath := filepath.Join(dirPath, fileName)

	dir := filepath.Dir(filePath)
	err := os.MkdirAll(dir, 0755)
	assert.NoError(t, err)

	err = os.WriteFile(filePath, []byte(content), 0644)
	assert.NoError(t, err)

	return filePath
}

func createTestDirectoryStructure(t *testing.T) string {
	tmpDir := createTempDir(t)

	// Create embedding source files
	createTestFile(t, tmpDir, "main.json", `{"a": [0.1, 0.2]}`)
	createTestFile(t, tmpDir, "utils.json", `{"b": [0.3, 0.4]}`)
	createTestFile(t, tmpDir, "config.jsonl", `{"c": [0.5]}`)

	// Create non-embedding files
	createTestFile(t, tmpDir, "README.md", "# Documentation")
	createTestFile(t, tmpDir, "script.sh", "#!/bin/bash")

	// Create subdirectories
	createTestFile(t, tmpDir, "subpackage/vectors.json", "{}")
	createTestFile(t, tmpDir, "subpackage/module.csv", "id,v0,v1\n1,0.1,0.2")

	// Create deep nested structure
	createTestFile(t, tmpDir, "package/nested/deep/file.json", "{}")

	// Create hidden files and directories (should be skipped)
	createTestFile(t, tmpDir, ".hidden.json", "{}")
	hiddenDir := filepath.Join(tmpDir, ".hidden_dir")
	err := os.MkdirAll(hiddenDir, 0755)
	assert.NoError(t, err)
	createTestFile(t, tmpDir, ".hidden_dir/hidden.json", "{}")

	// Create directories that should be skipped
	createTestFile(t, tmpDir, ".git/hooks/pre-commit.json", "{}")
	createTestFile(t, tmpDir, "node_modules/package/index.json", "{}")

	return tmpDir
}

// TestFileReader_CollectEmbeddingFiles tests the main file collection functionality
func TestFileReader_CollectEmbeddingFiles(t *testing.T) {
	tests := []struct {
		name            string
		setupFiles      func(t *testing.T) (string, []string)
		recursive       bool
		includePatterns []string
		excludePatterns []string
		expectedCount   int
		expectedFiles   []string
		expectError     bool
		errorMsg        string
	}{
		{
			name: "collect all embedding files recursively",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTestDirectoryStructure(t)
				return tmpDir, []string{tmpDir}
			},
			recursive:       true,
			includePatterns: []string{},
			excludePatterns: []string{},
			expectedCount:   6, // main, utils, config, subpackage/vectors, subpackage/module, package/nested/deep/file
			expectedFiles:   []string{"main.json", "utils.json", "config.jsonl", "vectors.json", "module.csv", "file.json"},
			expectError:     false,
		},
		{
			name: "collect embedding files non-recursively",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTestDirectoryStructure(t)
				return tmpDir, []string{tmpDir}
			},
			recursive:       false,
			includePatterns: []string{},
			excludePatterns: []string{},
			expectedCount:   3, // main.json, utils.json, config.jsonl at root level only
			expectedFiles:   []string{"main.json", "utils.json", "config.jsonl"},
			expectError:     false,
		},
		{
			name: "single file input",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTempDir(t)
				filePath := createTestFile(t, tmpDir, "single.json", "{}")
				return tmpDir, []string{filePath}
			},
			recursive:       false,
			includePatterns: []string{},
			excludePatterns: []string{},
			expectedCount:   1,
			expectedFiles:   []string{"single.json"},
			expectError:     false,
		},
		{
			name: "include patterns filtering",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTestDirectoryStructure(t)
				return tmpDir, []string{tmpDir}
			},
			recursive:       true,
			includePatterns: []string{"*utils*", "*config*"},
			excludePatterns: []string{},
			expectedCount:   2,
			expectedFiles:   []string{"utils.json", "config.jsonl"},
			expectError:     false,
		},
		{
			name: "exclude patterns filtering",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTestDirectoryStructure(t)
				return tmpDir, []string{tmpDir}
			},
			recursive:       true,
			includePatterns: []string{},
			excludePatterns: []string{"*vectors*", "*.csv"},
			expectedCount:   4,
			expectedFiles:   []string{"main.json", "utils.json", "config.jsonl", "file.json"},
			expectError:     false,
		},
		{
			name: "multiple directory inputs",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTempDir(t)
				dir1 := filepath.Join(tmpDir, "dir1")
				dir2 := filepath.Join(tmpDir, "dir2")
				createTestFile(t, tmpDir, "dir1/file1.json", "{}")
				createTestFile(t, tmpDir, "dir2/file2.json", "{}")
				return tmpDir, []string{dir1, dir2}
			},
			recursive:       false,
			includePatterns: []string{},
			excludePatterns: []string{},
			expectedCount:   2,
			expectedFiles:   []string{"file1.json", "file2.json"},
			expectError:     false,
		},
		{
			name: "non-existent path error",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTempDir(t)
				nonExistentPath := filepath.Join(tmpDir, "does_not_exist")
				return tmpDir, []string{nonExistentPath}
			},
			recursive:     false,
			expectedCount: 0,
			expectError:   true,
			errorMsg:      "file not found",
		},
		{
			name: "empty directory",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTempDir(t)
				emptyDir := filepath.Join(tmpDir, "empty")
				err := os.MkdirAll(emptyDir, 0755)
				assert.NoError(t, err)
				return tmpDir, []string{emptyDir}
			},
			recursive:     true,
			expectedCount: 0,
			expectError:   false,
		},
		{
			name: "skipped directories",
			setupFiles: func(t *testing.T) (string, []string) {
				tmpDir := createTempDir(t)
				createTestFile(t, tmpDir, ".git/hooks/hook.json", "{}")
				createTestFile(t, tmpDir, "node_modules/pkg/mod.json", "{}")
				createTestFile(t, tmpDir, "src/vectors.json", "{}")
				return tmpDir, []string{tmpDir}
			},
			recursive:       true,
			includePatterns: []string{},
			excludePatterns: []string{},
			expectedCount:   1,
			expectedFiles:   []string{"vectors.json"},
			expectError:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewEmbeddingFileReader()
			_, paths := tt.setupFiles(t)

			files, err := reader.CollectEmbeddingFiles(paths, tt.recursive, tt.includePatterns, tt.excludePatterns)

			if tt.expectError {
				assert.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
				return
			}

			assert.NoError(t, err)
			assert.Len(t, files, tt.expectedCount, "Expected %d files, got %d", tt.expectedCount, len(files))

			if len(tt.expectedFiles) > 0 {
				fileBasenames := make([]string, len(files))
				for i, file := range files {
					fileBasenames[i] = filepath.Base(file)
				}

				for _, expectedFile := range tt.expectedFiles {
					assert.Contains(t, fileBasenames, expectedFile,
						"Expected file %s not found in: %v", expectedFile, fileBasenames)
				}
			}

			for _, file := range files {
				assert.True(t, reader.IsValidEmbeddingFile(file),
					"File %s should be recognized as an embedding file", file)
			}

			for _, file := range files {
				_, err := os.Stat(file)
				assert.NoError(t, err, "File %s should exist", file)
			}
		})
	}
}

// TestFileReader_ReadFile tests file reading functionality
func TestFileReader_ReadFile(t *testing.T) {
	tests := []struct {
		name            string
		setupFile       func(t *testing.T) string
		expectedContent string
		expectError     bool
		errorMsg        string
	}{
		{
			name: "read existing file",
			setupFile: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				return createTestFile(t, tmpDir, "test.json", `{"id": 1, "vec": [0.1]}`)
			},
			expectedContent: `{"id": 1, "vec": [0.1]}`,
			expectError:     false,
		},
		{
			name: "read empty file",
			setupFile: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				return createTestFile(t, tmpDir, "empty.json", "")
			},
			expectedContent: "",
			expectError:     false,
		},
		{
			name: "read file with unicode content",
			setupFile: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				return createTestFile(t, tmpDir, "unicode.json", `{"label": "こんにちは"}`)
			},
			expectedContent: `{"label": "こんにちは"}`,
			expectError:     false,
		},
		{
			name: "read non-existent file",
			setupFile: func(t *testing.T) string {
				return "/path/that/does/not/exist.json"
			},
			expectError: true,
			errorMsg:    "file not found",
		},
		{
			name: "read directory instead of file",
			setupFile: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				dirPath := filepath.Join(tmpDir, "directory")
				err := os.MkdirAll(dirPath, 0755)
				assert.NoError(t, err)
				return dirPath
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewEmbeddingFileReader()
			filePath := tt.setupFile(t)

			content, err := reader.ReadFile(filePath)

			if tt.expectError {
				assert.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedContent, string(content))
		})
	}
}

// TestFileReader_IsValidEmbeddingFile tests embedding file validation
func TestFileReader_IsValidEmbeddingFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"json file", "vectors.json", true},
		{"jsonl file", "vectors.jsonl", true},
		{"csv file", "vectors.csv", true},
		{"tsv file", "vectors.tsv", true},
		{"npy file", "vectors.npy", true},
		{"uppercase extension", "VECTORS.JSON", true},
		{"mixed case extension", "Vectors.Json", true},
		{"text file", "readme.txt", false},
		{"shell script", "install.sh", false},
		{"no extension", "LICENSE", false},
		{"embedding word in name but not extension", "embeddings_readme.txt", false},
		{"empty string", "", false},
		{"directory-like path", "/path/to/directory/", false},
		{"json file with path", "/home/user/data/main.json", true},
		{"csv file with path", "/home/user/data/vectors.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewEmbeddingFileReader()
			result := reader.IsValidEmbeddingFile(tt.path)
			assert.Equal(t, tt.expected, result, "IsValidEmbeddingFile(%s) = %v, expected %v", tt.path, result, tt.expected)
		})
	}
}

// TestFileReader_FileExists tests file existence checking
func TestFileReader_FileExists(t *testing.T) {
	tests := []struct {
		name         string
		setupPath    func(t *testing.T) string
		expectExists bool
		expectError  bool
	}{
		{
			name: "existing file",
			setupPath: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				return createTestFile(t, tmpDir, "exists.json", "{}")
			},
			expectExists: true,
			expectError:  false,
		},
		{
			name: "non-existent file",
			setupPath: func(t *testing.T) string {
				return "/path/that/does/not/exist.json"
			},
			expectExists: false,
			expectError:  false,
		},
		{
			name: "directory path (should return false for directories)",
			setupPath: func(t *testing.T) string {
				tmpDir := createTempDir(t)
				dirPath := filepath.Join(tmpDir, "subdir")
				err := os.MkdirAll(dirPath, 0755)
				assert.NoError(t, err)
				return dirPath
			},
			expectExists: false,
			expectError:  false,
		},
		{
			name: "empty path",
			setupPath: func(t *testing.T) string {
				return ""
			},
			expectExists: false,
			expectError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewEmbeddingFileReader()
			path := tt.setupPath(t)

			exists, err := reader.FileExists(path)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectExists, exists)
		})
	}
}

// TestFileReader_shouldIncludeFile tests pattern matching logic
func TestFileReader_shouldIncludeFile(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		includePatterns []string
		excludePatterns []string
		expected        bool
	}{
		{
			name:            "no patterns - include all",
			path:            "test.json",
			includePatterns: []string{},
			excludePatterns: []string{},
			expected:        true,
		},
		{
			name:            "exclude pattern matches",
			path:            "test_file.json",
			includePatterns: []string{},
			excludePatterns: []string{"*test*"},
			expected:        false,
		},
		{
			name:            "include pattern matches",
			path:            "main.json",
			includePatterns: []string{"main*", "app*"},
			excludePatterns: []string{},
			expected:        true,
		},
		{
			name:            "include pattern doesn't match",
			path:            "helper.json",
			includePatterns: []string{"main*", "app*"},
			excludePatterns: []string{},
			expected:        false,
		},
		{
			name:            "include matches but exclude overrides",
			path:            "main_test.json",
			includePatterns: []string{"main*"},
			excludePatterns: []string{"*test*"},
			expected:        false,
		},
		{
			name:            "full path pattern matching",
			path:            "/project/src/main.json",
			includePatterns: []string{"main*"},
			excludePatterns: []string{},
			expected:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &EmbeddingFileReader{}
			result := reader.shouldIncludeFile(tt.path, tt.includePatterns, tt.excludePatterns)
			assert.Equal(t, tt.expected, result,
				"shouldIncludeFile(%s, %v, %v) = %v, expected %v",
				tt.path, tt.includePatterns, tt.excludePatterns, result, tt.expected)
		})
	}
}

// TestFileReader_shouldSkipDirectory tests directory skipping logic
func TestFileReader_shouldSkipDirectory(t *testing.T) {
	tests := []struct {
		name     string
		dirName  string
		expected bool
	}{
		{"regular directory", "src", false},
		{"git directory", ".git", true},
		{"node modules", "node_modules", true},
		{"build directory", "build", true},
		{"dist directory", "dist", true},
		{"cache directory", ".cache", true},
		{"case sensitive match only", "NODE_MODULES", false},
		{"partial match should not skip", "my_build_project", false},
		{"empty directory name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &EmbeddingFileReader{}
			result := reader.shouldSkipDirectory(tt.dirName)
			assert.Equal(t, tt.expected, result,
				"shouldSkipDirectory(%s) = %v, expected %v", tt.dirName, result, tt.expected)
		})
	}
}

// TestFileReader_NewEmbeddingFileReader tests service creation
func TestFileReader_NewEmbeddingFileReader(t *testing.T) {
	reader := NewEmbeddingFileReader()

	assert.NotNil(t, reader)
	assert.IsType(t, &EmbeddingFileReader{}, reader)
}

// TestFileReader_ErrorTypes tests that proper error types are returned
func TestFileReader_ErrorTypes(t *testing.T) {
	reader := NewEmbeddingFileReader()

	_, err := reader.ReadFile("/path/that/does/not/exist.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")

	_, err = reader.CollectEmbeddingFiles([]string{"/path/that/does/not/exist"}, false, nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

// TestFileReader_PermissionHandling tests permission-related scenarios
func TestFileReader_PermissionHandling(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping permission tests when running as root")
	}

	tmpDir := createTempDir(t)

	filePath := createTestFile(t, tmpDir, "no_read.json", "{}")
	err := os.Chmod(filePath, 0000)
	assert.NoError(t, err)

	t.Cleanup(func() {
		err = os.Chmod(filePath, 0644)
		assert.NoError(t, err)
	})

	reader := NewEmbeddingFileReader()

	_, err = reader.ReadFile(filePath)
	assert.Error(t, err)

	exists, err := reader.FileExists(filePath)
	assert.NoError(t, err)
	assert.True(t, exists)
}
