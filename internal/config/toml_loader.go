package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/annforest/domain"
)

const configFileName = ".annforest.toml"

// TomlLoader discovers and parses .annforest.toml, walking up from a start
// directory toward the filesystem root until it finds one.
type TomlLoader struct{}

// NewTomlLoader creates a loader.
func NewTomlLoader() *TomlLoader { return &TomlLoader{} }

// LoadConfig resolves the effective configuration for path, which may be a
// direct file path, a directory to search upward from, or empty (meaning
// the current directory). Missing config is not an error: LoadConfig
// returns DefaultConfig() unchanged.
func (l *TomlLoader) LoadConfig(path string) (*ForestConfig, error) {
	if path != "" {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return l.loadFromFile(path)
		}
	}

	startDir := path
	if startDir == "" {
		startDir = "."
	}

	found, err := l.findConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.loadFromFile(found)
}

func (l *TomlLoader) loadFromFile(path string) (*ForestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigError("reading config file: "+path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewConfigError("parsing config file: "+path, err)
	}
	return cfg, nil
}

// findConfigFile walks up from startDir looking for .annforest.toml.
func (l *TomlLoader) findConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
