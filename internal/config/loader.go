package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Loader handles route file loading from files and readers.
type Loader struct{}

// NewLoader creates a new route file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load loads a route file from a file path.
func Load(path string) (*RoutesFile, error) {
	return NewLoader().Load(path)
}

// LoadFromReader loads a route file from an io.Reader.
func LoadFromReader(r io.Reader) (*RoutesFile, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads a route file from a file path.
func (l *Loader) Load(path string) (*RoutesFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is validated via filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read route file %s: %w", path, err)
	}

	return l.parse(data)
}

// LoadFromReader loads a route file from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*RoutesFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file: %w", err)
	}

	return l.parse(data)
}

// parse parses YAML data into a RoutesFile.
func (l *Loader) parse(data []byte) (*RoutesFile, error) {
	content := l.substituteEnvVars(string(data))

	var file RoutesFile
	if err := yaml.Unmarshal([]byte(content), &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &file, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func (l *Loader) substituteEnvVars(content string) string {
	// Handle escaped dollar signs first
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}
