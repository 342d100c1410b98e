package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides discovery.
const EnvConfigPath = "SURVEYD_CONFIG"

// DiscoveryOrder defines the file names tried in the working directory.
var DiscoveryOrder = []string{
	"surveyd.yaml",
	"surveyd.yml",
}

// Common errors for configuration loading.
var (
	ErrConfigNotFound = errors.New("no surveyd config found")
	ErrInvalidYAML    = errors.New("invalid YAML syntax")
)

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Discover finds a config file via SURVEYD_CONFIG or the discovery order in
// dir. It returns ErrConfigNotFound when nothing is found.
func Discover(dir string) (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s points to non-existent file %s", ErrConfigNotFound, EnvConfigPath, envPath)
	}

	for _, name := range DiscoveryOrder {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrConfigNotFound
}

// Load reads the config at path on top of Default. With an empty path the
// working directory is searched; if nothing is found the defaults are
// returned with an empty path.
func Load(path string) (*ProjectConfig, string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting current directory: %w", err)
		}
		discovered, err := Discover(cwd)
		if errors.Is(err, ErrConfigNotFound) && os.Getenv(EnvConfigPath) == "" {
			return Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = discovered
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes raw YAML on top of Default, after environment expansion.
func Parse(data []byte) (*ProjectConfig, error) {
	cfg := Default()
	expanded := ExpandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return cfg, nil
}

// ExpandEnvVars expands environment variables in the input string.
// Supports ${VAR_NAME} and ${VAR_NAME:-default} syntax.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// BaseDir returns the directory relative paths in the config at configPath
// are resolved against: the config's directory, or the working directory
// when no file was loaded.
func BaseDir(configPath string) string {
	if configPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
		return "."
	}
	return filepath.Dir(configPath)
}

// ResolvePath joins a relative path onto baseDir. Absolute paths and empty
// values are returned unchanged.
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
