package config

import "time"

// ProjectConfig is the root of surveyd.yaml.
type ProjectConfig struct {
	Version string       `yaml:"version" json:"version"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Log     LogConfig    `yaml:"log" json:"log"`
	Render  RenderConfig `yaml:"render" json:"render"`
}

// ServerConfig configures `surveyd serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
	// RateLimit throttles survey creation and submission per client.
	RateLimit RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig is a per-client token bucket. A zero rate disables it.
type RateLimitConfig struct {
	Rate           float64 `yaml:"rate" json:"rate"`
	Burst          int     `yaml:"burst" json:"burst"`
	TrustForwarded bool    `yaml:"trustForwarded" json:"trustForwarded"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// RenderConfig holds defaults for `surveyd render`.
type RenderConfig struct {
	// Templates are file paths or doublestar globs, relative to the config file.
	Templates []string `yaml:"templates" json:"templates"`
	// Data is a JSON or YAML file providing the render context.
	Data string `yaml:"data" json:"data"`
	// Select is a JSONPath expression narrowing Data to one mapping.
	Select string `yaml:"select,omitempty" json:"select,omitempty"`
	// OutDir receives one rendered file per template.
	OutDir string `yaml:"outDir" json:"outDir"`
	// Nesting is "shallow" (default) or "balanced".
	Nesting string `yaml:"nesting" json:"nesting"`
}

// Default returns the configuration used when no file is found.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Version: "1",
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{
			Nesting: "shallow",
		},
	}
}
