package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/surveyd/pkg/template"
)

// ValidationError represents a single config validation error.
type ValidationError struct {
	Path    string // Config path, e.g., "render.templates[0]"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationResult contains all validation errors for a ProjectConfig.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns a combined error message.
func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

// Validate checks a ProjectConfig and returns every problem found.
func Validate(cfg *ProjectConfig) *ValidationResult {
	result := &ValidationResult{}

	if cfg.Version != "1" {
		result.AddError("version", fmt.Sprintf("unsupported version %q, expected \"1\"", cfg.Version))
	}

	if cfg.Server.Addr == "" {
		result.AddError("server.addr", "required")
	}
	if cfg.Server.ReadTimeout < 0 {
		result.AddError("server.readTimeout", "must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		result.AddError("server.writeTimeout", "must not be negative")
	}
	if cfg.Server.RateLimit.Rate < 0 {
		result.AddError("server.rateLimit.rate", "must not be negative")
	}
	if cfg.Server.RateLimit.Burst < 0 {
		result.AddError("server.rateLimit.burst", "must not be negative")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		result.AddError("log.level", fmt.Sprintf("unknown level %q", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		result.AddError("log.format", fmt.Sprintf("unknown format %q", cfg.Log.Format))
	}

	if _, err := template.ParseNesting(cfg.Render.Nesting); err != nil {
		result.AddError("render.nesting", err.Error())
	}
	for i, pattern := range cfg.Render.Templates {
		path := fmt.Sprintf("render.templates[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			result.AddError(path, "must not be empty")
		} else if !doublestar.ValidatePattern(pattern) {
			result.AddError(path, fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
	if cfg.Render.Select != "" {
		if _, err := jp.ParseString(cfg.Render.Select); err != nil {
			result.AddError("render.select", fmt.Sprintf("invalid JSONPath: %v", err))
		}
	}

	return result
}
