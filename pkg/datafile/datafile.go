// Package datafile loads render contexts from JSON and YAML files.
package datafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/surveyd/pkg/template"
)

// Format identifies a data file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Common errors for data file loading.
var (
	ErrFileNotFound      = errors.New("data file not found")
	ErrEmptyFile         = errors.New("data file is empty")
	ErrInvalidJSON       = errors.New("invalid JSON syntax")
	ErrInvalidYAML       = errors.New("invalid YAML syntax")
	ErrUnsupportedFormat = errors.New("unsupported data file format")
	ErrNotMapping        = errors.New("data file root must be a mapping")
	ErrInvalidSelector   = errors.New("invalid JSONPath selector")
	ErrNoMatch           = errors.New("selector matched nothing")
)

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads path and converts it into a mapping Value for rendering.
func Load(path string) (template.Value, error) {
	return LoadSelect(path, "")
}

// LoadSelect reads path, narrows it to the first node matched by the
// JSONPath selector, and converts that node into a mapping Value.
// An empty selector uses the document root.
func LoadSelect(path, selector string) (template.Value, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return template.Undefined(), err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return template.Undefined(), fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return template.Undefined(), fmt.Errorf("reading data file: %w", err)
	}

	raw, err := Decode(data, format)
	if err == nil {
		raw, err = Select(raw, selector)
	}
	var v template.Value
	if err == nil {
		v, err = toMapping(raw)
	}
	if err != nil {
		return template.Undefined(), fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Parse decodes data in the given format into a mapping Value.
func Parse(data []byte, format Format) (template.Value, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return template.Undefined(), err
	}
	return toMapping(raw)
}

// Decode decodes data in the given format into generic Go values.
func Decode(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var raw any
	switch format {
	case FormatJSON:
		parsed, err := oj.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		raw = parsed
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return raw, nil
}

// Select returns the first node of raw matched by a JSONPath expression
// such as "$.surveys[0]". An empty selector returns raw unchanged.
func Select(raw any, selector string) (any, error) {
	if strings.TrimSpace(selector) == "" {
		return raw, nil
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	results := x.Get(raw)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	return results[0], nil
}

func toMapping(raw any) (template.Value, error) {
	v := template.FromAny(raw)
	if v.Kind() != template.KindMap {
		return template.Undefined(), fmt.Errorf("%w: got %s", ErrNotMapping, v.Kind())
	}
	return v, nil
}
