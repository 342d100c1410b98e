// Package help embeds the documentation shown by `surveyd guide`.
package help

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed topics/*.txt
var topicFS embed.FS

// ErrUnknownTopic is returned by Topic for names not in Topics.
var ErrUnknownTopic = errors.New("unknown guide topic")

// Entry is one guide topic.
type Entry struct {
	Name    string
	Summary string
}

// Topics lists the guide topics in display order.
var Topics = []Entry{
	{"syntax", "Interpolation, conditionals and loops"},
	{"nesting", "Shallow and balanced block pairing"},
	{"data", "JSON and YAML data files, --select"},
	{"config", "surveyd.yaml format"},
	{"api", "HTTP endpoints, pages and metrics"},
}

// Topic returns the text of the named topic, ignoring case and spaces.
func Topic(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range Topics {
		if e.Name != name {
			continue
		}
		content, err := topicFS.ReadFile("topics/" + name + ".txt")
		if err != nil {
			return "", fmt.Errorf("reading topic %s: %w", name, err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("%w %q\n\nAvailable topics:\n%s", ErrUnknownTopic, name, List())
}

// List formats Topics as an indented two-column list.
func List() string {
	var sb strings.Builder
	for _, e := range Topics {
		fmt.Fprintf(&sb, "  %-10s %s\n", e.Name, e.Summary)
	}
	return sb.String()
}
