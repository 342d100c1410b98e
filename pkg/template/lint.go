package template

import (
	"fmt"
	"sort"
	"strings"
)

// Severity grades a lint issue.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes reported by Lint.
const (
	CodeUnknownDirective = "unknown-directive"
	CodeUnclosedBlock    = "unclosed-block"
	CodeStrayCloser      = "stray-closer"
	CodeNestedSameKind   = "nested-same-kind"
	CodeInvalidMarker    = "invalid-marker"
)

// Issue describes template syntax that will survive rendering as literal
// text, or that renders differently depending on the nesting mode.
type Issue struct {
	Offset   int      `json:"offset"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", i.Line, i.Column, i.Severity, i.Message)
}

// Lint reports directive markers that no rendering stage will consume.
// Pairing is checked by depth; nested blocks of the same kind are flagged
// as warnings because the shallow engine pairs them with the wrong closer.
// Issues are ordered by offset.
func Lint(tmpl string) []Issue {
	var issues []Issue
	add := func(offset int, sev Severity, code, format string, args ...any) {
		line, col := position(tmpl, offset)
		issues = append(issues, Issue{
			Offset:   offset,
			Line:     line,
			Column:   col,
			Severity: sev,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	var open []tag
	for _, t := range scanTags(tmpl) {
		switch t.kind {
		case tagIf, tagFor:
			for _, o := range open {
				if o.kind == t.kind {
					add(t.start, SeverityWarning, CodeNestedSameKind,
						"%s nested inside another %s pairs with the wrong closer unless balanced nesting is enabled",
						directiveName(t.kind), directiveName(t.kind))
					break
				}
			}
			open = append(open, t)
		case tagEndif, tagEndfor:
			want := tagIf
			if t.kind == tagEndfor {
				want = tagFor
			}
			if len(open) == 0 || open[len(open)-1].kind != want {
				add(t.start, SeverityError, CodeStrayCloser,
					"%s has no matching %s", strings.TrimSpace(t.raw), directiveName(want))
				continue
			}
			open = open[:len(open)-1]
		default:
			add(t.start, SeverityError, CodeUnknownDirective,
				"unknown directive %s", strings.TrimSpace(t.raw))
		}
	}
	for _, o := range open {
		add(o.start, SeverityError, CodeUnclosedBlock, "%s is never closed", o.raw)
	}

	for _, loc := range markerPattern.FindAllStringSubmatchIndex(tmpl, -1) {
		inner := strings.TrimSpace(tmpl[loc[2]:loc[3]])
		if !IsPath(inner) {
			add(loc[0], SeverityError, CodeInvalidMarker,
				"marker %s is not a dotted path and will be left as text", tmpl[loc[0]:loc[1]])
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Offset < issues[j].Offset
	})
	return issues
}

func directiveName(k tagKind) string {
	switch k {
	case tagIf:
		return "if"
	case tagEndif:
		return "endif"
	case tagFor:
		return "for"
	case tagEndfor:
		return "endfor"
	default:
		return "directive"
	}
}

// position converts a byte offset to a 1-based line and column.
func position(src string, offset int) (line, col int) {
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}
