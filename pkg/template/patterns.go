package template

import (
	"regexp"
	"strings"
)

// pathExpr matches a dotted identifier chain such as survey.questions.0.
const pathExpr = `[A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*`

var (
	// {% if path %}content{% endif %} - first endif closes the block.
	ifPattern = regexp.MustCompile(`(?s)\{%\s*if\s+(` + pathExpr + `)\s*%\}(.*?)\{%\s*endif\s*%\}`)

	// {% for item in path %}body{% endfor %} - first endfor closes the block.
	forPattern = regexp.MustCompile(`(?s)\{%\s*for\s+([A-Za-z0-9_]+)\s+in\s+(` + pathExpr + `)\s*%\}(.*?)\{%\s*endfor\s*%\}`)

	// {{ path }} with optional whitespace.
	varPattern = regexp.MustCompile(`\{\{\s*(` + pathExpr + `)\s*\}\}`)

	// Any {% ... %} tag. Used by the balanced scanner and by Lint.
	tagPattern = regexp.MustCompile(`(?s)\{%(.*?)%\}`)

	// Any {{ ... }} marker, valid or not. Used by Lint.
	markerPattern = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)

	pathPattern = regexp.MustCompile(`^` + pathExpr + `$`)
)

// replaceMatches rewrites every non-overlapping match of re in src, left to
// right, with the result of fn applied to the match's capture groups.
// Text produced by fn is never rescanned.
func replaceMatches(re *regexp.Regexp, src string, fn func(groups []string) string) string {
	locs := re.FindAllStringSubmatchIndex(src, -1)
	if len(locs) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, loc := range locs {
		b.WriteString(src[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = src[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(src[last:])
	return b.String()
}

// IsPath reports whether s is a well-formed dotted identifier path.
func IsPath(s string) bool {
	return pathPattern.MatchString(s)
}
