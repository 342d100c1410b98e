package template

import "strings"

// resolveLoops expands every {% for %} block in text. Each element of the
// bound sequence is rendered against a new innermost frame that binds the
// loop variable; only interpolation runs on the body. A path that does not
// resolve to a sequence expands to nothing.
func resolveLoops(text string, scope *Scope, rs *renderState) string {
	return replaceMatches(forPattern, text, func(groups []string) string {
		name, path, body := groups[1], groups[2], groups[3]
		items, ok := rs.resolve(scope, path).AsSeq()
		if !ok || len(items) == 0 {
			return ""
		}

		var b strings.Builder
		for _, item := range items {
			b.WriteString(resolveVariables(body, scope.Push(name, item), rs))
		}
		return b.String()
	})
}
