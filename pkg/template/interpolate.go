package template

// resolveVariables substitutes every {{ path }} marker in text with the
// string form of the resolved value. Output is not escaped.
func resolveVariables(text string, scope *Scope, rs *renderState) string {
	return replaceMatches(varPattern, text, func(groups []string) string {
		return rs.resolve(scope, groups[1]).String()
	})
}
