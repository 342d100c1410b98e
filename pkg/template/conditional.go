package template

// resolveConditionals strips or unwraps every {% if %} block in text in a
// single left-to-right pass. The content of a truthy block is kept verbatim,
// so directives inside it are left for the later stages.
func resolveConditionals(text string, scope *Scope, rs *renderState) string {
	return replaceMatches(ifPattern, text, func(groups []string) string {
		path, content := groups[1], groups[2]
		if rs.resolve(scope, path).IsTrue() {
			return content
		}
		return ""
	})
}
