package template

import "testing"

func TestScopeResolve(t *testing.T) {
	root := NewScope(map[string]Value{
		"x":      String("outer"),
		"survey": FromAny(map[string]any{"title": "T", "questions": []any{"q1", "q2"}}),
		"n":      Int(7),
	})
	inner := root.Push("x", String("inner")).Push("q", FromAny(map[string]any{"text": "Why?"}))

	tests := []struct {
		name     string
		scope    *Scope
		path     string
		expected Value
	}{
		{"root key", root, "x", String("outer")},
		{"nested key", root, "survey.title", String("T")},
		{"sequence index", root, "survey.questions.1", String("q2")},
		{"innermost wins", inner, "x", String("inner")},
		{"falls through", inner, "n", Int(7)},
		{"pushed map", inner, "q.text", String("Why?")},
		{"outer nested through inner", inner, "survey.title", String("T")},
		{"missing", inner, "nope", Undefined()},
		{"missing nested does not fall through", root.Push("survey", Map(nil)), "survey.title", Undefined()},
		{"index into string", root, "x.0", Undefined()},
		{"index into number", root, "n.value", Undefined()},
		{"name on sequence", root, "survey.questions.first", Undefined()},
		{"leading zero index", root, "survey.questions.01", Undefined()},
		{"zero index", root, "survey.questions.0", String("q1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scope.Resolve(tt.path)
			if got.Kind() != tt.expected.Kind() || got.String() != tt.expected.String() {
				t.Errorf("Resolve(%q) = %v (%s), want %v (%s)",
					tt.path, got, got.Kind(), tt.expected, tt.expected.Kind())
			}
		})
	}
}

func TestScopePushLeavesParentUntouched(t *testing.T) {
	root := NewScope(map[string]Value{"a": Int(1)})
	child := root.Push("b", Int(2))

	if root.Depth() != 1 {
		t.Errorf("root.Depth() = %d, want 1", root.Depth())
	}
	if child.Depth() != 2 {
		t.Errorf("child.Depth() = %d, want 2", child.Depth())
	}
	if !root.Resolve("b").IsUndefined() {
		t.Error("binding leaked into parent scope")
	}
	if child.Resolve("a").String() != "1" {
		t.Errorf("child.Resolve(a) = %q, want 1", child.Resolve("a").String())
	}
}

func TestNewScopeNil(t *testing.T) {
	if !NewScope(nil).Resolve("x").IsUndefined() {
		t.Error("expected undefined in empty scope")
	}
}
