package template

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Interpolation
// =============================================================================

func TestRenderInterpolation(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      map[string]any
		expected string
	}{
		{"simple string", "{{ x }}", map[string]any{"x": "hi"}, "hi"},
		{"no whitespace", "{{x}}", map[string]any{"x": "hi"}, "hi"},
		{"extra whitespace", "{{   x\t}}", map[string]any{"x": "hi"}, "hi"},
		{"missing", "{{ missing }}", map[string]any{}, ""},
		{"null", "[{{ n }}]", map[string]any{"n": nil}, "[]"},
		{"integer", "{{ n }}", map[string]any{"n": 42}, "42"},
		{"whole float", "{{ n }}", map[string]any{"n": 3.0}, "3"},
		{"fraction", "{{ n }}", map[string]any{"n": 2.5}, "2.5"},
		{"negative", "{{ n }}", map[string]any{"n": -7}, "-7"},
		{"bool true", "{{ b }}", map[string]any{"b": true}, "true"},
		{"bool false", "{{ b }}", map[string]any{"b": false}, "false"},
		{"nested path", "{{ survey.title }}", map[string]any{"survey": map[string]any{"title": "Feedback"}}, "Feedback"},
		{"sequence index", "{{ items.1 }}", map[string]any{"items": []any{"a", "b"}}, "b"},
		{"index out of range", "{{ items.5 }}", map[string]any{"items": []any{"a"}}, ""},
		{"surrounding text", "Hello, {{ name }}!", map[string]any{"name": "Ada"}, "Hello, Ada!"},
		{"repeated", "{{ a }}{{ a }}", map[string]any{"a": "x"}, "xx"},
		{"no escaping", "{{ h }}", map[string]any{"h": "<b>&</b>"}, "<b>&</b>"},
		{"case sensitive", "{{ Name }}", map[string]any{"name": "x"}, ""},
		{"sequence has no text form", "[{{ items }}]", map[string]any{"items": []any{"a"}}, "[]"},
		{"map has no text form", "[{{ m }}]", map[string]any{"m": map[string]any{"k": "v"}}, "[]"},
		{"invalid marker left literal", "{{ a-b }}", map[string]any{"a": "x"}, "{{ a-b }}"},
		{"empty marker left literal", "{{}}", map[string]any{}, "{{}}"},
		{"unterminated marker", "{{ x", map[string]any{"x": "hi"}, "{{ x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderIntermediateNonContainer(t *testing.T) {
	result, err := Render("[{{ a.b }}]", map[string]any{"a": "text"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if result != "[]" {
		t.Errorf("Render() = %q, want %q", result, "[]")
	}
}

// =============================================================================
// Conditionals
// =============================================================================

func TestRenderConditionals(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      map[string]any
		expected string
	}{
		{"true", "{% if flag %}shown{% endif %}", map[string]any{"flag": true}, "shown"},
		{"false", "{% if flag %}shown{% endif %}", map[string]any{"flag": false}, ""},
		{"missing", "{% if flag %}shown{% endif %}", map[string]any{}, ""},
		{"null", "{% if flag %}shown{% endif %}", map[string]any{"flag": nil}, ""},
		{"zero", "{% if n %}shown{% endif %}", map[string]any{"n": 0}, ""},
		{"zero float", "{% if n %}shown{% endif %}", map[string]any{"n": 0.0}, ""},
		{"nonzero", "{% if n %}shown{% endif %}", map[string]any{"n": 3}, "shown"},
		{"empty string", "{% if s %}shown{% endif %}", map[string]any{"s": ""}, ""},
		{"string false is truthy", "{% if s %}shown{% endif %}", map[string]any{"s": "false"}, "shown"},
		{"string zero is truthy", "{% if s %}shown{% endif %}", map[string]any{"s": "0"}, "shown"},
		{"empty sequence", "{% if l %}shown{% endif %}", map[string]any{"l": []any{}}, ""},
		{"sequence", "{% if l %}shown{% endif %}", map[string]any{"l": []any{1}}, "shown"},
		{"empty map is truthy", "{% if m %}shown{% endif %}", map[string]any{"m": map[string]any{}}, "shown"},
		{"nested path", "{% if s.open %}open{% endif %}", map[string]any{"s": map[string]any{"open": true}}, "open"},
		{"keeps surrounding text", "a{% if f %}b{% endif %}c", map[string]any{"f": true}, "abc"},
		{"strips surrounding text", "a{% if f %}b{% endif %}c", map[string]any{}, "ac"},
		{"multiline content", "{% if f %}\nline\n{% endif %}", map[string]any{"f": true}, "\nline\n"},
		{"tight tags", "{%if f%}x{%endif%}", map[string]any{"f": true}, "x"},
		{"two blocks", "{% if a %}A{% endif %}{% if b %}B{% endif %}", map[string]any{"a": true}, "A"},
		{"content interpolated later", "{% if f %}{{ name }}{% endif %}", map[string]any{"f": true, "name": "Ada"}, "Ada"},
		{"unclosed stays literal", "{% if f %}x", map[string]any{"f": true}, "{% if f %}x"},
		{"stray endif stays literal", "x{% endif %}", map[string]any{}, "x{% endif %}"},
		{"missing path stays literal", "{% if %}x{% endif %}", map[string]any{}, "{% if %}x{% endif %}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// =============================================================================
// Loops
// =============================================================================

func TestRenderLoops(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      map[string]any
		expected string
	}{
		{"preserves order", "{% for q in items %}[{{ q }}]{% endfor %}", map[string]any{"items": []any{"a", "b"}}, "[a][b]"},
		{"empty sequence", "{% for q in items %}[{{ q }}]{% endfor %}", map[string]any{"items": []any{}}, ""},
		{"missing sequence", "{% for q in items %}[{{ q }}]{% endfor %}", map[string]any{}, ""},
		{"not a sequence", "{% for q in items %}[{{ q }}]{% endfor %}", map[string]any{"items": "abc"}, ""},
		{"map is not a sequence", "{% for q in items %}[{{ q }}]{% endfor %}", map[string]any{"items": map[string]any{"a": 1}}, ""},
		{"element fields", "{% for q in qs %}{{ q.text }};{% endfor %}", map[string]any{
			"qs": []any{map[string]any{"text": "Why?"}, map[string]any{"text": "How?"}},
		}, "Why?;How?;"},
		{"outer fallthrough", "{% for q in qs %}{{ title }}:{{ q }} {% endfor %}", map[string]any{
			"title": "S", "qs": []any{"a", "b"},
		}, "S:a S:b "},
		{"loop variable shadows outer", "{% for x in xs %}{{ x }}{% endfor %}|{{ x }}", map[string]any{
			"x": "outer", "xs": []any{"1", "2"},
		}, "12|outer"},
		{"nested sequence path", "{% for r in survey.responses %}<{{ r.0 }}>{% endfor %}", map[string]any{
			"survey": map[string]any{"responses": []any{[]any{"yes"}, []any{"no"}}},
		}, "<yes><no>"},
		{"no separator", "{% for n in ns %}{{ n }}{% endfor %}", map[string]any{"ns": []any{1, 2, 3}}, "123"},
		{"text around", "a{% for n in ns %}-{% endfor %}b", map[string]any{"ns": []any{1, 2}}, "a--b"},
		{"multiline body", "{% for n in ns %}\n{{ n }}\n{% endfor %}", map[string]any{"ns": []any{1, 2}}, "\n1\n\n2\n"},
		{"unclosed stays literal", "{% for n in ns %}x", map[string]any{"ns": []any{1}}, "{% for n in ns %}x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestLoopMissingElementFieldDoesNotFallThrough(t *testing.T) {
	ctx := map[string]any{
		"q":  map[string]any{"text": "outer"},
		"qs": []any{map[string]any{"id": 1}},
	}
	result, err := Render("{% for q in qs %}[{{ q.text }}]{% endfor %}", ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if result != "[]" {
		t.Errorf("Render() = %q, want %q", result, "[]")
	}
}

// =============================================================================
// Shallow pairing contract
// =============================================================================

func TestShallowNesting(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      map[string]any
		expected string
	}{
		{
			"nested if pairs with first endif",
			"{% if a %}{% if b %}x{% endif %}y{% endif %}",
			map[string]any{"a": true, "b": true},
			"{% if b %}xy{% endif %}",
		},
		{
			"nested for pairs with first endfor",
			"{% for a in as %}{% for b in bs %}{{ b }}{% endfor %}|{% endfor %}",
			map[string]any{"as": []any{1, 2}, "bs": []any{"x"}},
			"{% for b in bs %}{% for b in bs %}|{% endfor %}",
		},
		{
			"condition in loop body uses outer context",
			"{% for q in qs %}{% if q %}[{{ q }}]{% endif %}{% endfor %}",
			map[string]any{"qs": []any{"a", "b"}},
			"",
		},
		{
			"condition in loop body with outer name",
			"{% for q in qs %}{% if show %}[{{ q }}]{% endif %}{% endfor %}",
			map[string]any{"qs": []any{"a", "b"}, "show": true},
			"[a][b]",
		},
		{
			"loop inside if",
			"{% if show %}{% for q in qs %}{{ q }}{% endfor %}{% endif %}",
			map[string]any{"qs": []any{"a", "b"}, "show": true},
			"ab",
		},
		{
			"substituted values are interpolated again",
			"{% for q in qs %}{{ q }}{% endfor %}",
			map[string]any{"qs": []any{"{{ secret }}"}, "secret": "s3"},
			"s3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// =============================================================================
// Pipeline properties
// =============================================================================

func TestRenderIdempotentWithoutDirectives(t *testing.T) {
	ctx := map[string]any{"name": "Ada", "items": []any{"a", "b"}, "show": true}
	first, err := Render("{% if show %}Hi {{ name }}{% endif %}: {% for i in items %}{{ i }},{% endfor %}", ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if first != "Hi Ada: a,b," {
		t.Fatalf("Render() = %q", first)
	}

	for _, other := range []map[string]any{nil, {}, ctx, {"name": "Bob"}} {
		again, err := Render(first, other)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if again != first {
			t.Errorf("re-render with %v = %q, want %q", other, again, first)
		}
	}
}

func TestRenderDoesNotMutateContext(t *testing.T) {
	ctx := map[string]any{
		"x":     "outer",
		"items": []any{"a", map[string]any{"k": "v"}},
		"nest":  map[string]any{"list": []any{1, 2}},
	}
	snapshot := map[string]any{
		"x":     "outer",
		"items": []any{"a", map[string]any{"k": "v"}},
		"nest":  map[string]any{"list": []any{1, 2}},
	}
	tmpl := "{% for x in items %}{{ x }}{{ x.k }}{% endfor %}{% for n in nest.list %}{{ n }}{% endfor %}{{ x }}"

	first, err := Render(tmpl, ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := Render(tmpl, ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
	if first != "av12outer" {
		t.Errorf("Render() = %q, want %q", first, "av12outer")
	}
	if !reflect.DeepEqual(ctx, snapshot) {
		t.Errorf("context was mutated: %v", ctx)
	}
}

func TestRenderConcurrent(t *testing.T) {
	engine := New()
	tmpl := "{% for q in qs %}{{ q }}-{{ who }};{% endfor %}"

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := strings.Repeat("w", i%5+1)
			want := "a-" + who + ";b-" + who + ";"
			got, err := engine.Render(tmpl, map[string]any{"qs": []any{"a", "b"}, "who": who})
			if err != nil || got != want {
				errs <- got
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("unexpected concurrent render result %q", got)
	}
}

func TestRenderContextTypes(t *testing.T) {
	type question struct {
		Text     string `json:"text"`
		Required bool   `json:"required"`
		Internal string `json:"-"`
	}
	type page struct {
		Title     string
		Questions []question `json:"questions"`
	}

	tests := []struct {
		name     string
		ctx      any
		template string
		expected string
	}{
		{"nil context", nil, "[{{ x }}]", "[]"},
		{"value map", Map(map[string]Value{"x": String("v")}), "{{ x }}", "v"},
		{"struct", page{Title: "T", Questions: []question{{Text: "Q1", Required: true, Internal: "no"}}},
			"{{ Title }}{% for q in questions %}:{{ q.text }}:{{ q.required }}:{{ q.Internal }}{% endfor %}", "T:Q1:true:"},
		{"pointer to struct", &page{Title: "P"}, "{{ Title }}", "P"},
		{"typed map", map[string]string{"x": "y"}, "{{ x }}", "y"},
		{"string slice", map[string]any{"l": []string{"a", "b"}}, "{% for i in l %}{{ i }}{% endfor %}", "ab"},
		{"yaml style map", map[string]any{"m": map[any]any{"k": "v", 1: "one"}}, "{{ m.k }}{{ m.1 }}", "vone"},
		{"uint64 above int64", map[string]any{"n": uint64(math.MaxUint64)}, "u64=[{{ n }}]", "u64=[18446744073709551615]"},
		{"negative zero", map[string]any{"z": math.Copysign(0, -1)}, "{{ z }}", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderInvalidContext(t *testing.T) {
	for _, ctx := range []any{"text", 42, []any{"a"}, true} {
		_, err := Render("{{ x }}", ctx)
		if !errors.Is(err, ErrInvalidContext) {
			t.Errorf("Render(%v) error = %v, want ErrInvalidContext", ctx, err)
		}
	}
}

func TestRenderReport(t *testing.T) {
	engine := New()
	tmpl := "{% if gone %}x{% endif %}{{ name }}{{ missing }}{% for q in qs %}{{ q.text }}{{ missing }}{% endfor %}{% for z in nope %}{% endfor %}"
	ctx := map[string]any{"name": "Ada", "qs": []any{map[string]any{}, map[string]any{"text": "t"}}}

	report, err := engine.RenderReport(tmpl, ctx)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	if report.Output != "Adat" {
		t.Errorf("Output = %q, want %q", report.Output, "Adat")
	}
	want := []string{"gone", "q.text", "missing", "nope"}
	if !reflect.DeepEqual(report.Unresolved, want) {
		t.Errorf("Unresolved = %v, want %v", report.Unresolved, want)
	}

	plain, err := engine.Render(tmpl, ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if plain != report.Output {
		t.Errorf("Render() = %q, RenderReport() = %q", plain, report.Output)
	}
}

func TestParseNesting(t *testing.T) {
	tests := []struct {
		input    string
		expected Nesting
		wantErr  bool
	}{
		{"", NestingShallow, false},
		{"shallow", NestingShallow, false},
		{"Balanced", NestingBalanced, false},
		{" balanced ", NestingBalanced, false},
		{"deep", NestingShallow, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNesting(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNesting(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownNesting) {
				t.Errorf("error = %v, want ErrUnknownNesting", err)
			}
			if got != tt.expected {
				t.Errorf("ParseNesting(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
