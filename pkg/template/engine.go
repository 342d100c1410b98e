package template

import (
	"fmt"
	"strings"
)

// Nesting selects how block directives pair with their closers.
type Nesting uint8

const (
	// NestingShallow pairs each opener with the first closer of its kind
	// that follows it. Nested same-kind blocks mis-pair, and conditions
	// inside loop bodies are evaluated against the outer context only.
	NestingShallow Nesting = iota

	// NestingBalanced pairs directives by depth. Loop bodies get the full
	// pipeline against the loop frame, and substituted values are never
	// rescanned for directives.
	NestingBalanced
)

func (n Nesting) String() string {
	switch n {
	case NestingShallow:
		return "shallow"
	case NestingBalanced:
		return "balanced"
	default:
		return fmt.Sprintf("Nesting(%d)", uint8(n))
	}
}

// ParseNesting parses "shallow" or "balanced". The empty string selects
// the default, shallow.
func ParseNesting(s string) (Nesting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shallow":
		return NestingShallow, nil
	case "balanced":
		return NestingBalanced, nil
	default:
		return NestingShallow, fmt.Errorf("%w: %q", ErrUnknownNesting, s)
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithNesting selects the directive pairing mode.
func WithNesting(n Nesting) Option {
	return func(e *Engine) {
		e.nesting = n
	}
}

// Engine renders templates. It holds no per-render state and is safe for
// concurrent use.
type Engine struct {
	nesting Nesting
}

// New creates an engine. Without options it uses NestingShallow.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Nesting returns the engine's pairing mode.
func (e *Engine) Nesting() Nesting {
	return e.nesting
}

// Report is the result of RenderReport.
type Report struct {
	Output string
	// Unresolved lists the paths that did not resolve, in first-seen order,
	// without duplicates.
	Unresolved []string
}

// Render resolves conditionals, then loops, then markers in tmpl against
// ctx. Malformed directives stay in the output as literal text and missing
// data renders as falsy or empty. The only error is ErrInvalidContext.
func (e *Engine) Render(tmpl string, ctx any) (string, error) {
	scope, err := rootScope(ctx)
	if err != nil {
		return "", err
	}
	return e.render(tmpl, scope, &renderState{}), nil
}

// RenderReport renders like Render and also reports unresolved references.
func (e *Engine) RenderReport(tmpl string, ctx any) (*Report, error) {
	scope, err := rootScope(ctx)
	if err != nil {
		return nil, err
	}
	rs := &renderState{track: true}
	out := e.render(tmpl, scope, rs)
	return &Report{Output: out, Unresolved: rs.unresolved}, nil
}

func (e *Engine) render(tmpl string, scope *Scope, rs *renderState) string {
	if e.nesting == NestingBalanced {
		var b strings.Builder
		b.Grow(len(tmpl))
		renderBalanced(parseBlocks(tmpl), scope, rs, &b)
		return b.String()
	}

	out := resolveConditionals(tmpl, scope, rs)
	out = resolveLoops(out, scope, rs)
	return resolveVariables(out, scope, rs)
}

var defaultEngine = New()

// Render renders tmpl against ctx with a shallow engine.
func Render(tmpl string, ctx any) (string, error) {
	return defaultEngine.Render(tmpl, ctx)
}

// rootScope builds the single-frame scope for a render. A nil context is
// treated as empty.
func rootScope(ctx any) (*Scope, error) {
	v := FromAny(ctx)
	switch v.Kind() {
	case KindMap:
		m, _ := v.AsMap()
		return NewScope(m), nil
	case KindNull, KindUndefined:
		return NewScope(nil), nil
	default:
		return nil, fmt.Errorf("%w: got %s", ErrInvalidContext, v.Kind())
	}
}

// renderState carries per-render bookkeeping.
type renderState struct {
	track      bool
	seen       map[string]struct{}
	unresolved []string
}

func (rs *renderState) resolve(scope *Scope, path string) Value {
	v := scope.Resolve(path)
	if rs.track && v.IsUndefined() {
		if rs.seen == nil {
			rs.seen = make(map[string]struct{})
		}
		if _, ok := rs.seen[path]; !ok {
			rs.seen[path] = struct{}{}
			rs.unresolved = append(rs.unresolved, path)
		}
	}
	return v
}
