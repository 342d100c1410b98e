package template

import "strings"

// Scope is one frame of the lookup stack used during rendering. Frames are
// immutable: Push returns a new innermost frame and leaves the receiver
// untouched, so a loop iteration's bindings disappear as soon as the frame
// is dropped.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

// NewScope returns a single-frame scope over vars.
func NewScope(vars map[string]Value) *Scope {
	if vars == nil {
		vars = map[string]Value{}
	}
	return &Scope{vars: vars}
}

// Push returns a new innermost frame binding name to v.
func (s *Scope) Push(name string, v Value) *Scope {
	return &Scope{vars: map[string]Value{name: v}, parent: s}
}

// Depth returns the number of frames in the stack.
func (s *Scope) Depth() int {
	n := 0
	for sc := s; sc != nil; sc = sc.parent {
		n++
	}
	return n
}

// Resolve looks up a dotted path. The first segment is searched innermost
// frame first; the frame that binds it owns the rest of the walk, so a
// missing nested key does not fall through to outer frames. Any failure
// yields Undefined.
func (s *Scope) Resolve(path string) Value {
	segments := strings.Split(path, ".")
	for sc := s; sc != nil; sc = sc.parent {
		root, ok := sc.vars[segments[0]]
		if !ok {
			continue
		}
		v := root
		for _, seg := range segments[1:] {
			v = v.Get(seg)
			if v.IsUndefined() {
				return v
			}
		}
		return v
	}
	return Undefined()
}
