package template

import (
	"regexp"
	"strings"
)

var (
	ifTagPattern     = regexp.MustCompile(`^\s*if\s+(` + pathExpr + `)\s*$`)
	endifTagPattern  = regexp.MustCompile(`^\s*endif\s*$`)
	forTagPattern    = regexp.MustCompile(`^\s*for\s+([A-Za-z0-9_]+)\s+in\s+(` + pathExpr + `)\s*$`)
	endforTagPattern = regexp.MustCompile(`^\s*endfor\s*$`)
)

type nodeKind uint8

const (
	nodeText nodeKind = iota
	nodeIf
	nodeFor
)

// node is one element of the block tree built by parseBlocks.
type node struct {
	kind     nodeKind
	text     string // literal text, or the raw opening tag of a block
	path     string
	name     string
	children []*node
}

type tagKind uint8

const (
	tagUnknown tagKind = iota
	tagIf
	tagEndif
	tagFor
	tagEndfor
)

// tag is a classified {% ... %} occurrence.
type tag struct {
	kind       tagKind
	start, end int
	raw        string
	path       string
	name       string
}

// scanTags finds and classifies every {% ... %} tag in src.
func scanTags(src string) []tag {
	locs := tagPattern.FindAllStringSubmatchIndex(src, -1)
	tags := make([]tag, 0, len(locs))
	for _, loc := range locs {
		t := tag{start: loc[0], end: loc[1], raw: src[loc[0]:loc[1]]}
		inner := src[loc[2]:loc[3]]
		if m := ifTagPattern.FindStringSubmatch(inner); m != nil {
			t.kind, t.path = tagIf, m[1]
		} else if endifTagPattern.MatchString(inner) {
			t.kind = tagEndif
		} else if m := forTagPattern.FindStringSubmatch(inner); m != nil {
			t.kind, t.name, t.path = tagFor, m[1], m[2]
		} else if endforTagPattern.MatchString(inner) {
			t.kind = tagEndfor
		}
		tags = append(tags, t)
	}
	return tags
}

// parseBlocks builds a block tree by pairing every closer with the nearest
// open block of the same kind. Closers that do not match the innermost open
// block, unknown tags and openers that are never closed stay literal text.
func parseBlocks(src string) []*node {
	type frame struct {
		block    *node
		children []*node
	}
	stack := []*frame{{}}
	top := func() *frame { return stack[len(stack)-1] }
	appendText := func(s string) {
		if s == "" {
			return
		}
		f := top()
		if n := len(f.children); n > 0 && f.children[n-1].kind == nodeText {
			f.children[n-1].text += s
			return
		}
		f.children = append(f.children, &node{kind: nodeText, text: s})
	}

	last := 0
	for _, t := range scanTags(src) {
		appendText(src[last:t.start])
		last = t.end

		switch t.kind {
		case tagIf:
			stack = append(stack, &frame{block: &node{kind: nodeIf, text: t.raw, path: t.path}})
		case tagFor:
			stack = append(stack, &frame{block: &node{kind: nodeFor, text: t.raw, path: t.path, name: t.name}})
		case tagEndif, tagEndfor:
			want := nodeIf
			if t.kind == tagEndfor {
				want = nodeFor
			}
			f := top()
			if f.block == nil || f.block.kind != want {
				appendText(t.raw)
				continue
			}
			stack = stack[:len(stack)-1]
			f.block.children = f.children
			top().children = append(top().children, f.block)
		default:
			appendText(t.raw)
		}
	}
	appendText(src[last:])

	// Unclosed blocks dissolve into their parent as literal text.
	for len(stack) > 1 {
		f := top()
		stack = stack[:len(stack)-1]
		appendText(f.block.text)
		for _, child := range f.children {
			if child.kind == nodeText {
				appendText(child.text)
			} else {
				top().children = append(top().children, child)
			}
		}
	}
	return stack[0].children
}

// renderBalanced renders a block tree. Loop bodies see the loop frame for
// conditions, nested loops and markers alike; rendered output is never
// rescanned.
func renderBalanced(nodes []*node, scope *Scope, rs *renderState, b *strings.Builder) {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			b.WriteString(resolveVariables(n.text, scope, rs))
		case nodeIf:
			if rs.resolve(scope, n.path).IsTrue() {
				renderBalanced(n.children, scope, rs, b)
			}
		case nodeFor:
			items, _ := rs.resolve(scope, n.path).AsSeq()
			for _, item := range items {
				renderBalanced(n.children, scope.Push(n.name, item), rs, b)
			}
		}
	}
}
