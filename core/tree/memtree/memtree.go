// Package memtree is an in-memory content tree. It mirrors the shapes the
// HTML tree produces (containers with a kind and a class, text leaves) so
// selection and pipeline logic can be exercised without a parser.
package memtree

import (
	"errors"
	"strings"

	"github.com/gaurav-prasanna/pagesimplify/core"
)

// Kinds used for views built by the tree.
const (
	KindLoading    = "loading"
	KindResult     = "result"
	KindOriginal   = "original"
	KindSimplified = "simplified"
)

// ErrDetached is returned when replacing a node without a container.
var ErrDetached = errors.New("memtree: node is not attached")

// Node is an element or a text leaf.
type Node struct {
	Kind     string
	Class    string
	Value    string
	IsText   bool
	Hidden   bool
	parent   *Node
	children []*Node
}

// El builds an element with the given kind and class.
func El(kind, class string, children ...*Node) *Node {
	n := &Node{Kind: kind, Class: class}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// T builds a text leaf.
func T(value string) *Node {
	return &Node{IsText: true, Value: value}
}

// Append attaches c as the last child.
func (n *Node) Append(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

// Parent returns the container, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Nodes returns the concrete children.
func (n *Node) Nodes() []*Node { return n.children }

// Children implements core.Node.
func (n *Node) Children() []core.Node {
	out := make([]core.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Text implements core.Node.
func (n *Node) Text() (string, bool) {
	if !n.IsText {
		return "", false
	}
	return n.Value, true
}

// ContainerKind implements core.Node.
func (n *Node) ContainerKind() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.Kind
}

// ContainerClass implements core.Node.
func (n *Node) ContainerClass() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.Class
}

// ReplaceWith implements core.Node.
func (n *Node) ReplaceWith(repl core.Node) error {
	r, ok := repl.(*Node)
	if !ok {
		return errors.New("memtree: foreign replacement node")
	}
	p := n.parent
	if p == nil {
		return ErrDetached
	}
	for i, c := range p.children {
		if c == n {
			r.parent = p
			p.children[i] = r
			n.parent = nil
			return nil
		}
	}
	return ErrDetached
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	if n.IsText {
		return n.Value
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Tree is a core.ContentTree over a root Node.
type Tree struct {
	root *Node
}

// New wraps root.
func New(root *Node) *Tree { return &Tree{root: root} }

// Root implements core.ContentTree.
func (t *Tree) Root() core.Node { return t.root }

// NewLoading implements core.ContentTree.
func (t *Tree) NewLoading(original string) core.Node {
	return El(KindLoading, "simplification-loading", T(original))
}

// NewResult implements core.ContentTree.
func (t *Tree) NewResult(original, simplified string, showOriginal bool) core.Node {
	orig := El(KindOriginal, "original-text", T(original))
	orig.Hidden = !showOriginal
	return El(KindResult, "", orig, El(KindSimplified, "simplified-text", T(simplified)))
}

// NewText implements core.ContentTree.
func (t *Tree) NewText(text string) core.Node { return T(text) }

// OriginalAnnotations implements core.ContentTree.
func (t *Tree) OriginalAnnotations() []core.Annotation {
	var out []core.Annotation
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == KindOriginal {
			out = append(out, annotation{n: n})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// Find returns every node of the given kind in document order.
func (t *Tree) Find(kind string) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

type annotation struct {
	n *Node
}

func (a annotation) Visible() bool        { return !a.n.Hidden }
func (a annotation) SetVisible(show bool) { a.n.Hidden = !show }
func (a annotation) Text() string         { return a.n.TextContent() }
