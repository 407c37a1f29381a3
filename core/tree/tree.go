// Package tree adapts a parsed HTML document to the core content-tree
// interfaces. Views are built by the render package and spliced in place of
// the original text nodes.
package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/render"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrDetached is returned when replacing a node that has no container.
	ErrDetached = errors.New("node is not attached to a container")
	// ErrForeignNode is returned when a replacement was built by another tree.
	ErrForeignNode = errors.New("replacement node belongs to a different tree implementation")

	originalSel     = cascadia.MustCompile("." + render.ClassOriginal)
	originalBodySel = cascadia.MustCompile("." + render.ClassOriginalBody)
)

// Document is an HTML page exposed as a core.ContentTree.
type Document struct {
	root   *html.Node
	scope  *html.Node
	styled bool
}

// Parse reads an HTML page. The default scope is <body>.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	d := &Document{root: root}
	d.scope = d.findBody()
	return d, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) findBody() *html.Node {
	var body *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	if body == nil {
		return d.root
	}
	return body
}

// Selection returns a goquery view of the whole document.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

// SetScope narrows Root to the given element. A nil scope resets to <body>.
func (d *Document) SetScope(n *html.Node) {
	if n == nil {
		d.scope = d.findBody()
		return
	}
	d.scope = n
}

// Title returns the trimmed <title> text.
func (d *Document) Title() string {
	return strings.TrimSpace(d.Selection().Find("title").First().Text())
}

// HTML serializes the full document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), nil
}

// BodyHTML serializes the <body> element only.
func (d *Document) BodyHTML() (string, error) {
	return goquery.OuterHtml(goquery.NewDocumentFromNode(d.findBody()).Selection)
}

// Root implements core.ContentTree.
func (d *Document) Root() core.Node { return &node{n: d.scope} }

// NewLoading implements core.ContentTree.
func (d *Document) NewLoading(original string) core.Node {
	d.ensureStyle()
	return &node{n: render.LoadingView(original)}
}

// NewResult implements core.ContentTree.
func (d *Document) NewResult(original, simplified string, showOriginal bool) core.Node {
	d.ensureStyle()
	return &node{n: render.ResultView(original, simplified, showOriginal)}
}

// NewText implements core.ContentTree.
func (d *Document) NewText(text string) core.Node {
	return &node{n: &html.Node{Type: html.TextNode, Data: text}}
}

// OriginalAnnotations implements core.ContentTree.
func (d *Document) OriginalAnnotations() []core.Annotation {
	found := cascadia.QueryAll(d.root, originalSel)
	out := make([]core.Annotation, 0, len(found))
	for _, n := range found {
		out = append(out, annotation{n: n})
	}
	return out
}

func (d *Document) ensureStyle() {
	if d.styled {
		return
	}
	render.InjectStylesheet(d.root)
	d.styled = true
}

type node struct {
	n *html.Node
}

func (x *node) Children() []core.Node {
	var out []core.Node
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, &node{n: c})
	}
	return out
}

func (x *node) Text() (string, bool) {
	if x.n.Type != html.TextNode {
		return "", false
	}
	return x.n.Data, true
}

func (x *node) ContainerKind() string {
	p := x.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(p.Data)
}

func (x *node) ContainerClass() string {
	p := x.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return ""
	}
	return attr(p, "class")
}

func (x *node) ReplaceWith(repl core.Node) error {
	r, ok := repl.(*node)
	if !ok {
		return ErrForeignNode
	}
	parent := x.n.Parent
	if parent == nil {
		return ErrDetached
	}
	if r.n.Parent != nil {
		r.n.Parent.RemoveChild(r.n)
	}
	parent.InsertBefore(r.n, x.n)
	parent.RemoveChild(x.n)
	return nil
}

type annotation struct {
	n *html.Node
}

func (a annotation) Visible() bool { return !render.IsHidden(attr(a.n, "style")) }

func (a annotation) SetVisible(show bool) { setAttr(a.n, "style", render.DisplayStyle(show)) }

func (a annotation) Text() string {
	body := cascadia.Query(a.n, originalBodySel)
	if body == nil {
		return ""
	}
	return textOf(body)
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
