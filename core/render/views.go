// Package render builds the markup for the three visual states of a fragment
// (loading, simplified, plain) and renders run reports.
//
// Text is always inserted as text nodes, never parsed as markup.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Presentational classes. The selector treats every class containing
// ClassOriginal, ClassSimplified or ClassLoading as already produced.
const (
	ClassLoading         = "simplification-loading"
	ClassLoadingOriginal = "simplification-loading-original"
	ClassSimplified      = "simplified-text"
	ClassOriginal        = "original-text"
	ClassOriginalBody    = "original-text-body"

	StyleID = "pagesimplify-style"
)

// Stylesheet keeps the states visually distinguishable.
const Stylesheet = `
.simplified-text {
    background: linear-gradient(90deg, rgba(0,243,255,0.1), rgba(157,0,255,0.1)) !important;
    padding: 2px 4px;
    border-radius: 4px;
    border-left: 3px solid #00f3ff;
}
.original-text {
    color: #666;
    font-style: italic;
    font-size: 0.9em;
    opacity: 0.7;
}
.simplification-loading {
    background: rgba(0,243,255,0.05) !important;
    border-left: 3px solid #ffaa00;
}
`

// DisplayStyle is the inline style of an original-text annotation.
func DisplayStyle(show bool) string {
	if show {
		return "display:block; margin-bottom: 4px;"
	}
	return "display:none; margin-bottom: 4px;"
}

// IsHidden reports whether an inline style hides the element.
func IsHidden(style string) bool {
	compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(compact, "display:none")
}

// LoadingView returns a detached placeholder showing the original text.
func LoadingView(original string) *html.Node {
	root := element(atom.Span, "class", ClassLoading)
	head := element(atom.Span, "style", "display:block; margin-bottom: 4px;")
	head.AppendChild(label("Original: "))
	body := element(atom.Span, "class", ClassLoadingOriginal)
	body.AppendChild(textNode(original))
	head.AppendChild(body)
	root.AppendChild(head)

	status := element(atom.Span)
	status.AppendChild(label("Processing..."))
	root.AppendChild(status)
	return root
}

// ResultView returns a detached view with the simplified text, preceded by
// the original-text annotation.
func ResultView(original, simplified string, showOriginal bool) *html.Node {
	root := element(atom.Span)

	orig := element(atom.Span, "class", ClassOriginal, "style", DisplayStyle(showOriginal))
	orig.AppendChild(label("Original: "))
	body := element(atom.Span, "class", ClassOriginalBody)
	body.AppendChild(textNode(original))
	orig.AppendChild(body)
	root.AppendChild(orig)

	simp := element(atom.Span, "class", ClassSimplified)
	simp.AppendChild(textNode(simplified))
	root.AppendChild(simp)
	return root
}

// InjectStylesheet adds the stylesheet to the document head once.
// Documents without a head are left untouched.
func InjectStylesheet(doc *html.Node) {
	var head *html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Style && attr(n, "id") == StyleID {
			return true
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Head && head == nil {
			head = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(doc) || head == nil {
		return
	}
	style := element(atom.Style, "id", StyleID)
	style.AppendChild(textNode(Stylesheet))
	head.AppendChild(style)
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func label(s string) *html.Node {
	strong := element(atom.Strong)
	strong.AppendChild(textNode(s))
	return strong
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
