// Package extract narrows the part of a page the selector walks.
//
// ScopeBody walks the whole <body>. ScopeAuto picks the best content
// container in priority order: <main>, then <article>, then <body>.
package extract

import (
	"fmt"

	"github.com/gaurav-prasanna/pagesimplify/core/tree"
)

// Scope names a content scope.
type Scope string

const (
	ScopeBody Scope = "body"
	ScopeAuto Scope = "auto"
)

// containers are tried in order by ScopeAuto.
var containers = []string{"main", "article", "body"}

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeBody, ScopeAuto:
		return Scope(s), nil
	case "":
		return ScopeBody, nil
	default:
		return "", fmt.Errorf("unknown scope %q (want body or auto)", s)
	}
}

// Apply sets the document scope and returns the element name chosen.
func Apply(doc *tree.Document, scope Scope) string {
	if scope != ScopeAuto {
		doc.SetScope(nil)
		return "body"
	}

	sel := doc.Selection()
	for _, tag := range containers {
		found := sel.Find(tag)
		if found.Length() > 0 {
			doc.SetScope(found.Get(0))
			return tag
		}
	}
	doc.SetScope(nil)
	return "body"
}
