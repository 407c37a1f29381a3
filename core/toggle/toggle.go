// Package toggle shows or hides the original-text annotations of a page.
package toggle

import "github.com/gaurav-prasanna/pagesimplify/core"

// SetOriginalVisible sets the display state of every rendered original-text
// annotation and returns how many there were. Fragment data is untouched,
// and repeating a call with the same value changes nothing.
func SetOriginalVisible(tree core.ContentTree, show bool) int {
	annotations := tree.OriginalAnnotations()
	for _, a := range annotations {
		if a.Visible() != show {
			a.SetVisible(show)
		}
	}
	return len(annotations)
}
