package tree

import (
	"strings"
	"testing"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title> Rivers </title></head>
<body>
<nav class="menu">Home and other navigation links</nav>
<main><p>Rivers carry water from the mountains to the sea.</p></main>
<script>var x = "a script that is long enough";</script>
</body>
</html>`

func textNodes(n core.Node) []core.Node {
	var out []core.Node
	if _, ok := n.Text(); ok {
		return []core.Node{n}
	}
	for _, c := range n.Children() {
		out = append(out, textNodes(c)...)
	}
	return out
}

func findText(t *testing.T, root core.Node, substr string) core.Node {
	t.Helper()
	for _, n := range textNodes(root) {
		if v, _ := n.Text(); strings.Contains(v, substr) {
			return n
		}
	}
	t.Fatalf("no text node containing %q", substr)
	return nil
}

func TestParseExposesBody(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	assert.Equal(t, "Rivers", doc.Title())

	n := findText(t, doc.Root(), "Rivers carry")
	assert.Equal(t, "p", n.ContainerKind())
	assert.Equal(t, "", n.ContainerClass())

	nav := findText(t, doc.Root(), "navigation links")
	assert.Equal(t, "nav", nav.ContainerKind())
	assert.Equal(t, "menu", nav.ContainerClass())

	script := findText(t, doc.Root(), "a script")
	assert.Equal(t, "script", script.ContainerKind())

	for _, n := range textNodes(doc.Root()) {
		v, _ := n.Text()
		assert.NotContains(t, v, " Rivers ", "title lives outside the body scope")
	}
}

func TestReplaceWithLoadingThenResult(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	original := "Rivers carry water from the mountains to the sea."
	n := findText(t, doc.Root(), "Rivers carry")

	loading := doc.NewLoading(original)
	require.NoError(t, n.ReplaceWith(loading))
	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `class="`+render.ClassLoading+`"`)
	assert.Contains(t, out, "Processing...")
	assert.Contains(t, out, `<style id="`+render.StyleID+`">`)

	require.NoError(t, loading.ReplaceWith(doc.NewResult(original, "Rivers take water to the sea.", false)))
	out, err = doc.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, `class="`+render.ClassLoading+`"`)
	assert.Contains(t, out, `<span class="simplified-text">Rivers take water to the sea.</span>`)
	assert.Equal(t, 1, strings.Count(out, `id="`+render.StyleID+`"`), "stylesheet injected once")

	annotations := doc.OriginalAnnotations()
	require.Len(t, annotations, 1)
	assert.False(t, annotations[0].Visible())
	assert.Equal(t, original, annotations[0].Text())
}

func TestReplaceWithPlainText(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	n := findText(t, doc.Root(), "Rivers carry")
	loading := doc.NewLoading("Rivers carry water from the mountains to the sea.")
	require.NoError(t, n.ReplaceWith(loading))
	require.NoError(t, loading.ReplaceWith(doc.NewText("Rivers carry water from the mountains to the sea.")))

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "<p>Rivers carry water from the mountains to the sea.</p>")
}

func TestReplaceWithErrors(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	detached := doc.NewText("floating")
	assert.ErrorIs(t, detached.ReplaceWith(doc.NewText("other")), ErrDetached)

	n := findText(t, doc.Root(), "Rivers carry")
	assert.ErrorIs(t, n.ReplaceWith(foreign{}), ErrForeignNode)
}

func TestViewTextIsNotMarkup(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	n := findText(t, doc.Root(), "Rivers carry")
	require.NoError(t, n.ReplaceWith(doc.NewResult("<b>x</b> original", "<script>alert(1)</script>", true)))

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Equal(t, "<b>x</b> original", doc.OriginalAnnotations()[0].Text())
}

func TestSetScope(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	mainNode := doc.Selection().Find("main").Get(0)
	doc.SetScope(mainNode)
	texts := textNodes(doc.Root())
	require.Len(t, texts, 1)

	doc.SetScope(nil)
	assert.Greater(t, len(textNodes(doc.Root())), 1)
}

func TestBodyHTML(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	body, err := doc.BodyHTML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "<body>"))
	assert.NotContains(t, body, "<title>")
}

type foreign struct{}

func (foreign) Children() []core.Node       { return nil }
func (foreign) Text() (string, bool)        { return "", false }
func (foreign) ContainerKind() string       { return "" }
func (foreign) ContainerClass() string      { return "" }
func (foreign) ReplaceWith(core.Node) error { return nil }
