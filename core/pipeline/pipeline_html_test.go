package pipeline

import (
	"strings"
	"testing"

	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/toggle"
	"github.com/gaurav-prasanna/pagesimplify/core/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const article = `<html><head><title>Fox</title></head><body>
<header class="header">Welcome to the site about animals</header>
<article>
  <p>The quick brown fox jumps over the lazy dog near the riverbank today.</p>
  <p>Click here!!!</p>
  <p>Foxes are small omnivorous mammals found on most continents.</p>
</article>
<div class="cookie-banner"><p>We use cookies to give you the best experience.</p></div>
</body></html>`

func TestRunOnHTMLDocument(t *testing.T) {
	doc, err := tree.ParseString(article)
	require.NoError(t, err)

	client := &fakeSimplifier{fail: func(text string) error {
		if strings.HasPrefix(text, "Foxes") {
			return &simplify.Error{Kind: simplify.KindProvider, StatusCode: 502}
		}
		return nil
	}}
	p := New(doc, selector.New(selector.DefaultRules()), client, DefaultConfig(), WithSleeper((&sleepLog{}).sleep))

	out, err := p.Run(t.Context(), Request{Level: "B1", ShowOriginal: true})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Attempted)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, client.calls, 2)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog near the riverbank today.", client.calls[0].Text)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "simple: The quick brown fox")
	assert.Contains(t, html, "<p>Foxes are small omnivorous mammals found on most continents.</p>")
	assert.Contains(t, html, "<p>Click here!!!</p>")
	assert.NotContains(t, html, "Processing...")

	annotations := doc.OriginalAnnotations()
	require.Len(t, annotations, 1)
	assert.True(t, annotations[0].Visible())
	assert.Equal(t, client.calls[0].Text, annotations[0].Text())

	toggle.SetOriginalVisible(doc, false)
	assert.False(t, doc.OriginalAnnotations()[0].Visible())

	// A second pass over the rewritten page finds nothing new to send.
	again := &fakeSimplifier{fail: func(string) error { return &simplify.Error{Kind: simplify.KindProvider} }}
	out, err = New(doc, selector.New(selector.DefaultRules()), again, DefaultConfig(), WithSleeper((&sleepLog{}).sleep)).
		Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Attempted, "only the reverted fragment qualifies again")
}

func TestRunFailureKeepsInlineSpacing(t *testing.T) {
	doc, err := tree.ParseString(`<html><body><p>Some <b>bold</b> text about rivers that flow into the sea.</p></body></html>`)
	require.NoError(t, err)

	client := &fakeSimplifier{fail: func(string) error {
		return &simplify.Error{Kind: simplify.KindProvider, StatusCode: 503}
	}}
	p := New(doc, selector.New(selector.DefaultRules()), client, DefaultConfig(), WithSleeper((&sleepLog{}).sleep))

	out, err := p.Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, client.calls, 1)
	assert.Equal(t, "text about rivers that flow into the sea.", client.calls[0].Text)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Some <b>bold</b> text about rivers that flow into the sea.</p>")
}
