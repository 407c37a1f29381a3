package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/tree/memtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const foxText = "The quick brown fox jumps over the lazy dog near the riverbank today."

var ordinals = []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func paragraph(i int) string {
	return fmt.Sprintf("Paragraph %s talks about rivers and mountains.", ordinals[i])
}

// page builds a body with n qualifying paragraphs plus some noise.
func page(n int) (*memtree.Tree, *memtree.Node) {
	body := memtree.El("body", "")
	body.Append(memtree.El("nav", "main-nav", memtree.T("Home and other links for the site")))
	for i := 0; i < n; i++ {
		body.Append(memtree.El("p", "", memtree.T("  "+paragraph(i)+"\n")))
	}
	body.Append(memtree.El("script", "", memtree.T("var somethingLongEnoughToMatter = true;")))
	return memtree.New(body), body
}

type call struct {
	Text  string
	Level string
}

type fakeSimplifier struct {
	calls  []call
	fail   func(text string) error
	before func(n int)
}

func (f *fakeSimplifier) Simplify(ctx context.Context, text, level string) (string, error) {
	f.calls = append(f.calls, call{Text: text, Level: level})
	if f.before != nil {
		f.before(len(f.calls))
	}
	if err := ctx.Err(); err != nil {
		return "", &simplify.Error{Kind: simplify.KindTransport, Err: err}
	}
	if f.fail != nil {
		if err := f.fail(text); err != nil {
			return "", err
		}
	}
	return "simple: " + text, nil
}

type sleepLog struct {
	durations []time.Duration
}

func (s *sleepLog) sleep(ctx context.Context, d time.Duration) error {
	s.durations = append(s.durations, d)
	return ctx.Err()
}

func newPipeline(t *testing.T, tree core.ContentTree, client core.Simplifier, sleeps *sleepLog) *Pipeline {
	t.Helper()
	if sleeps == nil {
		sleeps = &sleepLog{}
	}
	return New(tree, selector.New(selector.DefaultRules()), client, DefaultConfig(),
		WithLogger(zaptest.NewLogger(t)),
		WithSleeper(sleeps.sleep))
}

func TestRunEmptyPage(t *testing.T) {
	tree, _ := page(0)
	client := &fakeSimplifier{}

	out, err := newPipeline(t, tree, client, nil).Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, 0, out.Attempted)
	assert.Equal(t, 0, out.Succeeded)
	assert.Equal(t, 0, out.Failed)
	assert.Empty(t, client.calls)
}

func TestRunSingleFragment(t *testing.T) {
	body := memtree.El("body", "", memtree.El("p", "", memtree.T(foxText)))
	tree := memtree.New(body)
	client := &fakeSimplifier{}

	out, err := newPipeline(t, tree, client, nil).Run(t.Context(), Request{Level: "b1", ShowOriginal: true})
	require.NoError(t, err)

	assert.Equal(t, []call{{Text: foxText, Level: "B1"}}, client.calls)
	assert.True(t, out.Found)
	assert.Equal(t, 1, out.Attempted)
	assert.Equal(t, 1, out.Succeeded)
	require.Len(t, out.Results, 1)
	assert.Equal(t, core.StatusSimplified, out.Results[0].Status)
	assert.Equal(t, "simple: "+foxText, out.Results[0].Simplified)
	assert.NotEmpty(t, out.RunID)

	annotations := tree.OriginalAnnotations()
	require.Len(t, annotations, 1)
	assert.True(t, annotations[0].Visible())
	assert.Equal(t, foxText, annotations[0].Text())
	assert.Empty(t, tree.Find(memtree.KindLoading))
}

func TestRunHidesOriginalByDefault(t *testing.T) {
	tree, _ := page(2)
	_, err := newPipeline(t, tree, &fakeSimplifier{}, nil).Run(t.Context(), Request{Level: "A2"})
	require.NoError(t, err)

	annotations := tree.OriginalAnnotations()
	require.Len(t, annotations, 2)
	for i, a := range annotations {
		assert.False(t, a.Visible())
		assert.Equal(t, paragraph(i), a.Text(), "original must be the text captured at selection")
	}
}

func TestRunAllFailuresRestoreOriginalText(t *testing.T) {
	tree, body := page(5)
	client := &fakeSimplifier{fail: func(string) error {
		return &simplify.Error{Kind: simplify.KindProvider, StatusCode: 500}
	}}

	out, err := newPipeline(t, tree, client, nil).Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)

	assert.Equal(t, 5, out.Attempted)
	assert.Equal(t, 0, out.Succeeded)
	assert.Equal(t, 5, out.Failed)
	assert.Len(t, client.calls, 5)
	assert.Empty(t, tree.Find(memtree.KindLoading))
	assert.Empty(t, tree.Find(memtree.KindResult))

	var paragraphs []string
	for _, n := range body.Nodes() {
		if n.Kind == "p" {
			require.Len(t, n.Nodes(), 1)
			assert.True(t, n.Nodes()[0].IsText)
			paragraphs = append(paragraphs, n.TextContent())
		}
	}
	for i, got := range paragraphs {
		assert.Equal(t, "  "+paragraph(i)+"\n", got, "restored text keeps its surrounding whitespace")
	}
	for i, r := range out.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, core.StatusFailed, r.Status)
		assert.Contains(t, r.Error, "500")
	}
}

func TestRunPartialFailure(t *testing.T) {
	tree, _ := page(4)
	client := &fakeSimplifier{fail: func(text string) error {
		if strings.Contains(text, "two") {
			return &simplify.Error{Kind: simplify.KindProtocol}
		}
		return nil
	}}

	out, err := newPipeline(t, tree, client, nil).Run(t.Context(), Request{Level: "C2"})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Attempted)
	assert.Equal(t, 3, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, out.Attempted, len(out.Results))
	assert.Len(t, tree.Find(memtree.KindResult), 3)
}

func TestRunRendersLoadingPerBatch(t *testing.T) {
	tree, _ := page(4)
	var loadingAtCall []int
	client := &fakeSimplifier{}
	client.before = func(int) {
		loadingAtCall = append(loadingAtCall, len(tree.Find(memtree.KindLoading)))
	}

	_, err := newPipeline(t, tree, client, nil).Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)

	// Batch one: 3 placeholders, shrinking as results land. Batch two: 1.
	assert.Equal(t, []int{3, 2, 1, 1}, loadingAtCall)
}

func TestRunPacing(t *testing.T) {
	tree, _ := page(7)
	sleeps := &sleepLog{}

	_, err := newPipeline(t, tree, &fakeSimplifier{}, sleeps).Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)

	item, batch := DefaultItemDelay, DefaultBatchDelay
	assert.Equal(t, []time.Duration{item, item, batch, item, item, batch}, sleeps.durations)
}

func TestRunCapsCandidates(t *testing.T) {
	body := memtree.El("body", "")
	for i := 0; i < 30; i++ {
		body.Append(memtree.El("p", "", memtree.T(paragraph(i%len(ordinals)))))
	}
	client := &fakeSimplifier{}

	out, err := newPipeline(t, memtree.New(body), client, nil).Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)
	assert.Equal(t, selector.DefaultMaxCandidates, out.Attempted)
	assert.Len(t, client.calls, selector.DefaultMaxCandidates)
}

func TestRunCancelled(t *testing.T) {
	tree, _ := page(3)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	client := &fakeSimplifier{}
	client.before = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	out, err := newPipeline(t, tree, client, nil).Run(ctx, Request{Level: "B1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 0, out.Failed)
	assert.Len(t, tree.Find(memtree.KindResult), 1)
	assert.Len(t, tree.Find(memtree.KindLoading), 2, "in-flight batch stays in loading state")
}

func TestRunRejectsReuseAndBadLevel(t *testing.T) {
	tree, _ := page(1)
	p := newPipeline(t, tree, &fakeSimplifier{}, nil)
	_, err := p.Run(t.Context(), Request{Level: "B1"})
	require.NoError(t, err)
	_, err = p.Run(t.Context(), Request{Level: "B1"})
	assert.True(t, errors.Is(err, ErrReused))

	tree, _ = page(1)
	_, err = newPipeline(t, tree, &fakeSimplifier{}, nil).Run(t.Context(), Request{Level: "Z9"})
	assert.Error(t, err)
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(t.Context(), 0))
	require.NoError(t, sleepContext(t.Context(), time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
