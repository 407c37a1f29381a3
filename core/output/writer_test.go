package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFor(t *testing.T) {
	tests := map[string]string{
		"https://example.com":             "example_com",
		"https://example.com/docs/intro/": "example_com_docs_intro",
		"http://localhost:8080/a-b":       "localhost_8080_a_b",
		"./pages/story.html":              "story",
		"/tmp/archive/news.page.htm":      "news.page",
	}
	for in, want := range tests {
		assert.Equal(t, want, NameFor(in), in)
	}
}

func TestWriterPathAndWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "out"))
	require.NoError(t, err)

	path := w.PathFor("https://example.com/docs", ".html")
	assert.Equal(t, filepath.Join(dir, "out", "example_com_docs.simplified.html"), path)

	written, err := w.Write(path, []byte("<p>x</p>"))
	require.NoError(t, err)
	got, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(got))

	written, err = w.Write("reports/run.json", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "reports", "run.json"), written)
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, WriteFile(path, []byte("one")))
	require.NoError(t, WriteFile(path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
