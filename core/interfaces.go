// Package core defines the shared types and stage interfaces for PageSimplify.
// Each stage (selection, simplification, rendering, toggling) depends only on
// these interfaces, so the pipeline can run against an HTML document or an
// in-memory tree.
package core

import "context"

// Node is a location in a hierarchical content tree.
type Node interface {
	// Children returns the direct children in document order.
	Children() []Node
	// Text returns the node's text value and whether the node is a text node.
	Text() (string, bool)
	// ContainerKind returns the lowercase element name of the immediate
	// container (e.g. "p", "script"), or "" when the node has no container.
	ContainerKind() string
	// ContainerClass returns the class attribute of the immediate container.
	ContainerClass() string
	// ReplaceWith swaps this node for repl in the node's container.
	ReplaceWith(repl Node) error
}

// Annotation is a rendered "original text" block inside a result view.
type Annotation interface {
	Visible() bool
	SetVisible(show bool)
	Text() string
}

// ContentTree is the capability surface the selector, pipeline and toggle
// need from a page.
type ContentTree interface {
	Root() Node
	// NewLoading builds a detached placeholder that shows original.
	NewLoading(original string) Node
	// NewResult builds a detached result view. The original-text
	// annotation is visible only when showOriginal is set.
	NewResult(original, simplified string, showOriginal bool) Node
	// NewText builds a detached plain text node.
	NewText(text string) Node
	// OriginalAnnotations returns every rendered original-text annotation.
	OriginalAnnotations() []Annotation
}

// Fragment is a candidate text selected for simplification.
type Fragment struct {
	Node        Node
	Original    string // trimmed text captured at selection time
	Raw         string // untrimmed node value, restored when simplification fails
	Length      int
	LetterRatio float64
}

// Status tags the outcome of one fragment.
type Status string

const (
	StatusSimplified Status = "simplified"
	StatusFailed     Status = "failed"
)

// Result is the per-fragment outcome of a run.
type Result struct {
	Index      int    `json:"index"`
	Status     Status `json:"status"`
	Original   string `json:"original"`
	Simplified string `json:"simplified,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Outcome is the aggregate returned once per pipeline run.
type Outcome struct {
	RunID     string   `json:"run_id"`
	Level     string   `json:"level"`
	Found     bool     `json:"found"`
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Simplifier rewrites text for a target proficiency level.
type Simplifier interface {
	Simplify(ctx context.Context, text, level string) (string, error)
}

// Normalizer converts HTML into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// ReportRenderer converts a run outcome into a report file format.
type ReportRenderer interface {
	Render(outcome Outcome, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json", ".pdf").
	Extension() string
}

// PageMetadata describes the page a run operated on.
type PageMetadata struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	ProcessedAt string `json:"processed_at"` // ISO8601
}
