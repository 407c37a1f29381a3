package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/pagesimplify/core"
)

// Report is the JSON document written for a run.
type Report struct {
	Page    core.PageMetadata `json:"page"`
	Summary string            `json:"summary"`
	Outcome core.Outcome      `json:"outcome"`
}

// JSONRenderer writes a run report as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render implements core.ReportRenderer.
func (r *JSONRenderer) Render(outcome core.Outcome, meta core.PageMetadata) ([]byte, error) {
	if outcome.Results == nil {
		outcome.Results = []core.Result{}
	}
	data, err := json.MarshalIndent(Report{
		Page:    meta,
		Summary: Summary(outcome),
		Outcome: outcome,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
