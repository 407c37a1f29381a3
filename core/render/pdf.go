package render

import (
	"bytes"
	"fmt"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a run report as a PDF: one block per fragment with
// the original text and its simplified version (or the failure reason).
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render implements core.ReportRenderer.
func (r *PDFRenderer) Render(outcome core.Outcome, meta core.PageMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := meta.Title
	if title == "" {
		title = "Simplification report"
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Source: %s | Level: %s | Run: %s", meta.Source, outcome.Level, outcome.RunID)), "", "L", false)
	pdf.MultiCell(0, 5, tr(Summary(outcome)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, res := range outcome.Results {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("Fragment %d (%s)", res.Index+1, res.Status), "", "L", false)

		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.MultiCell(0, 5, tr("Original: "+res.Original), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 10)
		if res.Status == core.StatusSimplified {
			pdf.SetFillColor(230, 252, 255)
			pdf.MultiCell(0, 5, tr(res.Simplified), "", "L", true)
		} else {
			pdf.SetTextColor(170, 60, 0)
			pdf.MultiCell(0, 5, tr("Failed: "+res.Error), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
