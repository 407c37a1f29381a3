package render

import (
	"fmt"

	"github.com/gaurav-prasanna/pagesimplify/core"
)

// CostPerFragment is the rough provider cost estimate per simplified
// fragment, in USD.
const CostPerFragment = 0.001

// NoTextMessage is reported when a page has nothing to simplify.
const NoTextMessage = "No suitable text found to simplify"

// Summary is the one-line, human-readable result of a run.
func Summary(o core.Outcome) string {
	if !o.Found {
		return NoTextMessage
	}
	errs := ""
	if o.Failed > 0 {
		errs = fmt.Sprintf(" (%d errors)", o.Failed)
	}
	return fmt.Sprintf("Simplified %d of %d fragments%s (~$%.3f)",
		o.Succeeded, o.Attempted, errs, float64(o.Succeeded)*CostPerFragment)
}
