package simplify

import (
	"fmt"
	"strings"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "B1"

var levels = map[string]bool{
	"A1": true, "A2": true,
	"B1": true, "B2": true,
	"C1": true, "C2": true,
}

// ParseLevel normalizes a CEFR level tag ("b1" -> "B1").
func ParseLevel(s string) (string, error) {
	lvl := strings.ToUpper(strings.TrimSpace(s))
	if !levels[lvl] {
		return "", fmt.Errorf("unknown CEFR level %q (want one of A1, A2, B1, B2, C1, C2)", s)
	}
	return lvl, nil
}
