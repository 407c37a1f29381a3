// Package selector picks the text fragments of a page worth simplifying.
//
// The tree is walked depth-first in document order. A text node is rejected
// by the first failing rule:
//  1. its container is a non-content element (script, style, form controls)
//  2. its container carries a marker class (produced views, site chrome)
//  3. its trimmed length is outside [MinLength, MaxLength]
//  4. fewer than MinLetterRatio of its characters are ASCII letters
//  5. it contains a denylisted boilerplate phrase (case-insensitive)
package selector

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/pagesimplify/core"
)

// Default thresholds.
const (
	DefaultMinLength      = 20
	DefaultMaxLength      = 500
	DefaultMinLetterRatio = 0.5
	DefaultMaxCandidates  = 20
)

// Rules configures the filter. Zero values are replaced by defaults in New,
// except MinLetterRatio where only nil means unset; an explicit 0 turns the
// quality rule off.
type Rules struct {
	MinLength      int      `yaml:"min_length"`
	MaxLength      int      `yaml:"max_length"`
	MinLetterRatio *float64 `yaml:"min_letter_ratio"`
	MaxCandidates  int      `yaml:"max_candidates"`
	RejectedKinds  []string `yaml:"rejected_kinds"`
	MarkerClasses  []string `yaml:"marker_classes"`
	Denylist       []string `yaml:"denylist"`
}

// DefaultRules returns the stock heuristics.
func DefaultRules() Rules {
	return Rules{
		MinLength:      DefaultMinLength,
		MaxLength:      DefaultMaxLength,
		MinLetterRatio: Ratio(DefaultMinLetterRatio),
		MaxCandidates:  DefaultMaxCandidates,
		RejectedKinds: []string{
			"script", "style", "noscript",
			"input", "textarea", "button", "select", "option",
		},
		MarkerClasses: []string{
			"simplified-text", "original-text", "simplification-loading",
			"nav", "menu", "footer", "header", "sidebar",
		},
		Denylist: []string{
			"cookie", "privacy", "terms", "subscribe",
			"newsletter", "advertisement", "click here", "read more",
		},
	}
}

// Ratio returns a pointer to v, for Rules.MinLetterRatio.
func Ratio(v float64) *float64 { return &v }

// Reason names the rule that rejected a text node.
type Reason string

const (
	Accepted        Reason = ""
	RejectStructure Reason = "structure"
	RejectMarker    Reason = "marker"
	RejectLength    Reason = "length"
	RejectQuality   Reason = "quality"
	RejectPhrase    Reason = "phrase"
)

// Selector applies Rules to a content tree.
type Selector struct {
	rules    Rules
	kinds    map[string]bool
	minRatio float64
}

// New creates a Selector, filling unset fields from DefaultRules.
func New(rules Rules) *Selector {
	def := DefaultRules()
	if rules.MinLength <= 0 {
		rules.MinLength = def.MinLength
	}
	if rules.MaxLength <= 0 {
		rules.MaxLength = def.MaxLength
	}
	if rules.MinLetterRatio == nil {
		rules.MinLetterRatio = def.MinLetterRatio
	} else {
		rules.MinLetterRatio = Ratio(*rules.MinLetterRatio)
	}
	if rules.MaxCandidates <= 0 {
		rules.MaxCandidates = def.MaxCandidates
	}
	if rules.RejectedKinds == nil {
		rules.RejectedKinds = def.RejectedKinds
	}
	if rules.MarkerClasses == nil {
		rules.MarkerClasses = def.MarkerClasses
	}
	if rules.Denylist == nil {
		rules.Denylist = def.Denylist
	}

	kinds := make(map[string]bool, len(rules.RejectedKinds))
	for _, k := range rules.RejectedKinds {
		kinds[strings.ToLower(k)] = true
	}
	denylist := make([]string, len(rules.Denylist))
	for i, p := range rules.Denylist {
		denylist[i] = strings.ToLower(p)
	}
	rules.Denylist = denylist

	return &Selector{rules: rules, kinds: kinds, minRatio: *rules.MinLetterRatio}
}

// Rules returns the effective rules.
func (s *Selector) Rules() Rules { return s.rules }

// Candidates yields accepted fragments under root in document order, stopping
// at MaxCandidates. Each call walks the tree as it is at that moment.
func (s *Selector) Candidates(root core.Node) iter.Seq[core.Fragment] {
	return func(yield func(core.Fragment) bool) {
		count := 0
		var walk func(n core.Node) bool
		walk = func(n core.Node) bool {
			if text, ok := n.Text(); ok {
				frag, reason := s.Check(n, text)
				if reason != Accepted {
					return true
				}
				if !yield(frag) {
					return false
				}
				count++
				return count < s.rules.MaxCandidates
			}
			for _, c := range n.Children() {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

// Select collects Candidates into a slice. The texts are captured once, so
// the result stays valid while the tree is being rewritten.
func (s *Selector) Select(root core.Node) []core.Fragment {
	var out []core.Fragment
	for f := range s.Candidates(root) {
		out = append(out, f)
	}
	return out
}

// Check evaluates one text node. The returned fragment is only meaningful
// when the reason is Accepted.
func (s *Selector) Check(n core.Node, text string) (core.Fragment, Reason) {
	kind := n.ContainerKind()
	if kind == "" || s.kinds[kind] {
		return core.Fragment{}, RejectStructure
	}

	class := n.ContainerClass()
	for _, m := range s.rules.MarkerClasses {
		if m != "" && strings.Contains(class, m) {
			return core.Fragment{}, RejectMarker
		}
	}

	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)
	if length < s.rules.MinLength || length > s.rules.MaxLength {
		return core.Fragment{}, RejectLength
	}

	ratio := LetterRatio(trimmed)
	if ratio < s.minRatio {
		return core.Fragment{}, RejectQuality
	}

	lower := strings.ToLower(trimmed)
	for _, p := range s.rules.Denylist {
		if p != "" && strings.Contains(lower, p) {
			return core.Fragment{}, RejectPhrase
		}
	}

	return core.Fragment{
		Node:        n,
		Original:    trimmed,
		Raw:         text,
		Length:      length,
		LetterRatio: ratio,
	}, Accepted
}

// LetterRatio is the share of ASCII letters among the runes of s.
func LetterRatio(s string) float64 {
	total := 0
	letters := 0
	for _, r := range s {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}
