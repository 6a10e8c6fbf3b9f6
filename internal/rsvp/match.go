package rsvp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Strategy is one step of the matching cascade.
type Strategy struct {
	Name  string
	Match func(submitted, candidate string) bool
}

var (
	Exact      = Strategy{Name: "exact", Match: matchExact}
	Normalized = Strategy{Name: "normalized", Match: matchNormalized}
	Contains   = Strategy{Name: "contains", Match: matchContains}
	Prefix     = Strategy{Name: "prefix", Match: matchPrefix}
)

// QuestionStrategies resolve submitted labels to questions.
var QuestionStrategies = []Strategy{Exact, Normalized, Contains}

// ChoiceStrategies resolve submitted values to choices. Every prefix hit is
// also a contains hit, so Prefix never decides a match after Contains; it
// stays last to keep the cascade order and for callers that use it alone.
var ChoiceStrategies = []Strategy{Exact, Normalized, Contains, Prefix}

// Normalize folds case, composes to NFC and collapses runs of whitespace.
func Normalize(s string) string {
	// cases.Caser keeps state, so one per call
	folded := cases.Fold().String(norm.NFC.String(s))
	return strings.Join(strings.Fields(norm.NFC.String(folded)), " ")
}

// Match runs the strategies in order against candidates and returns the index
// of the first hit and the name of the strategy that produced it. Within one
// strategy the first candidate wins.
func Match(strategies []Strategy, submitted string, candidates []string) (int, string, bool) {
	for _, s := range strategies {
		for i, c := range candidates {
			if s.Match(submitted, c) {
				return i, s.Name, true
			}
		}
	}
	return -1, "", false
}

func matchExact(submitted, candidate string) bool {
	s := strings.TrimSpace(submitted)
	return s != "" && s == strings.TrimSpace(candidate)
}

func matchNormalized(submitted, candidate string) bool {
	s := Normalize(submitted)
	return s != "" && s == Normalize(candidate)
}

func matchContains(submitted, candidate string) bool {
	s, c := Normalize(submitted), Normalize(candidate)
	if s == "" || c == "" {
		return false
	}
	return strings.Contains(s, c) || strings.Contains(c, s)
}

// matchPrefix handles values decorated with a parenthesised suffix, e.g.
// "Так (Друга половинка)", and values that extend a choice text.
func matchPrefix(submitted, candidate string) bool {
	s, c := Normalize(submitted), Normalize(candidate)
	if s == "" || c == "" {
		return false
	}
	if head, _, ok := strings.Cut(s, "("); ok && strings.TrimSpace(head) == c {
		return true
	}
	return strings.HasPrefix(s, c)
}
