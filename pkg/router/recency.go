package router

import (
	"regexp"
	"strings"
)

// RecencyDetector reports whether a question asks for current or recent
// information. It is an interface so the lexicon heuristic can be swapped
// for a learned classifier without touching the policy.
type RecencyDetector interface {
	Detect(question string) bool
}

// recencyLexicon is the fixed token set that marks a question as
// time-sensitive. Matching is case-insensitive substring matching.
var recencyLexicon = []string{
	"latest", "current", "recent", "today", "now", "update", "news",
	"this year", "this month", "this week",
}

var yearTokenRe = regexp.MustCompile(`\b\d{4}\b`)

// LexiconDetector detects time-sensitive questions via a fixed keyword list
// plus a 4-digit year token.
type LexiconDetector struct{}

func NewLexiconDetector() *LexiconDetector {
	return &LexiconDetector{}
}

func (d *LexiconDetector) Detect(question string) bool {
	lowered := strings.ToLower(question)
	for _, keyword := range recencyLexicon {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return yearTokenRe.MatchString(lowered)
}
