package guard

import (
	"regexp"
	"unicode"
)

var bannedTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bkill\b`),
	regexp.MustCompile(`(?i)\bbomb\b`),
	regexp.MustCompile(`(?i)\bhate\b`),
}

var injectionSigns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all|previous) instructions`),
	regexp.MustCompile(`(?i)act as`),
	regexp.MustCompile(`(?i)system prompt`),
}

const (
	msgTooShort  = "Please enter a meaningful question."
	msgGibberish = "Query looks like gibberish. Try rephrasing with more detail."
	msgBanned    = "Your query includes disallowed content. Please rephrase academically."
	msgInjection = "I can't change my safety rules. Ask about CKD/ESRD diet or microbiome instead."
)

// Validate checks a user question before any retrieval happens. It returns
// false with a user-facing message when the query must be rejected.
func Validate(q string) (bool, string) {
	if len(q) < 3 {
		return false, msgTooShort
	}
	alpha := 0
	for _, r := range q {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha < 3 {
		return false, msgGibberish
	}
	for _, pat := range bannedTerms {
		if pat.MatchString(q) {
			return false, msgBanned
		}
	}
	for _, pat := range injectionSigns {
		if pat.MatchString(q) {
			return false, msgInjection
		}
	}
	return true, ""
}
