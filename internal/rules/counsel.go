package rules

import "strings"

type flagRule struct {
	word string
	note string
}

// General dietary flags only; no patient data involved.
var flagRules = []flagRule{
	{"grapefruit", "May interact with certain meds; verify with clinician."},
	{"star fruit", "Neurotoxic risk in kidney disease; generally avoid."},
	{"herbal", "Herbal supplements can accumulate or interact; caution."},
}

// SafetyNotes returns tailored caution notes for flag words present in the
// query, joined with "; ". Empty when nothing is flagged.
func SafetyNotes(query string) string {
	q := strings.ToLower(query)
	var notes []string
	for _, rule := range flagRules {
		if strings.Contains(q, rule.word) {
			notes = append(notes, rule.word+": "+rule.note)
		}
	}
	return strings.Join(notes, "; ")
}
