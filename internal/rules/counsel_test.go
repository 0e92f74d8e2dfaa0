package rules

import (
	"strings"
	"testing"
)

func TestSafetyNotes(t *testing.T) {
	if got := SafetyNotes("how much sodium per day?"); got != "" {
		t.Fatalf("unflagged query produced notes: %q", got)
	}
	got := SafetyNotes("Can I drink Grapefruit juice?")
	if !strings.HasPrefix(got, "grapefruit: ") {
		t.Fatalf("case-insensitive flag missed: %q", got)
	}
	got = SafetyNotes("grapefruit with herbal tea")
	if strings.Count(got, "; ") != 1 {
		t.Fatalf("expected two joined notes: %q", got)
	}
	if !strings.Contains(got, "grapefruit:") || !strings.Contains(got, "herbal:") {
		t.Fatalf("missing note: %q", got)
	}
}
