package content

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

func TestBuildDefinition_AllSections(t *testing.T) {
	form := entry.DefinitionForm{
		Term:         "Escrow",
		Definition:   "Funds held by a third party.",
		Examples:     "Closing deposits.",
		AlsoKnownAs:  "Impound account",
		RelatedLinks: entry.RelatedLinks{"Closing Costs", "Title Insurance"},
	}

	got := Build(form)
	want := strings.Join([]string{
		"Term: Escrow",
		"\nDefinition:\nFunds held by a third party.",
		"\nExamples:\nClosing deposits.",
		"\nAlso Known As:\nImpound account",
		"\nRelated Documents:\nClosing Costs, Title Insurance",
	}, "\n")
	if got != want {
		t.Errorf("unexpected content:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildDefinition_OmitsEmptySections(t *testing.T) {
	got := Build(entry.DefinitionForm{Term: "Escrow", Definition: "Held funds."})

	if strings.Contains(got, "Examples") {
		t.Errorf("empty section rendered: %q", got)
	}
	if strings.Contains(got, "Also Known As") {
		t.Errorf("empty section rendered: %q", got)
	}
	if strings.Contains(got, "Related Documents") {
		t.Errorf("empty section rendered: %q", got)
	}
}

func TestBuildHowTo_MultiStep(t *testing.T) {
	form := entry.HowToForm{
		Title:         "Reset a password",
		Overview:      "Self-service reset.",
		EstimatedTime: "5 minutes",
		StepType:      entry.StepTypeMulti,
		Steps: []entry.Step{
			{Title: "Open settings", Description: "Go to the account page.", Action: "Click Security", ExpectedOutcome: "Security tab opens"},
			{Description: "Choose reset."},
		},
		Tips: "Use a password manager.",
	}

	got := Build(form)
	want := strings.Join([]string{
		"How to: Reset a password",
		"\nOverview:\nSelf-service reset.",
		"\nEstimated Time: 5 minutes",
		"\nSteps:",
		"",
		"Step 1:",
		"Open settings",
		"Go to the account page.",
		"Action: Click Security",
		"Expected: Security tab opens",
		"",
		"Step 2:",
		"Choose reset.",
		"\nTips:\nUse a password manager.",
	}, "\n")
	if got != want {
		t.Errorf("unexpected content:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildHowTo_SingleStep(t *testing.T) {
	form := entry.HowToForm{
		Title:                 "Export data",
		StepType:              entry.StepTypeSingle,
		SingleStepDescription: "Press the export button.",
	}

	got := Build(form)
	if !strings.Contains(got, "\nSteps:\nPress the export button.") {
		t.Errorf("single step not rendered: %q", got)
	}
	if strings.Contains(got, "Step 1:") {
		t.Errorf("numbered steps rendered for single-step form: %q", got)
	}
}

func TestBuildError_CausesInOrder(t *testing.T) {
	form := entry.ErrorForm{
		IssueTitle:       "Login fails",
		IssueDescription: "Users cannot sign in.",
		ErrorCode:        "AUTH-401",
		Causes: []entry.Cause{
			{Description: "bad password", Solution: "reset it"},
			{Description: "expired session", Solution: "sign in again", RelatedHelp: "Session FAQ"},
		},
	}

	got := Build(form)
	want := strings.Join([]string{
		"Error: Login fails",
		"\nIssue Description:\nUsers cannot sign in.",
		"\nError Code: AUTH-401",
		"\nTroubleshooting:",
		"",
		"Cause 1:",
		"bad password",
		"",
		"Solution:",
		"reset it",
		"",
		"Cause 2:",
		"expired session",
		"",
		"Solution:",
		"sign in again",
		"",
		"Related Help:",
		"Session FAQ",
	}, "\n")
	if got != want {
		t.Errorf("unexpected content:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	form := entry.ErrorForm{
		IssueTitle: "Crash on save",
		Causes:     []entry.Cause{{Description: "disk full", Solution: "free space"}},
	}
	first := Build(form)
	for i := 0; i < 5; i++ {
		if got := Build(form); got != first {
			t.Fatalf("build not deterministic: %q vs %q", got, first)
		}
	}
}

func TestTitle_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		form entry.FormData
		want string
	}{
		{"definition term", entry.DefinitionForm{Term: "Escrow"}, "Escrow"},
		{"definition empty", entry.DefinitionForm{}, "Untitled Definition"},
		{"how-to title", entry.HowToForm{Title: "Export data"}, "Export data"},
		{"how-to empty", entry.HowToForm{}, "Untitled How-To"},
		{"error issue title", entry.ErrorForm{IssueTitle: "Login fails", ErrorCode: "AUTH-401"}, "Login fails"},
		{"error code fallback", entry.ErrorForm{ErrorCode: "AUTH-401"}, "AUTH-401"},
		{"error empty", entry.ErrorForm{}, "Untitled Issue"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Title(tc.form); got != tc.want {
				t.Errorf("Title() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildError_RelatedHelpNotJoinedAsDocuments(t *testing.T) {
	// Error forms render related help inside each cause, not as a
	// trailing Related Documents section.
	form := entry.ErrorForm{
		IssueTitle: "Timeout",
		Causes:     []entry.Cause{{Description: "slow network", RelatedHelp: "Network Guide, Proxy Setup"}},
	}
	got := Build(form)
	if strings.Contains(got, "Related Documents:") {
		t.Errorf("error content must not carry a documents section: %q", got)
	}
	if !strings.Contains(got, "Related Help:\nNetwork Guide, Proxy Setup") {
		t.Errorf("related help not rendered: %q", got)
	}
}
