// Package content derives the canonical text and title of an entry
// from its structured form data. Build and Title are pure functions:
// the stored content of an entry is re-derivable byte-for-byte from
// (type, form data) alone, which keeps it auditable and testable.
package content

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Title fallbacks per entry type.
const (
	untitledDefinition = "Untitled Definition"
	untitledHowTo      = "Untitled How-To"
	untitledIssue      = "Untitled Issue"
)

// Build renders the canonical, section-structured text for a form.
// Section order is fixed per type; sections with empty values are
// omitted entirely so no empty headers appear.
func Build(form entry.FormData) string {
	switch f := form.(type) {
	case entry.DefinitionForm:
		return buildDefinition(f)
	case entry.HowToForm:
		return buildHowTo(f)
	case entry.ErrorForm:
		return buildError(f)
	default:
		return ""
	}
}

// Title extracts the display title for a form, with a type-specific
// fallback when the source field is blank.
func Title(form entry.FormData) string {
	switch f := form.(type) {
	case entry.DefinitionForm:
		if f.Term != "" {
			return f.Term
		}
		return untitledDefinition
	case entry.HowToForm:
		if f.Title != "" {
			return f.Title
		}
		return untitledHowTo
	case entry.ErrorForm:
		if f.IssueTitle != "" {
			return f.IssueTitle
		}
		if f.ErrorCode != "" {
			return f.ErrorCode
		}
		return untitledIssue
	default:
		return "Untitled Entry"
	}
}

func buildDefinition(f entry.DefinitionForm) string {
	var parts []string
	if f.Term != "" {
		parts = append(parts, "Term: "+f.Term)
	}
	if f.Definition != "" {
		parts = append(parts, "\nDefinition:\n"+f.Definition)
	}
	if f.Examples != "" {
		parts = append(parts, "\nExamples:\n"+f.Examples)
	}
	if f.AlsoKnownAs != "" {
		parts = append(parts, "\nAlso Known As:\n"+f.AlsoKnownAs)
	}
	parts = appendRelatedDocuments(parts, f)
	return strings.Join(parts, "\n")
}

func buildHowTo(f entry.HowToForm) string {
	var parts []string
	if f.Title != "" {
		parts = append(parts, "How to: "+f.Title)
	}
	if f.Overview != "" {
		parts = append(parts, "\nOverview:\n"+f.Overview)
	}
	if f.EstimatedTime != "" {
		parts = append(parts, "\nEstimated Time: "+f.EstimatedTime)
	}
	if f.Prerequisites != "" {
		parts = append(parts, "\nPrerequisites:\n"+f.Prerequisites)
	}

	switch {
	case f.StepType == entry.StepTypeSingle && f.SingleStepDescription != "":
		parts = append(parts, "\nSteps:\n"+f.SingleStepDescription)
	case f.StepType == entry.StepTypeMulti && len(f.Steps) > 0:
		parts = append(parts, "\nSteps:")
		for i, step := range f.Steps {
			parts = append(parts, "", fmt.Sprintf("Step %d:", i+1))
			if step.Title != "" {
				parts = append(parts, step.Title)
			}
			if step.Description != "" {
				parts = append(parts, step.Description)
			}
			if step.Action != "" {
				parts = append(parts, "Action: "+step.Action)
			}
			if step.ExpectedOutcome != "" {
				parts = append(parts, "Expected: "+step.ExpectedOutcome)
			}
		}
	}

	if f.CommonIssues != "" {
		parts = append(parts, "\nCommon Issues:\n"+f.CommonIssues)
	}
	if f.Tips != "" {
		parts = append(parts, "\nTips:\n"+f.Tips)
	}
	parts = appendRelatedDocuments(parts, f)
	return strings.Join(parts, "\n")
}

func buildError(f entry.ErrorForm) string {
	var parts []string
	if f.IssueTitle != "" {
		parts = append(parts, "Error: "+f.IssueTitle)
	}
	if f.IssueDescription != "" {
		parts = append(parts, "\nIssue Description:\n"+f.IssueDescription)
	}
	if f.ErrorCode != "" {
		parts = append(parts, "\nError Code: "+f.ErrorCode)
	}

	if len(f.Causes) > 0 {
		parts = append(parts, "\nTroubleshooting:")
		for i, cause := range f.Causes {
			parts = append(parts, "", fmt.Sprintf("Cause %d:", i+1))
			if cause.Description != "" {
				parts = append(parts, cause.Description)
			}
			if cause.Solution != "" {
				parts = append(parts, "", "Solution:", cause.Solution)
			}
			if cause.RelatedHelp != "" {
				parts = append(parts, "", "Related Help:", cause.RelatedHelp)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// appendRelatedDocuments adds the flattened related-document list as
// the final section. Both delimited-string and structured-link inputs
// normalize to the same rendering.
func appendRelatedDocuments(parts []string, form entry.FormData) []string {
	docs := entry.RelatedDocuments(form)
	if len(docs) == 0 {
		return parts
	}
	return append(parts, "\nRelated Documents:\n"+strings.Join(docs, ", "))
}
