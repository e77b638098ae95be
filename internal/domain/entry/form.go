package entry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

// FormData is the structured, type-specific payload of an entry.
// The concrete type is discriminated by the entry Type, so every
// consumer switching on the union is checked exhaustively at compile
// time against the closed type set.
type FormData interface {
	FormType() Type
}

// RelatedLinks is a flat list of related-document titles. Authors
// supply references either as delimited strings or as structured
// link objects; both representations normalize to the same list.
type RelatedLinks []string

// relatedLinkObject is the structured representation used by the
// dynamic link form.
type relatedLinkObject struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// UnmarshalJSON accepts a JSON array of strings, an array of
// {title, url} objects, a mixed array, or a single comma/newline
// delimited string.
func (r *RelatedLinks) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*r = SplitList(asString)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("related links must be a string or an array: %w", err)
	}

	links := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if t := strings.TrimSpace(s); t != "" {
				links = append(links, t)
			}
			continue
		}
		var obj relatedLinkObject
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("related link must be a string or {title}: %w", err)
		}
		if t := strings.TrimSpace(obj.Title); t != "" {
			links = append(links, t)
		}
	}
	*r = links
	return nil
}

// SplitList parses a comma/newline delimited string into trimmed,
// non-empty items.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ','
	})
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// DefinitionForm is the payload of a definition entry.
type DefinitionForm struct {
	Term         string       `json:"term,omitempty"`
	Definition   string       `json:"definition,omitempty"`
	Examples     string       `json:"examples,omitempty"`
	AlsoKnownAs  string       `json:"also_known_as,omitempty"`
	RelatedLinks RelatedLinks `json:"related_links,omitempty"`
}

// FormType returns TypeDefinition.
func (DefinitionForm) FormType() Type { return TypeDefinition }

// Step process kinds for how-to entries.
const (
	StepTypeSingle = "single"
	StepTypeMulti  = "multi"
)

// Step is one step of a multi-step how-to guide.
type Step struct {
	Title           string `json:"step_title,omitempty"`
	Description     string `json:"description,omitempty"`
	Action          string `json:"action,omitempty"`
	ExpectedOutcome string `json:"expected_outcome,omitempty"`
}

// HowToForm is the payload of a how-to entry.
type HowToForm struct {
	Title                 string       `json:"title,omitempty"`
	Overview              string       `json:"overview,omitempty"`
	EstimatedTime         string       `json:"estimated_time,omitempty"`
	Prerequisites         string       `json:"prerequisites,omitempty"`
	StepType              string       `json:"step_type,omitempty"`
	SingleStepDescription string       `json:"single_step_description,omitempty"`
	Steps                 []Step       `json:"steps,omitempty"`
	CommonIssues          string       `json:"common_issues,omitempty"`
	Tips                  string       `json:"tips,omitempty"`
	RelatedLinks          RelatedLinks `json:"related_links,omitempty"`
}

// FormType returns TypeHowTo.
func (HowToForm) FormType() Type { return TypeHowTo }

// Cause is one troubleshooting cause of an error entry.
type Cause struct {
	Description string `json:"cause_description,omitempty"`
	Solution    string `json:"solution,omitempty"`
	RelatedHelp string `json:"related_help,omitempty"`
}

// ErrorForm is the payload of an error entry.
type ErrorForm struct {
	IssueTitle       string  `json:"issue_title,omitempty"`
	IssueDescription string  `json:"issue_description,omitempty"`
	ErrorCode        string  `json:"error_code,omitempty"`
	Causes           []Cause `json:"causes,omitempty"`
}

// FormType returns TypeError.
func (ErrorForm) FormType() Type { return TypeError }

// ParseForm decodes raw form data into the concrete payload for the
// given entry type. This is the single boundary where the tagged
// union is validated.
func ParseForm(t Type, raw json.RawMessage) (FormData, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch t {
	case TypeDefinition:
		var f DefinitionForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse definition form: %w: %w", domain.ErrValidation, err)
		}
		return f, nil
	case TypeHowTo:
		var f HowToForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse how-to form: %w: %w", domain.ErrValidation, err)
		}
		return f, nil
	case TypeError:
		var f ErrorForm
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse error form: %w: %w", domain.ErrValidation, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown entry type %q: %w", t, domain.ErrValidation)
	}
}

// RelatedDocuments flattens a form's related-document references into
// one title list. Error entries collect references from the
// related-help text of each cause.
func RelatedDocuments(form FormData) []string {
	switch f := form.(type) {
	case DefinitionForm:
		return f.RelatedLinks
	case HowToForm:
		return f.RelatedLinks
	case ErrorForm:
		var docs []string
		for _, c := range f.Causes {
			docs = append(docs, SplitList(c.RelatedHelp)...)
		}
		return docs
	default:
		return nil
	}
}
