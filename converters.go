package kbadmin

import (
	"github.com/kailas-cloud/kbadmin/internal/domain"
	dombulk "github.com/kailas-cloud/kbadmin/internal/domain/bulk"
	"github.com/kailas-cloud/kbadmin/internal/domain/chunk"
	"github.com/kailas-cloud/kbadmin/internal/domain/duplicate"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

func toDomainForm(f Form) entry.FormData {
	switch v := f.(type) {
	case DefinitionForm:
		return entry.DefinitionForm{
			Term:         v.Term,
			Definition:   v.Definition,
			Examples:     v.Examples,
			AlsoKnownAs:  v.AlsoKnownAs,
			RelatedLinks: entry.RelatedLinks(v.RelatedLinks),
		}
	case HowToForm:
		steps := make([]entry.Step, len(v.Steps))
		for i, s := range v.Steps {
			steps[i] = entry.Step{
				Title:           s.Title,
				Description:     s.Description,
				Action:          s.Action,
				ExpectedOutcome: s.ExpectedOutcome,
			}
		}
		return entry.HowToForm{
			Title:                 v.Title,
			Overview:              v.Overview,
			EstimatedTime:         v.EstimatedTime,
			Prerequisites:         v.Prerequisites,
			StepType:              v.StepType,
			SingleStepDescription: v.SingleStepDescription,
			Steps:                 steps,
			CommonIssues:          v.CommonIssues,
			Tips:                  v.Tips,
			RelatedLinks:          entry.RelatedLinks(v.RelatedLinks),
		}
	case ErrorForm:
		causes := make([]entry.Cause, len(v.Causes))
		for i, c := range v.Causes {
			causes[i] = entry.Cause{
				Description: c.Description,
				Solution:    c.Solution,
				RelatedHelp: c.RelatedHelp,
			}
		}
		return entry.ErrorForm{
			IssueTitle:       v.IssueTitle,
			IssueDescription: v.IssueDescription,
			ErrorCode:        v.ErrorCode,
			Causes:           causes,
		}
	default:
		return nil
	}
}

func fromDomainForm(f entry.FormData) Form {
	switch v := f.(type) {
	case entry.DefinitionForm:
		return DefinitionForm{
			Term:         v.Term,
			Definition:   v.Definition,
			Examples:     v.Examples,
			AlsoKnownAs:  v.AlsoKnownAs,
			RelatedLinks: v.RelatedLinks,
		}
	case entry.HowToForm:
		steps := make([]Step, len(v.Steps))
		for i, s := range v.Steps {
			steps[i] = Step{
				Title:           s.Title,
				Description:     s.Description,
				Action:          s.Action,
				ExpectedOutcome: s.ExpectedOutcome,
			}
		}
		return HowToForm{
			Title:                 v.Title,
			Overview:              v.Overview,
			EstimatedTime:         v.EstimatedTime,
			Prerequisites:         v.Prerequisites,
			StepType:              v.StepType,
			SingleStepDescription: v.SingleStepDescription,
			Steps:                 steps,
			CommonIssues:          v.CommonIssues,
			Tips:                  v.Tips,
			RelatedLinks:          v.RelatedLinks,
		}
	case entry.ErrorForm:
		causes := make([]Cause, len(v.Causes))
		for i, c := range v.Causes {
			causes[i] = Cause{
				Description: c.Description,
				Solution:    c.Solution,
				RelatedHelp: c.RelatedHelp,
			}
		}
		return ErrorForm{
			IssueTitle:       v.IssueTitle,
			IssueDescription: v.IssueDescription,
			ErrorCode:        v.ErrorCode,
			Causes:           causes,
		}
	default:
		return nil
	}
}

func toDomainMetadata(m Metadata) entry.Metadata {
	return entry.Metadata{
		UserType:    m.UserType,
		Product:     m.Product,
		Category:    m.Category,
		Subcategory: m.Subcategory,
		Tags:        m.Tags,
	}
}

func fromDomainActor(a domain.Actor) Actor {
	return Actor{ID: a.ID, Email: a.Email, Name: a.Name}
}

func fromDomainEntry(e entry.Entry) Entry {
	out := Entry{
		ID:      e.ID,
		Type:    EntryType(e.Type),
		Title:   e.Title,
		Content: e.Content,
		Form:    fromDomainForm(e.Form),
		Metadata: Metadata{
			UserType:    e.Metadata.UserType,
			Product:     e.Metadata.Product,
			Category:    e.Metadata.Category,
			Subcategory: e.Metadata.Subcategory,
			Tags:        e.Metadata.Tags,
		},
		CreatedBy:      fromDomainActor(e.CreatedBy),
		CreatedAt:      e.CreatedAt,
		LastModifiedBy: fromDomainActor(e.LastModifiedBy),
		LastModifiedAt: e.LastModifiedAt,
		Status:         string(e.Status),
		ArchivedBy:     fromDomainActor(e.ArchivedBy),
		ArchivedAt:     e.ArchivedAt,
		ArchivedReason: e.ArchivedReason,
		VectorStatus:   string(e.VectorStatus),
		SyncError:      e.SyncError,
	}
	if e.LastSyncedAt != nil {
		t := *e.LastSyncedAt
		out.LastSyncedAt = &t
	}
	for _, ev := range e.SyncLog.Events() {
		out.SyncHistory = append(out.SyncHistory, SyncEvent{
			Action:    string(ev.Action),
			Timestamp: ev.Timestamp,
			Reason:    ev.Reason,
			Error:     ev.Error,
		})
	}
	return out
}

func fromDomainEntries(in []entry.Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = fromDomainEntry(e)
	}
	return out
}

func fromDomainCandidates(in []duplicate.Candidate) []DuplicateCandidate {
	out := make([]DuplicateCandidate, len(in))
	for i, c := range in {
		out[i] = DuplicateCandidate{
			ID:             c.ID,
			Title:          c.Title,
			Type:           EntryType(c.Type),
			Category:       c.Category,
			ContentSnippet: c.ContentSnippet,
			Score:          c.Score,
			CreatedAt:      c.CreatedAt,
		}
	}
	return out
}

func fromDomainChunks(in []chunk.Chunk) []VectorChunk {
	out := make([]VectorChunk, len(in))
	for i, c := range in {
		out[i] = VectorChunk{
			ID:             c.ID,
			ParentID:       c.ParentID,
			ParentTitle:    c.ParentTitle,
			Section:        c.Section,
			Position:       c.Position,
			TotalChunks:    c.TotalChunks,
			ContentPreview: c.ContentPreview,
		}
	}
	return out
}

func fromDomainResults(results []dombulk.Result, summary dombulk.Summary) ([]BulkResult, BulkSummary) {
	out := make([]BulkResult, len(results))
	for i, r := range results {
		out[i] = BulkResult{ID: r.ID, OK: r.OK, Err: r.Err}
	}
	return out, BulkSummary{
		Succeeded:      summary.Succeeded,
		Failed:         summary.Failed,
		VectorsDeleted: summary.VectorsDeleted,
		VectorsFailed:  summary.VectorsFailed,
	}
}
