package mapping

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/models"
)

func toModelProofs(ps []domain.Proof) []models.Proof {
	out := make([]models.Proof, len(ps))
	for i, p := range ps {
		out[i] = models.Proof{
			Type:         string(p.Type),
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			Timestamp:    p.Timestamp,
		}
		if p.GPS != nil {
			lat, lng := p.GPS.Latitude, p.GPS.Longitude
			out[i].Latitude, out[i].Longitude = &lat, &lng
		}
	}
	return out
}

func toDomainProofs(ps []models.Proof) []domain.Proof {
	out := make([]domain.Proof, len(ps))
	for i, p := range ps {
		out[i] = domain.Proof{
			Type:         domain.ProofType(p.Type),
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			Timestamp:    p.Timestamp,
		}
		// a half-present location is treated as absent
		if p.Latitude != nil && p.Longitude != nil {
			out[i].GPS = &domain.GPS{Latitude: *p.Latitude, Longitude: *p.Longitude}
		}
	}
	return out
}

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	checklist := make([]models.ChecklistItem, len(d.Checklist))
	for i, c := range d.Checklist {
		checklist[i] = models.ChecklistItem{Label: c.Label, Completed: c.Completed}
	}
	return models.Task{
		TaskID:          d.TaskID,
		ProjectID:       d.ProjectID,
		Title:           d.Title,
		Status:          string(d.Status),
		AssignedTo:      d.AssignedTo,
		Value:           d.Value,
		WeightPct:       d.WeightPct,
		Progress:        d.Progress,
		StartDate:       d.StartDate,
		Proofs:          toModelProofs(d.Proofs),
		Checklist:       checklist,
		SubmittedAt:     d.SubmittedAt,
		SubmittedBy:     d.SubmittedBy,
		ApprovedAt:      d.ApprovedAt,
		ApprovedBy:      d.ApprovedBy,
		RejectedAt:      d.RejectedAt,
		RejectedBy:      d.RejectedBy,
		RejectionReason: d.RejectionReason,
		PenaltyPercent:  d.PenaltyPercent,
		PenaltyReason:   d.PenaltyReason,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	checklist := make([]domain.ChecklistItem, len(m.Checklist))
	for i, c := range m.Checklist {
		checklist[i] = domain.ChecklistItem{Label: c.Label, Completed: c.Completed}
	}
	return domain.Task{
		TaskID:          m.TaskID,
		ProjectID:       m.ProjectID,
		Title:           m.Title,
		Status:          domain.TaskStatus(m.Status),
		AssignedTo:      m.AssignedTo,
		Value:           m.Value,
		WeightPct:       m.WeightPct,
		Progress:        m.Progress,
		StartDate:       m.StartDate,
		Proofs:          toDomainProofs(m.Proofs),
		Checklist:       checklist,
		SubmittedAt:     m.SubmittedAt,
		SubmittedBy:     m.SubmittedBy,
		ApprovedAt:      m.ApprovedAt,
		ApprovedBy:      m.ApprovedBy,
		RejectedAt:      m.RejectedAt,
		RejectedBy:      m.RejectedBy,
		RejectionReason: m.RejectionReason,
		PenaltyPercent:  m.PenaltyPercent,
		PenaltyReason:   m.PenaltyReason,
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaskSlice converts a slice of model Tasks to a slice of domain Tasks
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
