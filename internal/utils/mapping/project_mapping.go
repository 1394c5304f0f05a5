package mapping

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/models"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:     d.ProjectID,
		Name:          d.Name,
		ArchitectID:   d.ArchitectID,
		QuoteID:       d.QuoteID,
		Client:        d.Client,
		ContractValue: d.ContractValue,
		Progress:      d.Progress,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:     m.ProjectID,
		Name:          m.Name,
		ArchitectID:   m.ArchitectID,
		QuoteID:       m.QuoteID,
		Client:        m.Client,
		ContractValue: m.ContractValue,
		Progress:      m.Progress,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelQuote(d domain.Quote) models.Quote {
	assigned := d.Assigned
	if assigned == nil {
		assigned = []string{}
	}
	return models.Quote{
		QuoteID:     d.QuoteID,
		LeadID:      d.LeadID,
		Assigned:    assigned,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainQuote(m models.Quote) domain.Quote {
	return domain.Quote{
		QuoteID:     m.QuoteID,
		LeadID:      m.LeadID,
		Assigned:    m.Assigned,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelLead(d domain.Lead) models.Lead {
	return models.Lead{
		LeadID:      d.LeadID,
		Name:        d.Name,
		Assigned:    d.Assigned,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainLead(m models.Lead) domain.Lead {
	return domain.Lead{
		LeadID:      m.LeadID,
		Name:        m.Name,
		Assigned:    m.Assigned,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSiteMeasurement converts a domain SiteMeasurement to a model SiteMeasurement
func ToModelSiteMeasurement(d domain.SiteMeasurement) models.SiteMeasurement {
	return models.SiteMeasurement{
		MeasurementID: d.MeasurementID,
		ProjectID:     d.ProjectID,
		TakenBy:       d.TakenBy,
		Area:          d.Area,
		Unit:          d.Unit,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSiteMeasurement converts a model SiteMeasurement to a domain SiteMeasurement
func ToDomainSiteMeasurement(m models.SiteMeasurement) domain.SiteMeasurement {
	return domain.SiteMeasurement{
		MeasurementID: m.MeasurementID,
		ProjectID:     m.ProjectID,
		TakenBy:       m.TakenBy,
		Area:          m.Area,
		Unit:          m.Unit,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
