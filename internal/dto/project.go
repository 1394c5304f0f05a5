package dto

import (
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Project DTOs ---

// CreateProjectRequest defines data for creating a new project.
type CreateProjectRequest struct {
	Name          string          `json:"name" binding:"required"`
	ArchitectID   string          `json:"architectID" binding:"omitempty,uuid"`
	QuoteID       *string         `json:"quoteID" binding:"omitempty,uuid"`
	Client        string          `json:"client"`
	ContractValue decimal.Decimal `json:"contractValue"`
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID     string          `json:"projectID"`
	Name          string          `json:"name"`
	ArchitectID   string          `json:"architectID"`
	QuoteID       *string         `json:"quoteID,omitempty"`
	Client        string          `json:"client"`
	ContractValue decimal.Decimal `json:"contractValue"`
	Progress      decimal.Decimal `json:"progress"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:     p.ProjectID,
		Name:          p.Name,
		ArchitectID:   p.ArchitectID,
		QuoteID:       p.QuoteID,
		Client:        p.Client,
		ContractValue: p.ContractValue,
		Progress:      p.Progress,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// FinancialsResponse shows system-derived ledger totals and manually recorded
// transaction totals side by side. The two are never merged.
type FinancialsResponse struct {
	ProjectID         string                     `json:"projectID"`
	ContractValue     decimal.Decimal            `json:"contractValue"`
	Progress          decimal.Decimal            `json:"progress"`
	LedgerByCategory  map[string]decimal.Decimal `json:"ledgerByCategory"`
	NetPaid           decimal.Decimal            `json:"netPaid"`
	TransactionsIn    decimal.Decimal            `json:"transactionsIn"`
	TransactionsOut   decimal.Decimal            `json:"transactionsOut"`
	TransactionsCount int                        `json:"transactionsCount"`
}

// --- Site measurement DTOs ---

// RecordSiteMeasurementRequest defines data for recording a site measurement.
type RecordSiteMeasurementRequest struct {
	Area  decimal.Decimal `json:"area"`
	Unit  string          `json:"unit" binding:"required"`
	Notes string          `json:"notes"`
}

// SiteMeasurementResponse defines data returned for a site measurement.
type SiteMeasurementResponse struct {
	MeasurementID string          `json:"measurementID"`
	ProjectID     string          `json:"projectID"`
	TakenBy       string          `json:"takenBy"`
	Area          decimal.Decimal `json:"area"`
	Unit          string          `json:"unit"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToSiteMeasurementResponse converts domain.SiteMeasurement to DTO.
func ToSiteMeasurementResponse(m *domain.SiteMeasurement) SiteMeasurementResponse {
	return SiteMeasurementResponse{
		MeasurementID: m.MeasurementID,
		ProjectID:     m.ProjectID,
		TakenBy:       m.TakenBy,
		Area:          m.Area,
		Unit:          m.Unit,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// AccessCheckResponse answers a "may I act on this resource" query.
type AccessCheckResponse struct {
	Kind       string `json:"kind"`
	ResourceID string `json:"resourceID"`
	domain.AccessDecision
}
