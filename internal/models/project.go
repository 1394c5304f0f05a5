package models

import "github.com/shopspring/decimal"

// Project is a row of the projects table.
type Project struct {
	ProjectID     string          `db:"project_id"`
	Name          string          `db:"name"`
	ArchitectID   string          `db:"architect_id"`
	QuoteID       *string         `db:"quote_id"` // Nullable for legacy projects
	Client        string          `db:"client"`
	ContractValue decimal.Decimal `db:"contract_value"`
	Progress      decimal.Decimal `db:"progress"`
	AuditFields
}

// Quote is a row of the quotes table.
type Quote struct {
	QuoteID  string   `db:"quote_id"`
	LeadID   string   `db:"lead_id"`
	Assigned []string `db:"assigned"` // uuid[]
	AuditFields
}

// Lead is a row of the leads table.
type Lead struct {
	LeadID   string `db:"lead_id"`
	Name     string `db:"name"`
	Assigned string `db:"assigned"`
	AuditFields
}

// SiteMeasurement is a row of the site_measurements table.
type SiteMeasurement struct {
	MeasurementID string          `db:"measurement_id"`
	ProjectID     string          `db:"project_id"`
	TakenBy       string          `db:"taken_by"`
	Area          decimal.Decimal `db:"area"`
	Unit          string          `db:"unit"`
	Notes         string          `db:"notes"`
	AuditFields
}
