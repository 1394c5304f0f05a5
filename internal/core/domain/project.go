package domain

import "github.com/shopspring/decimal"

// Project is a unit of construction work. Progress is derived from its tasks
// and always lies in [0,100].
type Project struct {
	ProjectID     string          `json:"projectID"`
	Name          string          `json:"name"`
	ArchitectID   string          `json:"architectID"`
	QuoteID       *string         `json:"quoteID,omitempty"` // originating quote, absent on legacy projects
	Client        string          `json:"client"`            // homeowner name or email, legacy ownership match
	ContractValue decimal.Decimal `json:"contractValue"`     // project total used for payable entitlement
	Progress      decimal.Decimal `json:"progress"`
	AuditFields
}

// Quote predates formal project ownership. Assigned lists the professionals
// allowed to act on it.
type Quote struct {
	QuoteID  string   `json:"quoteID"`
	LeadID   string   `json:"leadID"`
	Assigned []string `json:"assigned"`
	AuditFields
}

// HasAssigned reports whether userID is one of the quote's professionals.
func (q Quote) HasAssigned(userID string) bool {
	for _, id := range q.Assigned {
		if id == userID {
			return true
		}
	}
	return false
}

// Lead is the sales lead a quote was raised against. Assigned is the
// homeowner who owns it.
type Lead struct {
	LeadID   string `json:"leadID"`
	Name     string `json:"name"`
	Assigned string `json:"assigned"`
	AuditFields
}

// SiteMeasurement is a survey reading taken on a project site.
type SiteMeasurement struct {
	MeasurementID string          `json:"measurementID"`
	ProjectID     string          `json:"projectID"`
	TakenBy       string          `json:"takenBy"`
	Area          decimal.Decimal `json:"area"`
	Unit          string          `json:"unit"`
	Notes         string          `json:"notes"`
	AuditFields
}
