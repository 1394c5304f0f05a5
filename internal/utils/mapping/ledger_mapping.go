package mapping

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		ProjectID:      d.ProjectID,
		TaskID:         d.TaskID,
		EntryType:      string(d.EntryType),
		Category:       string(d.Category),
		Amount:         d.Amount,
		Status:         string(d.Status),
		Description:    d.Description,
		Metadata:       d.Metadata,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		ProjectID:      m.ProjectID,
		TaskID:         m.TaskID,
		EntryType:      domain.EntryType(m.EntryType),
		Category:       domain.LedgerCategory(m.Category),
		Amount:         m.Amount,
		Status:         domain.LedgerStatus(m.Status),
		Description:    m.Description,
		Metadata:       m.Metadata,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
