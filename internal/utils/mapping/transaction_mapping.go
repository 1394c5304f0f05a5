package mapping

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		ProjectID:       d.ProjectID,
		VendorID:        d.VendorID,
		PartyID:         d.PartyID,
		TransactionType: string(d.TransactionType),
		Amount:          d.Amount,
		TransactionDate: d.TransactionDate,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		ProjectID:       m.ProjectID,
		VendorID:        m.VendorID,
		PartyID:         m.PartyID,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		TransactionDate: m.TransactionDate,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
