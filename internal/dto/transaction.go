package dto

import (
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Transaction DTOs ---

// RecordTransactionRequest defines data for recording a manual cash movement.
type RecordTransactionRequest struct {
	VendorID        *string         `json:"vendorID" binding:"omitempty,uuid"`
	PartyID         *string         `json:"partyID"`
	TransactionType string          `json:"transactionType" binding:"required,oneof=PAYMENT_IN PAYMENT_OUT MATERIAL_PURCHASE LABOUR EXPENSE OTHER"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate *time.Time      `json:"transactionDate"`
	Notes           string          `json:"notes"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	ProjectID       string          `json:"projectID"`
	VendorID        *string         `json:"vendorID,omitempty"`
	PartyID         *string         `json:"partyID,omitempty"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ProjectID:       txn.ProjectID,
		VendorID:        txn.VendorID,
		PartyID:         txn.PartyID,
		TransactionType: string(txn.TransactionType),
		Amount:          txn.Amount,
		TransactionDate: txn.TransactionDate,
		Notes:           txn.Notes,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of transactions to DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	list := make([]TransactionResponse, len(txns))
	for i := range txns {
		list[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: list, NextToken: nextToken}
}
