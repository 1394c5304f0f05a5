package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/dto"
)

// TransactionReaderSvc defines read operations for manual transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, actor domain.User, transactionID string) (*domain.Transaction, error)
	ListProjectTransactions(ctx context.Context, actor domain.User, projectID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for manual transactions
type TransactionWriterSvc interface {
	RecordTransaction(ctx context.Context, actor domain.User, projectID string, req dto.RecordTransactionRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
