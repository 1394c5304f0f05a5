package repositories

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// TransactionReader defines read operations for manually recorded transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByProject retrieves a page of a project's transactions,
	// oldest first, and the token of the next page.
	ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListAllTransactionsByProject retrieves every transaction of a project.
	ListAllTransactionsByProject(ctx context.Context, projectID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
