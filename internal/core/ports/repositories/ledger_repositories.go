package repositories

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListLedgerEntriesByProject retrieves a page of a project's entries, oldest
	// first, and the token of the next page.
	ListLedgerEntriesByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListAllLedgerEntriesByProject retrieves every entry of a project.
	ListAllLedgerEntriesByProject(ctx context.Context, projectID string) ([]domain.LedgerEntry, error)

	// ListLedgerEntriesByTask retrieves every entry settled for a task.
	ListLedgerEntriesByTask(ctx context.Context, taskID string) ([]domain.LedgerEntry, error)
}

// LedgerAppender is the only write path into the ledger. Entries whose
// idempotency key already exists are skipped; the count of new rows is returned.
type LedgerAppender interface {
	AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
// There is deliberately no update or delete operation.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerAppender
}
