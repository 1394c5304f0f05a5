package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository port to the pool. timeout
// bounds each store call.
func NewRepositoryProvider(dbPool *pgxpool.Pool, timeout time.Duration) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool, timeout)
	projectRepo := newPgxProjectRepository(dbPool, timeout)
	taskRepo := newPgxTaskRepository(dbPool, timeout)
	ledgerRepo := newPgxLedgerRepository(dbPool, timeout)
	transactionRepo := newPgxTransactionRepository(dbPool, timeout)

	return portsrepo.RepositoryProvider{
		UserRepo:        userRepo,
		ProjectRepo:     projectRepo,
		QuoteRepo:       projectRepo,
		TaskRepo:        taskRepo,
		LedgerRepo:      ledgerRepo,
		TransactionRepo: transactionRepo,
		MeasurementRepo: projectRepo,
		Health:          &userRepo.BaseRepository,
	}
}
