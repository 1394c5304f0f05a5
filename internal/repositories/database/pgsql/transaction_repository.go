package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/models"
	"github.com/SscSPs/site_workflow_app/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool, Timeout: timeout}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, project_id, vendor_id, party_id, transaction_type, amount,
		transaction_date, notes, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.ProjectID, m.VendorID, m.PartyID, m.TransactionType, m.Amount,
		m.TransactionDate, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "insert transaction "+m.TransactionID)
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.ProjectID, &m.VendorID, &m.PartyID, &m.TransactionType, &m.Amount,
		&m.TransactionDate, &m.Notes, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanTransaction(r.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, transactionID))
	if err != nil {
		return nil, mapError(err, "find transaction "+transactionID)
	}
	t := mapping.ToDomainTransaction(m)
	return &t, nil
}

func (r *PgxTransactionRepository) query(ctx context.Context, what, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, mapError(err, "scan transaction")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, what)
	}
	return out, nil
}

// ListTransactionsByProject returns one page ordered by (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := keysetClause(`SELECT `+transactionColumns+` FROM transactions WHERE project_id = $1`,
		[]any{projectID}, "created_at", "transaction_id", nextToken)
	if err != nil {
		return nil, nil, err
	}
	query += " ORDER BY created_at, transaction_id LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, limit+1)

	ms, err := r.query(ctx, "list transactions of project "+projectID, query, args...)
	if err != nil {
		return nil, nil, err
	}
	page, next := trimPage(ms, limit, func(m models.Transaction) (time.Time, string) { return m.CreatedAt, m.TransactionID })
	return mapping.ToDomainTransactionSlice(page), next, nil
}

func (r *PgxTransactionRepository) ListAllTransactionsByProject(ctx context.Context, projectID string) ([]domain.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ms, err := r.query(ctx, "list transactions of project "+projectID,
		`SELECT `+transactionColumns+` FROM transactions WHERE project_id = $1 ORDER BY created_at, transaction_id;`, projectID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
