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

// PgxLedgerRepository is the append-only ledger. It has no update or delete.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool, Timeout: timeout}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, project_id, task_id, entry_type, category, amount, status,
		description, metadata, idempotency_key, created_at, created_by`

// batcher is satisfied by both the pool and a transaction.
type batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// appendEntries inserts entries, skipping any whose idempotency key is already
// stored, and returns how many rows were new.
func appendEntries(ctx context.Context, db batcher, entries []domain.LedgerEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	query := `INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (idempotency_key) DO NOTHING;`

	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(query,
			m.EntryID, m.ProjectID, m.TaskID, m.EntryType, m.Category, m.Amount, m.Status,
			m.Description, m.Metadata, m.IdempotencyKey, m.CreatedAt, m.CreatedBy,
		)
	}

	br := db.SendBatch(ctx, batch)
	written := 0
	for range entries {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return written, mapError(err, "insert ledger entry")
		}
		written += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return written, mapError(err, "insert ledger entries")
	}
	return written, nil
}

func (r *PgxLedgerRepository) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	written, err := appendEntries(ctx, tx, entries)
	if err != nil {
		return 0, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return written, nil
}

func scanLedgerEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()
	out := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID, &m.ProjectID, &m.TaskID, &m.EntryType, &m.Category, &m.Amount, &m.Status,
			&m.Description, &m.Metadata, &m.IdempotencyKey, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, mapError(err, "scan ledger entry")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate ledger entries")
	}
	return out, nil
}

// ListLedgerEntriesByProject returns one page ordered by (created_at, entry_id).
func (r *PgxLedgerRepository) ListLedgerEntriesByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := keysetClause(`SELECT `+ledgerColumns+` FROM ledger_entries WHERE project_id = $1`,
		[]any{projectID}, "created_at", "entry_id", nextToken)
	if err != nil {
		return nil, nil, err
	}
	// We fetch one extra item to determine if there's a next page.
	query += " ORDER BY created_at, entry_id LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list ledger of project "+projectID)
	}
	ms, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}
	page, next := trimPage(ms, limit, func(m models.LedgerEntry) (time.Time, string) { return m.CreatedAt, m.EntryID })
	return mapping.ToDomainLedgerEntrySlice(page), next, nil
}

func (r *PgxLedgerRepository) ListAllLedgerEntriesByProject(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE project_id = $1 ORDER BY created_at, entry_id;`, projectID)
	if err != nil {
		return nil, mapError(err, "list ledger of project "+projectID)
	}
	ms, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

func (r *PgxLedgerRepository) ListLedgerEntriesByTask(ctx context.Context, taskID string) ([]domain.LedgerEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE task_id = $1 ORDER BY created_at, entry_id;`, taskID)
	if err != nil {
		return nil, mapError(err, "list ledger of task "+taskID)
	}
	ms, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}
