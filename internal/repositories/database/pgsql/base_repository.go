package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextEncoding = "22P02" // e.g. a malformed uuid
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool    *pgxpool.Pool
	Timeout time.Duration
}

// withTimeout bounds a single store call so a slow database surfaces as an
// error instead of a hung request.
func (r *BaseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// Ping checks that the pool can reach the database.
func (r *BaseRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.Pool.Ping(ctx)
}

// mapError translates driver errors into application errors. what names the
// operation for the wrapped message.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewAppError(409, what+": already exists", apperrors.ErrDuplicate)
		case pgInvalidTextEncoding:
			return apperrors.ErrNotFound
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewAppError(503, what+": store timed out", err)
	}
	return apperrors.NewAppError(500, "failed to "+what, err)
}

// keysetClause appends the (created_at, id) cursor condition for token and
// returns the extended query and args. Rows must be ordered by createdCol, idCol.
func keysetClause(query string, args []any, createdCol, idCol string, token *string) (string, []any, error) {
	if token == nil || *token == "" {
		return query, args, nil
	}
	cursor, err := pagination.DecodeToken(*token)
	if err != nil {
		return "", nil, apperrors.NewValidationFailedError("invalid nextToken")
	}
	n := len(args)
	query += " AND (" + createdCol + ", " + idCol + ") > ($" + strconv.Itoa(n+1) + ", $" + strconv.Itoa(n+2) + ")"
	return query, append(args, cursor.CreatedAt, cursor.ID), nil
}

// trimPage cuts a limit+1 result down to limit and builds the next token.
func trimPage[T any](rows []T, limit int, key func(T) (time.Time, string)) ([]T, *string) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	at, id := key(rows[limit-1])
	token := pagination.EncodeToken(at, id)
	return rows, &token
}
