package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, "x"))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows, "find"), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("wrapped: %w", pgx.ErrNoRows), "find"), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}, "insert"), apperrors.ErrDuplicate)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "22P02"}, "find"), apperrors.ErrNotFound)

	timedOut := mapError(context.DeadlineExceeded, "list")
	var appErr *apperrors.AppError
	require.True(t, errors.As(timedOut, &appErr))
	assert.Equal(t, 503, appErr.Code)

	other := mapError(errors.New("boom"), "list tasks")
	require.True(t, errors.As(other, &appErr))
	assert.Equal(t, 500, appErr.Code)
	assert.Contains(t, other.Error(), "list tasks")
}

func TestKeysetClause(t *testing.T) {
	base := "SELECT * FROM ledger_entries WHERE project_id = $1"

	q, args, err := keysetClause(base, []any{"p"}, "created_at", "entry_id", nil)
	require.NoError(t, err)
	assert.Equal(t, base, q)
	assert.Len(t, args, 1)

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	token := pagination.EncodeToken(at, "e-9")
	q, args, err = keysetClause(base, []any{"p"}, "created_at", "entry_id", &token)
	require.NoError(t, err)
	assert.Equal(t, base+" AND (created_at, entry_id) > ($2, $3)", q)
	require.Len(t, args, 3)
	assert.True(t, at.Equal(args[1].(time.Time)))
	assert.Equal(t, "e-9", args[2])

	bad := "???"
	_, _, err = keysetClause(base, []any{"p"}, "created_at", "entry_id", &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTrimPage(t *testing.T) {
	type row struct {
		at time.Time
		id string
	}
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{{at, "a"}, {at, "b"}, {at, "c"}}
	key := func(r row) (time.Time, string) { return r.at, r.id }

	page, next := trimPage(rows, 3, key)
	assert.Len(t, page, 3)
	assert.Nil(t, next)

	page, next = trimPage(rows, 2, key)
	assert.Len(t, page, 2)
	require.NotNil(t, next)
	cursor, err := pagination.DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, "b", cursor.ID)
}
