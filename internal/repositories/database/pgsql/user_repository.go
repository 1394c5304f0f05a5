package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/models"
	"github.com/SscSPs/site_workflow_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool, Timeout: timeout}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// SaveUser upserts the mirrored copy of an identity.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (user_id, name, email, role, super_admin)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            email = EXCLUDED.email,
            role = EXCLUDED.role,
            super_admin = EXCLUDED.super_admin;
    `
	_, err := r.Pool.Exec(ctx, query, m.UserID, m.Name, m.Email, m.Role, m.SuperAdmin)
	return mapError(err, "save user "+m.UserID)
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT user_id, name, email, role, super_admin FROM users WHERE user_id = $1;`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.SuperAdmin)
	if err != nil {
		return nil, mapError(err, "find user "+userID)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}
