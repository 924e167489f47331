package pgsql

import (
	"context"
	"fmt"

	"github.com/corebank/ledger_engine/internal/core/domain"
	portsrepo "github.com/corebank/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUserRepository persists owner records in PostgreSQL.
type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates the pgsql user repository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// ExistsByUserID reports whether the owner exists.
func (r *PgxUserRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1);`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// ListUsers returns all known owners ordered by creation time.
func (r *PgxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT user_id, name, created_at FROM users ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.UserID, &user.Name, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// SaveUser persists an owner record, ignoring duplicates.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query, user.UserID, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", user.UserID, err)
	}
	return nil
}
