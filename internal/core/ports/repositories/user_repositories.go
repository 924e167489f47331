package repositories

import (
	"context"

	"github.com/corebank/ledger_engine/internal/core/domain"
)

// UserRepository exposes the minimal owner lookups the ledger needs. User
// lifecycle management belongs to an external collaborator.
type UserRepository interface {
	// ExistsByUserID reports whether the owner exists.
	ExistsByUserID(ctx context.Context, userID string) (bool, error)

	// ListUsers returns all known owners. Used by the onboarding seeder.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// SaveUser persists an owner record.
	SaveUser(ctx context.Context, user domain.User) error
}
