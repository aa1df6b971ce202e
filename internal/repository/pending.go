package repository

import (
	"context"
	"time"

	"github.com/convoo/convoo-backend/internal/domain"
)

// PendingUserRepository is the store of not-yet-verified signups.
// At most one row exists per email (unique index). The store also removes
// rows past their TokenExpiry on its own; FindByToken must still filter by
// expiry rather than rely on that cleanup.
type PendingUserRepository interface {
	// Insert stores a new pending signup and fills in its ID and timestamps.
	Insert(ctx context.Context, pending *domain.PendingUser) error
	// FindByEmail returns domain.ErrPendingNotFound when no row exists.
	FindByEmail(ctx context.Context, email string) (*domain.PendingUser, error)
	// FindByToken matches the active token of an unexpired row
	// (token_expiry strictly after now). Expired-but-present rows are
	// reported as domain.ErrPendingNotFound, same as absent ones.
	FindByToken(ctx context.Context, token string, now time.Time) (*domain.PendingUser, error)
	// UpdateToken rotates the token and expiry in place on the row for email.
	// Returns domain.ErrPendingNotFound when no row exists.
	UpdateToken(ctx context.Context, email, token string, expiry time.Time) error
	// DeleteByEmail removes the row for email. Deleting a missing row is not
	// an error.
	DeleteByEmail(ctx context.Context, email string) error
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired removes every row with token_expiry at or before now and
	// reports how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
