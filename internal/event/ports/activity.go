package ports

import (
	"context"

	"github.com/google/uuid"
)

// UserActivityStore reads a user's live activity metrics from the auth service.
//
// Each lookup fails with domain.ErrNotFound when the user id does not resolve
// and domain.ErrActivityUnavailable on transport failure. The evaluator relies
// on that distinction: an unavailable store must never read as "not eligible".
type UserActivityStore interface {
	GetPoints(ctx context.Context, userID uuid.UUID) (int64, error)
	GetConsecutiveLogins(ctx context.Context, userID uuid.UUID) (int64, error)
	GetInvitedFriendsCount(ctx context.Context, userID uuid.UUID) (int64, error)
}
