package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity aggregate for the auth service.
// Activity counters (points, login streak, invited friends) live on the
// same aggregate because eligibility lookups read them as a unit.
type User struct {
	UserID            uuid.UUID
	Username          string
	PasswordHash      string
	Role              Role
	Points            int64
	ConsecutiveLogins int64
	LastLoginAt       *time.Time
	InvitedFriends    int64
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NextConsecutiveLogins computes the login streak that results from a login
// at the given instant. Streaks are counted in calendar days (UTC): a login
// on the day after the previous one extends the streak, a same-day login
// leaves it unchanged, and any gap resets it to one.
func NextConsecutiveLogins(current int64, lastLoginAt *time.Time, now time.Time) int64 {
	if lastLoginAt == nil || current <= 0 {
		return 1
	}
	prev := lastLoginAt.UTC().Truncate(24 * time.Hour)
	curr := now.UTC().Truncate(24 * time.Hour)
	switch days := int64(curr.Sub(prev).Hours() / 24); {
	case days == 0:
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}

// LoginAttempt records authentication outcomes for audit and lockout controls.
type LoginAttempt struct {
	ID            int64
	UserID        *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
	UserAgent     string
}
