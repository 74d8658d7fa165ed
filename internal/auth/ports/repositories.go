package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/auth/domain"
)

// CreateUserTxParams captures atomic user-creation inputs.
// It carries outbox metadata so registration writes the user and its
// registration event in one transaction.
type CreateUserTxParams struct {
	Username        string
	PasswordHash    string
	Role            domain.Role
	RegisteredAtUTC time.Time
}

// UserRepository defines persistence operations for user identities and
// their activity counters. The counter updates return the new value so the
// application layer never has to re-read after a write.
type UserRepository interface {
	CreateWithOutboxTx(ctx context.Context, params CreateUserTxParams, outboxEvent OutboxEvent) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	RecordLogin(ctx context.Context, userID uuid.UUID, consecutiveLogins int64, loginAt time.Time) error
	AddPoints(ctx context.Context, userID uuid.UUID, delta int64, at time.Time) (int64, error)
	IncrementInvitedFriends(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

// InvitationRepository records who invited whom. The pair (inviter, invitee)
// is unique so re-inviting the same friend never inflates the counter.
type InvitationRepository interface {
	Insert(ctx context.Context, inviterID, inviteeID uuid.UUID, at time.Time) error
}

// LoginAttemptRepository stores login outcomes used by lockout and audit.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error)
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for domain events.
// This explicit contract enables transactional outbox patterns without leaking DB details.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
