package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
)

// CreateEventParams captures event-creation inputs after application-level validation.
type CreateEventParams struct {
	Name        string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	IsActive    bool
	Conditions  []domain.Condition
	CreatedAt   time.Time
}

// EventRepository defines persistence operations for events.
// Condition lists travel with the event; they have no identity of their own.
type EventRepository interface {
	Create(ctx context.Context, params CreateEventParams) (domain.Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
	SetActive(ctx context.Context, eventID uuid.UUID, active bool, updatedAt time.Time) error
}

// CreateRewardParams captures reward-creation inputs.
type CreateRewardParams struct {
	EventID     uuid.UUID
	Name        string
	Description string
	Type        domain.RewardType
	Value       int64
	IsActive    bool
	CreatedAt   time.Time
}

// RewardRepository defines persistence operations for rewards.
type RewardRepository interface {
	Create(ctx context.Context, params CreateRewardParams) (domain.Reward, error)
	GetByID(ctx context.Context, rewardID uuid.UUID) (domain.Reward, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Reward, error)
}

// CreateRequestParams captures the initial state of a reward request.
type CreateRequestParams struct {
	UserID      uuid.UUID
	EventID     uuid.UUID
	RewardID    uuid.UUID
	Status      domain.RequestStatus
	RequestedAt time.Time
}

// RewardRequestRepository manages reward-request rows and their outbox events.
//
// The transactional create/update methods exist so request mutations and their
// domain events commit atomically. The storage layer additionally carries a
// partial unique index on (user_id, event_id) for non-REJECTED rows; a
// violation surfaces as domain.ErrDuplicateRequest, which closes the
// check-then-insert race between concurrent creates.
type RewardRequestRepository interface {
	CreateWithOutboxTx(ctx context.Context, params CreateRequestParams, event OutboxEvent) (domain.RewardRequest, error)
	UpdateStatusWithOutboxTx(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, processedAt time.Time, event OutboxEvent) (domain.RewardRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (domain.RewardRequest, error)
	FindOpenByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*domain.RewardRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RewardRequest, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.RewardRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.RewardRequest, error)
}
