package postgres

import (
	"time"

	"github.com/google/uuid"
)

type eventModel struct {
	EventID     uuid.UUID `gorm:"column:event_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	// Conditions are stored as a JSON document: they are owned by value and
	// always read back as a whole, so a join table would buy nothing.
	Conditions string    `gorm:"column:conditions;type:jsonb"`
	StartAt    time.Time `gorm:"column:start_at"`
	EndAt      time.Time `gorm:"column:end_at"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (eventModel) TableName() string { return "events" }

type rewardModel struct {
	RewardID    uuid.UUID `gorm:"column:reward_id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     uuid.UUID `gorm:"column:event_id"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	RewardType  string    `gorm:"column:reward_type"`
	Value       int64     `gorm:"column:value"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (rewardModel) TableName() string { return "rewards" }

type rewardRequestModel struct {
	RequestID   uuid.UUID  `gorm:"column:request_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id"`
	EventID     uuid.UUID  `gorm:"column:event_id"`
	RewardID    uuid.UUID  `gorm:"column:reward_id"`
	Status      string     `gorm:"column:status"`
	RequestedAt time.Time  `gorm:"column:requested_at"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (rewardRequestModel) TableName() string { return "reward_requests" }

type eventOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (eventOutboxModel) TableName() string { return "event_outbox" }
