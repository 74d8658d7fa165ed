package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID            uuid.UUID  `gorm:"column:user_id;primaryKey"`
	Username          string     `gorm:"column:username"`
	PasswordHash      string     `gorm:"column:password_hash"`
	Role              string     `gorm:"column:role"`
	Points            int64      `gorm:"column:points"`
	ConsecutiveLogins int64      `gorm:"column:consecutive_logins"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at"`
	InvitedFriends    int64      `gorm:"column:invited_friends"`
	IsActive          bool       `gorm:"column:is_active"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type invitationModel struct {
	InviterID uuid.UUID `gorm:"column:inviter_id;primaryKey"`
	InviteeID uuid.UUID `gorm:"column:invitee_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (invitationModel) TableName() string { return "invitations" }

type loginAttemptModel struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        *uuid.UUID `gorm:"column:user_id"`
	AttemptAt     time.Time  `gorm:"column:attempt_at"`
	IPAddress     string     `gorm:"column:ip_address"`
	Status        string     `gorm:"column:status"`
	FailureReason string     `gorm:"column:failure_reason"`
	UserAgent     string     `gorm:"column:user_agent"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }

type authOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        []byte     `gorm:"column:payload"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (authOutboxModel) TableName() string { return "auth_outbox" }
