package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

type LoginAttemptRepository struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

func (r *LoginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	model := loginAttemptModel{
		UserID:        attempt.UserID,
		AttemptAt:     attempt.AttemptAt,
		IPAddress:     attempt.IPAddress,
		Status:        attempt.Status,
		FailureReason: attempt.FailureReason,
		UserAgent:     attempt.UserAgent,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error) {
	var models []loginAttemptModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempt_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list login attempts: %w", err)
	}
	attempts := make([]domain.LoginAttempt, 0, len(models))
	for _, m := range models {
		attempts = append(attempts, toDomainAttempt(m))
	}
	return attempts, nil
}

var _ ports.LoginAttemptRepository = (*LoginAttemptRepository)(nil)
