package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithOutboxTx inserts the user row and its registration event in one
// transaction so integration consumers never observe one without the other.
func (r *UserRepository) CreateWithOutboxTx(ctx context.Context, params ports.CreateUserTxParams, outboxEvent ports.OutboxEvent) (domain.User, error) {
	model := userModel{
		UserID:       uuid.New(),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Role:         string(params.Role),
		IsActive:     true,
		CreatedAt:    params.RegisteredAtUTC,
		UpdatedAt:    params.RegisteredAtUTC,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: username already exists", domain.ErrConflict)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		outbox := authOutboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: outboxEvent.PartitionKey,
			Payload:      outboxEvent.Payload,
			CreatedAt:    outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID uuid.UUID, consecutiveLogins int64, loginAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"consecutive_logins": consecutiveLogins,
			"last_login_at":      loginAt,
			"updated_at":         loginAt,
		})
	if res.Error != nil {
		return fmt.Errorf("record login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddPoints applies the delta under a row lock so concurrent adjustments
// serialize, and rejects any delta that would push the balance below zero.
func (r *UserRepository) AddPoints(ctx context.Context, userID uuid.UUID, delta int64, at time.Time) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model userModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}
		next := model.Points + delta
		if next < 0 {
			return fmt.Errorf("%w: insufficient points", domain.ErrInvalidInput)
		}
		if err := tx.Model(&userModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{"points": next, "updated_at": at}).Error; err != nil {
			return fmt.Errorf("update points: %w", err)
		}
		balance = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *UserRepository) IncrementInvitedFriends(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"invited_friends": gorm.Expr("invited_friends + 1"),
				"updated_at":      at,
			})
		if res.Error != nil {
			return fmt.Errorf("increment invited friends: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		var model userModel
		if err := tx.Select("invited_friends").Where("user_id = ?", userID).First(&model).Error; err != nil {
			return fmt.Errorf("reload invited friends: %w", err)
		}
		count = model.InvitedFriends
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
