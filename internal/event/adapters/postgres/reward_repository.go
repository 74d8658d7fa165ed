package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
	"gorm.io/gorm"
)

type rewardRepository struct {
	db *gorm.DB
}

func (r *rewardRepository) Create(ctx context.Context, params ports.CreateRewardParams) (domain.Reward, error) {
	rec := rewardModel{
		EventID:     params.EventID,
		Name:        params.Name,
		Description: params.Description,
		RewardType:  string(params.Type),
		Value:       params.Value,
		IsActive:    params.IsActive,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Reward{}, err
	}
	return toDomainReward(rec), nil
}

func (r *rewardRepository) GetByID(ctx context.Context, rewardID uuid.UUID) (domain.Reward, error) {
	var rec rewardModel
	if err := r.db.WithContext(ctx).Where("reward_id = ?", rewardID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Reward{}, domain.ErrNotFound
		}
		return domain.Reward{}, err
	}
	return toDomainReward(rec), nil
}

func (r *rewardRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Reward, error) {
	var rows []rewardModel
	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Reward, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainReward(row))
	}
	return result, nil
}
