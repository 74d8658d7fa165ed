package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Create(ctx context.Context, params ports.CreateEventParams) (domain.Event, error) {
	conditions, err := encodeConditions(params.Conditions)
	if err != nil {
		return domain.Event{}, err
	}
	rec := eventModel{
		Name:        params.Name,
		Description: params.Description,
		Conditions:  conditions,
		StartAt:     params.StartAt,
		EndAt:       params.EndAt,
		IsActive:    params.IsActive,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Event{}, domain.ErrConflict
		}
		return domain.Event{}, err
	}
	return toDomainEvent(rec)
}

func (r *eventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (domain.Event, error) {
	var rec eventModel
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}
	return toDomainEvent(rec)
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	var rows []eventModel
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		event, err := toDomainEvent(row)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, nil
}

func (r *eventRepository) SetActive(ctx context.Context, eventID uuid.UUID, active bool, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&eventModel{}).
		Where("event_id = ?", eventID).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
