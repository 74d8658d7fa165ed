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

type rewardRequestRepository struct {
	db *gorm.DB
}

// CreateWithOutboxTx inserts the request row and its domain event atomically.
// The reward_requests table carries a partial unique index on
// (user_id, event_id) WHERE status <> 'REJECTED', so a concurrent duplicate
// that slipped past the application-level check fails here and still surfaces
// as ErrDuplicateRequest.
func (r *rewardRequestRepository) CreateWithOutboxTx(ctx context.Context, params ports.CreateRequestParams, event ports.OutboxEvent) (domain.RewardRequest, error) {
	var result domain.RewardRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := rewardRequestModel{
			UserID:      params.UserID,
			EventID:     params.EventID,
			RewardID:    params.RewardID,
			Status:      string(params.Status),
			RequestedAt: params.RequestedAt,
			CreatedAt:   params.RequestedAt,
			UpdatedAt:   params.RequestedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateRequest
			}
			return err
		}

		outbox := eventOutboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		result = toDomainRequest(rec)
		return nil
	})
	if err != nil {
		return domain.RewardRequest{}, err
	}
	return result, nil
}

func (r *rewardRequestRepository) UpdateStatusWithOutboxTx(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, processedAt time.Time, event ports.OutboxEvent) (domain.RewardRequest, error) {
	var result domain.RewardRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&rewardRequestModel{}).
			Where("request_id = ?", requestID).
			Updates(map[string]any{
				"status":       string(status),
				"processed_at": processedAt,
				"updated_at":   processedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		outbox := eventOutboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		var rec rewardRequestModel
		if err := tx.Where("request_id = ?", requestID).Take(&rec).Error; err != nil {
			return err
		}
		result = toDomainRequest(rec)
		return nil
	})
	if err != nil {
		return domain.RewardRequest{}, err
	}
	return result, nil
}

func (r *rewardRequestRepository) GetByID(ctx context.Context, requestID uuid.UUID) (domain.RewardRequest, error) {
	var rec rewardRequestModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RewardRequest{}, domain.ErrNotFound
		}
		return domain.RewardRequest{}, err
	}
	return toDomainRequest(rec), nil
}

func (r *rewardRequestRepository) FindOpenByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*domain.RewardRequest, error) {
	var rec rewardRequestModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("event_id = ?", eventID).
		Where("status <> ?", string(domain.StatusRejected)).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	request := toDomainRequest(rec)
	return &request, nil
}

func (r *rewardRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RewardRequest, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *rewardRequestRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.RewardRequest, error) {
	return r.list(ctx, "event_id = ?", eventID)
}

func (r *rewardRequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.RewardRequest, error) {
	return r.list(ctx, "status = ?", string(status))
}

func (r *rewardRequestRepository) list(ctx context.Context, cond string, arg any) ([]domain.RewardRequest, error) {
	var rows []rewardRequestModel
	query := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("requested_at DESC")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.RewardRequest, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainRequest(row))
	}
	return result, nil
}
