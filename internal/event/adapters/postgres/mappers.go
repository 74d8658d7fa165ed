package postgres

import (
	"encoding/json"
	"errors"

	"github.com/pulseops/eventpulse/internal/event/domain"
	"gorm.io/gorm"
)

type conditionDoc struct {
	Type        string `json:"type"`
	Value       int64  `json:"value"`
	Description string `json:"description,omitempty"`
}

func encodeConditions(conditions []domain.Condition) (string, error) {
	docs := make([]conditionDoc, 0, len(conditions))
	for _, c := range conditions {
		docs = append(docs, conditionDoc{
			Type:        string(c.Type),
			Value:       c.Value,
			Description: c.Description,
		})
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeConditions(raw string) ([]domain.Condition, error) {
	if raw == "" {
		return nil, nil
	}
	var docs []conditionDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, err
	}
	conditions := make([]domain.Condition, 0, len(docs))
	for _, d := range docs {
		conditions = append(conditions, domain.Condition{
			Type:        domain.ConditionType(d.Type),
			Value:       d.Value,
			Description: d.Description,
		})
	}
	return conditions, nil
}

func toDomainEvent(row eventModel) (domain.Event, error) {
	conditions, err := decodeConditions(row.Conditions)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		EventID:     row.EventID,
		Name:        row.Name,
		Description: row.Description,
		StartAt:     row.StartAt,
		EndAt:       row.EndAt,
		IsActive:    row.IsActive,
		Conditions:  conditions,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func toDomainReward(row rewardModel) domain.Reward {
	return domain.Reward{
		RewardID:    row.RewardID,
		EventID:     row.EventID,
		Name:        row.Name,
		Description: row.Description,
		Type:        domain.RewardType(row.RewardType),
		Value:       row.Value,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainRequest(row rewardRequestModel) domain.RewardRequest {
	return domain.RewardRequest{
		RequestID:   row.RequestID,
		UserID:      row.UserID,
		EventID:     row.EventID,
		RewardID:    row.RewardID,
		Status:      domain.RequestStatus(row.Status),
		RequestedAt: row.RequestedAt,
		ProcessedAt: row.ProcessedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
