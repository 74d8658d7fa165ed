package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
)

type ConditionInput struct {
	Type        string `json:"type"`
	Value       int64  `json:"value"`
	Description string `json:"description,omitempty"`
}

type CreateEventRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartAt     time.Time        `json:"start_date"`
	EndAt       time.Time        `json:"end_date"`
	IsActive    *bool            `json:"is_active,omitempty"`
	Conditions  []ConditionInput `json:"conditions"`
}

type EventItem struct {
	EventID     uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartAt     time.Time        `json:"start_date"`
	EndAt       time.Time        `json:"end_date"`
	IsActive    bool             `json:"is_active"`
	Conditions  []ConditionInput `json:"conditions"`
	CreatedAt   time.Time        `json:"created_at"`
}

type CreateRewardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Value       int64  `json:"value"`
}

type RewardItem struct {
	RewardID    uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Value       int64     `json:"value"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RewardClaim is the caller-supplied body of a reward-request creation.
type RewardClaim struct {
	UserID   string `json:"userId"`
	RewardID string `json:"rewardId"`
}

type RewardRequestItem struct {
	RequestID   uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user"`
	EventID     uuid.UUID  `json:"event"`
	RewardID    uuid.UUID  `json:"reward"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"request_date"`
	ProcessedAt *time.Time `json:"processed_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEventItem(e domain.Event) EventItem {
	conditions := make([]ConditionInput, 0, len(e.Conditions))
	for _, c := range e.Conditions {
		conditions = append(conditions, ConditionInput{
			Type:        string(c.Type),
			Value:       c.Value,
			Description: c.Description,
		})
	}
	return EventItem{
		EventID:     e.EventID,
		Name:        e.Name,
		Description: e.Description,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		IsActive:    e.IsActive,
		Conditions:  conditions,
		CreatedAt:   e.CreatedAt,
	}
}

func toRewardItem(r domain.Reward) RewardItem {
	return RewardItem{
		RewardID:    r.RewardID,
		EventID:     r.EventID,
		Name:        r.Name,
		Description: r.Description,
		Type:        string(r.Type),
		Value:       r.Value,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

func toRequestItem(r domain.RewardRequest) RewardRequestItem {
	return RewardRequestItem{
		RequestID:   r.RequestID,
		UserID:      r.UserID,
		EventID:     r.EventID,
		RewardID:    r.RewardID,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRequestItems(rows []domain.RewardRequest) []RewardRequestItem {
	items := make([]RewardRequestItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toRequestItem(r))
	}
	return items
}
