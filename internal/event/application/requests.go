package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

// CreateRewardRequest runs the claim workflow for a user against an event.
//
// The step order is part of the contract: event resolution, event-activity
// gate, reward resolution, duplicate check, then eligibility. The duplicate
// check runs before eligibility because eligibility is the expensive remote
// path; a duplicate claim must not trigger any activity-store lookup.
func (s *Service) CreateRewardRequest(ctx context.Context, eventID string, claim RewardClaim) (RewardRequestItem, error) {
	evID, err := parseID(eventID, "event id")
	if err != nil {
		return RewardRequestItem{}, err
	}
	userID, err := parseID(claim.UserID, "user id")
	if err != nil {
		return RewardRequestItem{}, err
	}
	rewardID, err := parseID(claim.RewardID, "reward id")
	if err != nil {
		return RewardRequestItem{}, err
	}

	event, err := s.events.GetByID(ctx, evID)
	if err != nil {
		return RewardRequestItem{}, fmt.Errorf("resolve event: %w", err)
	}
	if !event.IsActive {
		return RewardRequestItem{}, fmt.Errorf("%w: event %s", domain.ErrEventInactive, event.EventID)
	}

	reward, err := s.rewards.GetByID(ctx, rewardID)
	if err != nil {
		return RewardRequestItem{}, fmt.Errorf("resolve reward: %w", err)
	}
	if reward.EventID != event.EventID {
		return RewardRequestItem{}, fmt.Errorf("%w: reward %s does not belong to event %s", domain.ErrNotFound, rewardID, event.EventID)
	}

	existing, err := s.requests.FindOpenByUserAndEvent(ctx, userID, event.EventID)
	if err != nil {
		return RewardRequestItem{}, err
	}
	if existing != nil {
		return RewardRequestItem{}, fmt.Errorf("%w: open request %s", domain.ErrDuplicateRequest, existing.RequestID)
	}

	eligible, err := s.evaluator.Evaluate(ctx, event.EventID, userID)
	if err != nil {
		return RewardRequestItem{}, err
	}
	if !eligible {
		return RewardRequestItem{}, fmt.Errorf("%w: user %s on event %s", domain.ErrConditionsNotMet, userID, event.EventID)
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"user_id":      userID,
		"event_id":     event.EventID,
		"reward_id":    rewardID,
		"requested_at": now,
	})
	request, err := s.requests.CreateWithOutboxTx(ctx, ports.CreateRequestParams{
		UserID:      userID,
		EventID:     event.EventID,
		RewardID:    rewardID,
		Status:      domain.StatusPending,
		RequestedAt: now,
	}, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "reward_request.created",
		PartitionKey: userID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return RewardRequestItem{}, err
	}
	return toRequestItem(request), nil
}

// UpdateRewardRequestStatus applies an admin decision to a pending request.
// Transitions are restricted to PENDING -> {APPROVED, REJECTED}; anything else
// is a conflict, so a double-approve is visible to the caller rather than a
// silent overwrite.
func (s *Service) UpdateRewardRequestStatus(ctx context.Context, requestID, status string) (RewardRequestItem, error) {
	id, err := parseID(requestID, "request id")
	if err != nil {
		return RewardRequestItem{}, err
	}
	next, err := domain.ParseRequestStatus(status)
	if err != nil {
		return RewardRequestItem{}, err
	}

	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return RewardRequestItem{}, err
	}
	if !domain.CanTransition(current.Status, next) {
		return RewardRequestItem{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, next)
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"request_id":   id,
		"event_id":     current.EventID,
		"user_id":      current.UserID,
		"from_status":  current.Status,
		"to_status":    next,
		"processed_at": now,
	})
	updated, err := s.requests.UpdateStatusWithOutboxTx(ctx, id, next, now, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "reward_request.status_changed",
		PartitionKey: current.UserID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return RewardRequestItem{}, err
	}
	return toRequestItem(updated), nil
}

func (s *Service) RewardRequestsByUser(ctx context.Context, userID string) ([]RewardRequestItem, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	rows, err := s.requests.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRequestItems(rows), nil
}

func (s *Service) RewardRequestsByEvent(ctx context.Context, eventID string) ([]RewardRequestItem, error) {
	id, err := parseID(eventID, "event id")
	if err != nil {
		return nil, err
	}
	rows, err := s.requests.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRequestItems(rows), nil
}

func (s *Service) RewardRequestsByStatus(ctx context.Context, status string) ([]RewardRequestItem, error) {
	parsed, err := domain.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	rows, err := s.requests.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return toRequestItems(rows), nil
}
