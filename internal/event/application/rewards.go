package application

import (
	"context"
	"fmt"

	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

// CreateReward registers a prize under an event. Rewards can only be created
// while the parent event exists and is active; the workflow layer depends on
// this precondition instead of re-checking it.
func (s *Service) CreateReward(ctx context.Context, eventID string, req CreateRewardRequest) (RewardItem, error) {
	id, err := parseID(eventID, "event id")
	if err != nil {
		return RewardItem{}, err
	}
	if err := domain.ValidateNewReward(req.Name, req.Value); err != nil {
		return RewardItem{}, err
	}
	rewardType, err := domain.ParseRewardType(req.Type)
	if err != nil {
		return RewardItem{}, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return RewardItem{}, fmt.Errorf("resolve parent event: %w", err)
	}
	if !event.IsActive {
		return RewardItem{}, fmt.Errorf("%w: rewards require an active event", domain.ErrEventInactive)
	}

	reward, err := s.rewards.Create(ctx, ports.CreateRewardParams{
		EventID:     event.EventID,
		Name:        req.Name,
		Description: req.Description,
		Type:        rewardType,
		Value:       req.Value,
		IsActive:    true,
		CreatedAt:   s.nowFn(),
	})
	if err != nil {
		return RewardItem{}, err
	}
	return toRewardItem(reward), nil
}

func (s *Service) ListRewardsByEvent(ctx context.Context, eventID string) ([]RewardItem, error) {
	id, err := parseID(eventID, "event id")
	if err != nil {
		return nil, err
	}
	rewards, err := s.rewards.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]RewardItem, 0, len(rewards))
	for _, r := range rewards {
		items = append(items, toRewardItem(r))
	}
	return items, nil
}
