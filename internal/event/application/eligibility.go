package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

// EligibilityEvaluator checks a user's activity metrics against an event's
// condition list. It is a pure query: no side effects, no caching.
type EligibilityEvaluator struct {
	events   ports.EventRepository
	activity ports.UserActivityStore
}

func NewEligibilityEvaluator(events ports.EventRepository, activity ports.UserActivityStore) *EligibilityEvaluator {
	return &EligibilityEvaluator{events: events, activity: activity}
}

// Evaluate returns true iff every recognized condition on the event is
// satisfied by the user's current metrics.
//
// Conditions are walked in stored order and evaluation stops at the first
// failing one, so the activity store sees at most one lookup per condition
// actually reached. An event without conditions is a pass-through: true is
// returned without touching the activity store at all. Unrecognized condition
// types are skipped by contract, not by oversight.
func (e *EligibilityEvaluator) Evaluate(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	event, err := e.events.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if len(event.Conditions) == 0 {
		return true, nil
	}

	for _, condition := range event.Conditions {
		met, err := e.evaluateCondition(ctx, condition, userID)
		if err != nil {
			return false, err
		}
		if !met {
			return false, nil
		}
	}
	return true, nil
}

func (e *EligibilityEvaluator) evaluateCondition(ctx context.Context, condition domain.Condition, userID uuid.UUID) (bool, error) {
	switch condition.Type {
	case domain.ConditionMinimumPoints:
		points, err := e.activity.GetPoints(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("fetch points: %w", err)
		}
		return points >= condition.Value, nil
	case domain.ConditionConsecutiveLogins:
		streak, err := e.activity.GetConsecutiveLogins(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("fetch login streak: %w", err)
		}
		return streak >= condition.Value, nil
	case domain.ConditionInvitedFriends:
		invited, err := e.activity.GetInvitedFriendsCount(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("fetch invited friends: %w", err)
		}
		return invited >= condition.Value, nil
	default:
		appLogger().WarnContext(ctx, "skipping unknown condition type",
			"operation", "evaluate_eligibility",
			"outcome", "skipped",
			"condition_type", string(condition.Type),
		)
		return true, nil
	}
}
