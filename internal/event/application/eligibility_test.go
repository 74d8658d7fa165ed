package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

func seedConditionEvent(t *testing.T, repo *fakeEventRepo, conditions ...domain.Condition) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	event, err := repo.Create(context.Background(), ports.CreateEventParams{
		Name:       "eligibility check",
		StartAt:    now.Add(-time.Hour),
		EndAt:      now.Add(time.Hour),
		IsActive:   true,
		Conditions: conditions,
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event.EventID
}

func TestEvaluateNoConditionsIsPassThrough(t *testing.T) {
	t.Parallel()
	events := newFakeEventRepo()
	activity := &fakeActivityStore{}
	evaluator := NewEligibilityEvaluator(events, activity)
	eventID := seedConditionEvent(t, events)

	eligible, err := evaluator.Evaluate(context.Background(), eventID, uuid.New())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !eligible {
		t.Fatal("event without conditions must be a pass-through")
	}
	if activity.callCount() != 0 {
		t.Fatalf("activity calls = %d, want 0", activity.callCount())
	}
}

func TestEvaluateThresholds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		cond     domain.Condition
		points   int64
		logins   int64
		invited  int64
		eligible bool
	}{
		{"points below", domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100}, 99, 0, 0, false},
		{"points exact", domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100}, 100, 0, 0, true},
		{"points above", domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100}, 101, 0, 0, true},
		{"logins below", domain.Condition{Type: domain.ConditionConsecutiveLogins, Value: 7}, 0, 6, 0, false},
		{"logins exact", domain.Condition{Type: domain.ConditionConsecutiveLogins, Value: 7}, 0, 7, 0, true},
		{"invited below", domain.Condition{Type: domain.ConditionInvitedFriends, Value: 3}, 0, 0, 2, false},
		{"invited exact", domain.Condition{Type: domain.ConditionInvitedFriends, Value: 3}, 0, 0, 3, true},
		{"zero threshold always met", domain.Condition{Type: domain.ConditionMinimumPoints, Value: 0}, 0, 0, 0, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			events := newFakeEventRepo()
			activity := &fakeActivityStore{points: tc.points, logins: tc.logins, invited: tc.invited}
			evaluator := NewEligibilityEvaluator(events, activity)
			eventID := seedConditionEvent(t, events, tc.cond)

			eligible, err := evaluator.Evaluate(context.Background(), eventID, uuid.New())
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if eligible != tc.eligible {
				t.Fatalf("eligible = %v, want %v", eligible, tc.eligible)
			}
		})
	}
}

func TestEvaluateAllConditionsMustHold(t *testing.T) {
	t.Parallel()
	events := newFakeEventRepo()
	activity := &fakeActivityStore{points: 500, logins: 2}
	evaluator := NewEligibilityEvaluator(events, activity)
	eventID := seedConditionEvent(t, events,
		domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100},
		domain.Condition{Type: domain.ConditionConsecutiveLogins, Value: 7},
		domain.Condition{Type: domain.ConditionInvitedFriends, Value: 1},
	)

	eligible, err := evaluator.Evaluate(context.Background(), eventID, uuid.New())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eligible {
		t.Fatal("one failing condition must fail the whole set")
	}
	// The second condition fails, so the third is never fetched.
	if activity.callCount() != 2 {
		t.Fatalf("activity calls = %d, want 2", activity.callCount())
	}
}

func TestEvaluateSkipsUnknownConditionType(t *testing.T) {
	t.Parallel()
	events := newFakeEventRepo()
	activity := &fakeActivityStore{points: 200}
	evaluator := NewEligibilityEvaluator(events, activity)
	eventID := seedConditionEvent(t, events,
		domain.Condition{Type: "purchaseCount", Value: 10},
		domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100},
	)

	eligible, err := evaluator.Evaluate(context.Background(), eventID, uuid.New())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !eligible {
		t.Fatal("unknown condition type must be skipped, not failed")
	}
	if activity.callCount() != 1 {
		t.Fatalf("activity calls = %d, want 1 (unknown type needs no lookup)", activity.callCount())
	}
}
