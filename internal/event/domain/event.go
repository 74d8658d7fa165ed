package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConditionType identifies which activity metric a condition thresholds.
// The set is open-ended on the wire: unrecognized types are preserved but
// skipped during eligibility evaluation.
type ConditionType string

const (
	ConditionMinimumPoints     ConditionType = "minimumPoints"
	ConditionConsecutiveLogins ConditionType = "consecutiveLogins"
	ConditionInvitedFriends    ConditionType = "invitedFriends"
)

// Known reports whether the evaluator understands this condition type.
func (t ConditionType) Known() bool {
	switch t {
	case ConditionMinimumPoints, ConditionConsecutiveLogins, ConditionInvitedFriends:
		return true
	default:
		return false
	}
}

// Condition is a single eligibility rule attached to an event. Conditions are
// owned by value and immutable once the event is created.
type Condition struct {
	Type        ConditionType
	Value       int64
	Description string
}

// Event is a time-bounded promotional campaign with an ordered condition list.
type Event struct {
	EventID     uuid.UUID
	Name        string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	IsActive    bool
	Conditions  []Condition
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateNewEvent enforces creation invariants: non-empty name, a positive
// time window and at least one condition. Evaluation of an event that somehow
// has no conditions is a pass-through, but creating one is rejected.
func ValidateNewEvent(name string, startAt, endAt time.Time, conditions []Condition) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: event name must not be empty", ErrInvalidInput)
	}
	if startAt.IsZero() || endAt.IsZero() {
		return fmt.Errorf("%w: event start and end are required", ErrInvalidInput)
	}
	if !startAt.Before(endAt) {
		return fmt.Errorf("%w: event start must precede end", ErrInvalidInput)
	}
	if len(conditions) == 0 {
		return fmt.Errorf("%w: event requires at least one condition", ErrInvalidInput)
	}
	for i, c := range conditions {
		if strings.TrimSpace(string(c.Type)) == "" {
			return fmt.Errorf("%w: condition %d has empty type", ErrInvalidInput, i)
		}
		if c.Value < 0 {
			return fmt.Errorf("%w: condition %d has negative threshold", ErrInvalidInput, i)
		}
	}
	return nil
}
