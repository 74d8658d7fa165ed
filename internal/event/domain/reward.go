package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RewardType is the closed set of prize kinds an event can offer.
type RewardType string

const (
	RewardPoints RewardType = "POINTS"
	RewardItem   RewardType = "ITEM"
	RewardCoupon RewardType = "COUPON"
)

// ParseRewardType validates a caller-supplied reward type string.
func ParseRewardType(raw string) (RewardType, error) {
	switch RewardType(strings.ToUpper(strings.TrimSpace(raw))) {
	case RewardPoints:
		return RewardPoints, nil
	case RewardItem:
		return RewardItem, nil
	case RewardCoupon:
		return RewardCoupon, nil
	default:
		return "", fmt.Errorf("%w: unknown reward type %q", ErrInvalidInput, raw)
	}
}

// Reward is a prize definition scoped to a single event. The event reference
// is a weak one: lookups join on EventID, deletion does not cascade here.
type Reward struct {
	RewardID    uuid.UUID
	EventID     uuid.UUID
	Name        string
	Description string
	Type        RewardType
	Value       int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateNewReward enforces reward creation invariants. The parent event's
// existence and activity are checked by the application layer, which owns the
// repository round trip.
func ValidateNewReward(name string, value int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: reward name must not be empty", ErrInvalidInput)
	}
	if value < 0 {
		return fmt.Errorf("%w: reward value must not be negative", ErrInvalidInput)
	}
	return nil
}
