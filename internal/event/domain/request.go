package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a reward request.
//
// StatusFailed is declared for fulfillment failures after approval but is
// dormant: no transition produces it and callers may not set it. Dropping it
// would break consumers that already switch over the full enum.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
	StatusFailed   RequestStatus = "FAILED"
)

// ParseRequestStatus validates a caller-supplied status for a transition.
// FAILED is intentionally not accepted here even though it is a declared
// state; it is reserved for an internal fulfillment path.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusFailed:
		return "", fmt.Errorf("%w: status FAILED cannot be set by callers", ErrInvalidInput)
	default:
		return "", fmt.Errorf("%w: unknown request status %q", ErrInvalidInput, raw)
	}
}

// ParseStatusFilter validates a status used as a query filter. Unlike
// transitions, filtering on FAILED is allowed: the state exists in storage
// even though nothing currently produces it.
func ParseStatusFilter(raw string) (RequestStatus, error) {
	status := RequestStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown request status %q", ErrInvalidInput, raw)
	}
}

// CanTransition restricts the status graph to PENDING -> {APPROVED, REJECTED}.
// Backward moves (e.g. APPROVED -> PENDING) are rejected.
func CanTransition(from, to RequestStatus) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// RewardRequest is a user's claim against a reward. At most one non-REJECTED
// request may exist per (user, event) pair; a rejected request does not block
// a new attempt.
type RewardRequest struct {
	RequestID   uuid.UUID
	UserID      uuid.UUID
	EventID     uuid.UUID
	RewardID    uuid.UUID
	Status      RequestStatus
	RequestedAt time.Time
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
