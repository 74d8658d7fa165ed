package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

const eventTypePointsAdjusted = "user.points_adjusted"

// Profile returns the caller's identity and activity counters.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

// AddPoints adjusts a user's point balance and records the adjustment as an
// outbox event. Negative deltas are allowed as long as the balance does not
// go below zero; the repository enforces that floor.
func (s *Service) AddPoints(ctx context.Context, userID uuid.UUID, req AddPointsRequest) (AddPointsResponse, error) {
	if req.Points == 0 {
		return AddPointsResponse{}, fmt.Errorf("%w: points must be non-zero", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	balance, err := s.users.AddPoints(ctx, userID, req.Points, now)
	if err != nil {
		return AddPointsResponse{}, err
	}

	payload, _ := json.Marshal(map[string]any{
		"user_id":     userID,
		"delta":       req.Points,
		"balance":     balance,
		"reason":      strings.TrimSpace(req.Reason),
		"adjusted_at": now,
	})
	_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventTypePointsAdjusted,
		PartitionKey: userID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})

	return AddPointsResponse{UserID: userID, Points: balance}, nil
}

// InviteFriend credits the inviter for bringing in an existing user.
// Inviting the same friend twice is a no-op for the counter: the invitation
// row is unique per (inviter, invitee) pair.
func (s *Service) InviteFriend(ctx context.Context, inviterID uuid.UUID, req InviteFriendRequest) (InviteFriendResponse, error) {
	friendUsername := strings.ToLower(strings.TrimSpace(req.FriendUsername))
	if friendUsername == "" {
		return InviteFriendResponse{}, fmt.Errorf("%w: friend_username is required", domain.ErrInvalidInput)
	}

	inviter, err := s.users.GetByID(ctx, inviterID)
	if err != nil {
		return InviteFriendResponse{}, err
	}
	if inviter.Username == friendUsername {
		return InviteFriendResponse{}, fmt.Errorf("%w: cannot invite yourself", domain.ErrInvalidInput)
	}

	friend, err := s.users.GetByUsername(ctx, friendUsername)
	if err != nil {
		return InviteFriendResponse{}, err
	}

	now := s.nowFn()
	if err := s.invitations.Insert(ctx, inviterID, friend.UserID, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return InviteFriendResponse{UserID: inviterID, InvitedFriends: inviter.InvitedFriends}, nil
		}
		return InviteFriendResponse{}, err
	}

	count, err := s.users.IncrementInvitedFriends(ctx, inviterID, now)
	if err != nil {
		return InviteFriendResponse{}, err
	}
	return InviteFriendResponse{UserID: inviterID, InvitedFriends: count}, nil
}

// GetPoints resolves the current point balance for eligibility checks.
func (s *Service) GetPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

// GetConsecutiveLogins resolves the current login streak for eligibility checks.
func (s *Service) GetConsecutiveLogins(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.ConsecutiveLogins, nil
}

// GetInvitedFriendsCount resolves the invited-friend tally for eligibility checks.
func (s *Service) GetInvitedFriendsCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.InvitedFriends, nil
}
