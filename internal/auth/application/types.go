package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/auth/domain"
)

// RegisterRequest carries the public registration body. The assigned role is
// deliberately not part of it: every new account gets the service-configured
// default, and the endpoint is reachable without authentication.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type RegisterResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	Token             string `json:"token"`
	ExpiresIn         int64  `json:"expires_in"`
	ConsecutiveLogins int64  `json:"consecutive_logins"`
}

type ProfileResponse struct {
	UserID            uuid.UUID  `json:"user_id"`
	Username          string     `json:"username"`
	Role              string     `json:"role"`
	Points            int64      `json:"points"`
	ConsecutiveLogins int64      `json:"consecutive_logins"`
	InvitedFriends    int64      `json:"invited_friends"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type AddPointsRequest struct {
	Points int64  `json:"points"`
	Reason string `json:"reason,omitempty"`
}

type AddPointsResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Points int64     `json:"points"`
}

type InviteFriendRequest struct {
	FriendUsername string `json:"friend_username"`
}

type InviteFriendResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	InvitedFriends int64     `json:"invited_friends"`
}

func toProfileResponse(user domain.User) ProfileResponse {
	return ProfileResponse{
		UserID:            user.UserID,
		Username:          user.Username,
		Role:              string(user.Role),
		Points:            user.Points,
		ConsecutiveLogins: user.ConsecutiveLogins,
		InvitedFriends:    user.InvitedFriends,
		LastLoginAt:       user.LastLoginAt,
		CreatedAt:         user.CreatedAt,
	}
}
