package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

const (
	eventTypeUserRegistered = "user.registered"
	eventTypeUserLoggedIn   = "user.logged_in"
)

// Register creates a local account and emits a registration outbox event in one transaction.
// This guarantees user state and integration signal cannot diverge.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if err := domain.ValidateUsername(username); err != nil {
		return RegisterResponse{}, err
	}
	if err := domain.ValidatePassword(username, req.Password); err != nil {
		return RegisterResponse{}, err
	}

	// Roles are never taken from the caller; registration is anonymous and
	// elevated roles are provisioned out of band.
	role := s.cfg.DefaultRole

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"username":      username,
		"role":          role,
		"registered_at": now,
	})

	user, err := s.users.CreateWithOutboxTx(ctx, ports.CreateUserTxParams{
		Username:        username,
		PasswordHash:    passwordHash,
		Role:            role,
		RegisteredAtUTC: now,
	}, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventTypeUserRegistered,
		PartitionKey: username,
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// Login validates credentials, enforces lockout, updates the login streak,
// and issues a signed access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return LoginResponse{}, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	lockKey := "login:" + username
	lockState, err := s.lockouts.Get(ctx, lockKey)
	if err == nil && lockState.LockedUntil != nil && lockState.LockedUntil.After(s.nowFn()) {
		slog.Default().WarnContext(ctx, "account lockout active",
			"service", "authsvc",
			"module", "application",
			"layer", "application",
			"operation", "login",
			"outcome", "blocked",
			"username", username,
			"locked_until", lockState.LockedUntil,
		)
		return LoginResponse{}, domain.ErrAccountLocked
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.recordFailure(ctx, nil, req, "USER_NOT_FOUND")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.recordFailure(ctx, &user.UserID, req, "ACCOUNT_INACTIVE")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, &user.UserID, req, "INVALID_PASSWORD")
		now := s.nowFn()
		lockState, lockErr := s.lockouts.RecordFailure(ctx, lockKey, now, s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
		if lockErr == nil && lockState.LockedUntil != nil && lockState.LockedUntil.After(now) {
			slog.Default().WarnContext(ctx, "account lockout triggered",
				"service", "authsvc",
				"module", "application",
				"layer", "application",
				"operation", "login",
				"outcome", "blocked",
				"username", username,
				"locked_until", lockState.LockedUntil,
			)
			return LoginResponse{}, domain.ErrAccountLocked
		}
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	_ = s.lockouts.Clear(ctx, lockKey)

	now := s.nowFn()
	streak := domain.NextConsecutiveLogins(user.ConsecutiveLogins, user.LastLoginAt, now)
	if err := s.users.RecordLogin(ctx, user.UserID, streak, now); err != nil {
		return LoginResponse{}, fmt.Errorf("record login: %w", err)
	}

	_ = s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		UserID:    &user.UserID,
		AttemptAt: now,
		IPAddress: req.IPAddress,
		Status:    "SUCCESS",
		UserAgent: req.UserAgent,
	})

	payload, _ := json.Marshal(map[string]any{
		"user_id":            user.UserID,
		"consecutive_logins": streak,
		"logged_in_at":       now,
	})
	_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventTypeUserLoggedIn,
		PartitionKey: user.UserID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})

	token, err := s.tokenSigner.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Username:  user.Username,
		Role:      string(user.Role),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResponse{
		Token:             token,
		ExpiresIn:         int64(s.cfg.TokenTTL.Seconds()),
		ConsecutiveLogins: streak,
	}, nil
}

// ValidateToken verifies token integrity and that the subject still exists
// and is active. Tokens are stateless, so this lookup is the only
// server-side check between issuance and expiry.
func (s *Service) ValidateToken(ctx context.Context, token string) (ports.AuthClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(token)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

// PublicJWKs returns active public keys for downstream token verification.
func (s *Service) PublicJWKs() ([]map[string]any, error) {
	return s.tokenSigner.PublicJWKs()
}

func (s *Service) recordFailure(ctx context.Context, userID *uuid.UUID, req LoginRequest, reason string) {
	_ = s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		UserID:        userID,
		AttemptAt:     s.nowFn(),
		IPAddress:     req.IPAddress,
		Status:        "FAILED",
		FailureReason: reason,
		UserAgent:     req.UserAgent,
	})
}
