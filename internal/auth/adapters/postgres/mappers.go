package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pulseops/eventpulse/internal/auth/domain"
)

func toDomainUser(m userModel) domain.User {
	return domain.User{
		UserID:            m.UserID,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Role:              domain.Role(m.Role),
		Points:            m.Points,
		ConsecutiveLogins: m.ConsecutiveLogins,
		LastLoginAt:       m.LastLoginAt,
		InvitedFriends:    m.InvitedFriends,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toDomainAttempt(m loginAttemptModel) domain.LoginAttempt {
	return domain.LoginAttempt{
		ID:            m.ID,
		UserID:        m.UserID,
		AttemptAt:     m.AttemptAt,
		IPAddress:     m.IPAddress,
		Status:        m.Status,
		FailureReason: m.FailureReason,
		UserAgent:     m.UserAgent,
	}
}

// isUniqueViolation relies on gorm's TranslateError to normalize driver errors.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
