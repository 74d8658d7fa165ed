package domain

import (
	"fmt"
	"strings"
)

const (
	minUsernameLength = 4
	maxUsernameLength = 64
	minPasswordLength = 8
	maxPasswordLength = 128
)

// ValidateUsername enforces the baseline username policy.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be <= %d characters", ErrInvalidInput, maxUsernameLength)
	}
	for _, r := range username {
		isLower := r >= 'a' && r <= 'z'
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isUpper && !isDigit && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("%w: username may only contain letters, digits, '_', '-' and '.'", ErrInvalidInput)
		}
	}
	return nil
}

// ValidatePassword enforces the baseline password policy.
func ValidatePassword(username, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}
	if strings.EqualFold(username, password) {
		return fmt.Errorf("%w: password must differ from username", ErrInvalidInput)
	}
	lowered := strings.ToLower(password)
	for _, banned := range []string{"password", "qwerty", "123456", "letmein"} {
		if strings.Contains(lowered, banned) {
			return fmt.Errorf("%w: password includes weak pattern", ErrInvalidInput)
		}
	}
	return nil
}
