package domain

import "fmt"

// Role is the coarse-grained authorization role carried inside access tokens.
type Role string

const (
	RoleUser     Role = "USER"
	RoleOperator Role = "OPERATOR"
	RoleAuditor  Role = "AUDITOR"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole validates a role string received from storage or transport.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleOperator, RoleAuditor, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}
