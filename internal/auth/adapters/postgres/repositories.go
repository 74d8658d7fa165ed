package postgres

import (
	"gorm.io/gorm"

	"github.com/pulseops/eventpulse/internal/auth/ports"
)

// Repositories bundles the concrete postgres-backed stores for wiring.
type Repositories struct {
	Users         *UserRepository
	Invitations   *InvitationRepository
	LoginAttempts *LoginAttemptRepository
	Outbox        ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Invitations:   NewInvitationRepository(db),
		LoginAttempts: NewLoginAttemptRepository(db),
		Outbox:        &outboxRepository{db: db},
	}
}
