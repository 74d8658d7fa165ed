package application

import (
	"time"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

// Config carries the tunable behavior of the auth application layer.
type Config struct {
	DefaultRole          domain.Role
	TokenTTL             time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
}

type Service struct {
	cfg           Config
	users         ports.UserRepository
	invitations   ports.InvitationRepository
	loginAttempts ports.LoginAttemptRepository
	outbox        ports.OutboxRepository
	lockouts      ports.LockoutStore
	hasher        ports.PasswordHasher
	tokenSigner   ports.TokenSigner
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Users         ports.UserRepository
	Invitations   ports.InvitationRepository
	LoginAttempts ports.LoginAttemptRepository
	Outbox        ports.OutboxRepository
	Lockouts      ports.LockoutStore
	Hasher        ports.PasswordHasher
	TokenSigner   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = domain.RoleUser
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.FailedLoginThreshold <= 0 {
		cfg.FailedLoginThreshold = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	return &Service{
		cfg:           cfg,
		users:         deps.Users,
		invitations:   deps.Invitations,
		loginAttempts: deps.LoginAttempts,
		outbox:        deps.Outbox,
		lockouts:      deps.Lockouts,
		hasher:        deps.Hasher,
		tokenSigner:   deps.TokenSigner,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
