package postgres

import (
	"github.com/pulseops/eventpulse/internal/event/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Events   ports.EventRepository
	Rewards  ports.RewardRepository
	Requests ports.RewardRequestRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Events:   &eventRepository{db: db},
		Rewards:  &rewardRepository{db: db},
		Requests: &rewardRequestRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}
