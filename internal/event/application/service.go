package application

import (
	"log/slog"
	"time"

	"github.com/pulseops/eventpulse/internal/event/ports"
)

// Config carries the tunable behavior of the event application layer.
type Config struct {
	// DefaultPageSize bounds unpaginated list endpoints.
	DefaultPageSize int
}

// Service orchestrates event, reward and reward-request use-cases.
// It holds no shared mutable state between calls; the repositories are the
// only shared resource.
type Service struct {
	cfg       Config
	events    ports.EventRepository
	rewards   ports.RewardRepository
	requests  ports.RewardRequestRepository
	evaluator *EligibilityEvaluator
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Events    ports.EventRepository
	Rewards   ports.RewardRepository
	Requests  ports.RewardRequestRepository
	Evaluator *EligibilityEvaluator
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 100
	}
	return &Service{
		cfg:       cfg,
		events:    deps.Events,
		rewards:   deps.Rewards,
		requests:  deps.Requests,
		evaluator: deps.Evaluator,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "eventsvc",
		"module", "application",
		"layer", "application",
	)
}
