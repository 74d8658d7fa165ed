package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (EventItem, error) {
	conditions := make([]domain.Condition, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		conditions = append(conditions, domain.Condition{
			Type:        domain.ConditionType(c.Type),
			Value:       c.Value,
			Description: c.Description,
		})
	}
	if err := domain.ValidateNewEvent(req.Name, req.StartAt, req.EndAt, conditions); err != nil {
		return EventItem{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	event, err := s.events.Create(ctx, ports.CreateEventParams{
		Name:        req.Name,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		IsActive:    active,
		Conditions:  conditions,
		CreatedAt:   s.nowFn(),
	})
	if err != nil {
		return EventItem{}, err
	}
	return toEventItem(event), nil
}

func (s *Service) ListEvents(ctx context.Context) ([]EventItem, error) {
	events, err := s.events.List(ctx, s.cfg.DefaultPageSize, 0)
	if err != nil {
		return nil, err
	}
	items := make([]EventItem, 0, len(events))
	for _, e := range events {
		items = append(items, toEventItem(e))
	}
	return items, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (EventItem, error) {
	id, err := parseID(eventID, "event id")
	if err != nil {
		return EventItem{}, err
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return EventItem{}, err
	}
	return toEventItem(event), nil
}

// SetEventActive toggles the event's active flag. Open requests against the
// event are untouched; only new creations observe the flag.
func (s *Service) SetEventActive(ctx context.Context, eventID string, active bool) error {
	id, err := parseID(eventID, "event id")
	if err != nil {
		return err
	}
	return s.events.SetActive(ctx, id, active, s.nowFn())
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s %q", domain.ErrInvalidInput, what, raw)
	}
	return id, nil
}
