package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]domain.Event
	gets   int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]domain.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, params ports.CreateEventParams) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event := domain.Event{
		EventID:     uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		StartAt:     params.StartAt,
		EndAt:       params.EndAt,
		IsActive:    params.IsActive,
		Conditions:  params.Conditions,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	r.events[event.EventID] = event
	return event, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, eventID uuid.UUID) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	event, ok := r.events[eventID]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}
	return event, nil
}

func (r *fakeEventRepo) List(_ context.Context, limit, offset int) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	_ = limit
	_ = offset
	return out, nil
}

func (r *fakeEventRepo) SetActive(_ context.Context, eventID uuid.UUID, active bool, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}
	event.IsActive = active
	event.UpdatedAt = updatedAt
	r.events[eventID] = event
	return nil
}

type fakeRewardRepo struct {
	mu      sync.Mutex
	rewards map[uuid.UUID]domain.Reward
	gets    int
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rewards: make(map[uuid.UUID]domain.Reward)}
}

func (r *fakeRewardRepo) Create(_ context.Context, params ports.CreateRewardParams) (domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reward := domain.Reward{
		RewardID:    uuid.New(),
		EventID:     params.EventID,
		Name:        params.Name,
		Description: params.Description,
		Type:        params.Type,
		Value:       params.Value,
		IsActive:    params.IsActive,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	r.rewards[reward.RewardID] = reward
	return reward, nil
}

func (r *fakeRewardRepo) GetByID(_ context.Context, rewardID uuid.UUID) (domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	reward, ok := r.rewards[rewardID]
	if !ok {
		return domain.Reward{}, fmt.Errorf("%w: reward %s", domain.ErrNotFound, rewardID)
	}
	return reward, nil
}

func (r *fakeRewardRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Reward, 0)
	for _, reward := range r.rewards {
		if reward.EventID == eventID {
			out = append(out, reward)
		}
	}
	return out, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]domain.RewardRequest
	outbox   []ports.OutboxEvent
	creates  int
	updates  int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]domain.RewardRequest)}
}

func (r *fakeRequestRepo) CreateWithOutboxTx(_ context.Context, params ports.CreateRequestParams, event ports.OutboxEvent) (domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	for _, existing := range r.requests {
		if existing.UserID == params.UserID && existing.EventID == params.EventID && existing.Status != domain.StatusRejected {
			return domain.RewardRequest{}, fmt.Errorf("%w: open request %s", domain.ErrDuplicateRequest, existing.RequestID)
		}
	}
	request := domain.RewardRequest{
		RequestID:   uuid.New(),
		UserID:      params.UserID,
		EventID:     params.EventID,
		RewardID:    params.RewardID,
		Status:      params.Status,
		RequestedAt: params.RequestedAt,
		CreatedAt:   params.RequestedAt,
		UpdatedAt:   params.RequestedAt,
	}
	r.requests[request.RequestID] = request
	r.outbox = append(r.outbox, event)
	return request, nil
}

func (r *fakeRequestRepo) UpdateStatusWithOutboxTx(_ context.Context, requestID uuid.UUID, status domain.RequestStatus, processedAt time.Time, event ports.OutboxEvent) (domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	request, ok := r.requests[requestID]
	if !ok {
		return domain.RewardRequest{}, fmt.Errorf("%w: request %s", domain.ErrNotFound, requestID)
	}
	request.Status = status
	request.ProcessedAt = &processedAt
	request.UpdatedAt = processedAt
	r.requests[requestID] = request
	r.outbox = append(r.outbox, event)
	return request, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, requestID uuid.UUID) (domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[requestID]
	if !ok {
		return domain.RewardRequest{}, fmt.Errorf("%w: request %s", domain.ErrNotFound, requestID)
	}
	return request, nil
}

func (r *fakeRequestRepo) FindOpenByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.UserID == userID && request.EventID == eventID && request.Status != domain.StatusRejected {
			found := request
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RewardRequest, 0)
	for _, request := range r.requests {
		if request.UserID == userID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RewardRequest, 0)
	for _, request := range r.requests {
		if request.EventID == eventID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByStatus(_ context.Context, status domain.RequestStatus) ([]domain.RewardRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RewardRequest, 0)
	for _, request := range r.requests {
		if request.Status == status {
			out = append(out, request)
		}
	}
	return out, nil
}

// fakeActivityStore serves canned metrics and counts every lookup so tests
// can assert which conditions were actually evaluated.
type fakeActivityStore struct {
	mu          sync.Mutex
	points      int64
	logins      int64
	invited     int64
	calls       int
	failWithErr error
}

func (s *fakeActivityStore) GetPoints(context.Context, uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWithErr != nil {
		return 0, s.failWithErr
	}
	return s.points, nil
}

func (s *fakeActivityStore) GetConsecutiveLogins(context.Context, uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWithErr != nil {
		return 0, s.failWithErr
	}
	return s.logins, nil
}

func (s *fakeActivityStore) GetInvitedFriendsCount(context.Context, uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWithErr != nil {
		return 0, s.failWithErr
	}
	return s.invited, nil
}

func (s *fakeActivityStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fixture struct {
	service  *Service
	events   *fakeEventRepo
	rewards  *fakeRewardRepo
	requests *fakeRequestRepo
	activity *fakeActivityStore
}

func newFixture() *fixture {
	events := newFakeEventRepo()
	rewards := newFakeRewardRepo()
	requests := newFakeRequestRepo()
	activity := &fakeActivityStore{}
	service := NewService(Dependencies{
		Events:    events,
		Rewards:   rewards,
		Requests:  requests,
		Evaluator: NewEligibilityEvaluator(events, activity),
	})
	return &fixture{
		service:  service,
		events:   events,
		rewards:  rewards,
		requests: requests,
		activity: activity,
	}
}

// seedEvent creates an active event with the given conditions plus a reward,
// returning both ids as strings for the service API.
func (f *fixture) seedEvent(t *testing.T, active bool, conditions ...domain.Condition) (string, string) {
	t.Helper()
	now := time.Now().UTC()
	event, err := f.events.Create(context.Background(), ports.CreateEventParams{
		Name:       "launch week",
		StartAt:    now.Add(-time.Hour),
		EndAt:      now.Add(24 * time.Hour),
		IsActive:   active,
		Conditions: conditions,
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	reward, err := f.rewards.Create(context.Background(), ports.CreateRewardParams{
		EventID:   event.EventID,
		Name:      "welcome bonus",
		Type:      domain.RewardPoints,
		Value:     500,
		IsActive:  true,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	return event.EventID.String(), reward.RewardID.String()
}

func TestCreateRewardRequestHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100})
	f.activity.points = 150
	userID := uuid.New().String()

	item, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{UserID: userID, RewardID: rewardID})
	if err != nil {
		t.Fatalf("create reward request: %v", err)
	}
	if item.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want PENDING", item.Status)
	}
	if len(f.requests.outbox) != 1 {
		t.Fatalf("outbox events = %d, want 1", len(f.requests.outbox))
	}
	if f.requests.outbox[0].EventType != "reward_request.created" {
		t.Fatalf("outbox event type = %s", f.requests.outbox[0].EventType)
	}
	if f.requests.outbox[0].PartitionKey != userID {
		t.Fatalf("partition key = %s, want %s", f.requests.outbox[0].PartitionKey, userID)
	}
}

func TestCreateRewardRequestEventNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture()
	_, err := f.service.CreateRewardRequest(context.Background(), uuid.New().String(), RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: uuid.New().String(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if f.requests.creates != 0 {
		t.Fatalf("creates = %d, want 0", f.requests.creates)
	}
	if f.activity.callCount() != 0 {
		t.Fatalf("activity calls = %d, want 0", f.activity.callCount())
	}
}

func TestCreateRewardRequestInactiveEvent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, false, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 10})

	_, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	})
	if !errors.Is(err, domain.ErrEventInactive) {
		t.Fatalf("err = %v, want ErrEventInactive", err)
	}
	if f.rewards.gets != 0 {
		t.Fatalf("inactive event must short-circuit before the reward lookup, got %d reward lookups", f.rewards.gets)
	}
	if f.activity.callCount() != 0 {
		t.Fatalf("inactive event must short-circuit before eligibility, got %d activity calls", f.activity.callCount())
	}
}

func TestCreateRewardRequestRewardFromOtherEvent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, _ := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 10})
	_, foreignRewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 10})

	_, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: foreignRewardID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for reward/event mismatch", err)
	}
}

func TestCreateRewardRequestDuplicateSkipsEligibility(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100})
	f.activity.points = 150
	userID := uuid.New().String()
	claim := RewardClaim{UserID: userID, RewardID: rewardID}

	if _, err := f.service.CreateRewardRequest(context.Background(), eventID, claim); err != nil {
		t.Fatalf("first create: %v", err)
	}
	callsAfterFirst := f.activity.callCount()

	_, err := f.service.CreateRewardRequest(context.Background(), eventID, claim)
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Fatalf("err = %v, want ErrDuplicateRequest", err)
	}
	if f.activity.callCount() != callsAfterFirst {
		t.Fatalf("duplicate claim must not hit the activity store, calls went %d -> %d", callsAfterFirst, f.activity.callCount())
	}
	if f.requests.creates != 1 {
		t.Fatalf("creates = %d, want 1", f.requests.creates)
	}
}

func TestCreateRewardRequestAfterRejection(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 100})
	f.activity.points = 150
	userID := uuid.New().String()
	claim := RewardClaim{UserID: userID, RewardID: rewardID}

	first, err := f.service.CreateRewardRequest(context.Background(), eventID, claim)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.service.UpdateRewardRequestStatus(context.Background(), first.RequestID.String(), "REJECTED"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	second, err := f.service.CreateRewardRequest(context.Background(), eventID, claim)
	if err != nil {
		t.Fatalf("re-claim after rejection: %v", err)
	}
	if second.RequestID == first.RequestID {
		t.Fatal("re-claim should mint a new request")
	}
}

func TestCreateRewardRequestNotEligible(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 1000})
	f.activity.points = 999

	_, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	})
	if !errors.Is(err, domain.ErrConditionsNotMet) {
		t.Fatalf("err = %v, want ErrConditionsNotMet", err)
	}
	if f.requests.creates != 0 {
		t.Fatalf("ineligible claim must not persist, creates = %d", f.requests.creates)
	}
}

func TestCreateRewardRequestActivityUnavailable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 10})
	f.activity.failWithErr = fmt.Errorf("%w: dial tcp", domain.ErrActivityUnavailable)

	_, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	})
	if !errors.Is(err, domain.ErrActivityUnavailable) {
		t.Fatalf("err = %v, want ErrActivityUnavailable, never a silent rejection", err)
	}
}

func TestCreateRewardRequestMalformedIDs(t *testing.T) {
	t.Parallel()
	f := newFixture()
	_, err := f.service.CreateRewardRequest(context.Background(), "not-a-uuid", RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: uuid.New().String(),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if f.events.gets != 0 {
		t.Fatalf("malformed id must fail before any lookup, gets = %d", f.events.gets)
	}
}

func TestUpdateRewardRequestStatus(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 0})
	created, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.service.UpdateRewardRequestStatus(context.Background(), created.RequestID.String(), "approved")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want APPROVED", updated.Status)
	}
	if updated.ProcessedAt == nil {
		t.Fatal("approve must stamp processed_at")
	}
	if got := f.requests.outbox[len(f.requests.outbox)-1].EventType; got != "reward_request.status_changed" {
		t.Fatalf("outbox event type = %s", got)
	}

	// A second decision on the same request is a conflict, not an overwrite.
	_, err = f.service.UpdateRewardRequestStatus(context.Background(), created.RequestID.String(), "REJECTED")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if f.requests.updates != 1 {
		t.Fatalf("updates = %d, want 1", f.requests.updates)
	}
}

func TestUpdateRewardRequestStatusRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 0})
	created, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []string{"SHIPPED", "", "FAILED"} {
		if _, err := f.service.UpdateRewardRequestStatus(context.Background(), created.RequestID.String(), status); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("status %q: err = %v, want ErrInvalidInput", status, err)
		}
	}
	if f.requests.updates != 0 {
		t.Fatalf("rejected statuses must not reach the repository, updates = %d", f.requests.updates)
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()
	now := time.Now().UTC()
	base := CreateEventRequest{
		Name:    "spring promo",
		StartAt: now,
		EndAt:   now.Add(48 * time.Hour),
		Conditions: []ConditionInput{
			{Type: "minimumPoints", Value: 100},
		},
	}

	if _, err := f.service.CreateEvent(context.Background(), base); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateEventRequest)
	}{
		{"empty name", func(r *CreateEventRequest) { r.Name = "  " }},
		{"no conditions", func(r *CreateEventRequest) { r.Conditions = nil }},
		{"inverted window", func(r *CreateEventRequest) { r.StartAt, r.EndAt = r.EndAt, r.StartAt }},
		{"negative threshold", func(r *CreateEventRequest) { r.Conditions[0].Value = -1 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := base
			req.Conditions = []ConditionInput{{Type: "minimumPoints", Value: 100}}
			tc.mutate(&req)
			if _, err := f.service.CreateEvent(context.Background(), req); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateRewardRequiresActiveEvent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, _ := f.seedEvent(t, false, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 10})

	_, err := f.service.CreateReward(context.Background(), eventID, CreateRewardRequest{
		Name:  "late prize",
		Type:  "POINTS",
		Value: 100,
	})
	if !errors.Is(err, domain.ErrEventInactive) {
		t.Fatalf("err = %v, want ErrEventInactive", err)
	}
}

func TestRewardRequestsByStatusFilter(t *testing.T) {
	t.Parallel()
	f := newFixture()
	eventID, rewardID := f.seedEvent(t, true, domain.Condition{Type: domain.ConditionMinimumPoints, Value: 0})
	if _, err := f.service.CreateRewardRequest(context.Background(), eventID, RewardClaim{
		UserID:   uuid.New().String(),
		RewardID: rewardID,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := f.service.RewardRequestsByStatus(context.Background(), "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	// FAILED is a legal filter even though callers cannot set it.
	failed, err := f.service.RewardRequestsByStatus(context.Background(), "FAILED")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("failed = %d, want 0", len(failed))
	}

	if _, err := f.service.RewardRequestsByStatus(context.Background(), "DONE"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
