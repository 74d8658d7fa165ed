package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.User
	byName  map[string]uuid.UUID
	outbox  []ports.OutboxEvent
	creates int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:   make(map[uuid.UUID]domain.User),
		byName: make(map[string]uuid.UUID),
	}
}

func (r *fakeUsers) CreateWithOutboxTx(_ context.Context, params ports.CreateUserTxParams, event ports.OutboxEvent) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if _, exists := r.byName[params.Username]; exists {
		return domain.User{}, fmt.Errorf("%w: username already exists", domain.ErrConflict)
	}
	user := domain.User{
		UserID:       uuid.New(),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		IsActive:     true,
		CreatedAt:    params.RegisteredAtUTC,
		UpdatedAt:    params.RegisteredAtUTC,
	}
	r.byID[user.UserID] = user
	r.byName[user.Username] = user.UserID
	r.outbox = append(r.outbox, event)
	return user, nil
}

func (r *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[username]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return r.byID[id], nil
}

func (r *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	return user, nil
}

func (r *fakeUsers) RecordLogin(_ context.Context, userID uuid.UUID, consecutiveLogins int64, loginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	user.ConsecutiveLogins = consecutiveLogins
	at := loginAt
	user.LastLoginAt = &at
	user.UpdatedAt = loginAt
	r.byID[userID] = user
	return nil
}

func (r *fakeUsers) AddPoints(_ context.Context, userID uuid.UUID, delta int64, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	next := user.Points + delta
	if next < 0 {
		return 0, fmt.Errorf("%w: insufficient points", domain.ErrInvalidInput)
	}
	user.Points = next
	user.UpdatedAt = at
	r.byID[userID] = user
	return next, nil
}

func (r *fakeUsers) IncrementInvitedFriends(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	user.InvitedFriends++
	user.UpdatedAt = at
	r.byID[userID] = user
	return user.InvitedFriends, nil
}

type fakeInvitations struct {
	mu    sync.Mutex
	pairs map[[2]uuid.UUID]struct{}
}

func newFakeInvitations() *fakeInvitations {
	return &fakeInvitations{pairs: make(map[[2]uuid.UUID]struct{})}
}

func (r *fakeInvitations) Insert(_ context.Context, inviterID, inviteeID uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uuid.UUID{inviterID, inviteeID}
	if _, exists := r.pairs[key]; exists {
		return fmt.Errorf("%w: friend already invited", domain.ErrConflict)
	}
	r.pairs[key] = struct{}{}
	return nil
}

type fakeAttempts struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (r *fakeAttempts) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeAttempts) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]domain.LoginAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.LoginAttempt, 0)
	for _, a := range r.attempts {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttempts) lastStatus() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.attempts) == 0 {
		return "", ""
	}
	last := r.attempts[len(r.attempts)-1]
	return last.Status, last.FailureReason
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (r *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutbox) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.OutboxRecord, error) {
	return nil, nil
}
func (r *fakeOutbox) MarkPublished(context.Context, uuid.UUID, string, time.Time) error    { return nil }
func (r *fakeOutbox) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}
func (r *fakeOutbox) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (r *fakeOutbox) lastEventType() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1].EventType
}

type fakeLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func newFakeLockouts() *fakeLockouts {
	return &fakeLockouts{state: make(map[string]ports.LockoutState)}
}

func (r *fakeLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[key], nil
}

func (r *fakeLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, window time.Duration) (ports.LockoutState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.state[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		until := now.Add(window)
		state.LockedUntil = &until
	}
	r.state[key] = state
	return state, nil
}

func (r *fakeLockouts) Clear(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, key)
	return nil
}

// fakeHasher trades bcrypt for a reversible marker so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeSigner struct {
	mu     sync.Mutex
	issued map[string]ports.AuthClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{issued: make(map[string]ports.AuthClaims)}
}

func (s *fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "tok-" + uuid.NewString()
	s.issued[token] = claims
	return token, nil
}

func (s *fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.issued[token]
	if !ok {
		return ports.AuthClaims{}, errors.New("unknown token")
	}
	return claims, nil
}

func (s *fakeSigner) PublicJWKs() ([]map[string]any, error) {
	return []map[string]any{{"kty": "RSA", "kid": "test-key"}}, nil
}

type authFixture struct {
	service     *Service
	users       *fakeUsers
	invitations *fakeInvitations
	attempts    *fakeAttempts
	outbox      *fakeOutbox
	lockouts    *fakeLockouts
	signer      *fakeSigner
}

func newAuthFixture() *authFixture {
	return newAuthFixtureWithConfig(Config{})
}

func newAuthFixtureWithConfig(cfg Config) *authFixture {
	users := newFakeUsers()
	invitations := newFakeInvitations()
	attempts := &fakeAttempts{}
	outbox := &fakeOutbox{}
	lockouts := newFakeLockouts()
	signer := newFakeSigner()
	service := NewService(Dependencies{
		Config:        cfg,
		Users:         users,
		Invitations:   invitations,
		LoginAttempts: attempts,
		Outbox:        outbox,
		Lockouts:      lockouts,
		Hasher:        fakeHasher{},
		TokenSigner:   signer,
	})
	return &authFixture{
		service:     service,
		users:       users,
		invitations: invitations,
		attempts:    attempts,
		outbox:      outbox,
		lockouts:    lockouts,
		signer:      signer,
	}
}

func (f *authFixture) register(t *testing.T, username, password string) RegisterResponse {
	t.Helper()
	resp, err := f.service.Register(context.Background(), RegisterRequest{Username: username, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp
}

func TestRegister(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()

	resp := f.register(t, "  Maverick01  ", "str0ng-entropy")
	if resp.Username != "maverick01" {
		t.Fatalf("username = %s, want lowercase trimmed", resp.Username)
	}
	if resp.Role != string(domain.RoleUser) {
		t.Fatalf("role = %s, want default USER", resp.Role)
	}
	if len(f.users.outbox) != 1 || f.users.outbox[0].EventType != "user.registered" {
		t.Fatalf("registration outbox event missing: %+v", f.users.outbox)
	}

	// Same name again, case-folded, is a conflict.
	_, err := f.service.Register(context.Background(), RegisterRequest{Username: "MAVERICK01", Password: "other-secret9"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Password: "str0ng-entropy"}},
		{"short password", RegisterRequest{Username: "valid_user", Password: "short"}},
		{"password equals username", RegisterRequest{Username: "valid_user", Password: "valid_user"}},
	}
	for _, tc := range cases {
		if _, err := f.service.Register(context.Background(), tc.req); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
	if f.users.creates != 0 {
		t.Fatalf("invalid registrations must not reach the repository, creates = %d", f.users.creates)
	}
}

// Registration roles come from service configuration alone; the public body
// has no role field, so anonymous callers can never mint themselves an
// elevated role.
func TestRegisterRoleComesFromConfigOnly(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	resp := f.register(t, "plain_signup", "str0ng-entropy")
	if resp.Role != string(domain.RoleUser) {
		t.Fatalf("role = %s, want USER", resp.Role)
	}

	// Even a raw JSON body smuggling a role is rejected at the edge: the
	// request type has no role field and handlers decode with unknown
	// fields disallowed.
	var req RegisterRequest
	body := []byte(`{"username":"sneaky_signup","password":"str0ng-entropy","role":"ADMIN"}`)
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err == nil {
		t.Fatal("registration body with a role field must be rejected")
	}

	elevated := newAuthFixtureWithConfig(Config{DefaultRole: domain.RoleOperator})
	resp, err := elevated.service.Register(context.Background(), RegisterRequest{
		Username: "ops_lead",
		Password: "str0ng-entropy",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Role != string(domain.RoleOperator) {
		t.Fatalf("role = %s, want configured OPERATOR default", resp.Role)
	}
}

func TestLoginIssuesTokenAndStreak(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	f.register(t, "daily_user", "str0ng-entropy")

	resp, err := f.service.Login(context.Background(), LoginRequest{Username: "Daily_User", Password: "str0ng-entropy"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login must issue a token")
	}
	if resp.ConsecutiveLogins != 1 {
		t.Fatalf("first login streak = %d, want 1", resp.ConsecutiveLogins)
	}
	if status, _ := f.attempts.lastStatus(); status != "SUCCESS" {
		t.Fatalf("last attempt status = %s", status)
	}
	if f.outbox.lastEventType() != "user.logged_in" {
		t.Fatalf("outbox event = %s, want user.logged_in", f.outbox.lastEventType())
	}

	claims, err := f.service.ValidateToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.Username != "daily_user" || claims.Role != string(domain.RoleUser) {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginStreakProgression(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	f.register(t, "daily_user", "str0ng-entropy")

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	loginAt := func(at time.Time) int64 {
		f.service.nowFn = func() time.Time { return at }
		resp, err := f.service.Login(context.Background(), LoginRequest{Username: "daily_user", Password: "str0ng-entropy"})
		if err != nil {
			t.Fatalf("login at %v: %v", at, err)
		}
		return resp.ConsecutiveLogins
	}

	if got := loginAt(base); got != 1 {
		t.Fatalf("day 1 streak = %d, want 1", got)
	}
	if got := loginAt(base.Add(2 * time.Hour)); got != 1 {
		t.Fatalf("same-day streak = %d, want 1", got)
	}
	if got := loginAt(base.Add(24 * time.Hour)); got != 2 {
		t.Fatalf("next-day streak = %d, want 2", got)
	}
	if got := loginAt(base.Add(48 * time.Hour)); got != 3 {
		t.Fatalf("third-day streak = %d, want 3", got)
	}
	if got := loginAt(base.Add(6 * 24 * time.Hour)); got != 1 {
		t.Fatalf("gap must reset streak, got %d", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	f.register(t, "daily_user", "str0ng-entropy")

	_, err := f.service.Login(context.Background(), LoginRequest{Username: "daily_user", Password: "wrong-secret9"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if status, reason := f.attempts.lastStatus(); status != "FAILED" || reason != "INVALID_PASSWORD" {
		t.Fatalf("attempt = %s/%s", status, reason)
	}
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	_, err := f.service.Login(context.Background(), LoginRequest{Username: "ghost_user", Password: "whatever-123x"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials (no user enumeration)", err)
	}
}

func TestLoginLockoutAfterThreshold(t *testing.T) {
	t.Parallel()
	f := newAuthFixtureWithConfig(Config{FailedLoginThreshold: 3, LockoutDuration: 10 * time.Minute})
	f.register(t, "daily_user", "str0ng-entropy")

	bad := LoginRequest{Username: "daily_user", Password: "wrong-secret9"}
	for i := 0; i < 2; i++ {
		if _, err := f.service.Login(context.Background(), bad); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}
	// Third failure crosses the threshold.
	if _, err := f.service.Login(context.Background(), bad); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
	// Even the correct password is blocked while the lock holds.
	if _, err := f.service.Login(context.Background(), LoginRequest{Username: "daily_user", Password: "str0ng-entropy"}); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked during lock window", err)
	}
}

func TestLoginClearsLockoutCounterOnSuccess(t *testing.T) {
	t.Parallel()
	f := newAuthFixtureWithConfig(Config{FailedLoginThreshold: 3, LockoutDuration: 10 * time.Minute})
	f.register(t, "daily_user", "str0ng-entropy")

	bad := LoginRequest{Username: "daily_user", Password: "wrong-secret9"}
	good := LoginRequest{Username: "daily_user", Password: "str0ng-entropy"}

	for i := 0; i < 2; i++ {
		if _, err := f.service.Login(context.Background(), bad); err == nil {
			t.Fatal("bad login succeeded")
		}
	}
	if _, err := f.service.Login(context.Background(), good); err != nil {
		t.Fatalf("good login under threshold: %v", err)
	}
	// Counter was cleared, so two more failures stay below the threshold.
	for i := 0; i < 2; i++ {
		if _, err := f.service.Login(context.Background(), bad); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("post-clear attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}
}

func TestValidateTokenRejectsUnknownAndInactive(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	f.register(t, "daily_user", "str0ng-entropy")

	if _, err := f.service.ValidateToken(context.Background(), "tok-forged"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	resp, err := f.service.Login(context.Background(), LoginRequest{Username: "daily_user", Password: "str0ng-entropy"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	// Deactivate the user behind the token's back.
	f.users.mu.Lock()
	for id, user := range f.users.byID {
		user.IsActive = false
		f.users.byID[id] = user
	}
	f.users.mu.Unlock()

	if _, err := f.service.ValidateToken(context.Background(), resp.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized for inactive subject", err)
	}
}

func TestAddPoints(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	user := f.register(t, "points_user", "str0ng-entropy")

	resp, err := f.service.AddPoints(context.Background(), user.UserID, AddPointsRequest{Points: 250, Reason: "event reward"})
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if resp.Points != 250 {
		t.Fatalf("balance = %d, want 250", resp.Points)
	}
	if f.outbox.lastEventType() != "user.points_adjusted" {
		t.Fatalf("outbox event = %s", f.outbox.lastEventType())
	}

	if _, err := f.service.AddPoints(context.Background(), user.UserID, AddPointsRequest{Points: -100}); err != nil {
		t.Fatalf("deduct points: %v", err)
	}
	if _, err := f.service.AddPoints(context.Background(), user.UserID, AddPointsRequest{Points: -1000}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for negative balance", err)
	}
	if _, err := f.service.AddPoints(context.Background(), user.UserID, AddPointsRequest{Points: 0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for zero delta", err)
	}
}

func TestInviteFriend(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	inviter := f.register(t, "inviter_a", "str0ng-entropy")
	f.register(t, "friend_b", "str0ng-entropy")

	resp, err := f.service.InviteFriend(context.Background(), inviter.UserID, InviteFriendRequest{FriendUsername: "Friend_B"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if resp.InvitedFriends != 1 {
		t.Fatalf("invited = %d, want 1", resp.InvitedFriends)
	}

	// Re-inviting the same friend is a no-op, not an error.
	resp, err = f.service.InviteFriend(context.Background(), inviter.UserID, InviteFriendRequest{FriendUsername: "friend_b"})
	if err != nil {
		t.Fatalf("re-invite: %v", err)
	}
	if resp.InvitedFriends != 1 {
		t.Fatalf("re-invite inflated counter to %d", resp.InvitedFriends)
	}

	if _, err := f.service.InviteFriend(context.Background(), inviter.UserID, InviteFriendRequest{FriendUsername: "inviter_a"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for self-invite", err)
	}
	if _, err := f.service.InviteFriend(context.Background(), inviter.UserID, InviteFriendRequest{FriendUsername: "nobody_here"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown friend", err)
	}
}

func TestActivityMetricLookups(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	user := f.register(t, "metrics_user", "str0ng-entropy")

	if _, err := f.service.AddPoints(context.Background(), user.UserID, AddPointsRequest{Points: 42}); err != nil {
		t.Fatalf("add points: %v", err)
	}

	points, err := f.service.GetPoints(context.Background(), user.UserID)
	if err != nil || points != 42 {
		t.Fatalf("points = %d, err = %v", points, err)
	}
	streak, err := f.service.GetConsecutiveLogins(context.Background(), user.UserID)
	if err != nil || streak != 0 {
		t.Fatalf("streak = %d, err = %v", streak, err)
	}
	invited, err := f.service.GetInvitedFriendsCount(context.Background(), user.UserID)
	if err != nil || invited != 0 {
		t.Fatalf("invited = %d, err = %v", invited, err)
	}

	if _, err := f.service.GetPoints(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
