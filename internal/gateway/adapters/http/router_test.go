package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/gateway/adapters/authgrpc"
)

type fakeValidator struct {
	identities map[string]authgrpc.Identity
}

func (v *fakeValidator) ValidateToken(_ context.Context, token string) (authgrpc.Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return authgrpc.Identity{}, errors.New("invalid token")
	}
	return identity, nil
}

// capturedRequest is what the fake backend saw for the last proxied call.
type capturedRequest struct {
	Method   string
	Path     string
	UserID   string
	Role     string
	Username string
}

type fakeBackend struct {
	mu   sync.Mutex
	last capturedRequest
	srv  *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.last = capturedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			UserID:   r.Header.Get("X-User-Id"),
			Role:     r.Header.Get("X-User-Role"),
			Username: r.Header.Get("X-User-Name"),
		}
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) url(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(b.srv.URL)
	if err != nil {
		t.Fatalf("parse backend url: %v", err)
	}
	return u
}

func (b *fakeBackend) lastSeen() capturedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

type gatewayFixture struct {
	router    http.Handler
	auth      *fakeBackend
	event     *fakeBackend
	userToken string
	userID    uuid.UUID
	opToken   string
	auditTok  string
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	auth := newFakeBackend(t)
	event := newFakeBackend(t)

	userID := uuid.New()
	validator := &fakeValidator{identities: map[string]authgrpc.Identity{
		"user-token": {UserID: userID, Username: "plain_user", Role: "USER"},
		"op-token":   {UserID: uuid.New(), Username: "ops_lead", Role: "OPERATOR"},
		"audit-token": {
			UserID: uuid.New(), Username: "auditor_x", Role: "AUDITOR",
		},
	}}

	router := NewRouter(validator, Backends{
		AuthBaseURL:  auth.url(t),
		EventBaseURL: event.url(t),
	})
	return &gatewayFixture{
		router:    router,
		auth:      auth,
		event:     event,
		userToken: "user-token",
		userID:    userID,
		opToken:   "op-token",
		auditTok:  "audit-token",
	}
}

func (f *gatewayFixture) do(method, path, token string, extraHeaders map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousAuthRoutes(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	rec := f.do(http.MethodPost, "/auth/register", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d", rec.Code)
	}
	if f.auth.lastSeen().Path != "/auth/register" {
		t.Fatalf("backend path = %s", f.auth.lastSeen().Path)
	}

	rec = f.do(http.MethodGet, "/.well-known/jwks.json", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("jwks status = %d", rec.Code)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	if rec := f.do(http.MethodGet, "/users/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/users/me", "forged-token", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/users/me", f.userToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("good token: status = %d, want 200", rec.Code)
	}
}

func TestIdentityHeaderInjection(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	rec := f.do(http.MethodGet, "/users/me", f.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	seen := f.auth.lastSeen()
	if seen.UserID != f.userID.String() {
		t.Fatalf("X-User-Id = %s, want %s", seen.UserID, f.userID)
	}
	if seen.Role != "USER" || seen.Username != "plain_user" {
		t.Fatalf("identity headers = %+v", seen)
	}
}

func TestSpoofedIdentityHeadersAreStripped(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	rec := f.do(http.MethodGet, "/users/me", f.userToken, map[string]string{
		"X-User-Id":   uuid.NewString(),
		"X-User-Role": "ADMIN",
		"X-User-Name": "impostor",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	seen := f.auth.lastSeen()
	if seen.Role != "USER" || seen.UserID != f.userID.String() {
		t.Fatalf("spoofed headers survived: %+v", seen)
	}
}

func TestRoleGates(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"user cannot create event", http.MethodPost, "/events/", f.userToken, http.StatusForbidden},
		{"operator creates event", http.MethodPost, "/events/", f.opToken, http.StatusOK},
		{"auditor cannot create event", http.MethodPost, "/events/", f.auditTok, http.StatusForbidden},
		{"user reads events", http.MethodGet, "/events/", f.userToken, http.StatusOK},
		{"user cannot toggle event", http.MethodPut, "/events/" + uuid.NewString() + "/active", f.userToken, http.StatusForbidden},
		{"operator toggles event", http.MethodPut, "/events/" + uuid.NewString() + "/active", f.opToken, http.StatusOK},
		{"user claims reward", http.MethodPost, "/events/" + uuid.NewString() + "/reward-requests", f.userToken, http.StatusOK},
		{"user cannot decide status", http.MethodPut, "/events/" + uuid.NewString() + "/requests/" + uuid.NewString() + "/status", f.userToken, http.StatusForbidden},
		{"operator cannot list event requests", http.MethodGet, "/events/" + uuid.NewString() + "/requests", f.opToken, http.StatusForbidden},
		{"auditor lists event requests", http.MethodGet, "/events/" + uuid.NewString() + "/requests", f.auditTok, http.StatusOK},
		{"user cannot list all requests", http.MethodGet, "/reward-requests/", f.userToken, http.StatusForbidden},
		{"auditor lists all requests", http.MethodGet, "/reward-requests/", f.auditTok, http.StatusOK},
		{"user cannot grant points", http.MethodPost, "/users/" + uuid.NewString() + "/points", f.userToken, http.StatusForbidden},
		{"operator grants points", http.MethodPost, "/users/" + uuid.NewString() + "/points", f.opToken, http.StatusOK},
		{"user cannot read activity", http.MethodGet, "/users/" + uuid.NewString() + "/activity", f.userToken, http.StatusForbidden},
		{"auditor reads activity", http.MethodGet, "/users/" + uuid.NewString() + "/activity", f.auditTok, http.StatusOK},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if rec := f.do(tc.method, tc.path, tc.token, nil); rec.Code != tc.want {
				t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
			}
		})
	}
}

func TestMyRewardRequestsRewrite(t *testing.T) {
	t.Parallel()
	f := newGatewayFixture(t)

	rec := f.do(http.MethodGet, "/reward-requests/me", f.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "/reward-requests/user/" + f.userID.String()
	if got := f.event.lastSeen().Path; got != want {
		t.Fatalf("backend path = %s, want %s", got, want)
	}
}

func TestUpstreamUnavailable(t *testing.T) {
	t.Parallel()
	dead, err := url.Parse("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	validator := &fakeValidator{identities: map[string]authgrpc.Identity{
		"user-token": {UserID: uuid.New(), Username: "plain_user", Role: "USER"},
	}}
	router := NewRouter(validator, Backends{AuthBaseURL: dead, EventBaseURL: dead})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
