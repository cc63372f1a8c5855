package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/api"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/memory"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAuthAPI is a scriptable AuthAPI for session store tests.
type fakeAuthAPI struct {
	meUser      *auth.User
	meErr       error
	meCalls     int
	loginRes    *api.AuthResult
	loginErr    error
	loginCalls  int
	registerRes *api.AuthResult
	registerErr error
	logoutErr   error
	logoutCalls int
}

func (f *fakeAuthAPI) Me(ctx context.Context) (*auth.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeAuthAPI) Login(ctx context.Context, creds auth.Credentials) (*api.AuthResult, error) {
	f.loginCalls++
	return f.loginRes, f.loginErr
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg auth.Registration) (*api.AuthResult, error) {
	return f.registerRes, f.registerErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func newTestSession(authAPI *fakeAuthAPI, tokens *memory.MemoryTokenStore, notifier *memory.CaptureNotifier) *SessionService {
	return NewSessionService(authAPI, tokens, notifier, nil, slog.Default())
}

func TestBootstrapWithoutToken(t *testing.T) {
	authAPI := &fakeAuthAPI{}
	svc := newTestSession(authAPI, memory.NewTokenStore(), memory.NewCaptureNotifier())

	svc.Bootstrap(context.Background())

	if authAPI.meCalls != 0 {
		t.Errorf("expected no network call without a token, got %d", authAPI.meCalls)
	}
	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated session")
	}
	if !svc.Ready() {
		t.Error("expected Ready after bootstrap")
	}
}

func TestBootstrapWithValidToken(t *testing.T) {
	authAPI := &fakeAuthAPI{
		meUser: &auth.User{ID: "u1", Email: "ana@example.com", Role: auth.RoleUser},
	}
	svc := newTestSession(authAPI, memory.NewTokenStoreWithToken("tok"), memory.NewCaptureNotifier())

	svc.Bootstrap(context.Background())

	if !svc.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if user := svc.CurrentUser(); user == nil || user.ID != "u1" {
		t.Errorf("expected hydrated user, got %+v", user)
	}
	if svc.IsAdmin() {
		t.Error("expected non-admin session for USER role")
	}
}

func TestBootstrapWithInvalidTokenClearsIt(t *testing.T) {
	authAPI := &fakeAuthAPI{meErr: &api.APIError{Status: 401, Message: "token expired"}}
	tokens := memory.NewTokenStoreWithToken("stale")
	svc := newTestSession(authAPI, tokens, memory.NewCaptureNotifier())

	svc.Bootstrap(context.Background())

	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated session after failed bootstrap")
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected token cleared, got %q", token)
	}
	if !svc.Ready() {
		t.Error("expected Ready even after failed bootstrap")
	}
}

func TestLoginNavigationByRole(t *testing.T) {
	tests := []struct {
		name string
		role auth.Role
		want NavTarget
	}{
		{name: "admin goes to admin console", role: auth.RoleAdmin, want: NavAdmin},
		{name: "user goes to product listing", role: auth.RoleUser, want: NavCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authAPI := &fakeAuthAPI{
				loginRes: &api.AuthResult{
					User:        auth.User{ID: "u1", Email: "ana@example.com", Role: tt.role},
					AccessToken: "tok-1",
				},
			}
			tokens := memory.NewTokenStore()
			svc := newTestSession(authAPI, tokens, memory.NewCaptureNotifier())

			target, err := svc.Login(context.Background(), auth.Credentials{
				Email:    "ana@example.com",
				Password: "secret",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target != tt.want {
				t.Errorf("expected nav target %q, got %q", tt.want, target)
			}
			if !svc.IsAuthenticated() {
				t.Error("expected authenticated session")
			}
			if token, _ := tokens.Load(); token != "tok-1" {
				t.Errorf("expected persisted token, got %q", token)
			}
		})
	}
}

func TestLoginFailureNotifiesAndReturnsError(t *testing.T) {
	authAPI := &fakeAuthAPI{loginErr: &api.APIError{Status: 401, Message: "wrong password"}}
	tokens := memory.NewTokenStore()
	notifier := memory.NewCaptureNotifier()
	svc := newTestSession(authAPI, tokens, notifier)

	_, err := svc.Login(context.Background(), auth.Credentials{
		Email:    "ana@example.com",
		Password: "nope",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	events := notifier.Events()
	if len(events) != 1 || events[0].Level != "error" || events[0].Message != "wrong password" {
		t.Errorf("expected one error notification with the server message, got %+v", events)
	}
	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated session after failed login")
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected no persisted token, got %q", token)
	}
}

func TestLoginValidatesInputBeforeCalling(t *testing.T) {
	authAPI := &fakeAuthAPI{}
	svc := newTestSession(authAPI, memory.NewTokenStore(), memory.NewCaptureNotifier())

	_, err := svc.Login(context.Background(), auth.Credentials{Email: "not-an-email", Password: "x"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if authAPI.loginCalls != 0 {
		t.Errorf("expected no API call for invalid input, got %d", authAPI.loginCalls)
	}
}

func TestRegisterNavigatesToCatalog(t *testing.T) {
	authAPI := &fakeAuthAPI{
		registerRes: &api.AuthResult{
			User:        auth.User{ID: "u2", Email: "bo@example.com", Role: auth.RoleUser},
			AccessToken: "tok-2",
		},
	}
	svc := newTestSession(authAPI, memory.NewTokenStore(), memory.NewCaptureNotifier())

	target, err := svc.Register(context.Background(), auth.Registration{
		Name:     "Bo",
		Email:    "bo@example.com",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != NavCatalog {
		t.Errorf("expected NavCatalog, got %q", target)
	}
}

func TestLogoutNeverFailsEvenWhenRemoteDoes(t *testing.T) {
	authAPI := &fakeAuthAPI{
		meUser:    &auth.User{ID: "u1", Email: "ana@example.com", Role: auth.RoleUser},
		logoutErr: errors.New("network unreachable"),
	}
	tokens := memory.NewTokenStoreWithToken("tok")
	svc := newTestSession(authAPI, tokens, memory.NewCaptureNotifier())
	svc.Bootstrap(context.Background())

	target := svc.Logout(context.Background())

	if target != NavHome {
		t.Errorf("expected NavHome, got %q", target)
	}
	if authAPI.logoutCalls != 1 {
		t.Errorf("expected one remote logout attempt, got %d", authAPI.logoutCalls)
	}
	if svc.IsAuthenticated() {
		t.Error("expected session cleared despite remote failure")
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected token cleared despite remote failure, got %q", token)
	}
}

func TestAuthChangeListenerFiresOnTransitions(t *testing.T) {
	authAPI := &fakeAuthAPI{
		loginRes: &api.AuthResult{
			User:        auth.User{ID: "u1", Email: "ana@example.com", Role: auth.RoleUser},
			AccessToken: "tok",
		},
	}
	svc := newTestSession(authAPI, memory.NewTokenStore(), memory.NewCaptureNotifier())

	var transitions []bool
	svc.SetAuthChangeListener(func(authenticated bool) {
		transitions = append(transitions, authenticated)
	})

	if _, err := svc.Login(context.Background(), auth.Credentials{Email: "ana@example.com", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Logout(context.Background())

	if len(transitions) != 2 || transitions[0] != true || transitions[1] != false {
		t.Errorf("expected [true false], got %v", transitions)
	}
}

func TestInvalidateDropsSessionLocally(t *testing.T) {
	authAPI := &fakeAuthAPI{
		meUser: &auth.User{ID: "u1", Email: "ana@example.com", Role: auth.RoleAdmin},
	}
	svc := newTestSession(authAPI, memory.NewTokenStoreWithToken("tok"), memory.NewCaptureNotifier())
	svc.Bootstrap(context.Background())

	if !svc.IsAdmin() {
		t.Fatal("expected admin session")
	}
	svc.Invalidate()
	if svc.IsAuthenticated() {
		t.Error("expected session dropped after Invalidate")
	}
}
