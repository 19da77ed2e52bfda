package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

const testJWTSecret = "test-secret"

func seedUsers(t *testing.T, store *stubStore, users ...domain.User) {
	t.Helper()
	raw, err := json.Marshal(users)
	if err != nil {
		t.Fatalf("marshal users: %v", err)
	}
	store.data[ports.KeyUsers] = raw
}

func testUser(t *testing.T, id, document, password string, status domain.Status) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now()
	return domain.User{
		ID:           id,
		Name:         "Test User",
		Document:     document,
		PasswordHash: string(hash),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAuthService_LoginSuccess(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)

	token, user, err := auth.Login(context.Background(), "12345678901", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || user.ID != "user_1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !auth.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	if auth.CurrentUserID() != "user_1" {
		t.Fatalf("unexpected current user id: %q", auth.CurrentUserID())
	}
	if auth.Token() != token {
		t.Fatalf("Token() does not match the returned token")
	}

	// The token must be a valid HS256 JWT carrying the user id.
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] != "user_1" || claims["document"] != "12345678901" {
		t.Fatalf("unexpected claims: %+v", parsed.Claims)
	}

	// The session must be mirrored to storage.
	if _, ok := store.data[ports.KeyAuthUser]; !ok {
		t.Fatalf("session user not persisted")
	}
	if string(store.data[ports.KeyAuthToken]) != token {
		t.Fatalf("session token not persisted")
	}

	if notifier.count(domain.NotificationSuccess) != 1 {
		t.Fatalf("expected a success notification")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)

	_, _, err := auth.Login(context.Background(), "12345678901", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if auth.IsAuthenticated() {
		t.Fatalf("session must stay anonymous after a failed login")
	}
	if notifier.count(domain.NotificationError) != 1 {
		t.Fatalf("expected an error notification")
	}
}

func TestAuthService_LoginUnknownDocument(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)

	_, _, err := auth.Login(context.Background(), "99999999999", "admin123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginInactiveUser(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_2", "22222222222", "secret", domain.StatusInactive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)

	_, _, err := auth.Login(context.Background(), "22222222222", "secret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestAuthService_RepeatedLoginsMintDistinctTokens(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)

	first, _, err := auth.Login(context.Background(), "12345678901", "admin123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, _, err := auth.Login(context.Background(), "12345678901", "admin123")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first == second {
		t.Fatalf("two logins produced the same token")
	}
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)
	if _, _, err := auth.Login(context.Background(), "12345678901", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	auth.Logout(context.Background())
	auth.Logout(context.Background())

	if auth.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
	if auth.CurrentUser() != nil {
		t.Fatalf("expected nil current user")
	}
	if _, ok := store.data[ports.KeyAuthUser]; ok {
		t.Fatalf("session user still persisted after logout")
	}
}

func TestAuthService_ClearAuthIsSilent(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)
	if _, _, err := auth.Login(context.Background(), "12345678901", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	successesAfterLogin := notifier.count(domain.NotificationSuccess)

	auth.ClearAuth(context.Background())

	if auth.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
	if notifier.count(domain.NotificationSuccess) != successesAfterLogin {
		t.Fatalf("ClearAuth must not emit notifications")
	}
	if notifier.count(domain.NotificationError) != 0 {
		t.Fatalf("ClearAuth must not emit notifications")
	}
}

func TestAuthService_InitializeRestoresSession(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()

	user := testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive)
	raw, _ := json.Marshal(user)
	store.data[ports.KeyAuthUser] = raw
	store.data[ports.KeyAuthToken] = []byte("persisted-token")

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)
	auth.Initialize(context.Background())

	if !auth.IsAuthenticated() {
		t.Fatalf("expected session restored from storage")
	}
	if auth.Token() != "persisted-token" {
		t.Fatalf("unexpected token: %q", auth.Token())
	}
	if got := auth.CurrentUser(); got == nil || got.ID != "user_1" {
		t.Fatalf("unexpected restored user: %+v", got)
	}
}

func TestAuthService_InitializeCorruptSessionResets(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()

	store.data[ports.KeyAuthUser] = []byte("{not json")
	store.data[ports.KeyAuthToken] = []byte("persisted-token")

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)
	auth.Initialize(context.Background())

	if auth.IsAuthenticated() {
		t.Fatalf("corrupt session must reset to anonymous")
	}
	if _, ok := store.data[ports.KeyAuthUser]; ok {
		t.Fatalf("corrupt session keys must be cleared")
	}
	if notifier.count(domain.NotificationError) != 0 {
		t.Fatalf("initialize must stay silent")
	}
}

func TestAuthService_InitializeMissingSessionStaysAnonymous(t *testing.T) {
	store := newStubStore()
	auth := NewAuthService(store, newStubNotifier(), testJWTSecret, nopLogger)

	auth.Initialize(context.Background())

	if auth.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
}

func TestAuthService_UpdateCurrentUser(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	seedUsers(t, store, testUser(t, "user_1", "12345678901", "admin123", domain.StatusActive))

	auth := NewAuthService(store, notifier, testJWTSecret, nopLogger)
	if _, _, err := auth.Login(context.Background(), "12345678901", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	edited := *auth.CurrentUser()
	edited.Name = "Renamed"
	auth.UpdateCurrentUser(context.Background(), edited)

	if got := auth.CurrentUser(); got.Name != "Renamed" {
		t.Fatalf("session copy not resynced: %+v", got)
	}

	// An edit to some other user must not touch the session.
	other := edited
	other.ID = "user_other"
	other.Name = "Somebody Else"
	auth.UpdateCurrentUser(context.Background(), other)

	if got := auth.CurrentUser(); got.Name != "Renamed" {
		t.Fatalf("session overwritten by unrelated user: %+v", got)
	}
}
