package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

const sessionTokenTTL = 24 * time.Hour

// AuthService holds the login session: a copy of the logged-in user plus a
// signed session token. The copy is independent of the user collection until
// UpdateCurrentUser resyncs it.
type AuthService struct {
	store     ports.BlobStore
	notifier  ports.Notifier
	jwtSecret string
	log       zerolog.Logger

	mu    sync.Mutex
	user  *domain.User
	token string
}

func NewAuthService(store ports.BlobStore, notifier ports.Notifier, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

// Initialize restores a persisted session. Missing or corrupt data silently
// resets to anonymous; the caller never sees an error.
func (s *AuthService) Initialize(ctx context.Context) {
	rawUser, errUser := s.store.Get(ctx, ports.KeyAuthUser)
	rawToken, errToken := s.store.Get(ctx, ports.KeyAuthToken)
	if errUser != nil || errToken != nil {
		return
	}

	var user domain.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.log.Warn().Err(err).Msg("stored session is corrupt, resetting")
		s.ClearAuth(ctx)
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = string(rawToken)
	s.mu.Unlock()
}

// Login authenticates against the persisted user collection, read fresh from
// storage rather than from any in-memory state. Only active users with a
// matching document and password may log in.
func (s *AuthService) Login(ctx context.Context, document, password string) (string, *domain.User, error) {
	var found *domain.User
	for _, u := range s.storedUsers(ctx) {
		if u.Document != document || !u.IsActive() {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			user := u
			found = &user
			break
		}
	}

	if found == nil {
		s.notifier.Error("invalid credentials or inactive user")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.mintToken(found)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign session token")
		s.notifier.Error("login failed")
		return "", nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	s.user = found
	s.token = token
	s.mu.Unlock()

	s.persistSession(ctx, *found, token)
	s.notifier.Success("login successful")
	s.log.Info().Str("user_id", found.ID).Msg("user logged in")

	user := *found
	return token, &user, nil
}

// Logout drops the session unconditionally. Safe to call when anonymous.
func (s *AuthService) Logout(ctx context.Context) {
	s.ClearAuth(ctx)
	s.notifier.Success("logout successful")
}

// ClearAuth is Logout without the notification, used for silent resets.
func (s *AuthService) ClearAuth(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx, ports.KeyAuthUser); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session user")
	}
	if err := s.store.Delete(ctx, ports.KeyAuthToken); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session token")
	}
}

// UpdateCurrentUser resyncs the cached session copy after a profile edit.
// It only applies when the edited user is the logged-in one.
func (s *AuthService) UpdateCurrentUser(ctx context.Context, user domain.User) {
	s.mu.Lock()
	if s.user == nil || s.user.ID != user.ID {
		s.mu.Unlock()
		return
	}
	s.user = &user
	s.mu.Unlock()

	if raw, err := json.Marshal(user); err == nil {
		if err := s.store.Set(ctx, ports.KeyAuthUser, raw); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist session user")
		}
	}
}

// CurrentUser returns a copy of the logged-in user, or nil when anonymous.
func (s *AuthService) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// CurrentUserID returns the logged-in user id, or "" when anonymous.
func (s *AuthService) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Token returns the current session token, or "" when anonymous.
func (s *AuthService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether both a user and a token are present.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

// storedUsers reads the persisted user collection. Any storage or parse
// failure degrades to an empty directory.
func (s *AuthService) storedUsers(ctx context.Context) []domain.User {
	raw, err := s.store.Get(ctx, ports.KeyUsers)
	if err != nil {
		return nil
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		s.log.Warn().Err(err).Msg("stored user collection is corrupt")
		return nil
	}
	return users
}

// mintToken signs a session token. The nanosecond nonce keeps tokens unique
// across rapid repeated logins by the same user.
func (s *AuthService) mintToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"document": user.Document,
		"iat":      now.Unix(),
		"exp":      now.Add(sessionTokenTTL).Unix(),
		"nonce":    now.UnixNano(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) persistSession(ctx context.Context, user domain.User, token string) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode session user")
		return
	}
	if err := s.store.Set(ctx, ports.KeyAuthUser, raw); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session user")
	}
	if err := s.store.Set(ctx, ports.KeyAuthToken, []byte(token)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session token")
	}
}
