package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// Fixed administrator seeded into an empty installation so the desk is never
// locked out.
const (
	defaultUserID       = "user_1"
	defaultUserName     = "Administrator"
	defaultUserDocument = "12345678901"
	defaultUserPassword = "admin123"
)

// sessionSink is the slice of the auth session the user service needs:
// propagating profile edits and guarding against deleting the logged-in user.
type sessionSink interface {
	UpdateCurrentUser(ctx context.Context, user domain.User)
	CurrentUserID() string
}

// UserService owns the user collection, mirrored to storage under the
// "users" key.
type UserService struct {
	store    ports.BlobStore
	notifier ports.Notifier
	session  sessionSink
	log      zerolog.Logger

	mu    sync.Mutex
	users []domain.User
}

func NewUserService(store ports.BlobStore, notifier ports.Notifier, session sessionSink, log zerolog.Logger) *UserService {
	return &UserService{
		store:    store,
		notifier: notifier,
		session:  session,
		log:      log,
	}
}

// Load reads the collection from storage. A missing key seeds the default
// administrator; a corrupt blob resets to the seeded state with an error
// notification instead of failing the caller.
func (s *UserService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, ports.KeyUsers)
	if err != nil {
		if err == ports.ErrKeyNotFound {
			return s.seedDefaultUser(ctx)
		}
		s.notifier.Error("failed to load users")
		return err
	}

	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		s.log.Error().Err(err).Msg("stored user collection is corrupt")
		s.notifier.Error("failed to load users")
		return s.seedDefaultUser(ctx)
	}

	s.users = users
	return nil
}

// Create adds a user. The document must be unique across all records,
// inactive ones included.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Document == input.Document {
			s.notifier.Error("user with this document already exists")
			return nil, domain.ErrDuplicateDocument
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.notifier.Error("failed to create user")
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		ID:           "user_" + uuid.NewString(),
		Name:         input.Name,
		Document:     input.Document,
		PasswordHash: string(hash),
		Status:       input.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.users = append(s.users, user)
	s.persist(ctx)
	s.notifier.Success("user created")
	s.log.Info().Str("user_id", user.ID).Msg("user created")
	return &user, nil
}

// Update merges the partial input into an existing user and resyncs the auth
// session when the edited user is the logged-in one.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("user not found")
		return nil, domain.ErrUserNotFound
	}

	if input.Document != nil {
		for _, u := range s.users {
			if u.Document == *input.Document && u.ID != id {
				s.mu.Unlock()
				s.notifier.Error("user with this document already exists")
				return nil, domain.ErrDuplicateDocument
			}
		}
	}

	user := s.users[idx]
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Document != nil {
		user.Document = *input.Document
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			s.mu.Unlock()
			s.notifier.Error("failed to update user")
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	user.UpdatedAt = time.Now()

	s.users[idx] = user
	s.persist(ctx)
	s.mu.Unlock()

	s.session.UpdateCurrentUser(ctx, user)
	s.notifier.Success("user updated")
	return &user, nil
}

// Delete soft-deletes: the record stays, its status flips to inactive. The
// currently logged-in user cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.notifier.Error("user not found")
		return domain.ErrUserNotFound
	}

	if s.session.CurrentUserID() == id {
		s.notifier.Error("cannot deactivate the currently logged in user")
		return domain.ErrUserLoggedIn
	}

	s.users[idx].Status = domain.StatusInactive
	s.users[idx].UpdatedAt = time.Now()
	s.persist(ctx)
	s.notifier.Success("user deactivated")
	return nil
}

// GetByID returns a copy of the user, if present.
func (s *UserService) GetByID(id string) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	user := s.users[idx]
	return &user, true
}

// List applies the filter and returns matches sorted newest first.
func (s *UserService) List(filter ports.UserFilter) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.User, 0, len(s.users))
	search := strings.ToLower(filter.Search)
	for _, u := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Document), search) {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, u)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns all users with status active.
func (s *UserService) Active() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.User
	for _, u := range s.users {
		if u.IsActive() {
			out = append(out, u)
		}
	}
	return out
}

// indexOf must be called with the mutex held.
func (s *UserService) indexOf(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// seedDefaultUser must be called with the mutex held.
func (s *UserService) seedDefaultUser(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	s.users = []domain.User{{
		ID:           defaultUserID,
		Name:         defaultUserName,
		Document:     defaultUserDocument,
		PasswordHash: string(hash),
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	s.persist(ctx)
	s.log.Info().Msg("seeded default administrator")
	return nil
}

// persist mirrors the collection to storage. Persistence failures degrade to
// a notification; the in-memory state stays authoritative. Must be called
// with the mutex held.
func (s *UserService) persist(ctx context.Context) {
	raw, err := json.Marshal(s.users)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode users")
		s.notifier.Error("failed to save users")
		return
	}
	if err := s.store.Set(ctx, ports.KeyUsers, raw); err != nil {
		s.log.Error().Err(err).Msg("failed to save users")
		s.notifier.Error("failed to save users")
	}
}
