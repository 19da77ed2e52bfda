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

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// ClientService owns the client collection, mirrored to storage under the
// "clients" key.
type ClientService struct {
	store    ports.BlobStore
	notifier ports.Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	clients []domain.Client
}

func NewClientService(store ports.BlobStore, notifier ports.Notifier, log zerolog.Logger) *ClientService {
	return &ClientService{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Load reads the collection from storage. A missing key means a fresh
// installation and leaves the collection empty; a corrupt blob resets to
// empty with an error notification instead of failing the caller.
func (s *ClientService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, ports.KeyClients)
	if err != nil {
		if err == ports.ErrKeyNotFound {
			s.clients = nil
			return nil
		}
		s.notifier.Error("failed to load clients")
		return err
	}

	var clients []domain.Client
	if err := json.Unmarshal(raw, &clients); err != nil {
		s.log.Error().Err(err).Msg("stored client collection is corrupt")
		s.notifier.Error("failed to load clients")
		s.clients = nil
		return nil
	}

	s.clients = clients
	return nil
}

// Create adds a client. CPF and email are each independently unique across
// all records, inactive ones included.
func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.CPF == input.CPF {
			s.notifier.Error("client with this CPF already exists")
			return nil, domain.ErrDuplicateCPF
		}
	}
	for _, c := range s.clients {
		if c.Email == input.Email {
			s.notifier.Error("client with this email already exists")
			return nil, domain.ErrDuplicateEmail
		}
	}

	now := time.Now()
	client := domain.Client{
		ID:        "client_" + uuid.NewString(),
		Name:      input.Name,
		LastName:  input.LastName,
		CPF:       input.CPF,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.clients = append(s.clients, client)
	s.persist(ctx)
	s.notifier.Success("client created")
	s.log.Info().Str("client_id", client.ID).Msg("client created")
	return &client, nil
}

// Update merges the partial input into an existing client, re-checking CPF
// and email uniqueness against the other records.
func (s *ClientService) Update(ctx context.Context, id string, input ports.UpdateClientInput) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.notifier.Error("client not found")
		return nil, domain.ErrClientNotFound
	}

	if input.CPF != nil {
		for _, c := range s.clients {
			if c.CPF == *input.CPF && c.ID != id {
				s.notifier.Error("client with this CPF already exists")
				return nil, domain.ErrDuplicateCPF
			}
		}
	}
	if input.Email != nil {
		for _, c := range s.clients {
			if c.Email == *input.Email && c.ID != id {
				s.notifier.Error("client with this email already exists")
				return nil, domain.ErrDuplicateEmail
			}
		}
	}

	client := s.clients[idx]
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.LastName != nil {
		client.LastName = *input.LastName
	}
	if input.CPF != nil {
		client.CPF = *input.CPF
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Status != nil {
		client.Status = *input.Status
	}
	client.UpdatedAt = time.Now()

	s.clients[idx] = client
	s.persist(ctx)
	s.notifier.Success("client updated")
	return &client, nil
}

// Delete soft-deletes. A client with an open rental cannot be deactivated;
// the check goes against the persisted rental collection, not a foreign key.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.notifier.Error("client not found")
		return domain.ErrClientNotFound
	}

	if s.hasActiveRental(ctx, id) {
		s.notifier.Error("cannot deactivate a client with active rentals")
		return domain.ErrClientHasActiveRental
	}

	s.clients[idx].Status = domain.StatusInactive
	s.clients[idx].UpdatedAt = time.Now()
	s.persist(ctx)
	s.notifier.Success("client deactivated")
	return nil
}

// GetByID returns a copy of the client, if present.
func (s *ClientService) GetByID(id string) (*domain.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	client := s.clients[idx]
	return &client, true
}

// List applies the filter and returns matches sorted newest first.
func (s *ClientService) List(filter ports.ClientFilter) []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		if filter.Search != "" && !clientMatchesSearch(c, filter.Search) {
			continue
		}
		if filter.Document != "" && !strings.Contains(c.CPF, filter.Document) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns all clients with status active.
func (s *ClientService) Active() []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Client
	for _, c := range s.clients {
		if c.Status == domain.StatusActive {
			out = append(out, c)
		}
	}
	return out
}

// HasActiveRental reports whether the client has a rental with status
// rented, read from the persisted rental collection.
func (s *ClientService) HasActiveRental(ctx context.Context, clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasActiveRental(ctx, clientID)
}

// hasActiveRental must be called with the mutex held. Storage failures
// degrade to "no active rental" rather than blocking the caller.
func (s *ClientService) hasActiveRental(ctx context.Context, clientID string) bool {
	raw, err := s.store.Get(ctx, ports.KeyRentals)
	if err != nil {
		return false
	}

	var rentals []domain.Rental
	if err := json.Unmarshal(raw, &rentals); err != nil {
		s.log.Warn().Err(err).Msg("stored rental collection is corrupt")
		return false
	}

	for _, r := range rentals {
		if r.ClientID == clientID && r.IsOpen() {
			return true
		}
	}
	return false
}

// clientMatchesSearch checks name, last name, full name, and the
// digit-normalised CPF. The CPF comparison only applies when the search term
// actually contains digits.
func clientMatchesSearch(c domain.Client, search string) bool {
	lowered := strings.ToLower(search)
	if strings.Contains(strings.ToLower(c.Name), lowered) ||
		strings.Contains(strings.ToLower(c.LastName), lowered) ||
		strings.Contains(strings.ToLower(c.FullName()), lowered) {
		return true
	}

	digits := onlyDigits(search)
	return digits != "" && strings.Contains(onlyDigits(c.CPF), digits)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// indexOf must be called with the mutex held.
func (s *ClientService) indexOf(id string) int {
	for i, c := range s.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the collection to storage. Must be called with the mutex
// held.
func (s *ClientService) persist(ctx context.Context) {
	raw, err := json.Marshal(s.clients)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode clients")
		s.notifier.Error("failed to save clients")
		return
	}
	if err := s.store.Set(ctx, ports.KeyClients, raw); err != nil {
		s.log.Error().Err(err).Msg("failed to save clients")
		s.notifier.Error("failed to save clients")
	}
}
