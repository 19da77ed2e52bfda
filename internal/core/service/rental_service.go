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

// upcomingReturnWindow is how far ahead UpcomingReturns looks.
const upcomingReturnWindow = 3 * 24 * time.Hour

// clientDirectory is the slice of the client service the rental service
// needs when opening a rental.
type clientDirectory interface {
	GetByID(id string) (*domain.Client, bool)
	HasActiveRental(ctx context.Context, clientID string) bool
}

// userDirectory resolves the operator recorded on a rental.
type userDirectory interface {
	GetByID(id string) (*domain.User, bool)
}

// RentalService owns the rental collection, mirrored to storage under the
// "rentals" key. Each rental embeds copies of the client, user and movie
// records taken at creation time.
type RentalService struct {
	store    ports.BlobStore
	notifier ports.Notifier
	clients  clientDirectory
	users    userDirectory
	movies   ports.MovieLookup
	log      zerolog.Logger

	mu      sync.Mutex
	rentals []domain.Rental
}

func NewRentalService(
	store ports.BlobStore,
	notifier ports.Notifier,
	clients clientDirectory,
	users userDirectory,
	movies ports.MovieLookup,
	log zerolog.Logger,
) *RentalService {
	return &RentalService{
		store:    store,
		notifier: notifier,
		clients:  clients,
		users:    users,
		movies:   movies,
		log:      log,
	}
}

// Load reads the collection from storage. Missing key means no rentals yet;
// a corrupt blob resets to empty with an error notification.
func (s *RentalService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, ports.KeyRentals)
	if err != nil {
		if err == ports.ErrKeyNotFound {
			s.rentals = nil
			return nil
		}
		s.notifier.Error("failed to load rentals")
		return err
	}

	var rentals []domain.Rental
	if err := json.Unmarshal(raw, &rentals); err != nil {
		s.log.Error().Err(err).Msg("stored rental collection is corrupt")
		s.notifier.Error("failed to load rentals")
		s.rentals = nil
		return nil
	}

	s.rentals = rentals
	return nil
}

// Create opens a rental. Client and user are resolved and embedded as
// snapshots; movie ids are resolved through the external lookup, and any
// lookup failure aborts the whole creation. A client may hold at most one
// open rental at a time.
func (s *RentalService) Create(ctx context.Context, input ports.CreateRentalInput) (*domain.Rental, error) {
	client, ok := s.clients.GetByID(input.ClientID)
	if !ok {
		s.notifier.Error("client not found")
		return nil, domain.ErrClientNotFound
	}

	user, ok := s.users.GetByID(input.UserID)
	if !ok {
		s.notifier.Error("user not found")
		return nil, domain.ErrUserNotFound
	}

	if s.clients.HasActiveRental(ctx, input.ClientID) {
		s.notifier.Error("client already has an active rental")
		return nil, domain.ErrClientHasActiveRental
	}

	movies, err := s.movies.MoviesByIDs(ctx, input.MovieIDs)
	if err != nil {
		s.log.Error().Err(err).Strs("movie_ids", input.MovieIDs).Msg("movie lookup failed")
		s.notifier.Error("failed to resolve movies")
		return nil, err
	}

	now := time.Now()
	rental := domain.Rental{
		ID:         "rental_" + uuid.NewString(),
		ClientID:   input.ClientID,
		Client:     *client,
		Movies:     movies,
		RentalDate: input.RentalDate,
		ReturnDate: input.ReturnDate,
		UserID:     input.UserID,
		User:       *user,
		Status:     domain.RentalStatusRented,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.rentals = append(s.rentals, rental)
	s.persist(ctx)
	s.mu.Unlock()

	s.notifier.Success("rental created")
	s.log.Info().Str("rental_id", rental.ID).Str("client_id", rental.ClientID).Msg("rental created")
	return &rental, nil
}

// Update merges the partial input into an existing rental. Rentals carry no
// uniqueness constraints.
func (s *RentalService) Update(ctx context.Context, id string, input ports.UpdateRentalInput) (*domain.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.notifier.Error("rental not found")
		return nil, domain.ErrRentalNotFound
	}

	rental := s.rentals[idx]
	if input.ReturnDate != nil {
		rental.ReturnDate = *input.ReturnDate
	}
	if input.Status != nil {
		rental.Status = *input.Status
	}
	rental.UpdatedAt = time.Now()

	s.rentals[idx] = rental
	s.persist(ctx)
	s.notifier.Success("rental updated")
	return &rental, nil
}

// Return closes a rental: status becomes returned and the return date is
// stamped with the current time.
func (s *RentalService) Return(ctx context.Context, id string) (*domain.Rental, error) {
	now := time.Now()
	returned := domain.RentalStatusReturned
	return s.Update(ctx, id, ports.UpdateRentalInput{
		Status:     &returned,
		ReturnDate: &now,
	})
}

// GetByID returns a copy of the rental, if present.
func (s *RentalService) GetByID(id string) (*domain.Rental, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	rental := s.rentals[idx]
	return &rental, true
}

// List applies the filter and returns matches sorted newest first. Date
// ranges are inclusive on both ends.
func (s *RentalService) List(filter ports.RentalFilter) []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		if filter.ClientSearch != "" && !rentalMatchesClient(r, filter.ClientSearch) {
			continue
		}
		if !filter.RentalDateFrom.IsZero() && r.RentalDate.Before(filter.RentalDateFrom) {
			continue
		}
		if !filter.RentalDateTo.IsZero() && r.RentalDate.After(filter.RentalDateTo) {
			continue
		}
		if !filter.ReturnDateFrom.IsZero() && r.ReturnDate.Before(filter.ReturnDateFrom) {
			continue
		}
		if !filter.ReturnDateTo.IsZero() && r.ReturnDate.After(filter.ReturnDateTo) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns all rentals with status rented.
func (s *RentalService) Active() []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open()
}

// Overdue returns open rentals whose return date has already passed.
func (s *RentalService) Overdue() []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var out []domain.Rental
	for _, r := range s.open() {
		if r.ReturnDate.Before(now) {
			out = append(out, r)
		}
	}
	return out
}

// UpcomingReturns returns open rentals due within the next three days,
// inclusive on both ends.
func (s *RentalService) UpcomingReturns() []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	limit := now.Add(upcomingReturnWindow)
	var out []domain.Rental
	for _, r := range s.open() {
		if !r.ReturnDate.Before(now) && !r.ReturnDate.After(limit) {
			out = append(out, r)
		}
	}
	return out
}

// open must be called with the mutex held.
func (s *RentalService) open() []domain.Rental {
	var out []domain.Rental
	for _, r := range s.rentals {
		if r.IsOpen() {
			out = append(out, r)
		}
	}
	return out
}

// rentalMatchesClient searches the embedded client snapshot.
func rentalMatchesClient(r domain.Rental, search string) bool {
	lowered := strings.ToLower(search)
	return strings.Contains(strings.ToLower(r.Client.Name), lowered) ||
		strings.Contains(strings.ToLower(r.Client.LastName), lowered) ||
		strings.Contains(strings.ToLower(r.Client.FullName()), lowered) ||
		strings.Contains(r.Client.CPF, search)
}

// indexOf must be called with the mutex held.
func (s *RentalService) indexOf(id string) int {
	for i, r := range s.rentals {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the collection to storage. Must be called with the mutex
// held.
func (s *RentalService) persist(ctx context.Context) {
	raw, err := json.Marshal(s.rentals)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode rentals")
		s.notifier.Error("failed to save rentals")
		return
	}
	if err := s.store.Set(ctx, ports.KeyRentals, raw); err != nil {
		s.log.Error().Err(err).Msg("failed to save rentals")
		s.notifier.Error("failed to save rentals")
	}
}
