package ports

import (
	"context"
	"time"

	"github.com/locadora/rental-system/internal/core/domain"
)

// CreateRentalInput carries all data needed to open a rental. MovieIDs are
// resolved into metadata snapshots at creation time.
type CreateRentalInput struct {
	ClientID   string
	MovieIDs   []string
	RentalDate time.Time
	ReturnDate time.Time
	UserID     string
}

// UpdateRentalInput is a partial update; nil fields are left untouched.
type UpdateRentalInput struct {
	ReturnDate *time.Time
	Status     *domain.RentalStatus
}

// RentalFilter narrows List results. ClientSearch matches the embedded client
// snapshot (name, last name, full name or CPF substring); the date ranges are
// inclusive on both ends; Status is exact. Results are sorted newest first.
type RentalFilter struct {
	ClientSearch   string
	RentalDateFrom time.Time
	RentalDateTo   time.Time
	ReturnDateFrom time.Time
	ReturnDateTo   time.Time
	Status         domain.RentalStatus
}

// RentalService defines use-case operations for rentals.
type RentalService interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, input CreateRentalInput) (*domain.Rental, error)
	Update(ctx context.Context, id string, input UpdateRentalInput) (*domain.Rental, error)
	Return(ctx context.Context, id string) (*domain.Rental, error)
	GetByID(id string) (*domain.Rental, bool)
	List(filter RentalFilter) []domain.Rental
	Active() []domain.Rental
	Overdue() []domain.Rental
	UpcomingReturns() []domain.Rental
}
