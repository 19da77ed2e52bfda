package ports

import (
	"context"

	"github.com/locadora/rental-system/internal/core/domain"
)

// CreateClientInput carries all data needed to create a client.
type CreateClientInput struct {
	Name     string
	LastName string
	CPF      string
	Email    string
	Phone    string
	Address  domain.Address
	Status   domain.Status
}

// UpdateClientInput is a partial update; nil fields are left untouched.
type UpdateClientInput struct {
	Name     *string
	LastName *string
	CPF      *string
	Email    *string
	Phone    *string
	Address  *domain.Address
	Status   *domain.Status
}

// ClientFilter narrows List results. Search matches name, last name, full
// name, or the digit-normalised CPF; Document is a plain CPF substring
// filter; Status is exact. Results are sorted newest first.
type ClientFilter struct {
	Search   string
	Document string
	Status   domain.Status
}

// ClientService defines use-case operations for renting customers.
type ClientService interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	GetByID(id string) (*domain.Client, bool)
	List(filter ClientFilter) []domain.Client
	Active() []domain.Client
	HasActiveRental(ctx context.Context, clientID string) bool
}
