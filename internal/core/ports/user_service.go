package ports

import (
	"context"

	"github.com/locadora/rental-system/internal/core/domain"
)

// CreateUserInput carries all data needed to create a user.
type CreateUserInput struct {
	Name     string
	Document string
	Password string
	Status   domain.Status
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Document *string
	Password *string
	Status   *domain.Status
}

// UserFilter narrows List results. Search matches name or document
// (case-insensitive substring); Status is exact. Filters AND together; the
// result is always sorted newest first.
type UserFilter struct {
	Search string
	Status domain.Status
}

// UserService defines use-case operations for desk operators.
type UserService interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	GetByID(id string) (*domain.User, bool)
	List(filter UserFilter) []domain.User
	Active() []domain.User
}
