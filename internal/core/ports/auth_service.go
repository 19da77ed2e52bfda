package ports

import (
	"context"

	"github.com/locadora/rental-system/internal/core/domain"
)

// AuthService holds the current login session. It owns a copy of the
// logged-in user, independent of the user collection until explicitly
// resynced through UpdateCurrentUser.
type AuthService interface {
	// Initialize restores a persisted session. Corrupt or missing data
	// silently resets to anonymous; Initialize never fails.
	Initialize(ctx context.Context)
	Login(ctx context.Context, document, password string) (string, *domain.User, error)
	Logout(ctx context.Context)
	// ClearAuth is Logout without the notification, for silent resets.
	ClearAuth(ctx context.Context)
	// UpdateCurrentUser replaces the cached session user when the id matches
	// the logged-in user; otherwise it is a no-op.
	UpdateCurrentUser(ctx context.Context, user domain.User)
	CurrentUser() *domain.User
	CurrentUserID() string
	Token() string
	IsAuthenticated() bool
}
