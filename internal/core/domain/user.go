package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle state shared by users and clients. Records are
// never hard-deleted; deleting flips the status to inactive.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateDocument = errors.New("user with this document already exists")
var ErrUserLoggedIn = errors.New("cannot deactivate the currently logged in user")
var ErrInvalidCredentials = errors.New("invalid credentials or inactive user")

// User models an operator of the rental desk. The document doubles as the
// login identifier and must stay unique across the whole collection,
// inactive records included.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Document     string    `json:"document"`
	PasswordHash string    `json:"passwordHash"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsActive reports whether the user may log in.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}
