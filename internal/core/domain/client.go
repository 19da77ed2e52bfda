package domain

import (
	"errors"
	"time"
)

var ErrClientNotFound = errors.New("client not found")
var ErrDuplicateCPF = errors.New("client with this CPF already exists")
var ErrDuplicateEmail = errors.New("client with this email already exists")
var ErrClientHasActiveRental = errors.New("client has an active rental")

// Address is a value object resolved from the postal-code lookup. It has no
// identity of its own and lives embedded in a client.
type Address struct {
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Client is a renting customer. CPF and email are each independently unique
// across the collection regardless of status.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	CPF       string    `json:"cpf"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   Address   `json:"address"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display and search.
func (c Client) FullName() string {
	return c.Name + " " + c.LastName
}
