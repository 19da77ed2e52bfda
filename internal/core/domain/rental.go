package domain

import (
	"errors"
	"time"
)

// RentalStatus represents the lifecycle state of a rental.
type RentalStatus string

const (
	RentalStatusRented   RentalStatus = "rented"
	RentalStatusReturned RentalStatus = "returned"
)

var ErrRentalNotFound = errors.New("rental not found")

// Movie is the metadata snapshot fetched from the external movie service at
// rental creation time.
type Movie struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Type       string `json:"type"`
	Poster     string `json:"poster"`
	Plot       string `json:"plot,omitempty"`
	Director   string `json:"director,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	ImdbRating string `json:"imdbRating,omitempty"`
}

// Rental ties a client, an operator and a set of movies together. Client,
// User and Movies are snapshots frozen at creation time: later edits to the
// source records deliberately do not flow into existing rentals.
type Rental struct {
	ID         string       `json:"id"`
	ClientID   string       `json:"clientId"`
	Client     Client       `json:"client"`
	Movies     []Movie      `json:"movies"`
	RentalDate time.Time    `json:"rentalDate"`
	ReturnDate time.Time    `json:"returnDate"`
	UserID     string       `json:"userId"`
	User       User         `json:"user"`
	Status     RentalStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// IsOpen reports whether the rental still counts against the client's
// one-active-rental limit.
func (r Rental) IsOpen() bool {
	return r.Status == RentalStatusRented
}
