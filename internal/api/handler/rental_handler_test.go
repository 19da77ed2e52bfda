package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

type stubRentalService struct {
	createFn func(ctx context.Context, input ports.CreateRentalInput) (*domain.Rental, error)
	listFn   func(filter ports.RentalFilter) []domain.Rental
}

func (s *stubRentalService) Load(context.Context) error { return nil }

func (s *stubRentalService) Create(ctx context.Context, input ports.CreateRentalInput) (*domain.Rental, error) {
	return s.createFn(ctx, input)
}

func (s *stubRentalService) Update(context.Context, string, ports.UpdateRentalInput) (*domain.Rental, error) {
	return nil, domain.ErrRentalNotFound
}

func (s *stubRentalService) Return(context.Context, string) (*domain.Rental, error) {
	return nil, domain.ErrRentalNotFound
}

func (s *stubRentalService) GetByID(string) (*domain.Rental, bool) { return nil, false }

func (s *stubRentalService) List(filter ports.RentalFilter) []domain.Rental {
	if s.listFn != nil {
		return s.listFn(filter)
	}
	return nil
}

func (s *stubRentalService) Active() []domain.Rental          { return nil }
func (s *stubRentalService) Overdue() []domain.Rental         { return nil }
func (s *stubRentalService) UpcomingReturns() []domain.Rental { return nil }

type stubAudit struct {
	events []ports.AuditEvent
}

func (s *stubAudit) Record(event ports.AuditEvent) {
	s.events = append(s.events, event)
}

func TestRentalHandler_Create(t *testing.T) {
	audit := &stubAudit{}
	stub := &stubRentalService{
		createFn: func(ctx context.Context, input ports.CreateRentalInput) (*domain.Rental, error) {
			if input.ClientID != "client_1" || input.UserID != "user_1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if !input.RentalDate.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected rental date: %v", input.RentalDate)
			}
			now := time.Now()
			return &domain.Rental{
				ID: "rental_1", ClientID: input.ClientID, UserID: input.UserID,
				RentalDate: input.RentalDate, ReturnDate: input.ReturnDate,
				Status: domain.RentalStatusRented, CreatedAt: now, UpdatedAt: now,
			}, nil
		},
	}
	handler := NewRentalHandler(stub, audit)

	body := `{"client_id":"client_1","movie_ids":["tt0133093"],"rental_date":"2026-08-20","return_date":"2026-08-27"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/rentals", body)
	c.Set("user_id", "user_1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "rental_1" || resp["status"] != "rented" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if len(audit.events) != 1 || audit.events[0].Action != "create" || audit.events[0].Entity != "rental" {
		t.Fatalf("audit event missing: %+v", audit.events)
	}
}

func TestRentalHandler_CreateRejectsBadDates(t *testing.T) {
	stub := &stubRentalService{
		createFn: func(ctx context.Context, input ports.CreateRentalInput) (*domain.Rental, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewRentalHandler(stub, &stubAudit{})

	cases := []string{
		`{"client_id":"c","movie_ids":["m"],"rental_date":"20/08/2026","return_date":"2026-08-27"}`,
		`{"client_id":"c","movie_ids":["m"],"rental_date":"2026-08-20","return_date":"not-a-date"}`,
		// Return before rental.
		`{"client_id":"c","movie_ids":["m"],"rental_date":"2026-08-27","return_date":"2026-08-20"}`,
		// Empty movie list.
		`{"client_id":"c","movie_ids":[],"rental_date":"2026-08-20","return_date":"2026-08-27"}`,
	}
	for i, body := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/v1/rentals", body)
		err := handler.Create(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %v", i, err)
		}
	}
}

func TestRentalHandler_ListParsesDateFilters(t *testing.T) {
	var captured ports.RentalFilter
	stub := &stubRentalService{
		listFn: func(filter ports.RentalFilter) []domain.Rental {
			captured = filter
			return nil
		},
	}
	handler := NewRentalHandler(stub, &stubAudit{})

	c, rec := newTestContext(t, http.MethodGet,
		"/v1/rentals?client_search=maria&rental_date_from=2026-08-01&rental_date_to=2026-08-31&status=rented", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.ClientSearch != "maria" || captured.Status != domain.RentalStatusRented {
		t.Fatalf("filter not forwarded: %+v", captured)
	}
	if !captured.RentalDateFrom.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("rental_date_from not parsed: %v", captured.RentalDateFrom)
	}
	if !captured.ReturnDateFrom.IsZero() {
		t.Fatalf("absent filters must stay zero: %v", captured.ReturnDateFrom)
	}
}

func TestRentalHandler_ListRejectsBadDateFilter(t *testing.T) {
	handler := NewRentalHandler(&stubRentalService{}, &stubAudit{})

	c, _ := newTestContext(t, http.MethodGet, "/v1/rentals?rental_date_from=yesterday", "")
	err := handler.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
