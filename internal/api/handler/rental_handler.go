package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/api/metrics"
	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// RentalHandler exposes the rental collection over HTTP.
type RentalHandler struct {
	rentals ports.RentalService
	audit   ports.AuditRecorder
}

func NewRentalHandler(rentals ports.RentalService, audit ports.AuditRecorder) *RentalHandler {
	return &RentalHandler{rentals: rentals, audit: audit}
}

type createRentalRequest struct {
	ClientID   string   `json:"client_id" validate:"required"`
	MovieIDs   []string `json:"movie_ids" validate:"required,min=1"`
	RentalDate string   `json:"rental_date" validate:"required"`
	ReturnDate string   `json:"return_date" validate:"required"`
}

type updateRentalRequest struct {
	ReturnDate *string `json:"return_date"`
	Status     *string `json:"status" validate:"omitempty,oneof=rented returned"`
}

type movieResponse struct {
	ImdbID     string `json:"imdb_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Type       string `json:"type"`
	Poster     string `json:"poster"`
	Plot       string `json:"plot,omitempty"`
	Director   string `json:"director,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	ImdbRating string `json:"imdb_rating,omitempty"`
}

type rentalResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	Client     clientResponse  `json:"client"`
	Movies     []movieResponse `json:"movies"`
	RentalDate string          `json:"rental_date"`
	ReturnDate string          `json:"return_date"`
	UserID     string          `json:"user_id"`
	User       userResponse    `json:"user"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type listRentalsResponse struct {
	Items []rentalResponse `json:"items"`
	Total int              `json:"total"`
}

// List handles GET /v1/rentals with optional client search, date-range and
// status filters. Dates are expected as 2006-01-02.
//
// @Summary      List rentals
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        client_search     query     string  false  "Substring match on client name or CPF"
// @Param        rental_date_from  query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        rental_date_to    query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        return_date_from  query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        return_date_to    query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        status            query     string  false  "Exact status filter (rented/returned)"
// @Success      200               {object}  listRentalsResponse
// @Failure      400               {object}  map[string]string
// @Router       /v1/rentals [get]
func (h *RentalHandler) List(c echo.Context) error {
	filter := ports.RentalFilter{
		ClientSearch: c.QueryParam("client_search"),
		Status:       domain.RentalStatus(c.QueryParam("status")),
	}

	var err error
	if filter.RentalDateFrom, err = parseDateParam(c, "rental_date_from"); err != nil {
		return err
	}
	if filter.RentalDateTo, err = parseDateParam(c, "rental_date_to"); err != nil {
		return err
	}
	if filter.ReturnDateFrom, err = parseDateParam(c, "return_date_from"); err != nil {
		return err
	}
	if filter.ReturnDateTo, err = parseDateParam(c, "return_date_to"); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListRentalsResponse(h.rentals.List(filter)))
}

// Get handles GET /v1/rentals/:id.
//
// @Summary      Get a rental by id
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rental id"
// @Success      200  {object}  rentalResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/rentals/{id} [get]
func (h *RentalHandler) Get(c echo.Context) error {
	rental, ok := h.rentals.GetByID(c.Param("id"))
	if !ok {
		return domain.ErrRentalNotFound
	}
	return c.JSON(http.StatusOK, toRentalResponse(*rental))
}

// Create handles POST /v1/rentals. The acting operator comes from the auth
// token, and the movie ids are resolved into metadata snapshots before the
// rental is stored.
//
// @Summary      Create a rental
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRentalRequest  true  "Rental details"
// @Success      201   {object}  rentalResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/rentals [post]
func (h *RentalHandler) Create(c echo.Context) error {
	var req createRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rentalDate, err := parseDate(req.RentalDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rental_date must be YYYY-MM-DD")
	}
	returnDate, err := parseDate(req.ReturnDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "return_date must be YYYY-MM-DD")
	}
	if returnDate.Before(rentalDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "return_date must not precede rental_date")
	}

	userID, _ := c.Get("user_id").(string)

	rental, err := h.rentals.Create(c.Request().Context(), ports.CreateRentalInput{
		ClientID:   req.ClientID,
		MovieIDs:   req.MovieIDs,
		RentalDate: rentalDate,
		ReturnDate: returnDate,
		UserID:     userID,
	})
	if err != nil {
		return err
	}

	metrics.RentalsCreatedTotal.Inc()
	h.audit.Record(ports.AuditEvent{Entity: "rental", Action: "create", EntityID: rental.ID})
	return c.JSON(http.StatusCreated, toRentalResponse(*rental))
}

// Update handles PUT /v1/rentals/:id with a partial body.
//
// @Summary      Update a rental
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Rental id"
// @Param        body  body      updateRentalRequest  true  "Fields to change"
// @Success      200   {object}  rentalResponse
// @Failure      404   {object}  map[string]string
// @Router       /v1/rentals/{id} [put]
func (h *RentalHandler) Update(c echo.Context) error {
	var req updateRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input ports.UpdateRentalInput
	if req.ReturnDate != nil {
		returnDate, err := parseDate(*req.ReturnDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "return_date must be YYYY-MM-DD")
		}
		input.ReturnDate = &returnDate
	}
	if req.Status != nil {
		status := domain.RentalStatus(*req.Status)
		input.Status = &status
	}

	rental, err := h.rentals.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "rental", Action: "update", EntityID: rental.ID})
	return c.JSON(http.StatusOK, toRentalResponse(*rental))
}

// Return handles POST /v1/rentals/:id/return, closing the rental now.
//
// @Summary      Return a rental
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rental id"
// @Success      200  {object}  rentalResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/rentals/{id}/return [post]
func (h *RentalHandler) Return(c echo.Context) error {
	rental, err := h.rentals.Return(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "rental", Action: "return", EntityID: rental.ID})
	return c.JSON(http.StatusOK, toRentalResponse(*rental))
}

// Overdue handles GET /v1/rentals/overdue: open rentals whose return date is
// already in the past.
//
// @Summary      List overdue rentals
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listRentalsResponse
// @Router       /v1/rentals/overdue [get]
func (h *RentalHandler) Overdue(c echo.Context) error {
	return c.JSON(http.StatusOK, toListRentalsResponse(h.rentals.Overdue()))
}

// Upcoming handles GET /v1/rentals/upcoming: open rentals due within the next
// three days.
//
// @Summary      List rentals due soon
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listRentalsResponse
// @Router       /v1/rentals/upcoming [get]
func (h *RentalHandler) Upcoming(c echo.Context) error {
	return c.JSON(http.StatusOK, toListRentalsResponse(h.rentals.UpcomingReturns()))
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseDateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return t, nil
}

func toListRentalsResponse(rentals []domain.Rental) listRentalsResponse {
	items := make([]rentalResponse, 0, len(rentals))
	for _, r := range rentals {
		items = append(items, toRentalResponse(r))
	}
	return listRentalsResponse{Items: items, Total: len(items)}
}

func toMovieResponse(m domain.Movie) movieResponse {
	return movieResponse{
		ImdbID:     m.ImdbID,
		Title:      m.Title,
		Year:       m.Year,
		Type:       m.Type,
		Poster:     m.Poster,
		Plot:       m.Plot,
		Director:   m.Director,
		Actors:     m.Actors,
		Genre:      m.Genre,
		Runtime:    m.Runtime,
		ImdbRating: m.ImdbRating,
	}
}

func toRentalResponse(r domain.Rental) rentalResponse {
	movies := make([]movieResponse, 0, len(r.Movies))
	for _, m := range r.Movies {
		movies = append(movies, toMovieResponse(m))
	}
	return rentalResponse{
		ID:         r.ID,
		ClientID:   r.ClientID,
		Client:     toClientResponse(r.Client),
		Movies:     movies,
		RentalDate: r.RentalDate.UTC().Format("2006-01-02"),
		ReturnDate: r.ReturnDate.UTC().Format("2006-01-02"),
		UserID:     r.UserID,
		User:       *toUserResponse(r.User),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  r.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
