package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// UserHandler exposes the user collection over HTTP.
type UserHandler struct {
	users ports.UserService
	audit ports.AuditRecorder
}

func NewUserHandler(users ports.UserService, audit ports.AuditRecorder) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required,min=5"`
	Password string `json:"password" validate:"required,min=6"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Password *string `json:"password"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type listUsersResponse struct {
	Items []userResponse `json:"items"`
	Total int            `json:"total"`
}

// List handles GET /v1/users with optional search and status filters.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Substring match on name or document"
// @Param        status  query     string  false  "Exact status filter (active/inactive)"
// @Success      200     {object}  listUsersResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users := h.users.List(ports.UserFilter{
		Search: c.QueryParam("search"),
		Status: domain.Status(c.QueryParam("status")),
	})

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserResponse(u))
	}
	return c.JSON(http.StatusOK, listUsersResponse{Items: items, Total: len(items)})
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, ok := h.users.GetByID(c.Param("id"))
	if !ok {
		return domain.ErrUserNotFound
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := domain.Status(req.Status)
	if status == "" {
		status = domain.StatusActive
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Document: req.Document,
		Password: req.Password,
		Status:   status,
	})
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "user", Action: "create", EntityID: user.ID})
	return c.JSON(http.StatusCreated, toUserResponse(*user))
}

// Update handles PUT /v1/users/:id with a partial body.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		Name:     req.Name,
		Document: req.Document,
		Password: req.Password,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		input.Status = &status
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "user", Action: "update", EntityID: user.ID})
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// Delete handles DELETE /v1/users/:id (soft delete).
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "user", Action: "delete", EntityID: id})
	return c.NoContent(http.StatusNoContent)
}
