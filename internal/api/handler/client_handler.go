package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// ClientHandler exposes the client collection over HTTP.
type ClientHandler struct {
	clients ports.ClientService
	audit   ports.AuditRecorder
}

func NewClientHandler(clients ports.ClientService, audit ports.AuditRecorder) *ClientHandler {
	return &ClientHandler{clients: clients, audit: audit}
}

type addressRequest struct {
	ZipCode      string `json:"zip_code" validate:"required"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type createClientRequest struct {
	Name     string         `json:"name" validate:"required"`
	LastName string         `json:"last_name" validate:"required"`
	CPF      string         `json:"cpf" validate:"required,min=11"`
	Email    string         `json:"email" validate:"required,email"`
	Phone    string         `json:"phone"`
	Address  addressRequest `json:"address" validate:"required"`
	Status   string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

type updateClientRequest struct {
	Name     *string         `json:"name"`
	LastName *string         `json:"last_name"`
	CPF      *string         `json:"cpf"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Phone    *string         `json:"phone"`
	Address  *addressRequest `json:"address"`
	Status   *string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

type addressResponse struct {
	ZipCode      string `json:"zip_code"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type clientResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	LastName  string          `json:"last_name"`
	CPF       string          `json:"cpf"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   addressResponse `json:"address"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type listClientsResponse struct {
	Items []clientResponse `json:"items"`
	Total int              `json:"total"`
}

// List handles GET /v1/clients with optional search, document and status
// filters.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Substring match on name or CPF"
// @Param        document  query     string  false  "CPF substring filter"
// @Param        status    query     string  false  "Exact status filter (active/inactive)"
// @Success      200       {object}  listClientsResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients := h.clients.List(ports.ClientFilter{
		Search:   c.QueryParam("search"),
		Document: c.QueryParam("document"),
		Status:   domain.Status(c.QueryParam("status")),
	})

	items := make([]clientResponse, 0, len(clients))
	for _, cl := range clients {
		items = append(items, toClientResponse(cl))
	}
	return c.JSON(http.StatusOK, listClientsResponse{Items: items, Total: len(items)})
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, ok := h.clients.GetByID(c.Param("id"))
	if !ok {
		return domain.ErrClientNotFound
	}
	return c.JSON(http.StatusOK, toClientResponse(*client))
}

// Create handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
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

	client, err := h.clients.Create(c.Request().Context(), ports.CreateClientInput{
		Name:     req.Name,
		LastName: req.LastName,
		CPF:      req.CPF,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  toDomainAddress(req.Address),
		Status:   status,
	})
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "client", Action: "create", EntityID: client.ID})
	return c.JSON(http.StatusCreated, toClientResponse(*client))
}

// Update handles PUT /v1/clients/:id with a partial body.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  clientResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateClientInput{
		Name:     req.Name,
		LastName: req.LastName,
		CPF:      req.CPF,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.Address != nil {
		address := toDomainAddress(*req.Address)
		input.Address = &address
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		input.Status = &status
	}

	client, err := h.clients.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "client", Action: "update", EntityID: client.ID})
	return c.JSON(http.StatusOK, toClientResponse(*client))
}

// Delete handles DELETE /v1/clients/:id (soft delete). Clients with an open
// rental cannot be deactivated.
//
// @Summary      Deactivate a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Client id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.clients.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.audit.Record(ports.AuditEvent{Entity: "client", Action: "delete", EntityID: id})
	return c.NoContent(http.StatusNoContent)
}

func toDomainAddress(a addressRequest) domain.Address {
	return domain.Address{
		ZipCode:      a.ZipCode,
		Street:       a.Street,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

func toClientResponse(cl domain.Client) clientResponse {
	return clientResponse{
		ID:       cl.ID,
		Name:     cl.Name,
		LastName: cl.LastName,
		CPF:      cl.CPF,
		Email:    cl.Email,
		Phone:    cl.Phone,
		Address: addressResponse{
			ZipCode:      cl.Address.ZipCode,
			Street:       cl.Address.Street,
			Neighborhood: cl.Address.Neighborhood,
			City:         cl.Address.City,
			State:        cl.Address.State,
		},
		Status:    string(cl.Status),
		CreatedAt: cl.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: cl.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
