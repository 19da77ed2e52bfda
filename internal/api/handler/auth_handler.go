package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/api/metrics"
	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// AuthHandler exposes the login session over HTTP.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Document string `json:"document" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	Token         string        `json:"token,omitempty"`
	User          *userResponse `json:"user,omitempty"`
}

// Login authenticates an operator by document and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Document, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Token:         token,
		User:          toUserResponse(*user),
	})
}

// Logout drops the session. Calling it while anonymous is fine.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
}

// Session reports the current session state.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	user := h.auth.CurrentUser()
	resp := sessionResponse{Authenticated: h.auth.IsAuthenticated()}
	if resp.Authenticated && user != nil {
		resp.User = toUserResponse(*user)
		resp.Token = h.auth.Token()
	}
	return c.JSON(http.StatusOK, resp)
}

// userResponse is the wire shape of a user; the password hash never leaves
// the service.
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(u domain.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Document:  u.Document,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: u.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
