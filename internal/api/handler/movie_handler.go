package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/ports"
)

// MovieHandler proxies title searches to the external movie-metadata service.
type MovieHandler struct {
	movies ports.MovieLookup
}

func NewMovieHandler(movies ports.MovieLookup) *MovieHandler {
	return &MovieHandler{movies: movies}
}

type listMoviesResponse struct {
	Items []movieResponse `json:"items"`
	Total int             `json:"total"`
}

// Search handles GET /v1/movies?search=&year=&page=.
//
// @Summary      Search movies by title
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  true   "Title to search for"
// @Param        year    query     string  false  "Release year filter"
// @Param        page    query     int     false  "Result page, starting at 1"
// @Success      200     {object}  listMoviesResponse
// @Failure      400     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /v1/movies [get]
func (h *MovieHandler) Search(c echo.Context) error {
	search := c.QueryParam("search")
	if search == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search is required")
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		page = p
	}

	result, err := h.movies.Search(c.Request().Context(), ports.MovieSearchInput{
		Search: search,
		Year:   c.QueryParam("year"),
		Page:   page,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "movie service unavailable")
	}

	items := make([]movieResponse, 0, len(result.Movies))
	for _, m := range result.Movies {
		items = append(items, toMovieResponse(m))
	}
	return c.JSON(http.StatusOK, listMoviesResponse{Items: items, Total: result.Total})
}
