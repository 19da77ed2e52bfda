// Package lookup contains the clients for the external collaborators: the
// OMDb movie-metadata API and the ViaCEP postal-code API.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// OMDbClient resolves movie metadata. All calls go through a circuit breaker
// so a flapping upstream cannot pile up rental creations.
type OMDbClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// NewOMDbClient builds a client against the given base URL (the production
// endpoint is https://www.omdbapi.com).
func NewOMDbClient(httpClient *http.Client, baseURL, apiKey string, log zerolog.Logger) *OMDbClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "omdb",
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures*10 >= counts.Requests*6
		},
	})
	return &OMDbClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		log:        log,
	}
}

type omdbMovie struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Type       string `json:"Type"`
	Poster     string `json:"Poster"`
	Plot       string `json:"Plot"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Genre      string `json:"Genre"`
	Runtime    string `json:"Runtime"`
	ImdbRating string `json:"imdbRating"`
}

type omdbDetailResponse struct {
	omdbMovie
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type omdbSearchResponse struct {
	Search       []omdbMovie `json:"Search"`
	TotalResults string      `json:"totalResults"`
	Response     string      `json:"Response"`
	Error        string      `json:"Error"`
}

// Search runs a title search. An empty upstream result is a valid empty
// page, not an error.
func (c *OMDbClient) Search(ctx context.Context, input ports.MovieSearchInput) (*ports.MovieSearchResult, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("s", input.Search)
	q.Set("type", "movie")
	q.Set("page", strconv.Itoa(page))
	if input.Year != "" {
		q.Set("y", input.Year)
	}

	var resp omdbSearchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}

	if resp.Response == "False" {
		return &ports.MovieSearchResult{}, nil
	}

	movies := make([]domain.Movie, 0, len(resp.Search))
	for _, m := range resp.Search {
		movies = append(movies, toDomainMovie(m))
	}

	total, _ := strconv.Atoi(resp.TotalResults)
	return &ports.MovieSearchResult{Movies: movies, Total: total}, nil
}

// MovieByID fetches full metadata for one external id.
func (c *OMDbClient) MovieByID(ctx context.Context, id string) (*domain.Movie, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("i", id)
	q.Set("plot", "full")

	var resp omdbDetailResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}

	if resp.Response == "False" {
		return nil, fmt.Errorf("omdb: movie %s: %s", id, resp.Error)
	}

	movie := toDomainMovie(resp.omdbMovie)
	return &movie, nil
}

// MoviesByIDs resolves a batch of ids. The batch is all-or-nothing: the
// first failure aborts and nothing is returned.
func (c *OMDbClient) MoviesByIDs(ctx context.Context, ids []string) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0, len(ids))
	for _, id := range ids {
		movie, err := c.MovieByID(ctx, id)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, nil
}

// get performs one breaker-guarded GET and decodes the JSON body into out.
func (c *OMDbClient) get(ctx context.Context, query url.Values, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("omdb: status %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("omdb request failed")
	}
	return err
}

func toDomainMovie(m omdbMovie) domain.Movie {
	return domain.Movie{
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
