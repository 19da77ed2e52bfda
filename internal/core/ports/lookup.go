package ports

import (
	"context"

	"github.com/locadora/rental-system/internal/core/domain"
)

// MovieSearchInput carries the parameters for a title search against the
// external movie-metadata service.
type MovieSearchInput struct {
	Search string
	Year   string
	Page   int
}

// MovieSearchResult is one page of search matches.
type MovieSearchResult struct {
	Movies []domain.Movie
	Total  int
}

// MovieLookup is the external movie-metadata collaborator. MoviesByIDs is
// all-or-nothing: if any id fails to resolve, the whole call fails and no
// partial result is returned.
type MovieLookup interface {
	Search(ctx context.Context, input MovieSearchInput) (*MovieSearchResult, error)
	MoviesByIDs(ctx context.Context, ids []string) ([]domain.Movie, error)
}

// PostalLookup resolves a postal code into an address. It fails closed: any
// transport error or unknown code yields (nil, nil), never an error.
type PostalLookup interface {
	AddressByZipCode(ctx context.Context, zipCode string) (*domain.Address, error)
}
