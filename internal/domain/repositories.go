package domain

import (
	"context"
	"net/url"
)

// CatalogClient provides access to the remote movie catalog.
// Implementations inject the API credential and normalize failures into
// *UpstreamError or *TransportError. No retries, no caching.
type CatalogClient interface {
	// FetchTrending returns a page of trending movies for the window
	FetchTrending(ctx context.Context, window TimeWindow, page int) (Page, error)

	// Search returns a page of movies matching query; extra carries filter params
	Search(ctx context.Context, query string, page int, extra url.Values) (Page, error)

	// Discover returns a page of movies by popularity; extra carries filter params
	Discover(ctx context.Context, page int, extra url.Values) (Page, error)

	// FetchDetails joins details, credits and videos. Fails if any part fails.
	FetchDetails(ctx context.Context, id int) (*MovieDetail, error)

	// FetchGenres returns the genre reference list
	FetchGenres(ctx context.Context) ([]Genre, error)

	// FetchRecommendations returns movies recommended for id
	FetchRecommendations(ctx context.Context, id int, page int) (Page, error)
}
