package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// discoverSort is the fixed ordering of the discover feed
	discoverSort = "popularity.desc"
)

// Client implements domain.CatalogClient for TMDB
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new TMDB API client. A zero timeout disables the request deadline.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs a GET with the API key injected and decodes the body into dest.
// Failures are normalized into *domain.TransportError or *domain.UpstreamError.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, dest interface{}) error {
	params := url.Values{}
	for k, v := range query {
		params[k] = v
	}
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "path", path, "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := parseError(resp.StatusCode, body)
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "message", upstreamErr.Message)
		return upstreamErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("tmdb response malformed", "path", path, "error", err)
		return &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}

	return nil
}

// parseError extracts the upstream message from an error body
func parseError(status int, body []byte) *domain.UpstreamError {
	upstreamErr := &domain.UpstreamError{StatusCode: status}

	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		upstreamErr.Code = payload.StatusCode
		switch {
		case payload.StatusMessage != "":
			upstreamErr.Message = payload.StatusMessage
		case len(payload.Errors) > 0:
			upstreamErr.Message = payload.Errors[0]
		}
	}

	if upstreamErr.Message == "" {
		upstreamErr.Message = http.StatusText(status)
	}
	return upstreamErr
}

// FetchTrending returns trending movies for the given window
func (c *Client) FetchTrending(ctx context.Context, window domain.TimeWindow, page int) (domain.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var resp PagedResponse
	if err := c.doRequest(ctx, "/trending/movie/"+url.PathEscape(string(window)), query, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapPage(resp), nil
}

// Search returns movies matching query, with filter params layered on top
func (c *Client) Search(ctx context.Context, query string, page int, extra url.Values) (domain.Page, error) {
	params := cloneValues(extra)
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp PagedResponse
	if err := c.doRequest(ctx, "/search/movie", params, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapPage(resp), nil
}

// Discover returns movies by popularity, constrained by filter params
func (c *Client) Discover(ctx context.Context, page int, extra url.Values) (domain.Page, error) {
	params := cloneValues(extra)
	params.Set("sort_by", discoverSort)
	params.Set("page", strconv.Itoa(page))

	var resp PagedResponse
	if err := c.doRequest(ctx, "/discover/movie", params, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapPage(resp), nil
}

// FetchDetails fetches details, credits and videos concurrently and joins them.
// The first failure cancels the other calls and fails the whole operation.
func (c *Client) FetchDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	var (
		details DetailsResponse
		credits CreditsResponse
		videos  VideosResponse
	)
	base := "/movie/" + strconv.Itoa(id)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.doRequest(gctx, base, nil, &details)
	})
	g.Go(func() error {
		return c.doRequest(gctx, base+"/credits", nil, &credits)
	})
	g.Go(func() error {
		return c.doRequest(gctx, base+"/videos", nil, &videos)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MapDetail(details, credits, videos), nil
}

// FetchGenres returns the movie genre reference list
func (c *Client) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	var resp GenresResponse
	if err := c.doRequest(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// FetchRecommendations returns movies recommended for the given movie
func (c *Client) FetchRecommendations(ctx context.Context, id int, page int) (domain.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var resp PagedResponse
	if err := c.doRequest(ctx, "/movie/"+strconv.Itoa(id)+"/recommendations", query, &resp); err != nil {
		return domain.Page{}, err
	}
	return MapPage(resp), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+2)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
