package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

type feedResponse struct {
	Items        []domain.Movie `json:"items"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Status       string         `json:"status"`
	IsLoading    bool           `json:"is_loading"`
	HasMore      bool           `json:"has_more"`
	Error        string         `json:"error,omitempty"`
}

type homeResponse struct {
	feedResponse
	Window  domain.TimeWindow `json:"window"`
	Source  string            `json:"source"`
	Filters domain.FilterSet  `json:"filters"`
}

type searchResponse struct {
	feedResponse
	Query   string           `json:"query"`
	Filters domain.FilterSet `json:"filters"`
}

type detailsResponse struct {
	Movie     *domain.MovieDetail `json:"movie"`
	Status    string              `json:"status"`
	IsLoading bool                `json:"is_loading"`
	Favorite  bool                `json:"favorite"`
	Runtime   string              `json:"runtime_formatted,omitempty"`
	Poster    string              `json:"poster_url,omitempty"`
	Backdrop  string              `json:"backdrop_url,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type sessionResponse struct {
	Status          string       `json:"status"`
	IsAuthenticated bool         `json:"is_authenticated"`
	User            *domain.User `json:"user"`
	Error           string       `json:"error,omitempty"`
}

type errorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

func newFeedResponse(f service.Feed) feedResponse {
	items := f.Items
	if items == nil {
		items = []domain.Movie{}
	}
	return feedResponse{
		Items:        items,
		Page:         f.Page,
		TotalPages:   f.TotalPages,
		TotalResults: f.TotalResults,
		Status:       f.Status.String(),
		IsLoading:    f.IsLoading(),
		HasMore:      f.HasMore(),
		Error:        domain.DisplayMessage(f.Err),
	}
}

func newHomeResponse(h service.HomeFeed) homeResponse {
	return homeResponse{
		feedResponse: newFeedResponse(h.Feed),
		Window:       h.Window,
		Source:       string(h.Source),
		Filters:      h.Filters,
	}
}

func newSearchResponse(s service.SearchFeed) searchResponse {
	return searchResponse{
		feedResponse: newFeedResponse(s.Feed),
		Query:        s.Query,
		Filters:      s.Filters,
	}
}

func newSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		Status:          s.Status.String(),
		IsAuthenticated: s.IsAuthenticated(),
		User:            s.User,
		Error:           domain.DisplayMessage(s.Err),
	}
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		validation *domain.ValidationError
		upstream   *domain.UpstreamError
		transport  *domain.TransportError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &transport), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body
func (s *Server) respondError(c *gin.Context, err error) {
	resp := errorResponse{Error: domain.DisplayMessage(err)}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		resp.UpstreamStatus = upstream.StatusCode
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, resp)
}
