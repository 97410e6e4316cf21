package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/reel/internal/adapter/source/tmdb"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

type trendingRequest struct {
	Window  domain.TimeWindow `json:"window"`
	Page    int               `json:"page"`
	Replace bool              `json:"replace"`
}

type discoverRequest struct {
	Filters domain.FilterSet `json:"filters"`
	Page    int              `json:"page"`
	Replace bool             `json:"replace"`
}

type searchRequest struct {
	Query   string           `json:"query"`
	Page    int              `json:"page"`
	Filters domain.FilterSet `json:"filters"`
	Replace bool             `json:"replace"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type themeRequest struct {
	Mode domain.ThemeMode `json:"mode"`
}

// bindOptional decodes a JSON body if one was sent
func bindOptional(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return &domain.ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: "movie id must be a positive integer"}
	}
	return id, nil
}

// feedResult finishes a feed intent. A superseded response is not an error
// for the caller; the current snapshot already reflects the newer request.
func (s *Server) feedResult(c *gin.Context, err error, snapshot func() any) {
	if err != nil && !errors.Is(err, service.ErrStaleResponse) {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot())
}

// === Home ===

func (s *Server) homeSnapshot() any {
	return newHomeResponse(s.catalog.Home())
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, s.homeSnapshot())
}

func (s *Server) handleTrending(c *gin.Context) {
	req := trendingRequest{Page: 1}
	if err := bindOptional(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	if req.Window == "" {
		req.Window = s.catalog.Home().Window
	}
	if req.Page == 0 {
		req.Page = 1
	}

	err := s.catalog.FetchTrending(c.Request.Context(), req.Window, req.Page, req.Replace)
	s.feedResult(c, err, s.homeSnapshot)
}

func (s *Server) handleDiscover(c *gin.Context) {
	req := discoverRequest{Page: 1}
	if err := bindOptional(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	err := s.catalog.FetchDiscover(c.Request.Context(), req.Filters, req.Page, req.Replace)
	s.feedResult(c, err, s.homeSnapshot)
}

func (s *Server) handleHomeMore(c *gin.Context) {
	err := s.catalog.LoadMoreHome(c.Request.Context())
	s.feedResult(c, err, s.homeSnapshot)
}

// === Search ===

func (s *Server) searchSnapshot() any {
	return newSearchResponse(s.catalog.SearchFeed())
}

func (s *Server) handleSearchFeed(c *gin.Context) {
	c.JSON(http.StatusOK, s.searchSnapshot())
}

func (s *Server) handleSearch(c *gin.Context) {
	req := searchRequest{Page: 1}
	if err := bindOptional(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	err := s.catalog.Search(c.Request.Context(), req.Query, req.Page, req.Filters, req.Replace)
	s.feedResult(c, err, s.searchSnapshot)
}

func (s *Server) handleSearchMore(c *gin.Context) {
	err := s.catalog.LoadMoreSearch(c.Request.Context())
	s.feedResult(c, err, s.searchSnapshot)
}

// === Movies ===

func (s *Server) handleDetails(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	err = s.catalog.FetchDetails(c.Request.Context(), id)
	s.feedResult(c, err, func() any {
		details := s.catalog.Details()
		resp := detailsResponse{
			Movie:     details.Movie,
			Status:    details.Status.String(),
			IsLoading: details.IsLoading(),
			Error:     domain.DisplayMessage(details.Err),
		}
		if details.Movie != nil {
			resp.Favorite = s.catalog.IsFavorite(details.Movie.ID)
			resp.Runtime = details.Movie.FormattedRuntime()
			resp.Poster = s.images.URL(tmdb.PosterLarge, details.Movie.PosterPath)
			resp.Backdrop = s.images.URL(tmdb.BackdropLarge, details.Movie.BackdropPath)
		}
		return resp
	})
}

func (s *Server) handleRecommendations(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		s.respondError(c, &domain.ValidationError{Field: "page", Message: "page must be an integer"})
		return
	}

	result, err := s.catalog.Recommendations(c.Request.Context(), id, page)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if result.Items == nil {
		result.Items = []domain.Movie{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenres(c *gin.Context) {
	if err := s.catalog.EnsureGenres(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": s.catalog.Genres()})
}

// === Favorites ===

func (s *Server) handleFavorites(c *gin.Context) {
	favorites := s.catalog.FilterFavorites(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	var movie domain.Movie
	if err := c.ShouldBindJSON(&movie); err != nil {
		s.respondError(c, &domain.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if movie.ID <= 0 {
		s.respondError(c, &domain.ValidationError{Field: "id", Message: "movie id must be a positive integer"})
		return
	}

	status := http.StatusOK
	if s.catalog.AddFavorite(movie) {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"favorites": s.catalog.Favorites()})
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !s.catalog.RemoveFavorite(id) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "movie is not a favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

// === Session ===

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, newSessionResponse(s.session.Session()))
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := bindOptional(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	if _, err := s.session.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s.session.Session()))
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.session.Logout(); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s.session.Session()))
}

// === Theme ===

func (s *Server) handleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": s.prefs.Mode()})
}

func (s *Server) handleToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": s.prefs.Toggle()})
}

func (s *Server) handleSetTheme(c *gin.Context) {
	var req themeRequest
	if err := bindOptional(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.prefs.Set(req.Mode); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": s.prefs.Mode()})
}
