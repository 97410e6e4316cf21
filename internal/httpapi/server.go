// Package httpapi exposes the catalog, session and theme stores as a JSON API
// for a browser front end.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/reel/internal/adapter/source/tmdb"
	"github.com/mmcdole/reel/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the stores
type Server struct {
	catalog *service.CatalogService
	session *service.SessionService
	prefs   *service.PreferenceService
	images  tmdb.ImageURLs
	logger  *slog.Logger
	engine  *gin.Engine
}

// NewServer creates a server and registers its routes
func NewServer(
	catalog *service.CatalogService,
	session *service.SessionService,
	prefs *service.PreferenceService,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		catalog: catalog,
		session: session,
		prefs:   prefs,
		images:  tmdb.NewImageURLs(""),
		logger:  logger,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger(logger), cors())
	s.registerRoutes()
	return s
}

// WithImageBaseURL sets the CDN root used for poster and backdrop URLs
func (s *Server) WithImageBaseURL(baseURL string) *Server {
	s.images = tmdb.NewImageURLs(baseURL)
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	home := api.Group("/home")
	home.GET("", s.handleHome)
	home.POST("/trending", s.handleTrending)
	home.POST("/discover", s.handleDiscover)
	home.POST("/more", s.handleHomeMore)

	search := api.Group("/search")
	search.GET("", s.handleSearchFeed)
	search.POST("", s.handleSearch)
	search.POST("/more", s.handleSearchMore)

	api.GET("/movies/:id", s.handleDetails)
	api.GET("/movies/:id/recommendations", s.handleRecommendations)
	api.GET("/genres", s.handleGenres)

	favorites := api.Group("/favorites", s.requireLogin())
	favorites.GET("", s.handleFavorites)
	favorites.POST("", s.handleAddFavorite)
	favorites.DELETE("/:id", s.handleRemoveFavorite)

	session := api.Group("/session")
	session.GET("", s.handleSession)
	session.POST("/login", s.handleLogin)
	session.POST("/logout", s.handleLogout)

	theme := api.Group("/theme")
	theme.GET("", s.handleTheme)
	theme.POST("/toggle", s.handleToggleTheme)
	theme.PUT("", s.handleSetTheme)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
