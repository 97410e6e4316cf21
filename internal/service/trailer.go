package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// ErrNoTrailer is returned when a movie has no playable video
var ErrNoTrailer = errors.New("no trailer available")

// urlOpener abstracts opening a URL externally (consumer-defined interface)
type urlOpener interface {
	Open(url string) error
}

// TrailerService opens a movie's trailer in an external player or browser
type TrailerService struct {
	opener urlOpener
	logger *slog.Logger
}

// NewTrailerService creates a new trailer service
func NewTrailerService(opener urlOpener, logger *slog.Logger) *TrailerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrailerService{opener: opener, logger: logger}
}

// PlayTrailer opens the best trailer of detail
func (s *TrailerService) PlayTrailer(detail domain.MovieDetail) error {
	video, ok := detail.Trailer()
	if !ok {
		return ErrNoTrailer
	}

	link, err := TrailerURL(video)
	if err != nil {
		s.logger.Warn("unsupported trailer", "movieID", detail.ID, "site", video.Site)
		return err
	}

	s.logger.Info("opening trailer", "title", detail.Title, "movieID", detail.ID, "url", link)
	return s.opener.Open(link)
}

// TrailerURL returns the watch URL of a hosted video
func TrailerURL(video domain.Video) (string, error) {
	if video.Key == "" {
		return "", ErrNoTrailer
	}
	key := url.PathEscape(video.Key)

	switch strings.ToLower(video.Site) {
	case "youtube":
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(video.Key), nil
	case "vimeo":
		return "https://vimeo.com/" + key, nil
	}
	return "", fmt.Errorf("%w: unsupported video site %q", ErrNoTrailer, video.Site)
}
