package tmdb

import "strings"

// DefaultImageBaseURL is the TMDB image CDN root
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// Poster sizes
const (
	PosterSmall    = "w185"
	PosterMedium   = "w342"
	PosterLarge    = "w500"
	PosterOriginal = "original"
)

// Backdrop sizes
const (
	BackdropSmall    = "w300"
	BackdropMedium   = "w780"
	BackdropLarge    = "w1280"
	BackdropOriginal = "original"
)

// ImageURLs builds full image URLs from upstream image paths
type ImageURLs struct {
	baseURL string
}

// NewImageURLs creates a builder for the given CDN root
func NewImageURLs(baseURL string) ImageURLs {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return ImageURLs{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the full URL for path at size, or "" when path is empty
func (u ImageURLs) URL(size, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = PosterMedium
	}
	return u.baseURL + "/" + size + path
}
