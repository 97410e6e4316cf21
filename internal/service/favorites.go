package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// AddFavorite appends movie to favorites unless its id is already present.
// It reports whether the set changed.
func (s *CatalogService) AddFavorite(movie domain.Movie) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfMovie(s.favorites, movie.ID) >= 0 {
		return false
	}

	s.favorites = append(s.favorites, movie)
	s.persistFavoritesLocked()
	s.logger.Info("added favorite", "movieID", movie.ID, "title", movie.Title)
	return true
}

// RemoveFavorite removes the movie with id from favorites.
// It reports whether the set changed.
func (s *CatalogService) RemoveFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfMovie(s.favorites, id)
	if idx < 0 {
		return false
	}

	favorites := make([]domain.Movie, 0, len(s.favorites)-1)
	favorites = append(favorites, s.favorites[:idx]...)
	favorites = append(favorites, s.favorites[idx+1:]...)
	s.favorites = favorites
	s.persistFavoritesLocked()
	s.logger.Info("removed favorite", "movieID", id)
	return true
}

// IsFavorite returns true when id is in favorites
func (s *CatalogService) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfMovie(s.favorites, id) >= 0
}

// Favorites returns the favorites in insertion order
func (s *CatalogService) Favorites() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Movie, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// FilterFavorites returns favorites whose titles fuzzy-match query, best match
// first. Ties keep insertion order. An empty query returns all favorites.
func (s *CatalogService) FilterFavorites(query string) []domain.Movie {
	favorites := s.Favorites()

	query = strings.TrimSpace(query)
	if query == "" {
		return favorites
	}

	titles := make([]string, len(favorites))
	for i, m := range favorites {
		titles[i] = m.Title
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Stable(matches)

	results := make([]domain.Movie, 0, len(matches))
	for _, match := range matches {
		results = append(results, favorites[match.OriginalIndex])
	}
	return results
}

// persistFavoritesLocked writes the whole set through. Caller holds s.mu.
func (s *CatalogService) persistFavoritesLocked() {
	if err := s.storage.SaveFavorites(s.favorites); err != nil {
		s.logger.Error("failed to save favorites", "error", err)
	}
}

func indexOfMovie(movies []domain.Movie, id int) int {
	for i, m := range movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// dedupeMovies drops repeated ids, keeping the first occurrence
func dedupeMovies(movies []domain.Movie) []domain.Movie {
	seen := make(map[int]bool, len(movies))
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
