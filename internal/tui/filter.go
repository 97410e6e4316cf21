package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/sahilm/fuzzy"
)

// genreSource adapts a genre list for sahilm/fuzzy matching
type genreSource []domain.Genre

func (g genreSource) String(i int) string { return strings.ToLower(g[i].Name) }

func (g genreSource) Len() int { return len(g) }

// ParseFilterExpr parses a filter expression such as
//
//	genre:action year:2020 rating:3-8
//
// into a FilterSet. Genre names are matched fuzzily against genres; use dashes
// for names with spaces (genre:science-fiction). rating:7 means 7-10.
// An empty expression clears all filters.
func ParseFilterExpr(expr string, genres []domain.Genre) (domain.FilterSet, error) {
	var filters domain.FilterSet

	for _, token := range strings.Fields(expr) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			return domain.FilterSet{}, &domain.ValidationError{
				Field:   "filter",
				Message: fmt.Sprintf("expected key:value, got %q", token),
			}
		}

		var err error
		switch strings.ToLower(key) {
		case "genre", "g":
			filters.GenreID, err = resolveGenre(value, genres)
		case "year", "y":
			filters.Year, err = parseYear(value)
		case "rating", "r":
			filters.Rating, err = parseRating(value)
		default:
			err = &domain.ValidationError{Field: "filter", Message: fmt.Sprintf("unknown filter %q", key)}
		}
		if err != nil {
			return domain.FilterSet{}, err
		}
	}

	if err := filters.Validate(); err != nil {
		return domain.FilterSet{}, err
	}

	// A rating that spans the full range is no filter at all
	if filters.Rating != nil && !filters.HasRatingBound() {
		filters.Rating = nil
	}
	return filters, nil
}

// FormatFilterExpr renders filters back into expression form
func FormatFilterExpr(filters domain.FilterSet, genreName func(int) string) string {
	var parts []string
	if filters.GenreID > 0 {
		name := genreName(filters.GenreID)
		if name == "" {
			name = strconv.Itoa(filters.GenreID)
		}
		parts = append(parts, "genre:"+strings.ReplaceAll(strings.ToLower(name), " ", "-"))
	}
	if filters.Year > 0 {
		parts = append(parts, "year:"+strconv.Itoa(filters.Year))
	}
	if filters.HasRatingBound() {
		parts = append(parts, fmt.Sprintf("rating:%s-%s",
			strconv.FormatFloat(filters.Rating.Min, 'f', -1, 64),
			strconv.FormatFloat(filters.Rating.Max, 'f', -1, 64)))
	}
	return strings.Join(parts, " ")
}

// resolveGenre accepts a genre id or a (fuzzy) genre name
func resolveGenre(value string, genres []domain.Genre) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	if len(genres) == 0 {
		return 0, &domain.ValidationError{Field: "genre", Message: "genre list is not loaded yet"}
	}

	pattern := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(value))

	// Exact name wins over fuzzy ranking
	for _, g := range genres {
		if strings.ToLower(g.Name) == pattern {
			return g.ID, nil
		}
	}

	matches := fuzzy.FindFrom(pattern, genreSource(genres))
	if len(matches) == 0 {
		return 0, &domain.ValidationError{Field: "genre", Message: fmt.Sprintf("no genre matches %q", value)}
	}
	return genres[matches[0].Index].ID, nil
}

func parseYear(value string) (int, error) {
	year, err := strconv.Atoi(value)
	if err != nil || year < 1874 || year > 9999 {
		return 0, &domain.ValidationError{Field: "year", Message: fmt.Sprintf("invalid year %q", value)}
	}
	return year, nil
}

// parseRating accepts "min-max", "min" (up to 10) and "-max" (from 0)
func parseRating(value string) (*domain.RatingRange, error) {
	invalid := &domain.ValidationError{Field: "rating", Message: fmt.Sprintf("invalid rating %q, expected min-max within 0-10", value)}

	minStr, maxStr, ranged := strings.Cut(value, "-")
	r := domain.RatingRange{Min: domain.MinRating, Max: domain.MaxRating}

	if minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return nil, invalid
		}
		r.Min = v
	}
	if ranged && maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return nil, invalid
		}
		r.Max = v
	}

	if r.Min < domain.MinRating || r.Max > domain.MaxRating || r.Min > r.Max {
		return nil, invalid
	}
	return &r, nil
}
