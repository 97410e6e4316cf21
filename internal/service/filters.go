package service

import (
	"net/url"
	"strconv"

	"github.com/mmcdole/reel/internal/domain"
)

// Upstream filter parameter names
const (
	paramGenres      = "with_genres"
	paramYear        = "year"
	paramReleaseYear = "primary_release_year"
	paramRatingGTE   = "vote_average_gte"
	paramRatingLTE   = "vote_average_lte"
)

// SearchParams translates filters into extra parameters for the search operation
func SearchParams(filters domain.FilterSet) url.Values {
	return filterParams(filters, paramYear)
}

// DiscoverParams translates filters into extra parameters for the discover operation
func DiscoverParams(filters domain.FilterSet) url.Values {
	return filterParams(filters, paramReleaseYear)
}

func filterParams(filters domain.FilterSet, yearKey string) url.Values {
	params := url.Values{}
	if filters.GenreID > 0 {
		params.Set(paramGenres, strconv.Itoa(filters.GenreID))
	}
	if filters.Year > 0 {
		params.Set(yearKey, strconv.Itoa(filters.Year))
	}
	// Unrestricted [0,10] sends no bounds
	if filters.HasRatingBound() {
		params.Set(paramRatingGTE, formatRating(filters.Rating.Min))
		params.Set(paramRatingLTE, formatRating(filters.Rating.Max))
	}
	return params
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
