package tmdb

import (
	"github.com/mmcdole/reel/internal/domain"
)

// MapPage converts a paginated list response to a domain page
func MapPage(resp PagedResponse) domain.Page {
	return domain.Page{
		Items:        MapMovies(resp.Results),
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
}

// MapMovies converts list results to domain movies, preserving order
func MapMovies(results []MovieResult) []domain.Movie {
	movies := make([]domain.Movie, len(results))
	for i, r := range results {
		movies[i] = domain.Movie{
			ID:           r.ID,
			Title:        r.Title,
			PosterPath:   deref(r.PosterPath),
			BackdropPath: deref(r.BackdropPath),
			ReleaseDate:  deref(r.ReleaseDate),
			VoteAverage:  r.VoteAverage,
			VoteCount:    r.VoteCount,
			Overview:     r.Overview,
			GenreIDs:     r.GenreIDs,
		}
	}
	return movies
}

// MapGenres converts the genre list, preserving order
func MapGenres(dtos []GenreDTO) []domain.Genre {
	genres := make([]domain.Genre, len(dtos))
	for i, g := range dtos {
		genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return genres
}

// MapDetail joins the three detail payloads into one record
func MapDetail(details DetailsResponse, credits CreditsResponse, videos VideosResponse) *domain.MovieDetail {
	detail := &domain.MovieDetail{
		Movie: domain.Movie{
			ID:           details.ID,
			Title:        details.Title,
			PosterPath:   deref(details.PosterPath),
			BackdropPath: deref(details.BackdropPath),
			ReleaseDate:  deref(details.ReleaseDate),
			VoteAverage:  details.VoteAverage,
			VoteCount:    details.VoteCount,
			Overview:     deref(details.Overview),
		},
		Tagline: deref(details.Tagline),
		Budget:  details.Budget,
		Revenue: details.Revenue,
		Genres:  MapGenres(details.Genres),
	}
	if details.Runtime != nil {
		detail.Runtime = *details.Runtime
	}

	detail.ProductionCompanies = make([]domain.ProductionCompany, len(details.ProductionCompanies))
	for i, c := range details.ProductionCompanies {
		detail.ProductionCompanies[i] = domain.ProductionCompany{ID: c.ID, Name: c.Name, OriginCountry: c.OriginCountry}
	}

	detail.ProductionCountries = make([]domain.ProductionCountry, len(details.ProductionCountries))
	for i, c := range details.ProductionCountries {
		detail.ProductionCountries[i] = domain.ProductionCountry{Code: c.ISO31661, Name: c.Name}
	}

	detail.SpokenLanguages = make([]domain.SpokenLanguage, len(details.SpokenLanguages))
	for i, l := range details.SpokenLanguages {
		detail.SpokenLanguages[i] = domain.SpokenLanguage{Code: l.ISO6391, Name: l.Name, EnglishName: l.EnglishName}
	}

	// Cast arrives in billing order
	detail.Cast = make([]domain.CastMember, len(credits.Cast))
	for i, c := range credits.Cast {
		detail.Cast[i] = domain.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: deref(c.ProfilePath),
		}
	}

	detail.Videos = make([]domain.Video, len(videos.Results))
	for i, v := range videos.Results {
		detail.Videos[i] = domain.Video{Key: v.Key, Site: v.Site, Type: v.Type, Name: v.Name}
	}

	detail.GenreIDs = make([]int, len(detail.Genres))
	for i, g := range detail.Genres {
		detail.GenreIDs[i] = g.ID
	}

	return detail
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
