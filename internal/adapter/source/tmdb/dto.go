package tmdb

// PagedResponse is a paginated movie list (trending, search, discover, recommendations)
type PagedResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie entry of a list response.
// Nullable upstream fields decode to their zero value.
type MovieResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  *string `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

// DetailsResponse is the /movie/{id} payload
type DetailsResponse struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	Overview            *string             `json:"overview"`
	Tagline             *string             `json:"tagline"`
	PosterPath          *string             `json:"poster_path"`
	BackdropPath        *string             `json:"backdrop_path"`
	ReleaseDate         *string             `json:"release_date"`
	Runtime             *int                `json:"runtime"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Genres              []GenreDTO          `json:"genres"`
	ProductionCompanies []CompanyDTO        `json:"production_companies"`
	ProductionCountries []CountryDTO        `json:"production_countries"`
	SpokenLanguages     []SpokenLanguageDTO `json:"spoken_languages"`
}

type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CompanyDTO struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

type CountryDTO struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

type SpokenLanguageDTO struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CreditsResponse is the /movie/{id}/credits payload
type CreditsResponse struct {
	ID   int       `json:"id"`
	Cast []CastDTO `json:"cast"`
}

type CastDTO struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// VideosResponse is the /movie/{id}/videos payload
type VideosResponse struct {
	ID      int        `json:"id"`
	Results []VideoDTO `json:"results"`
}

type VideoDTO struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// GenresResponse is the /genre/movie/list payload
type GenresResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// ErrorResponse is the error body returned with 4xx/5xx statuses.
// Both shapes occur upstream: {status_code, status_message} and {errors: [...]}.
type ErrorResponse struct {
	Success       *bool    `json:"success"`
	StatusCode    int      `json:"status_code"`
	StatusMessage string   `json:"status_message"`
	Errors        []string `json:"errors"`
}
