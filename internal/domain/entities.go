package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSize is the number of items the catalog returns per page
const PageSize = 20

// Movie is the summary form of a movie used in feeds and favorites.
// JSON tags follow the upstream shape so persisted favorites stay readable.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`   // Empty when the movie has no poster
	BackdropPath string  `json:"backdrop_path,omitempty"` // Empty when the movie has no backdrop
	ReleaseDate  string  `json:"release_date,omitempty"`  // YYYY-MM-DD, empty when unknown
	VoteAverage  float64 `json:"vote_average"`            // 0-10
	VoteCount    int     `json:"vote_count"`
	Overview     string  `json:"overview,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// Year returns the release year (0 if unknown)
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// FormattedRating returns the vote average with one decimal
func (m Movie) FormattedRating() string {
	return strconv.FormatFloat(m.VoteAverage, 'f', 1, 64)
}

// Genre is an entry of the upstream genre reference list
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a credited actor, in billing order
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Video is a trailer, teaser or clip hosted on an external site
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"` // "YouTube", "Vimeo"
	Type string `json:"type"` // "Trailer", "Teaser", "Clip", ...
	Name string `json:"name,omitempty"`
}

type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country,omitempty"`
}

type ProductionCountry struct {
	Code string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type SpokenLanguage struct {
	Code        string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name,omitempty"`
}

// MovieDetail is the joined details + credits + videos record
type MovieDetail struct {
	Movie

	Tagline             string              `json:"tagline,omitempty"`
	Runtime             int                 `json:"runtime,omitempty"` // Minutes, 0 when unknown
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Cast                []CastMember        `json:"cast"`
	Videos              []Video             `json:"videos"`
}

// Summary returns the summary form stored in favorites
func (d MovieDetail) Summary() Movie {
	m := d.Movie
	m.GenreIDs = make([]int, len(d.Genres))
	for i, g := range d.Genres {
		m.GenreIDs[i] = g.ID
	}
	return m
}

// Trailer returns the first YouTube trailer, falling back to the first video
func (d MovieDetail) Trailer() (Video, bool) {
	for _, v := range d.Videos {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v, true
		}
	}
	if len(d.Videos) > 0 {
		return d.Videos[0], true
	}
	return Video{}, false
}

// FormattedRuntime returns the runtime as "2h 46m"
func (d MovieDetail) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", d.Runtime/60, d.Runtime%60)
}

// GenreNames returns the genre names joined by ", "
func (d MovieDetail) GenreNames() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// Page is one page of a paginated movie listing
type Page struct {
	Items        []Movie `json:"items"`
	Page         int     `json:"page"` // 1-based
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// TimeWindow selects the trending period
type TimeWindow string

const (
	TimeWindowDay  TimeWindow = "day"
	TimeWindowWeek TimeWindow = "week"
)

// ParseTimeWindow validates a trending window name
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(strings.ToLower(strings.TrimSpace(s))) {
	case TimeWindowDay:
		return TimeWindowDay, nil
	case TimeWindowWeek:
		return TimeWindowWeek, nil
	}
	return "", &ValidationError{Field: "window", Message: fmt.Sprintf("unknown time window %q", s)}
}

// Rating bounds of the upstream vote average scale
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// RatingRange is an inclusive vote average range
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterSet holds the user-chosen discovery constraints.
// Zero values mean "any".
type FilterSet struct {
	GenreID int          `json:"genre_id,omitempty"`
	Year    int          `json:"year,omitempty"`
	Rating  *RatingRange `json:"rating,omitempty"`
}

// HasRatingBound reports whether the rating range narrows the full [0,10] span
func (f FilterSet) HasRatingBound() bool {
	return f.Rating != nil && (f.Rating.Min > MinRating || f.Rating.Max < MaxRating)
}

// IsEmpty reports whether the set constrains nothing
func (f FilterSet) IsEmpty() bool {
	return f.GenreID == 0 && f.Year == 0 && !f.HasRatingBound()
}

// Validate checks the rating range and year
func (f FilterSet) Validate() error {
	if f.Year < 0 {
		return &ValidationError{Field: "year", Message: "year must be positive"}
	}
	if f.GenreID < 0 {
		return &ValidationError{Field: "genre", Message: "genre id must be positive"}
	}
	if r := f.Rating; r != nil {
		if r.Min < MinRating || r.Max > MaxRating || r.Min > r.Max {
			return &ValidationError{Field: "rating", Message: "rating range must satisfy 0 <= min <= max <= 10"}
		}
	}
	return nil
}

// User is the mock session user
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"name"`
}

// SessionStatus is the authentication state
type SessionStatus int

const (
	SessionAnonymous SessionStatus = iota
	SessionAuthenticating
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionAuthenticating:
		return "authenticating"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session is a snapshot of the authentication state
type Session struct {
	Status SessionStatus
	User   *User
	Err    error // Last login failure, nil otherwise
}

// IsAuthenticated returns true when a user is logged in. A signed-in user
// stays logged in while a new login is pending.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Status != SessionAnonymous
}

// ThemeMode is the light/dark presentation flag
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode validates a theme mode name
func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown theme mode %q", s)}
}

// Opposite returns the other mode
func (m ThemeMode) Opposite() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
