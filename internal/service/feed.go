package service

import (
	"errors"
	"slices"

	"github.com/mmcdole/reel/internal/domain"
)

// ErrStaleResponse is returned when a response resolved after a newer request
// for the same feed was issued and was therefore not applied.
var ErrStaleResponse = errors.New("stale response discarded")

// FeedStatus is the fetch lifecycle state of a feed
type FeedStatus int

const (
	FeedIdle FeedStatus = iota
	FeedLoading
	FeedReady
	FeedFailed
)

func (s FeedStatus) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedReady:
		return "ready"
	case FeedFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Feed is a snapshot of a paginated result list
type Feed struct {
	Items        []domain.Movie
	Page         int
	TotalPages   int
	TotalResults int
	Status       FeedStatus
	Err          error // Last failure, cleared when a new request starts
}

// IsLoading returns true while a request for the feed is outstanding
func (f Feed) IsLoading() bool {
	return f.Status == FeedLoading
}

// HasMore returns true when a next page exists
func (f Feed) HasMore() bool {
	return f.Page < f.TotalPages
}

// IsEmpty returns true when the feed holds no items
func (f Feed) IsEmpty() bool {
	return len(f.Items) == 0
}

// HomeSource is the upstream operation backing the home feed
type HomeSource string

const (
	SourceTrending HomeSource = "trending"
	SourceDiscover HomeSource = "discover"
)

// HomeFeed is the trending/discover feed shown on the home screen
type HomeFeed struct {
	Feed
	Window  domain.TimeWindow
	Filters domain.FilterSet
	Source  HomeSource
}

// SearchFeed is the search results feed
type SearchFeed struct {
	Feed
	Query   string
	Filters domain.FilterSet
}

// DetailsSlot holds the currently selected movie
type DetailsSlot struct {
	Movie  *domain.MovieDetail
	Status FeedStatus
	Err    error
}

// IsLoading returns true while details are being fetched
func (d DetailsSlot) IsLoading() bool {
	return d.Status == FeedLoading
}

// feedRequest captures the parameters of a request at dispatch time
type feedRequest struct {
	seq     uint64
	page    int
	replace bool
}

// replaces reports whether the result of r overwrites the feed items
func (r feedRequest) replaces() bool {
	return r.replace || r.page <= 1
}

// sequencer issues monotonically increasing request numbers for one feed
type sequencer struct {
	issued uint64
}

func (s *sequencer) next() uint64 {
	s.issued++
	return s.issued
}

func (s *sequencer) isLatest(seq uint64) bool {
	return seq == s.issued
}

// begin moves the feed into loading
func (f *Feed) begin() {
	f.Status = FeedLoading
	f.Err = nil
}

// apply merges a fetched page into the feed according to the request's policy
func (f *Feed) apply(req feedRequest, page domain.Page) {
	if req.replaces() {
		f.Items = cloneMovies(page.Items)
	} else {
		f.Items = append(cloneMovies(f.Items), page.Items...)
	}

	f.Page = page.Page
	if f.Page == 0 {
		f.Page = req.page
	}
	f.TotalPages = page.TotalPages
	f.TotalResults = page.TotalResults
	f.Status = FeedReady
	f.Err = nil
}

// fail records err, keeping previously loaded items visible
func (f *Feed) fail(err error) {
	f.Status = FeedFailed
	f.Err = err
}

// snapshot returns a copy that shares no mutable state with f
func (f Feed) snapshot() Feed {
	f.Items = cloneMovies(f.Items)
	return f
}

func cloneMovies(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return nil
	}
	out := make([]domain.Movie, len(movies))
	for i, m := range movies {
		m.GenreIDs = slices.Clone(m.GenreIDs)
		out[i] = m
	}
	return out
}

func cloneDetail(d *domain.MovieDetail) *domain.MovieDetail {
	if d == nil {
		return nil
	}
	out := *d
	out.GenreIDs = slices.Clone(d.GenreIDs)
	out.Genres = slices.Clone(d.Genres)
	out.ProductionCompanies = slices.Clone(d.ProductionCompanies)
	out.ProductionCountries = slices.Clone(d.ProductionCountries)
	out.SpokenLanguages = slices.Clone(d.SpokenLanguages)
	out.Cast = slices.Clone(d.Cast)
	out.Videos = slices.Clone(d.Videos)
	return &out
}
