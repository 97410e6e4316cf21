package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// CatalogOptions tunes the catalog service
type CatalogOptions struct {
	// DiscardStale drops responses superseded by a newer request for the same feed.
	// When false the last response to resolve wins.
	DiscardStale bool

	// DefaultWindow is the trending window used before the user picks one
	DefaultWindow domain.TimeWindow
}

// DefaultCatalogOptions returns the options used when none are configured
func DefaultCatalogOptions() CatalogOptions {
	return CatalogOptions{
		DiscardStale:  true,
		DefaultWindow: domain.TimeWindowDay,
	}
}

// CatalogService owns the home, search and details feeds, the genre list,
// favorites and the remembered last search.
type CatalogService struct {
	client  domain.CatalogClient
	storage domain.CatalogStorage
	logger  *slog.Logger
	opts    CatalogOptions

	mu         sync.Mutex // Held for state transitions only, never across network calls
	home       HomeFeed
	homeSeq    sequencer
	search     SearchFeed
	searchSeq  sequencer
	details    DetailsSlot
	detailsSeq sequencer
	genres     []domain.Genre
	favorites  []domain.Movie
	lastSearch string
}

// NewCatalogService creates a catalog service and restores favorites and the
// last search from storage.
func NewCatalogService(
	client domain.CatalogClient,
	storage domain.CatalogStorage,
	opts CatalogOptions,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := domain.ParseTimeWindow(string(opts.DefaultWindow)); err != nil {
		opts.DefaultWindow = domain.TimeWindowDay
	}

	s := &CatalogService{
		client:  client,
		storage: storage,
		logger:  logger,
		opts:    opts,
		home: HomeFeed{
			Window: opts.DefaultWindow,
			Source: SourceTrending,
		},
	}

	if favorites, ok := storage.LoadFavorites(); ok {
		s.favorites = dedupeMovies(favorites)
	}
	if query, ok := storage.LoadLastSearch(); ok {
		s.lastSearch = query
	}
	s.logger.Debug("catalog restored", "favorites", len(s.favorites), "lastSearch", s.lastSearch)

	return s
}

// === Home feed ===

// FetchTrending loads a page of trending movies into the home feed
func (s *CatalogService) FetchTrending(ctx context.Context, window domain.TimeWindow, page int, replace bool) error {
	window, err := domain.ParseTimeWindow(string(window))
	if err != nil {
		return err
	}
	if err := validatePage(page); err != nil {
		return err
	}

	return s.runHome(ctx, page, replace,
		func(h *HomeFeed) {
			h.Window = window
			h.Filters = domain.FilterSet{}
			h.Source = SourceTrending
		},
		func(ctx context.Context) (domain.Page, error) {
			return s.client.FetchTrending(ctx, window, page)
		},
	)
}

// FetchDiscover loads a page of popular movies matching filters into the home feed
func (s *CatalogService) FetchDiscover(ctx context.Context, filters domain.FilterSet, page int, replace bool) error {
	if err := filters.Validate(); err != nil {
		return err
	}
	if err := validatePage(page); err != nil {
		return err
	}

	params := DiscoverParams(filters)
	return s.runHome(ctx, page, replace,
		func(h *HomeFeed) {
			h.Filters = filters
			h.Source = SourceDiscover
		},
		func(ctx context.Context) (domain.Page, error) {
			return s.client.Discover(ctx, page, params)
		},
	)
}

// LoadHome fetches the first trending page when the home feed is empty
func (s *CatalogService) LoadHome(ctx context.Context) error {
	s.mu.Lock()
	skip := !s.home.IsEmpty() || s.home.IsLoading()
	window := s.home.Window
	s.mu.Unlock()

	if skip {
		return nil
	}
	return s.FetchTrending(ctx, window, 1, true)
}

// SetTimeWindow switches the trending window, dropping any active filters
func (s *CatalogService) SetTimeWindow(ctx context.Context, window domain.TimeWindow) error {
	return s.FetchTrending(ctx, window, 1, true)
}

// ApplyHomeFilters reloads the home feed for filters. An empty set returns to trending.
func (s *CatalogService) ApplyHomeFilters(ctx context.Context, filters domain.FilterSet) error {
	if filters.IsEmpty() {
		s.mu.Lock()
		window := s.home.Window
		s.mu.Unlock()
		return s.FetchTrending(ctx, window, 1, true)
	}
	return s.FetchDiscover(ctx, filters, 1, true)
}

// LoadMoreHome appends the next page of the home feed. It does nothing while a
// request is outstanding or when the last page is loaded.
func (s *CatalogService) LoadMoreHome(ctx context.Context) error {
	s.mu.Lock()
	home := s.home
	s.mu.Unlock()

	if home.IsLoading() || !home.HasMore() {
		return nil
	}
	return s.fetchHomePage(ctx, home, home.Page+1, false)
}

// GoToHomePage replaces the home feed with the given page
func (s *CatalogService) GoToHomePage(ctx context.Context, page int) error {
	s.mu.Lock()
	home := s.home
	s.mu.Unlock()

	if err := validatePageWithin(page, home.TotalPages); err != nil {
		return err
	}
	return s.fetchHomePage(ctx, home, page, true)
}

func (s *CatalogService) fetchHomePage(ctx context.Context, home HomeFeed, page int, replace bool) error {
	if home.Source == SourceDiscover && !home.Filters.IsEmpty() {
		return s.FetchDiscover(ctx, home.Filters, page, replace)
	}
	return s.FetchTrending(ctx, home.Window, page, replace)
}

// runHome drives one home feed request through its lifecycle. intent is
// committed together with the page it produced.
func (s *CatalogService) runHome(
	ctx context.Context,
	page int,
	replace bool,
	intent func(*HomeFeed),
	fetch func(context.Context) (domain.Page, error),
) error {
	s.mu.Lock()
	req := feedRequest{seq: s.homeSeq.next(), page: page, replace: replace}
	requested := s.home
	intent(&requested)
	source := requested.Source
	s.home.begin()
	s.mu.Unlock()

	s.logger.Debug("fetching home feed", "source", source, "page", page, "replace", replace, "seq", req.seq)

	result, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(&s.homeSeq, req.seq, "home") {
		return ErrStaleResponse
	}
	if err != nil {
		s.home.fail(err)
		s.logger.Error("home feed fetch failed", "source", source, "page", page, "error", err)
		return err
	}

	intent(&s.home)
	s.home.apply(req, result)
	s.logger.Debug("home feed updated", "source", source, "page", s.home.Page, "items", len(s.home.Items))
	return nil
}

// === Search feed ===

// Search loads a page of results for query into the search feed. Successful
// searches are remembered as the last search.
func (s *CatalogService) Search(ctx context.Context, query string, page int, filters domain.FilterSet, replace bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.ValidationError{Field: "query", Message: "Search query is required"}
	}
	if err := filters.Validate(); err != nil {
		return err
	}
	if err := validatePage(page); err != nil {
		return err
	}

	s.mu.Lock()
	req := feedRequest{seq: s.searchSeq.next(), page: page, replace: replace}
	s.search.begin()
	s.mu.Unlock()

	s.logger.Debug("searching", "query", query, "page", page, "replace", replace, "seq", req.seq)

	result, err := s.client.Search(ctx, query, page, SearchParams(filters))

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(&s.searchSeq, req.seq, "search") {
		return ErrStaleResponse
	}
	if err != nil {
		s.search.fail(err)
		s.logger.Error("search failed", "query", query, "page", page, "error", err)
		return err
	}

	// Query and filters describe the loaded items, so they move only with them
	s.search.Query = query
	s.search.Filters = filters
	s.search.apply(req, result)
	s.lastSearch = query
	if err := s.storage.SaveLastSearch(query); err != nil {
		s.logger.Error("failed to save last search", "error", err)
	}
	s.logger.Debug("search complete", "query", query, "page", s.search.Page, "results", len(s.search.Items))
	return nil
}

// LoadMoreSearch appends the next page of the current search
func (s *CatalogService) LoadMoreSearch(ctx context.Context) error {
	s.mu.Lock()
	search := s.search
	s.mu.Unlock()

	if search.Query == "" || search.IsLoading() || !search.HasMore() {
		return nil
	}
	return s.Search(ctx, search.Query, search.Page+1, search.Filters, false)
}

// GoToSearchPage replaces the search results with the given page
func (s *CatalogService) GoToSearchPage(ctx context.Context, page int) error {
	s.mu.Lock()
	search := s.search
	s.mu.Unlock()

	if err := validatePageWithin(page, search.TotalPages); err != nil {
		return err
	}
	return s.Search(ctx, search.Query, page, search.Filters, true)
}

// ApplySearchFilters reruns the current query from page 1 with filters
func (s *CatalogService) ApplySearchFilters(ctx context.Context, filters domain.FilterSet) error {
	s.mu.Lock()
	query := s.search.Query
	s.mu.Unlock()

	return s.Search(ctx, query, 1, filters, true)
}

// ResumeLastSearch issues the remembered search when the search feed is empty.
// It reports whether a search was issued.
func (s *CatalogService) ResumeLastSearch(ctx context.Context) (bool, error) {
	s.mu.Lock()
	query := s.lastSearch
	empty := s.search.Query == "" && s.search.IsEmpty() && s.search.Status == FeedIdle
	s.mu.Unlock()

	if !empty || query == "" {
		return false, nil
	}

	s.logger.Info("resuming last search", "query", query)
	return true, s.Search(ctx, query, 1, domain.FilterSet{}, true)
}

// ClearSearch empties the search feed. Responses still in flight are discarded.
func (s *CatalogService) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchSeq.next()
	s.search = SearchFeed{}
}

// LastSearch returns the remembered last search query
func (s *CatalogService) LastSearch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSearch
}

// === Details ===

// FetchDetails loads the joined details record for id. On failure the
// previously loaded record is kept.
func (s *CatalogService) FetchDetails(ctx context.Context, id int) error {
	if id <= 0 {
		return &domain.ValidationError{Field: "id", Message: fmt.Sprintf("invalid movie id %d", id)}
	}

	s.mu.Lock()
	seq := s.detailsSeq.next()
	s.details.Status = FeedLoading
	s.details.Err = nil
	s.mu.Unlock()

	s.logger.Debug("fetching details", "movieID", id, "seq", seq)

	detail, err := s.client.FetchDetails(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(&s.detailsSeq, seq, "details") {
		return ErrStaleResponse
	}
	if err != nil {
		s.details.Status = FeedFailed
		s.details.Err = err
		s.logger.Error("failed to fetch details", "movieID", id, "error", err)
		return err
	}

	s.details.Movie = detail
	s.details.Status = FeedReady
	return nil
}

// ResetDetails clears the selected movie
func (s *CatalogService) ResetDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detailsSeq.next()
	s.details = DetailsSlot{}
}

// === Genres ===

// EnsureGenres fetches the genre list unless it is already cached
func (s *CatalogService) EnsureGenres(ctx context.Context) error {
	s.mu.Lock()
	cached := len(s.genres) > 0
	s.mu.Unlock()

	if cached {
		return nil
	}

	genres, err := s.client.FetchGenres(ctx)
	if err != nil {
		s.logger.Error("failed to fetch genres", "error", err)
		return err
	}

	s.mu.Lock()
	s.genres = genres
	s.mu.Unlock()

	s.logger.Debug("fetched genres", "count", len(genres))
	return nil
}

// Genres returns the cached genre list
func (s *CatalogService) Genres() []domain.Genre {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Genre, len(s.genres))
	copy(out, s.genres)
	return out
}

// GenreName returns the name of genre id, or "" if unknown
func (s *CatalogService) GenreName(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.genres {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

// === Recommendations ===

// Recommendations returns movies recommended for id. Results are not stored.
func (s *CatalogService) Recommendations(ctx context.Context, id, page int) (domain.Page, error) {
	if id <= 0 {
		return domain.Page{}, &domain.ValidationError{Field: "id", Message: fmt.Sprintf("invalid movie id %d", id)}
	}
	if err := validatePage(page); err != nil {
		return domain.Page{}, err
	}

	result, err := s.client.FetchRecommendations(ctx, id, page)
	if err != nil {
		s.logger.Error("failed to fetch recommendations", "movieID", id, "error", err)
		return domain.Page{}, err
	}
	return result, nil
}

// === Selectors ===

// Home returns a snapshot of the home feed
func (s *CatalogService) Home() HomeFeed {
	s.mu.Lock()
	defer s.mu.Unlock()

	home := s.home
	home.Feed = home.Feed.snapshot()
	return home
}

// SearchFeed returns a snapshot of the search feed
func (s *CatalogService) SearchFeed() SearchFeed {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := s.search
	search.Feed = search.Feed.snapshot()
	return search
}

// Details returns a snapshot of the details slot
func (s *CatalogService) Details() DetailsSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := s.details
	details.Movie = cloneDetail(details.Movie)
	return details
}

// --- Private helpers ---

// acceptLocked reports whether a response for reqSeq may be applied. Caller holds s.mu.
func (s *CatalogService) acceptLocked(seq *sequencer, reqSeq uint64, feed string) bool {
	if !s.opts.DiscardStale || seq.isLatest(reqSeq) {
		return true
	}
	s.logger.Debug("discarding stale response", "feed", feed, "seq", reqSeq, "latest", seq.issued)
	return false
}

func validatePage(page int) error {
	if page < 1 {
		return &domain.ValidationError{Field: "page", Message: fmt.Sprintf("page must be at least 1, got %d", page)}
	}
	return nil
}

// validatePageWithin checks page against a known page count; 0 means unknown
func validatePageWithin(page, totalPages int) error {
	if err := validatePage(page); err != nil {
		return err
	}
	if totalPages > 0 && page > totalPages {
		return &domain.ValidationError{Field: "page", Message: fmt.Sprintf("page %d is past the last page (%d)", page, totalPages)}
	}
	return nil
}
