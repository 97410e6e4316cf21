package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, opts CatalogOptions) (*CatalogService, *mockClient) {
	t.Helper()
	client := &mockClient{}
	t.Cleanup(func() { client.AssertExpectations(t) })
	return NewCatalogService(client, newMemoryStore(t), opts, nil), client
}

func TestCatalog_TrendingReplacesOnFirstPageAndAppendsOnLoadMore(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 3, 60, movie(1, "A"), movie(2, "B")), nil).Twice()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 2).
		Return(pageOf(2, 3, 60, movie(3, "C")), nil).Once()

	require.NoError(t, svc.FetchTrending(ctx, domain.TimeWindowDay, 1, false))
	require.NoError(t, svc.FetchTrending(ctx, domain.TimeWindowDay, 2, false))

	home := svc.Home()
	assert.Equal(t, []int{1, 2, 3}, ids(home.Items))
	assert.Equal(t, 2, home.Page)
	assert.Equal(t, FeedReady, home.Status)

	// Page 1 replaces regardless of prior content
	require.NoError(t, svc.FetchTrending(ctx, domain.TimeWindowDay, 1, false))
	home = svc.Home()
	assert.Equal(t, []int{1, 2}, ids(home.Items))
	assert.Equal(t, 1, home.Page)
	assert.Equal(t, 3, home.TotalPages)
	assert.Equal(t, 60, home.TotalResults)
}

func TestCatalog_ReplaceFlagOverwritesLaterPage(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchTrending", mock.Anything, domain.TimeWindowWeek, 1).
		Return(pageOf(1, 5, 100, movie(1, "A")), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowWeek, 4).
		Return(pageOf(4, 5, 100, movie(40, "D")), nil).Once()

	require.NoError(t, svc.SetTimeWindow(ctx, domain.TimeWindowWeek))
	require.NoError(t, svc.GoToHomePage(ctx, 4))

	home := svc.Home()
	assert.Equal(t, []int{40}, ids(home.Items))
	assert.Equal(t, 4, home.Page)
	assert.Equal(t, domain.TimeWindowWeek, home.Window)
}

func TestCatalog_GoToHomePagePastEnd(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 2, 30, movie(1, "A")), nil).Once()
	require.NoError(t, svc.LoadHome(ctx))

	var verr *domain.ValidationError
	assert.ErrorAs(t, svc.GoToHomePage(ctx, 3), &verr)
	assert.ErrorAs(t, svc.GoToHomePage(ctx, 0), &verr)
}

func TestCatalog_LoadHomeOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, CatalogOptions{DiscardStale: true, DefaultWindow: domain.TimeWindowWeek})

	client.On("FetchTrending", mock.Anything, domain.TimeWindowWeek, 1).
		Return(pageOf(1, 1, 1, movie(1, "A")), nil).Once()

	require.NoError(t, svc.LoadHome(ctx))
	require.NoError(t, svc.LoadHome(ctx))
	assert.Equal(t, []int{1}, ids(svc.Home().Items))
}

func TestCatalog_LoadMoreHomeStopsAtLastPage(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 2, 3, movie(1, "A"), movie(2, "B")), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 2).
		Return(pageOf(2, 2, 3, movie(3, "C")), nil).Once()

	require.NoError(t, svc.LoadHome(ctx))
	require.NoError(t, svc.LoadMoreHome(ctx))
	require.NoError(t, svc.LoadMoreHome(ctx)) // no third page

	home := svc.Home()
	assert.Equal(t, []int{1, 2, 3}, ids(home.Items))
	assert.False(t, home.HasMore())
}

func TestCatalog_HomeFiltersSwitchToDiscover(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	filters := domain.FilterSet{GenreID: 28, Year: 1999}
	want := url.Values{
		"with_genres":          {"28"},
		"primary_release_year": {"1999"},
	}
	client.On("Discover", mock.Anything, 1, want).
		Return(pageOf(1, 2, 40, movie(10, "Matrix")), nil).Once()
	client.On("Discover", mock.Anything, 2, want).
		Return(pageOf(2, 2, 40, movie(11, "Fight Club")), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 1, 1, movie(1, "A")), nil).Once()

	require.NoError(t, svc.ApplyHomeFilters(ctx, filters))
	home := svc.Home()
	assert.Equal(t, SourceDiscover, home.Source)
	assert.Equal(t, filters, home.Filters)

	require.NoError(t, svc.LoadMoreHome(ctx))
	assert.Equal(t, []int{10, 11}, ids(svc.Home().Items))

	// Clearing filters returns to trending
	require.NoError(t, svc.ApplyHomeFilters(ctx, domain.FilterSet{}))
	home = svc.Home()
	assert.Equal(t, SourceTrending, home.Source)
	assert.Equal(t, []int{1}, ids(home.Items))
}

func TestCatalog_FailedDiscoverKeepsTrendingSource(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	filters := domain.FilterSet{GenreID: 28}
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 2, 40, movie(1, "A")), nil).Once()
	client.On("Discover", mock.Anything, 1, url.Values{"with_genres": {"28"}}).
		Return(domain.Page{}, &domain.UpstreamError{StatusCode: 500, Message: "Internal error"}).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 2).
		Return(pageOf(2, 2, 40, movie(2, "B")), nil).Once()

	require.NoError(t, svc.LoadHome(ctx))
	require.Error(t, svc.ApplyHomeFilters(ctx, filters))

	home := svc.Home()
	assert.Equal(t, FeedFailed, home.Status)
	assert.Equal(t, SourceTrending, home.Source)
	assert.True(t, home.Filters.IsEmpty())
	assert.Equal(t, []int{1}, ids(home.Items))

	// Load more continues the feed that is on screen
	require.NoError(t, svc.LoadMoreHome(ctx))
	home = svc.Home()
	assert.Equal(t, []int{1, 2}, ids(home.Items))
	assert.Equal(t, SourceTrending, home.Source)
}

func TestCatalog_InvalidFiltersAreRejected(t *testing.T) {
	svc, _ := newCatalog(t, DefaultCatalogOptions())

	err := svc.FetchDiscover(context.Background(), domain.FilterSet{Rating: &domain.RatingRange{Min: 8, Max: 3}}, 1, true)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FeedIdle, svc.Home().Status)
}

func TestCatalog_FailedLoadMoreKeepsItems(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	upstream := &domain.UpstreamError{StatusCode: 500, Message: "Internal error"}
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 3, 60, movie(1, "A")), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 2).
		Return(domain.Page{}, upstream).Once()

	require.NoError(t, svc.LoadHome(ctx))
	err := svc.LoadMoreHome(ctx)
	require.ErrorIs(t, err, upstream)

	home := svc.Home()
	assert.Equal(t, FeedFailed, home.Status)
	assert.Equal(t, []int{1}, ids(home.Items))
	assert.Equal(t, 1, home.Page)
	assert.Equal(t, "Internal error", domain.DisplayMessage(home.Err))
}

func TestCatalog_SearchScenario(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Return(pageOf(1, 5, 90, movie(1, "A"), movie(2, "B")), nil).Once()
	client.On("Search", mock.Anything, "dune", 2, url.Values{}).
		Return(pageOf(2, 5, 90, movie(3, "C"), movie(4, "D")), nil).Once()

	require.NoError(t, svc.Search(ctx, "dune", 1, domain.FilterSet{}, false))
	feed := svc.SearchFeed()
	assert.Equal(t, []int{1, 2}, ids(feed.Items))
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 5, feed.TotalPages)
	assert.Equal(t, 90, feed.TotalResults)

	require.NoError(t, svc.Search(ctx, "dune", 2, domain.FilterSet{}, false))
	feed = svc.SearchFeed()
	assert.Equal(t, []int{1, 2, 3, 4}, ids(feed.Items))
	assert.Equal(t, 2, feed.Page)
	assert.Equal(t, "dune", feed.Query)
	assert.Equal(t, "dune", svc.LastSearch())
}

func TestCatalog_SearchLayersFilters(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	filters := domain.FilterSet{GenreID: 878, Year: 2021, Rating: &domain.RatingRange{Min: 3, Max: 8}}
	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Return(pageOf(1, 1, 1, movie(1, "A")), nil).Once()
	client.On("Search", mock.Anything, "dune", 1, url.Values{
		"with_genres":      {"878"},
		"year":             {"2021"},
		"vote_average_gte": {"3"},
		"vote_average_lte": {"8"},
	}).Return(pageOf(1, 1, 1, movie(2, "B")), nil).Once()

	require.NoError(t, svc.Search(ctx, "dune", 1, domain.FilterSet{}, true))
	require.NoError(t, svc.ApplySearchFilters(ctx, filters))

	feed := svc.SearchFeed()
	assert.Equal(t, []int{2}, ids(feed.Items))
	assert.Equal(t, filters, feed.Filters)
}

func TestCatalog_FailedSearchKeepsLoadedQuery(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Return(pageOf(1, 3, 60, movie(1, "A"), movie(2, "B")), nil).Once()
	client.On("Search", mock.Anything, "alien", 1, url.Values{"year": {"1979"}}).
		Return(domain.Page{}, &domain.UpstreamError{StatusCode: 500, Message: "Internal error"}).Once()
	client.On("Search", mock.Anything, "dune", 2, url.Values{}).
		Return(pageOf(2, 3, 60, movie(3, "C")), nil).Once()

	require.NoError(t, svc.Search(ctx, "dune", 1, domain.FilterSet{}, true))
	require.Error(t, svc.Search(ctx, "alien", 1, domain.FilterSet{Year: 1979}, true))

	feed := svc.SearchFeed()
	assert.Equal(t, FeedFailed, feed.Status)
	assert.Equal(t, "dune", feed.Query)
	assert.True(t, feed.Filters.IsEmpty())
	assert.Equal(t, []int{1, 2}, ids(feed.Items))

	require.NoError(t, svc.LoadMoreSearch(ctx))
	feed = svc.SearchFeed()
	assert.Equal(t, "dune", feed.Query)
	assert.Equal(t, 2, feed.Page)
	assert.Equal(t, []int{1, 2, 3}, ids(feed.Items))
	assert.Equal(t, "dune", svc.LastSearch())
}

func TestCatalog_EmptySearchIsRejected(t *testing.T) {
	svc, _ := newCatalog(t, DefaultCatalogOptions())

	err := svc.Search(context.Background(), "   ", 1, domain.FilterSet{}, true)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FeedIdle, svc.SearchFeed().Status)
}

func TestCatalog_ResumeLastSearch(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStore(t)
	require.NoError(t, storage.SaveLastSearch("dune"))

	client := &mockClient{}
	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Return(pageOf(1, 1, 1, movie(1, "Dune")), nil).Once()

	svc := NewCatalogService(client, storage, DefaultCatalogOptions(), nil)
	assert.Equal(t, "dune", svc.LastSearch())

	issued, err := svc.ResumeLastSearch(ctx)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, []int{1}, ids(svc.SearchFeed().Items))

	// Search state is no longer empty
	issued, err = svc.ResumeLastSearch(ctx)
	require.NoError(t, err)
	assert.False(t, issued)

	client.AssertExpectations(t)
}

func TestCatalog_ResumeWithoutLastSearch(t *testing.T) {
	svc, _ := newCatalog(t, DefaultCatalogOptions())

	issued, err := svc.ResumeLastSearch(context.Background())
	require.NoError(t, err)
	assert.False(t, issued)
}

func TestCatalog_ClearSearch(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("Search", mock.Anything, "heat", 1, url.Values{}).
		Return(pageOf(1, 2, 30, movie(1, "Heat")), nil).Once()
	require.NoError(t, svc.Search(ctx, "heat", 1, domain.FilterSet{}, true))

	svc.ClearSearch()
	feed := svc.SearchFeed()
	assert.Empty(t, feed.Items)
	assert.Empty(t, feed.Query)
	assert.Equal(t, 0, feed.TotalPages)
	assert.Equal(t, "heat", svc.LastSearch())
}

func TestCatalog_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	started := make(chan struct{})
	release := make(chan struct{})
	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(pageOf(1, 1, 1, movie(1, "Dune")), nil).Once()
	client.On("Search", mock.Anything, "heat", 1, url.Values{}).
		Return(pageOf(1, 1, 1, movie(2, "Heat")), nil).Once()

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Search(ctx, "dune", 1, domain.FilterSet{}, true)
	}()
	<-started

	require.NoError(t, svc.Search(ctx, "heat", 1, domain.FilterSet{}, true))
	close(release)
	assert.ErrorIs(t, <-errCh, ErrStaleResponse)

	feed := svc.SearchFeed()
	assert.Equal(t, []int{2}, ids(feed.Items))
	assert.Equal(t, "heat", feed.Query)
	assert.Equal(t, "heat", svc.LastSearch())
}

func TestCatalog_LastResolvedWinsWhenDiscardDisabled(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, CatalogOptions{DiscardStale: false, DefaultWindow: domain.TimeWindowDay})

	started := make(chan struct{})
	release := make(chan struct{})
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(pageOf(1, 3, 60, movie(1, "A")), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowWeek, 1).
		Return(pageOf(1, 3, 60, movie(2, "B")), nil).Once()

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.FetchTrending(ctx, domain.TimeWindowDay, 1, true)
	}()
	<-started

	require.NoError(t, svc.FetchTrending(ctx, domain.TimeWindowWeek, 1, true))
	close(release)
	require.NoError(t, <-errCh)

	assert.Equal(t, []int{1}, ids(svc.Home().Items))
}

func TestCatalog_DetailsFailureKeepsPreviousData(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	dune := &domain.MovieDetail{Movie: movie(438631, "Dune"), Runtime: 155}
	upstream := &domain.UpstreamError{StatusCode: 404, Code: 34, Message: "The resource you requested could not be found."}
	client.On("FetchDetails", mock.Anything, 438631).Return(dune, nil).Once()
	client.On("FetchDetails", mock.Anything, 99).Return(nil, upstream).Once()

	require.NoError(t, svc.FetchDetails(ctx, 438631))
	err := svc.FetchDetails(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	details := svc.Details()
	assert.Equal(t, FeedFailed, details.Status)
	require.NotNil(t, details.Movie)
	assert.Equal(t, 438631, details.Movie.ID)
	assert.Equal(t, upstream.Message, domain.DisplayMessage(details.Err))

	svc.ResetDetails()
	assert.Nil(t, svc.Details().Movie)
}

func TestCatalog_EnsureGenresFetchesOnce(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchGenres", mock.Anything).
		Return([]domain.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, nil).Once()

	require.NoError(t, svc.EnsureGenres(ctx))
	require.NoError(t, svc.EnsureGenres(ctx))

	assert.Len(t, svc.Genres(), 2)
	assert.Equal(t, "Comedy", svc.GenreName(35))
	assert.Empty(t, svc.GenreName(1))
}

func TestCatalog_EnsureGenresRetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchGenres", mock.Anything).
		Return(nil, &domain.TransportError{Err: errors.New("dial tcp: connection refused")}).Once()
	client.On("FetchGenres", mock.Anything).
		Return([]domain.Genre{{ID: 28, Name: "Action"}}, nil).Once()

	require.Error(t, svc.EnsureGenres(ctx))
	assert.Empty(t, svc.Genres())
	require.NoError(t, svc.EnsureGenres(ctx))
	assert.Len(t, svc.Genres(), 1)
}

func TestCatalog_Recommendations(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchRecommendations", mock.Anything, 1, 1).
		Return(pageOf(1, 1, 2, movie(5, "E"), movie(6, "F")), nil).Once()

	result, err := svc.Recommendations(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, ids(result.Items))

	// Recommendations never touch the feeds
	assert.Empty(t, svc.Home().Items)
	assert.Empty(t, svc.SearchFeed().Items)
}

func TestCatalog_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(pageOf(1, 1, 1, movie(1, "A")), nil).Once()
	require.NoError(t, svc.LoadHome(ctx))

	home := svc.Home()
	home.Items[0].Title = "changed"
	assert.Equal(t, "A", svc.Home().Items[0].Title)
}

func TestCatalog_DetailsSnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	svc, client := newCatalog(t, DefaultCatalogOptions())

	dune := &domain.MovieDetail{
		Movie:               movie(438631, "Dune"),
		Genres:              []domain.Genre{{ID: 878, Name: "Science Fiction"}},
		Cast:                []domain.CastMember{{ID: 1190668, Name: "Timothée Chalamet", Character: "Paul Atreides"}},
		Videos:              []domain.Video{{Key: "n9xhJrPXop4", Site: "YouTube", Type: "Trailer"}},
		ProductionCompanies: []domain.ProductionCompany{{ID: 923, Name: "Legendary Pictures"}},
	}
	client.On("FetchDetails", mock.Anything, 438631).Return(dune, nil).Once()
	require.NoError(t, svc.FetchDetails(ctx, 438631))

	snap := svc.Details().Movie
	require.NotNil(t, snap)
	snap.Title = "changed"
	snap.Genres[0].Name = "changed"
	snap.Cast[0].Character = "changed"
	snap.Videos[0].Key = "changed"
	snap.ProductionCompanies[0].Name = "changed"

	again := svc.Details().Movie
	assert.Equal(t, "Dune", again.Title)
	assert.Equal(t, "Science Fiction", again.Genres[0].Name)
	assert.Equal(t, "Paul Atreides", again.Cast[0].Character)
	assert.Equal(t, "n9xhJrPXop4", again.Videos[0].Key)
	assert.Equal(t, "Legendary Pictures", again.ProductionCompanies[0].Name)
}
