package tui

import (
	"context"
	"net/url"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FetchTrending(ctx context.Context, window domain.TimeWindow, page int) (domain.Page, error) {
	args := m.Called(ctx, window, page)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *mockClient) Search(ctx context.Context, query string, page int, extra url.Values) (domain.Page, error) {
	args := m.Called(ctx, query, page, extra)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *mockClient) Discover(ctx context.Context, page int, extra url.Values) (domain.Page, error) {
	args := m.Called(ctx, page, extra)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *mockClient) FetchDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*domain.MovieDetail)
	return detail, args.Error(1)
}

func (m *mockClient) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	genres, _ := args.Get(0).([]domain.Genre)
	return genres, args.Error(1)
}

func (m *mockClient) FetchRecommendations(ctx context.Context, id int, page int) (domain.Page, error) {
	args := m.Called(ctx, id, page)
	return args.Get(0).(domain.Page), args.Error(1)
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func newTestModel(t *testing.T, client *mockClient) (Model, *recordingOpener) {
	t.Helper()
	s, err := store.NewLocalStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	opener := &recordingOpener{}
	m := NewModel(
		service.NewCatalogService(client, s, service.DefaultCatalogOptions(), nil),
		service.NewSessionService(s, 0, nil),
		service.NewPreferenceService(s, nil),
		service.NewTrailerService(opener, nil),
		nil,
	)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), opener
}

// send delivers a key to the model
func send(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, string(r))
	}
	return m
}

// run executes cmd and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func moviesPage(page, total int, movies ...domain.Movie) domain.Page {
	return domain.Page{Items: movies, Page: page, TotalPages: total, TotalResults: total * len(movies)}
}

func TestInitLoadsHome(t *testing.T) {
	client := &mockClient{}
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(moviesPage(1, 2, domain.Movie{ID: 1, Title: "Dune"}), nil).Once()

	m, _ := newTestModel(t, client)
	m = run(t, m, LoadHomeCmd(m.Catalog))

	home := m.Catalog.Home()
	require.Len(t, home.Items, 1)
	assert.Equal(t, service.FeedReady, home.Status)
	assert.Contains(t, m.View(), "Dune")
	client.AssertExpectations(t)
}

func TestDownAtEndLoadsMore(t *testing.T) {
	client := &mockClient{}
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(moviesPage(1, 2, domain.Movie{ID: 1, Title: "A"}, domain.Movie{ID: 2, Title: "B"}), nil).Once()
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 2).
		Return(moviesPage(2, 2, domain.Movie{ID: 3, Title: "C"}), nil).Once()

	m, _ := newTestModel(t, client)
	m = run(t, m, LoadHomeCmd(m.Catalog))

	m, cmd := send(t, m, "down")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.cursors[ScreenHome])

	m, cmd = send(t, m, "down")
	m = run(t, m, cmd)
	assert.Len(t, m.Catalog.Home().Items, 3)

	// Last page reached: nothing more to fetch
	m, _ = send(t, m, "G")
	_, cmd = send(t, m, "down")
	assert.Nil(t, cmd)
	client.AssertExpectations(t)
}

func TestFilterPromptAppliesDiscover(t *testing.T) {
	client := &mockClient{}
	client.On("FetchGenres", mock.Anything).Return([]domain.Genre{{ID: 28, Name: "Action"}}, nil)
	client.On("Discover", mock.Anything, 1, url.Values{
		"with_genres":          {"28"},
		"primary_release_year": {"2020"},
	}).Return(moviesPage(1, 1, domain.Movie{ID: 5, Title: "Tenet"}), nil).Once()

	m, _ := newTestModel(t, client)
	m = run(t, m, EnsureGenresCmd(m.Catalog))

	m, _ = send(t, m, "F")
	require.Equal(t, inputFilter, m.input)
	m = typeText(t, m, "genre:action year:2020")
	m, cmd := send(t, m, "enter")
	assert.Equal(t, inputNone, m.input)
	m = run(t, m, cmd)

	home := m.Catalog.Home()
	assert.Equal(t, service.SourceDiscover, home.Source)
	assert.Equal(t, 2020, home.Filters.Year)
	assert.Equal(t, "Tenet", home.Items[0].Title)
	client.AssertExpectations(t)
}

func TestInvalidFilterKeepsPromptOpen(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})

	m, _ = send(t, m, "F")
	m = typeText(t, m, "rating:9-2")
	m, _ = send(t, m, "enter")

	assert.Equal(t, inputFilter, m.input)
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "invalid rating")
}

func TestSearchPromptRunsSearch(t *testing.T) {
	client := &mockClient{}
	client.On("Search", mock.Anything, "dune", 1, url.Values{}).
		Return(moviesPage(1, 1, domain.Movie{ID: 438631, Title: "Dune"}), nil).Once()

	m, _ := newTestModel(t, client)
	m, _ = send(t, m, "/")
	assert.Equal(t, ScreenSearch, m.Screen)
	m = typeText(t, m, "dune")
	m, cmd := send(t, m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, "dune", m.Catalog.LastSearch())
	assert.Contains(t, m.View(), "Results for \"dune\"")
	client.AssertExpectations(t)
}

func TestEmptySearchShowsValidationError(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})
	m, _ = send(t, m, "/")
	m, cmd := send(t, m, "enter")
	m = run(t, m, cmd)

	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "Search query is required")
}

func TestFavoritesRequireLogin(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})

	m, _ = send(t, m, "3")
	require.Equal(t, ScreenLogin, m.Screen)

	// Form rules run before the session is asked
	m = typeText(t, m, "alice")
	m, _ = send(t, m, "tab")
	m = typeText(t, m, "abc")
	m, cmd := send(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "Password must be at least 4 characters", m.login.err)

	m = typeText(t, m, "d")
	m, cmd = send(t, m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, ScreenFavorites, m.Screen)
	assert.True(t, m.Session.IsAuthenticated())
	assert.Equal(t, "Logged in as User alice", m.StatusMsg)
}

func TestFavoriteToggleAndTrailer(t *testing.T) {
	detail := &domain.MovieDetail{
		Movie:  domain.Movie{ID: 7, Title: "Heat"},
		Videos: []domain.Video{{Key: "abc", Site: "YouTube", Type: "Trailer"}},
	}
	client := &mockClient{}
	client.On("FetchTrending", mock.Anything, domain.TimeWindowDay, 1).
		Return(moviesPage(1, 1, domain.Movie{ID: 7, Title: "Heat"}), nil).Once()
	client.On("FetchDetails", mock.Anything, 7).Return(detail, nil).Once()

	m, opener := newTestModel(t, client)
	_, err := m.Session.Login(context.Background(), "bob", "hunter2")
	require.NoError(t, err)
	m = run(t, m, LoadHomeCmd(m.Catalog))

	m, cmd := send(t, m, "enter")
	assert.Equal(t, ScreenDetails, m.Screen)
	m = run(t, m, cmd)
	assert.Contains(t, m.View(), "Heat")

	m, _ = send(t, m, "f")
	assert.True(t, m.Catalog.IsFavorite(7))

	m, cmd = send(t, m, "t")
	m = run(t, m, cmd)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=abc"}, opener.urls)
	assert.Equal(t, "Opening trailer for Heat", m.StatusMsg)

	m, _ = send(t, m, "esc")
	assert.Equal(t, ScreenHome, m.Screen)

	m, _ = send(t, m, "f")
	assert.False(t, m.Catalog.IsFavorite(7))
}

func TestToggleThemePersists(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})
	assert.Equal(t, domain.ThemeLight, m.theme.Mode)

	m, _ = send(t, m, "T")
	assert.Equal(t, domain.ThemeDark, m.theme.Mode)
	assert.Equal(t, domain.ThemeDark, m.Prefs.Mode())
}

func TestStaleErrorsAreNotReported(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})
	updated, cmd := m.Update(HomeLoadedMsg{Err: service.ErrStaleResponse})
	assert.Nil(t, cmd)
	assert.Empty(t, updated.(Model).StatusMsg)
}

func TestClearStatusOnlyClearsLatest(t *testing.T) {
	m, _ := newTestModel(t, &mockClient{})
	m.setStatus("first", false)
	m.setStatus("second", false)

	updated, _ := m.Update(ClearStatusMsg{ID: 1})
	assert.Equal(t, "second", updated.(Model).StatusMsg)

	updated, _ = updated.Update(ClearStatusMsg{ID: 2})
	assert.Empty(t, updated.(Model).StatusMsg)
}
