package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Screen is a top-level view of the application
type Screen int

const (
	ScreenHome Screen = iota
	ScreenSearch
	ScreenFavorites
	ScreenDetails
	ScreenLogin
)

func (s Screen) String() string {
	switch s {
	case ScreenSearch:
		return "Search"
	case ScreenFavorites:
		return "Favorites"
	case ScreenDetails:
		return "Details"
	case ScreenLogin:
		return "Login"
	default:
		return "Home"
	}
}

// tabs are the screens reachable with tab / 1-3
var tabs = []Screen{ScreenHome, ScreenSearch, ScreenFavorites}

// inputMode is the prompt currently capturing keys
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
	inputFavorites
)

// StatusDuration is how long transient status messages stay visible
const StatusDuration = 4 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	Catalog *service.CatalogService
	Session *service.SessionService
	Prefs   *service.PreferenceService
	Trailer *service.TrailerService
	logger  *slog.Logger

	// Navigation
	Screen     Screen
	returnTo   Screen // Where details and login go back to
	afterLogin Screen // Where a successful login lands
	cursors    map[Screen]int
	detailsID  int

	// Input
	input     inputMode
	textInput textinput.Model
	favQuery  string
	login     loginForm

	// UI components
	spinner  spinner.Model
	help     help.Model
	showHelp bool
	theme    styles.Theme

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// Status line
	StatusMsg   string
	StatusIsErr bool
	statusID    int
}

// NewModel creates the TUI model over the application services
func NewModel(
	catalog *service.CatalogService,
	session *service.SessionService,
	prefs *service.PreferenceService,
	trailer *service.TrailerService,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := styles.ForMode(prefs.Mode())
	sp.Style = theme.Accent

	return Model{
		Catalog:   catalog,
		Session:   session,
		Prefs:     prefs,
		Trailer:   trailer,
		logger:    logger,
		Screen:    ScreenHome,
		cursors:   make(map[Screen]int),
		textInput: ti,
		login:     newLoginForm(),
		spinner:   sp,
		help:      help.New(),
		theme:     theme,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadHomeCmd(m.Catalog),
		EnsureGenresCmd(m.Catalog),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.help.Width = msg.Width
		m.textInput.Width = msg.Width - 12
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HomeLoadedMsg:
		m.clampCursor(ScreenHome)
		return m, m.reportError(msg.Err, "Home")

	case SearchLoadedMsg:
		m.clampCursor(ScreenSearch)
		return m, m.reportError(msg.Err, "Search")

	case LastSearchResumedMsg:
		if msg.Err != nil {
			return m, m.reportError(msg.Err, "Search")
		}
		if msg.Resumed {
			return m, m.setStatus(fmt.Sprintf("Showing results for %q", m.Catalog.LastSearch()), false)
		}
		return m, nil

	case DetailsLoadedMsg:
		return m, m.reportError(msg.Err, "Details")

	case GenresLoadedMsg:
		return m, m.reportError(msg.Err, "Genres")

	case LoginResultMsg:
		if msg.Err != nil {
			if !errors.Is(msg.Err, service.ErrStaleResponse) {
				m.login.SetError(domain.DisplayMessage(msg.Err))
			}
			return m, nil
		}
		m.login.Reset()
		m.Screen = m.afterLogin
		return m, m.setStatus("Logged in as "+msg.User.DisplayName, false)

	case LogoutMsg:
		if msg.Err != nil {
			return m, m.reportError(msg.Err, "Logout")
		}
		m.favQuery = ""
		if m.Screen == ScreenFavorites {
			m.Screen = ScreenHome
		}
		return m, m.setStatus("Logged out", false)

	case TrailerOpenedMsg:
		if errors.Is(msg.Err, service.ErrNoTrailer) {
			return m, m.setStatus("No trailer available", true)
		}
		if msg.Err != nil {
			return m, m.reportError(msg.Err, "Trailer")
		}
		return m, m.setStatus("Opening trailer for "+msg.Title, false)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.Screen == ScreenLogin {
		return m.handleLoginKey(msg)
	}

	if m.input != inputNone {
		return m.handleInputKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, Keys.HomeTab):
		return m.switchScreen(ScreenHome)
	case key.Matches(msg, Keys.SearchTab):
		return m.switchScreen(ScreenSearch)
	case key.Matches(msg, Keys.FavoritesTab):
		return m.switchScreen(ScreenFavorites)
	case key.Matches(msg, Keys.NextTab):
		return m.switchScreen(m.nextTab())
	case key.Matches(msg, Keys.Theme):
		mode := m.Prefs.Toggle()
		m.setTheme(mode)
		return m, m.setStatus("Switched to "+string(mode)+" theme", false)
	case key.Matches(msg, Keys.Login):
		if m.Session.IsAuthenticated() {
			return m, LogoutCmd(m.Session)
		}
		return m.requireLogin(m.Screen, "")
	}

	if m.Screen == ScreenDetails {
		return m.handleDetailsKey(msg)
	}
	return m.handleListKey(msg)
}

// handleListKey handles keys on the home, search and favorites lists
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.currentItems()
	cursor := m.cursors[m.Screen]

	switch {
	case key.Matches(msg, Keys.Up):
		if cursor > 0 {
			m.cursors[m.Screen] = cursor - 1
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if cursor < len(items)-1 {
			m.cursors[m.Screen] = cursor + 1
			return m, nil
		}
		// Past the last loaded row: fetch the next page
		return m, m.loadMore()

	case key.Matches(msg, Keys.Home):
		m.cursors[m.Screen] = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		if len(items) > 0 {
			m.cursors[m.Screen] = len(items) - 1
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if cursor < len(items) {
			return m.openDetails(items[cursor].ID)
		}
		return m, nil

	case key.Matches(msg, Keys.More):
		return m, m.loadMore()

	case key.Matches(msg, Keys.NextPage):
		return m, m.goToPage(1)

	case key.Matches(msg, Keys.PrevPage):
		return m, m.goToPage(-1)

	case key.Matches(msg, Keys.Search):
		if m.Screen == ScreenFavorites {
			return m.startInput(inputFavorites, "Filter: ", m.favQuery)
		}
		m.Screen = ScreenSearch
		return m.startInput(inputSearch, "Search: ", m.Catalog.SearchFeed().Query)

	case key.Matches(msg, Keys.Filter):
		switch m.Screen {
		case ScreenHome:
			return m.startInput(inputFilter, "Filters: ", FormatFilterExpr(m.Catalog.Home().Filters, m.Catalog.GenreName))
		case ScreenSearch:
			return m.startInput(inputFilter, "Filters: ", FormatFilterExpr(m.Catalog.SearchFeed().Filters, m.Catalog.GenreName))
		default:
			return m.startInput(inputFavorites, "Filter: ", m.favQuery)
		}

	case key.Matches(msg, Keys.ClearFilter):
		return m, m.applyFilters(domain.FilterSet{})

	case key.Matches(msg, Keys.Window):
		if m.Screen != ScreenHome {
			return m, nil
		}
		m.cursors[ScreenHome] = 0
		next := domain.TimeWindowWeek
		if m.Catalog.Home().Window == domain.TimeWindowWeek {
			next = domain.TimeWindowDay
		}
		return m, SetTimeWindowCmd(m.Catalog, next)

	case key.Matches(msg, Keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, Keys.Favorite):
		if cursor < len(items) {
			return m.toggleFavorite(items[cursor])
		}
		return m, nil
	}

	return m, nil
}

// handleDetailsKey handles keys on the details screen
func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	details := m.Catalog.Details()

	switch {
	case key.Matches(msg, Keys.Back):
		m.Screen = m.returnTo
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, FetchDetailsCmd(m.Catalog, m.detailsID)

	case key.Matches(msg, Keys.Favorite):
		if details.Movie != nil {
			return m.toggleFavorite(details.Movie.Summary())
		}

	case key.Matches(msg, Keys.Trailer):
		if details.Movie != nil {
			return m, PlayTrailerCmd(m.Trailer, *details.Movie)
		}

	case key.Matches(msg, Keys.Search):
		m.Screen = ScreenSearch
		return m.startInput(inputSearch, "Search: ", m.Catalog.SearchFeed().Query)
	}

	return m, nil
}

// handleInputKey routes keys to the active prompt
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil

	case tea.KeyEnter:
		value := m.textInput.Value()
		mode := m.input

		switch mode {
		case inputSearch:
			m.stopInput()
			m.cursors[ScreenSearch] = 0
			return m, SearchCmd(m.Catalog, value, m.Catalog.SearchFeed().Filters)

		case inputFilter:
			filters, err := ParseFilterExpr(value, m.Catalog.Genres())
			if err != nil {
				// Keep the prompt open so the expression can be fixed
				return m, m.setStatus(domain.DisplayMessage(err), true)
			}
			m.stopInput()
			return m, m.applyFilters(filters)

		case inputFavorites:
			m.stopInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.input == inputFavorites {
		m.favQuery = m.textInput.Value()
		m.cursors[ScreenFavorites] = 0
	}
	return m, cmd
}

// handleLoginKey handles keys while the login form is shown
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.login.Reset()
		m.Screen = m.returnTo
		return m, nil
	}

	var (
		cmd    tea.Cmd
		submit bool
	)
	m.login, cmd, submit = m.login.Update(msg)
	if !submit {
		return m, cmd
	}

	if m.Session.Session().Status == domain.SessionAuthenticating {
		return m, nil
	}
	if !m.login.Validate() {
		return m, nil
	}
	m.login.SetError("")
	username, password := m.login.Values()
	return m, LoginCmd(m.Session, username, password)
}

// switchScreen changes the visible tab
func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	if s == ScreenFavorites && !m.Session.IsAuthenticated() {
		return m.requireLogin(ScreenFavorites, "Log in to see your favorites")
	}

	m.Screen = s
	if s == ScreenSearch {
		return m, ResumeLastSearchCmd(m.Catalog)
	}
	return m, nil
}

func (m Model) nextTab() Screen {
	for i, s := range tabs {
		if s == m.Screen {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return ScreenHome
}

// requireLogin shows the login form, landing on after once it succeeds
func (m Model) requireLogin(after Screen, reason string) (tea.Model, tea.Cmd) {
	if m.Screen != ScreenLogin {
		m.returnTo = m.Screen
	}
	m.afterLogin = after
	m.login.Reset()
	m.Screen = ScreenLogin

	var cmd tea.Cmd
	if reason != "" {
		cmd = m.setStatus(reason, false)
	}
	return m, tea.Batch(cmd, textinput.Blink)
}

// openDetails navigates to the details screen for id
func (m Model) openDetails(id int) (tea.Model, tea.Cmd) {
	if current := m.Catalog.Details(); current.Movie == nil || current.Movie.ID != id {
		m.Catalog.ResetDetails()
	}
	m.returnTo = m.Screen
	m.detailsID = id
	m.Screen = ScreenDetails
	return m, FetchDetailsCmd(m.Catalog, id)
}

// toggleFavorite adds or removes movie; favorites require a logged in user
func (m Model) toggleFavorite(movie domain.Movie) (tea.Model, tea.Cmd) {
	if !m.Session.IsAuthenticated() {
		return m.requireLogin(m.Screen, "Log in to save favorites")
	}

	if m.Catalog.IsFavorite(movie.ID) {
		m.Catalog.RemoveFavorite(movie.ID)
		m.clampCursor(ScreenFavorites)
		return m, m.setStatus("Removed "+movie.Title+" from favorites", false)
	}
	m.Catalog.AddFavorite(movie)
	return m, m.setStatus("Added "+movie.Title+" to favorites", false)
}

func (m *Model) loadMore() tea.Cmd {
	switch m.Screen {
	case ScreenHome:
		if home := m.Catalog.Home(); home.HasMore() && !home.IsLoading() {
			return LoadMoreHomeCmd(m.Catalog)
		}
	case ScreenSearch:
		if search := m.Catalog.SearchFeed(); search.HasMore() && !search.IsLoading() {
			return LoadMoreSearchCmd(m.Catalog)
		}
	}
	return nil
}

// goToPage moves delta pages from the current page, replacing the list
func (m *Model) goToPage(delta int) tea.Cmd {
	switch m.Screen {
	case ScreenHome:
		page := m.Catalog.Home().Page + delta
		if page < 1 {
			return nil
		}
		m.cursors[ScreenHome] = 0
		return GoToHomePageCmd(m.Catalog, page)
	case ScreenSearch:
		search := m.Catalog.SearchFeed()
		if search.Query == "" || search.Page+delta < 1 {
			return nil
		}
		m.cursors[ScreenSearch] = 0
		return GoToSearchPageCmd(m.Catalog, search.Page+delta)
	}
	return nil
}

// refresh re-requests the current page of the visible feed
func (m *Model) refresh() tea.Cmd {
	switch m.Screen {
	case ScreenHome:
		return GoToHomePageCmd(m.Catalog, max(m.Catalog.Home().Page, 1))
	case ScreenSearch:
		search := m.Catalog.SearchFeed()
		if search.Query == "" {
			return nil
		}
		return GoToSearchPageCmd(m.Catalog, max(search.Page, 1))
	}
	return nil
}

// applyFilters applies filters to the visible feed
func (m *Model) applyFilters(filters domain.FilterSet) tea.Cmd {
	switch m.Screen {
	case ScreenHome:
		m.cursors[ScreenHome] = 0
		return ApplyHomeFiltersCmd(m.Catalog, filters)
	case ScreenSearch:
		if m.Catalog.SearchFeed().Query == "" {
			return m.setStatus("Search for something before filtering", true)
		}
		m.cursors[ScreenSearch] = 0
		return ApplySearchFiltersCmd(m.Catalog, filters)
	case ScreenFavorites:
		m.favQuery = ""
		m.cursors[ScreenFavorites] = 0
	}
	return nil
}

func (m Model) startInput(mode inputMode, prompt, value string) (tea.Model, tea.Cmd) {
	m.input = mode
	m.textInput.Prompt = prompt
	m.textInput.PromptStyle = m.theme.Prompt
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	return m, m.textInput.Focus()
}

func (m *Model) stopInput() {
	m.input = inputNone
	m.textInput.Blur()
}

// currentItems returns the rows of the visible list screen
func (m Model) currentItems() []domain.Movie {
	switch m.Screen {
	case ScreenHome:
		return m.Catalog.Home().Items
	case ScreenSearch:
		return m.Catalog.SearchFeed().Items
	case ScreenFavorites:
		return m.Catalog.FilterFavorites(m.favQuery)
	}
	return nil
}

func (m *Model) clampCursor(s Screen) {
	var n int
	switch s {
	case ScreenHome:
		n = len(m.Catalog.Home().Items)
	case ScreenSearch:
		n = len(m.Catalog.SearchFeed().Items)
	case ScreenFavorites:
		n = len(m.Catalog.FilterFavorites(m.favQuery))
	}
	if m.cursors[s] >= n {
		m.cursors[s] = max(n-1, 0)
	}
}

func (m *Model) setTheme(mode domain.ThemeMode) {
	m.theme = styles.ForMode(mode)
	m.spinner.Style = m.theme.Accent
}

// setStatus shows a transient status message
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusID++
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusID, StatusDuration)
}

// reportError shows err on the status line. Superseded responses are not errors.
func (m *Model) reportError(err error, context string) tea.Cmd {
	if err == nil || errors.Is(err, service.ErrStaleResponse) {
		return nil
	}
	m.logger.Debug("intent failed", "context", strings.ToLower(context), "error", err)
	return m.setStatus(ErrMsg{Err: err, Context: context}.Error(), true)
}
