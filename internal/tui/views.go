package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Vertical chrome: header, subtitle, blank line, input line, footer
const chromeHeight = 5

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.Screen == ScreenLogin {
		authenticating := m.Session.Session().Status == domain.SessionAuthenticating
		form := m.login.View(m.theme, authenticating, m.spinner.View())
		body := lipgloss.Place(m.Width, m.Height-2, lipgloss.Center, lipgloss.Center, form)
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
	}

	var body string
	switch m.Screen {
	case ScreenSearch:
		body = m.renderSearch()
	case ScreenFavorites:
		body = m.renderFavorites()
	case ScreenDetails:
		body = m.renderDetails()
	default:
		body = m.renderHome()
	}

	input := ""
	if m.input != inputNone {
		input = m.textInput.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.NewStyle().Height(m.Height-3).MaxHeight(m.Height-3).Render(body),
		input,
		m.renderFooter(),
	)
}

// renderHeader renders the app title, tabs and session badge
func (m Model) renderHeader() string {
	t := m.theme

	var tabViews []string
	for i, s := range tabs {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == m.Screen || (m.Screen == ScreenDetails && s == m.returnTo) {
			tabViews = append(tabViews, t.TabActive.Render(label))
		} else {
			tabViews = append(tabViews, t.TabInactive.Render(label))
		}
	}
	left := t.Accent.Bold(true).Render("reel") + "  " + strings.Join(tabViews, "")

	var right string
	if session := m.Session.Session(); session.IsAuthenticated() {
		right = t.Dim.Render("Hi, ") + t.Title.Render(session.User.DisplayName)
	} else {
		right = t.Dim.Render("not logged in")
	}
	right += t.Dim.Render("  " + string(t.Mode))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the status line and key hints
func (m Model) renderFooter() string {
	t := m.theme

	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = t.Error.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = t.Success.Render(m.StatusMsg)
	case m.isLoading():
		left = m.spinner.View() + " " + t.Dim.Render("Loading...")
	}

	right := t.HelpKey.Render("?") + t.HelpDesc.Render(" help")
	if m.Screen != ScreenLogin && m.input == inputNone {
		right = m.help.ShortHelpView(Keys.ShortHelp())
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) isLoading() bool {
	switch m.Screen {
	case ScreenHome:
		return m.Catalog.Home().IsLoading()
	case ScreenSearch:
		return m.Catalog.SearchFeed().IsLoading()
	case ScreenDetails:
		return m.Catalog.Details().IsLoading()
	}
	return false
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	m.help.ShowAll = true
	content := m.theme.ModalTitle.Render("Keys") + "\n" +
		m.help.FullHelpView(Keys.FullHelp()) + "\n\n" +
		m.theme.Dim.Render(`Filters: genre:action year:2020 rating:6-9 (F to edit, C to clear)`) + "\n" +
		m.theme.Dim.Render("Press any key to return...")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		m.theme.Modal.Render(content))
}

// === Feeds ===

func (m Model) renderHome() string {
	home := m.Catalog.Home()
	t := m.theme

	var title string
	if home.Source == service.SourceDiscover {
		title = "Discover  " + t.Accent.Render(FormatFilterExpr(home.Filters, m.Catalog.GenreName))
	} else {
		period := "today"
		if home.Window == domain.TimeWindowWeek {
			period = "this week"
		}
		title = "Trending " + period + t.Dim.Render("  (w to switch)")
	}

	return m.renderFeed(title, home.Feed, m.cursors[ScreenHome], "No movies found")
}

func (m Model) renderSearch() string {
	search := m.Catalog.SearchFeed()
	t := m.theme

	if search.Query == "" && search.IsEmpty() && !search.IsLoading() {
		hint := "Press / to search for a movie"
		if last := m.Catalog.LastSearch(); last != "" {
			hint += t.Dim.Render(fmt.Sprintf("  (last: %q)", last))
		}
		return t.Subtitle.Render(hint)
	}

	title := "Searching"
	if search.Query != "" {
		title = fmt.Sprintf("Results for %q", search.Query)
	}
	if !search.Filters.IsEmpty() {
		title += "  " + t.Accent.Render(FormatFilterExpr(search.Filters, m.Catalog.GenreName))
	}
	return m.renderFeed(title, search.Feed, m.cursors[ScreenSearch], "No results")
}

func (m Model) renderFavorites() string {
	t := m.theme
	items := m.Catalog.FilterFavorites(m.favQuery)

	title := fmt.Sprintf("Favorites (%d)", len(m.Catalog.Favorites()))
	if m.favQuery != "" {
		title += t.Dim.Render(fmt.Sprintf("  matching %q", m.favQuery))
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(title))
	b.WriteString("\n\n")

	if len(items) == 0 {
		if m.favQuery != "" {
			b.WriteString(t.Dim.Render("No favorites match"))
		} else {
			b.WriteString(t.Dim.Render("No favorites yet. Press f on a movie to add it."))
		}
		return b.String()
	}

	b.WriteString(m.renderRows(items, m.cursors[ScreenFavorites], m.listHeight()))
	return b.String()
}

// renderFeed renders a feed's title, rows and paging line
func (m Model) renderFeed(title string, feed service.Feed, cursor int, emptyMsg string) string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.Title.Render(title))
	b.WriteString("\n")

	var meta string
	if feed.TotalPages > 0 {
		meta = fmt.Sprintf("page %d of %d · %d results", feed.Page, feed.TotalPages, feed.TotalResults)
	}
	b.WriteString(t.Dim.Render(meta))
	b.WriteString("\n")

	switch {
	case feed.Status == service.FeedFailed:
		b.WriteString(t.Error.Render(domain.DisplayMessage(feed.Err)) + t.Dim.Render("  (r to retry)"))
	case feed.IsLoading() && len(feed.Items) == 0:
		b.WriteString(m.spinner.View() + " " + t.Dim.Render("Loading..."))
	case feed.Status == service.FeedReady && len(feed.Items) == 0:
		b.WriteString(t.Dim.Render(emptyMsg))
	}
	b.WriteString("\n")

	if len(feed.Items) > 0 {
		b.WriteString(m.renderRows(feed.Items, cursor, m.listHeight()))
		b.WriteString("\n")
		switch {
		case feed.IsLoading():
			b.WriteString(m.spinner.View() + " " + t.Dim.Render("Loading more..."))
		case feed.HasMore():
			b.WriteString(t.Dim.Render("m or ↓ at the end for more"))
		default:
			b.WriteString(t.Dim.Render("End of results"))
		}
	}
	return b.String()
}

func (m Model) listHeight() int {
	return max(m.Height-chromeHeight-3, 3)
}

// renderRows renders a scrolling window of movie rows around cursor
func (m Model) renderRows(items []domain.Movie, cursor, height int) string {
	t := m.theme

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(items))

	titleWidth := max(m.Width-28, 10)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		movie := items[i]

		year := "    "
		if y := movie.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		fav := " "
		if m.Catalog.IsFavorite(movie.ID) {
			fav = "♥"
		}

		line := fmt.Sprintf("%s %s  %s %s %s",
			styles.Pad(movie.Title, titleWidth),
			year,
			styles.RatingStars(movie.VoteAverage),
			movie.FormattedRating(),
			fav,
		)

		if i == cursor {
			rows = append(rows, t.SelectedItem.Render(line))
		} else {
			rows = append(rows, t.NormalItem.Render(line))
		}
	}
	return strings.Join(rows, "\n")
}

// === Details ===

func (m Model) renderDetails() string {
	t := m.theme
	details := m.Catalog.Details()

	if details.Movie == nil {
		switch {
		case details.Status == service.FeedFailed:
			return t.Error.Render(domain.DisplayMessage(details.Err)) + "\n\n" +
				t.Dim.Render("r to retry · esc to go back")
		default:
			return m.spinner.View() + " " + t.Dim.Render("Loading movie...")
		}
	}

	movie := details.Movie
	width := max(m.Width-4, 20)

	var b strings.Builder

	header := movie.Title
	if y := movie.Year(); y > 0 {
		header += fmt.Sprintf(" (%d)", y)
	}
	b.WriteString(t.Title.Render(header))
	if m.Catalog.IsFavorite(movie.ID) {
		b.WriteString("  " + t.Badge.Render("♥ favorite"))
	}
	b.WriteString("\n")

	if movie.Tagline != "" {
		b.WriteString(t.Subtitle.Italic(true).Render(movie.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(t.Rating.Render(styles.RatingStars(movie.VoteAverage)+" "+movie.FormattedRating()) +
		t.Dim.Render(fmt.Sprintf(" (%d votes)", movie.VoteCount)))
	b.WriteString(t.Dim.Render("  ·  " + movie.FormattedRuntime()))
	if genres := movie.GenreNames(); genres != "" {
		b.WriteString(t.Dim.Render("  ·  " + genres))
	}
	b.WriteString("\n\n")

	if movie.Overview != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(movie.Overview))
		b.WriteString("\n\n")
	}

	if len(movie.Cast) > 0 {
		b.WriteString(t.Title.Render("Cast"))
		b.WriteString("\n")
		for _, c := range movie.Cast[:min(len(movie.Cast), 6)] {
			line := c.Name
			if c.Character != "" {
				line += t.Dim.Render(" as " + c.Character)
			}
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	var facts []string
	if len(movie.ProductionCompanies) > 0 {
		names := make([]string, len(movie.ProductionCompanies))
		for i, c := range movie.ProductionCompanies {
			names[i] = c.Name
		}
		facts = append(facts, "Studios: "+strings.Join(names, ", "))
	}
	if len(movie.SpokenLanguages) > 0 {
		names := make([]string, len(movie.SpokenLanguages))
		for i, l := range movie.SpokenLanguages {
			names[i] = l.EnglishName
			if names[i] == "" {
				names[i] = l.Name
			}
		}
		facts = append(facts, "Languages: "+strings.Join(names, ", "))
	}
	if movie.Budget > 0 {
		facts = append(facts, "Budget: "+formatMoney(movie.Budget))
	}
	if movie.Revenue > 0 {
		facts = append(facts, "Revenue: "+formatMoney(movie.Revenue))
	}
	for _, f := range facts {
		b.WriteString(t.Dim.Render(styles.Truncate(f, width)) + "\n")
	}
	b.WriteString("\n")

	trailer := t.Dim.Render("No trailer")
	if v, ok := movie.Trailer(); ok {
		trailer = t.HelpKey.Render("t") + t.HelpDesc.Render(" play "+strings.ToLower(v.Type)+" on "+v.Site)
	}
	b.WriteString(trailer + "   " +
		t.HelpKey.Render("f") + t.HelpDesc.Render(" favorite   ") +
		t.HelpKey.Render("esc") + t.HelpDesc.Render(" back"))

	if details.Status == service.FeedFailed {
		b.WriteString("\n" + t.Error.Render(domain.DisplayMessage(details.Err)))
	}
	return b.String()
}

// formatMoney renders whole dollars with thousands separators
func formatMoney(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}
