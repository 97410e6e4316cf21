package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

// Command factories for async operations. Requests carry no deadline of their
// own; the HTTP client timeout from config bounds them.

func homeCmd(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return HomeLoadedMsg{Err: fn(context.Background())}
	}
}

func searchCmd(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return SearchLoadedMsg{Err: fn(context.Background())}
	}
}

// LoadHomeCmd loads the home feed once
func LoadHomeCmd(svc *service.CatalogService) tea.Cmd {
	return homeCmd(svc.LoadHome)
}

// SetTimeWindowCmd switches the trending window and reloads page 1
func SetTimeWindowCmd(svc *service.CatalogService, window domain.TimeWindow) tea.Cmd {
	return homeCmd(func(ctx context.Context) error {
		return svc.SetTimeWindow(ctx, window)
	})
}

// ApplyHomeFiltersCmd switches home to discover (or back to trending when empty)
func ApplyHomeFiltersCmd(svc *service.CatalogService, filters domain.FilterSet) tea.Cmd {
	return homeCmd(func(ctx context.Context) error {
		return svc.ApplyHomeFilters(ctx, filters)
	})
}

// LoadMoreHomeCmd appends the next home page
func LoadMoreHomeCmd(svc *service.CatalogService) tea.Cmd {
	return homeCmd(svc.LoadMoreHome)
}

// GoToHomePageCmd replaces the home feed with page
func GoToHomePageCmd(svc *service.CatalogService, page int) tea.Cmd {
	return homeCmd(func(ctx context.Context) error {
		return svc.GoToHomePage(ctx, page)
	})
}

// SearchCmd runs a fresh search
func SearchCmd(svc *service.CatalogService, query string, filters domain.FilterSet) tea.Cmd {
	return searchCmd(func(ctx context.Context) error {
		return svc.Search(ctx, query, 1, filters, true)
	})
}

// ApplySearchFiltersCmd re-runs the current query with new filters
func ApplySearchFiltersCmd(svc *service.CatalogService, filters domain.FilterSet) tea.Cmd {
	return searchCmd(func(ctx context.Context) error {
		return svc.ApplySearchFilters(ctx, filters)
	})
}

// LoadMoreSearchCmd appends the next search page
func LoadMoreSearchCmd(svc *service.CatalogService) tea.Cmd {
	return searchCmd(svc.LoadMoreSearch)
}

// GoToSearchPageCmd replaces the search feed with page
func GoToSearchPageCmd(svc *service.CatalogService, page int) tea.Cmd {
	return searchCmd(func(ctx context.Context) error {
		return svc.GoToSearchPage(ctx, page)
	})
}

// ResumeLastSearchCmd re-runs the persisted query when the search screen opens
func ResumeLastSearchCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		resumed, err := svc.ResumeLastSearch(context.Background())
		return LastSearchResumedMsg{Resumed: resumed, Err: err}
	}
}

// FetchDetailsCmd loads the joined details record for id
func FetchDetailsCmd(svc *service.CatalogService, id int) tea.Cmd {
	return func() tea.Msg {
		return DetailsLoadedMsg{MovieID: id, Err: svc.FetchDetails(context.Background(), id)}
	}
}

// EnsureGenresCmd loads the genre list if not cached
func EnsureGenresCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		return GenresLoadedMsg{Err: svc.EnsureGenres(context.Background())}
	}
}

// LoginCmd runs the mock login
func LoginCmd(svc *service.SessionService, username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := svc.Login(context.Background(), username, password)
		return LoginResultMsg{User: user, Err: err}
	}
}

// LogoutCmd clears the session
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		return LogoutMsg{Err: svc.Logout()}
	}
}

// PlayTrailerCmd opens the movie's trailer externally
func PlayTrailerCmd(svc *service.TrailerService, detail domain.MovieDetail) tea.Cmd {
	return func() tea.Msg {
		return TrailerOpenedMsg{Title: detail.Title, Err: svc.PlayTrailer(detail)}
	}
}

// ClearStatusCmd clears status message id after a delay
func ClearStatusCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
