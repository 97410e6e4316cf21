package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
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

// newMemoryStore returns a store that keeps state in memory only
func newMemoryStore(t *testing.T) *store.LocalStore {
	t.Helper()
	s, err := store.NewLocalStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func movie(id int, title string) domain.Movie {
	return domain.Movie{ID: id, Title: title}
}

func pageOf(page, totalPages, totalResults int, movies ...domain.Movie) domain.Page {
	return domain.Page{Items: movies, Page: page, TotalPages: totalPages, TotalResults: totalResults}
}

func ids(movies []domain.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}
