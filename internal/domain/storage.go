package domain

// Persistence is split per owning store. Reads report ok=false for absent or
// unreadable values; unreadable values are never surfaced as errors.

// SessionStorage persists the logged in user
type SessionStorage interface {
	LoadUser() (*User, bool)
	SaveUser(user User) error
	ClearUser() error
}

// CatalogStorage persists favorites and the last search query
type CatalogStorage interface {
	LoadFavorites() ([]Movie, bool)
	SaveFavorites(favorites []Movie) error
	LoadLastSearch() (string, bool)
	SaveLastSearch(query string) error
}

// PreferenceStorage persists the theme mode
type PreferenceStorage interface {
	LoadThemeMode() (ThemeMode, bool)
	SaveThemeMode(mode ThemeMode) error
}

// LocalStore is the full persistence adapter
type LocalStore interface {
	SessionStorage
	CatalogStorage
	PreferenceStorage

	Close() error
}
