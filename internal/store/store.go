package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketState = []byte("state")
)

// Persisted keys
const (
	keyUser       = "user"
	keyFavorites  = "favorites"
	keyLastSearch = "lastSearch"
	keyThemeMode  = "themeMode"
)

// LocalStore implements domain.LocalStore using BoltDB.
type LocalStore struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.LocalStore = (*LocalStore)(nil)

// NewLocalStore opens (or creates) the state file at path.
// An empty path gives a memory-only store.
func NewLocalStore(path string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		// Memory-only mode (no persistence)
		return &LocalStore{logger: logger, cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LocalStore{db: db, logger: logger, cache: make(map[string][]byte)}, nil
}

func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get decodes key into dest. Malformed values are treated as absent.
func (s *LocalStore) get(key string, dest interface{}) bool {
	data, ok := s.raw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("ignoring unreadable stored value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *LocalStore) raw(key string) ([]byte, bool) {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to read stored value", "key", key, "error", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, true
}

func (s *LocalStore) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	// The cache only ever holds values that reached the database
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketState).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

func (s *LocalStore) delete(key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketState).Delete([]byte(key))
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// === Session ===

func (s *LocalStore) LoadUser() (*domain.User, bool) {
	var user domain.User
	if !s.get(keyUser, &user) || user.Username == "" {
		return nil, false
	}
	return &user, true
}

func (s *LocalStore) SaveUser(user domain.User) error {
	return s.set(keyUser, user)
}

func (s *LocalStore) ClearUser() error {
	return s.delete(keyUser)
}

// === Favorites ===

func (s *LocalStore) LoadFavorites() ([]domain.Movie, bool) {
	var favorites []domain.Movie
	if !s.get(keyFavorites, &favorites) {
		return nil, false
	}
	return favorites, true
}

func (s *LocalStore) SaveFavorites(favorites []domain.Movie) error {
	if favorites == nil {
		favorites = []domain.Movie{}
	}
	return s.set(keyFavorites, favorites)
}

// === Last search ===

func (s *LocalStore) LoadLastSearch() (string, bool) {
	var query string
	if !s.get(keyLastSearch, &query) || query == "" {
		return "", false
	}
	return query, true
}

func (s *LocalStore) SaveLastSearch(query string) error {
	return s.set(keyLastSearch, query)
}

// === Theme ===

func (s *LocalStore) LoadThemeMode() (domain.ThemeMode, bool) {
	var raw string
	if !s.get(keyThemeMode, &raw) {
		return "", false
	}
	mode, err := domain.ParseThemeMode(raw)
	if err != nil {
		s.logger.Warn("ignoring unknown theme mode", "value", raw)
		return "", false
	}
	return mode, true
}

func (s *LocalStore) SaveThemeMode(mode domain.ThemeMode) error {
	return s.set(keyThemeMode, string(mode))
}
