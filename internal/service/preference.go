package service

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// PreferenceService holds the light/dark theme flag
type PreferenceService struct {
	storage domain.PreferenceStorage
	logger  *slog.Logger

	mu   sync.Mutex
	mode domain.ThemeMode
}

// NewPreferenceService creates a PreferenceService, restoring the persisted mode.
// A missing or unknown stored value starts in light mode.
func NewPreferenceService(storage domain.PreferenceStorage, logger *slog.Logger) *PreferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	mode, ok := storage.LoadThemeMode()
	if !ok {
		mode = domain.ThemeLight
	}
	return &PreferenceService{storage: storage, logger: logger, mode: mode}
}

// Mode returns the current theme mode
func (s *PreferenceService) Mode() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips between light and dark and returns the new mode
func (s *PreferenceService) Toggle() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = s.mode.Opposite()
	s.persistLocked()
	return s.mode
}

// Set switches to mode
func (s *PreferenceService) Set(mode domain.ThemeMode) error {
	mode, err := domain.ParseThemeMode(string(mode))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	s.persistLocked()
	return nil
}

func (s *PreferenceService) persistLocked() {
	if err := s.storage.SaveThemeMode(s.mode); err != nil {
		s.logger.Error("failed to save theme mode", "error", err)
	}
	s.logger.Debug("theme mode changed", "mode", s.mode)
}
