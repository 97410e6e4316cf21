package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// DefaultLoginDelay is the simulated login round-trip
const DefaultLoginDelay = time.Second

// SessionService manages the mock login session
type SessionService struct {
	storage domain.SessionStorage
	delay   time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	session domain.Session
	attempt uint64 // Bumped by every Login and Logout; a login only completes if still current
}

// NewSessionService creates a new SessionService. A negative delay uses DefaultLoginDelay.
func NewSessionService(storage domain.SessionStorage, delay time.Duration, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	if delay < 0 {
		delay = DefaultLoginDelay
	}
	return &SessionService{
		storage: storage,
		delay:   delay,
		logger:  logger,
	}
}

// LoadSession restores a persisted user. It reports whether one was found.
func (s *SessionService) LoadSession() bool {
	user, ok := s.storage.LoadUser()
	if !ok {
		return false
	}

	s.mu.Lock()
	s.session = domain.Session{Status: domain.SessionAuthenticated, User: user}
	s.mu.Unlock()

	s.logger.Debug("restored session", "username", user.Username)
	return true
}

// Login simulates a round-trip and signs in any non-empty username/password pair.
// Until the new login succeeds a previously signed-in user stays signed in.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		err := &domain.ValidationError{Message: "Username and password are required"}
		s.mu.Lock()
		s.session.Err = err
		s.mu.Unlock()
		return domain.User{}, err
	}

	s.mu.Lock()
	s.attempt++
	attempt := s.attempt
	prior := settled(s.session)
	s.session = domain.Session{Status: domain.SessionAuthenticating, User: prior.User}
	s.mu.Unlock()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		s.mu.Lock()
		if s.attempt == attempt {
			s.session = prior
			s.session.Err = err
		}
		s.mu.Unlock()
		return domain.User{}, err
	case <-timer.C:
	}

	user := domain.User{
		Username:    username,
		DisplayName: "User " + username,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt != attempt {
		return domain.User{}, ErrStaleResponse
	}

	if err := s.storage.SaveUser(user); err != nil {
		s.logger.Error("failed to save session", "error", err)
	}
	s.session = domain.Session{Status: domain.SessionAuthenticated, User: &user}
	s.logger.Info("logged in", "username", username)
	return user, nil
}

// Logout clears the session in memory and in storage
func (s *SessionService) Logout() error {
	s.mu.Lock()
	s.attempt++
	s.session = domain.Session{Status: domain.SessionAnonymous}
	s.mu.Unlock()

	if err := s.storage.ClearUser(); err != nil {
		s.logger.Error("failed to clear session", "error", err)
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// Session returns a snapshot of the session
func (s *SessionService) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	return session
}

// IsAuthenticated returns true when a user is logged in
func (s *SessionService) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

// settled returns the non-loading state session falls back to
func settled(session domain.Session) domain.Session {
	status := domain.SessionAnonymous
	if session.User != nil {
		status = domain.SessionAuthenticated
	}
	return domain.Session{Status: status, User: session.User}
}
