package tui

import (
	"github.com/mmcdole/reel/internal/domain"
)

// Message types for the TUI. Feed state lives in the services; these messages
// only report that an intent finished and carry its error for the status line.

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + domain.DisplayMessage(e.Err)
	}
	return domain.DisplayMessage(e.Err)
}

// HomeLoadedMsg signals that a home feed request finished
type HomeLoadedMsg struct {
	Err error
}

// SearchLoadedMsg signals that a search feed request finished
type SearchLoadedMsg struct {
	Err error
}

// LastSearchResumedMsg signals that the persisted query was (or wasn't) re-run
type LastSearchResumedMsg struct {
	Resumed bool
	Err     error
}

// DetailsLoadedMsg signals that a details request finished
type DetailsLoadedMsg struct {
	MovieID int
	Err     error
}

// GenresLoadedMsg signals that the genre list is available
type GenresLoadedMsg struct {
	Err error
}

// LoginResultMsg signals that a login attempt finished
type LoginResultMsg struct {
	User domain.User
	Err  error
}

// LogoutMsg signals that the session was cleared
type LogoutMsg struct {
	Err error
}

// TrailerOpenedMsg signals that the trailer was handed to the launcher
type TrailerOpenedMsg struct {
	Title string
	Err   error
}

// ClearStatusMsg clears the status line if it still shows the message with ID
type ClearStatusMsg struct {
	ID int
}
