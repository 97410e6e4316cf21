package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// MinPasswordLength is the shortest password the login form accepts
const MinPasswordLength = 4

// validateLogin applies the form rules before the session is asked to log in.
// It returns the message to show, or "" when the input is acceptable.
func validateLogin(username, password string) string {
	switch {
	case strings.TrimSpace(username) == "":
		return "Username is required"
	case password == "":
		return "Password is required"
	case len(password) < MinPasswordLength:
		return "Password must be at least 4 characters"
	}
	return ""
}

// loginForm is the username/password modal
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	err      string
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username: "
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	f := loginForm{username: username, password: password}
	f.username.Focus()
	return f
}

// Reset clears both fields and focuses the username
func (f *loginForm) Reset() {
	f.username.SetValue("")
	f.password.SetValue("")
	f.err = ""
	f.setFocus(0)
}

// Values returns the entered credentials (username trimmed)
func (f loginForm) Values() (string, string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

// Validate checks the fields and records the message to display
func (f *loginForm) Validate() bool {
	username, password := f.Values()
	f.err = validateLogin(username, password)
	return f.err == ""
}

// SetError shows err below the fields
func (f *loginForm) SetError(msg string) {
	f.err = msg
}

func (f *loginForm) setFocus(i int) {
	f.focus = i
	if i == 0 {
		f.username.Focus()
		f.password.Blur()
	} else {
		f.password.Focus()
		f.username.Blur()
	}
}

// Update routes keys to the focused field. submit is true when enter is
// pressed on the password field.
func (f loginForm) Update(msg tea.KeyMsg) (loginForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		f.setFocus(1 - f.focus)
		return f, textinput.Blink, false
	case "enter":
		if f.focus == 0 {
			f.setFocus(1)
			return f, textinput.Blink, false
		}
		return f, nil, true
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd, false
}

// View renders the form
func (f loginForm) View(theme styles.Theme, authenticating bool, spinner string) string {
	var b strings.Builder
	b.WriteString(theme.ModalTitle.Render("Log in"))
	b.WriteString("\n")
	b.WriteString(f.username.View())
	b.WriteString("\n")
	b.WriteString(f.password.View())
	b.WriteString("\n\n")

	switch {
	case authenticating:
		b.WriteString(spinner + " " + theme.Dim.Render("Logging in..."))
	case f.err != "":
		b.WriteString(theme.Error.Render(f.err))
	default:
		b.WriteString(theme.Dim.Render("Any username works; passwords need 4+ characters"))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.HelpKey.Render("enter") + theme.HelpDesc.Render(" submit  ") +
		theme.HelpKey.Render("tab") + theme.HelpDesc.Render(" switch  ") +
		theme.HelpKey.Render("esc") + theme.HelpDesc.Render(" cancel"))

	return theme.Modal.Render(lipgloss.NewStyle().Width(48).Render(b.String()))
}
