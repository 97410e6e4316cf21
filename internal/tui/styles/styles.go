package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Dim        lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Rating     lipgloss.Color
}

// Color palettes
var (
	DarkPalette = Palette{
		Accent:     lipgloss.Color("#01B4E4"),
		Background: lipgloss.Color("#0D253F"),
		Surface:    lipgloss.Color("#374151"),
		Text:       lipgloss.Color("#F9FAFB"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Dim:        lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#10B981"),
		Error:      lipgloss.Color("#EF4444"),
		Rating:     lipgloss.Color("#E5A00D"),
	}

	LightPalette = Palette{
		Accent:     lipgloss.Color("#0277BD"),
		Background: lipgloss.Color("#F9FAFB"),
		Surface:    lipgloss.Color("#DBEAFE"),
		Text:       lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#4B5563"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Success:    lipgloss.Color("#047857"),
		Error:      lipgloss.Color("#B91C1C"),
		Rating:     lipgloss.Color("#B45309"),
	}
)

// Theme holds the rendered styles for one mode
type Theme struct {
	Mode    domain.ThemeMode
	Palette Palette

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Rating   lipgloss.Style

	// Tabs
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// List rows
	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style

	// Panels
	Panel      lipgloss.Style
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	Badge      lipgloss.Style

	// Input
	Prompt lipgloss.Style

	// Help
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// ForMode builds the theme for mode. Unknown modes render light.
func ForMode(mode domain.ThemeMode) Theme {
	p := LightPalette
	if mode == domain.ThemeDark {
		p = DarkPalette
	} else {
		mode = domain.ThemeLight
	}

	return Theme{
		Mode:    mode,
		Palette: p,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Success:  lipgloss.NewStyle().Foreground(p.Success),
		Rating:   lipgloss.NewStyle().Foreground(p.Rating),

		TabActive: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		SelectedItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		NormalItem: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Dim).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true).
			MarginBottom(1),
		Badge: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		HelpKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Dim),
	}
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string with spaces to the given width
func Pad(s string, width int) string {
	s = Truncate(s, width)
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// RatingStars renders a 0-10 vote average as five stars
func RatingStars(vote float64) string {
	full := int(vote/2 + 0.5)
	if full > 5 {
		full = 5
	}
	if full < 0 {
		full = 0
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}
