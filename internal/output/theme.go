package output

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet represents a collection of icons keyed by semantic usage.
type IconSet map[string]string

func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the palette used for terminal output.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme centralizes palette and icon configuration.
type Theme struct {
	colors   Colors
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// NewTheme constructs a Theme with optional overrides applied.
func NewTheme(opts ...Option) Theme {
	defaults := []Option{
		WithColors(Colors{
			Primary:    lipgloss.Color("#3a6b4a"),
			Secondary:  lipgloss.Color("#5a8c6a"),
			Accent:     lipgloss.Color("#8fc279"),
			Background: lipgloss.Color("#f8f8f8"),
			Muted:      lipgloss.Color("#9ba8c0"),
			Success:    lipgloss.Color("#5dc796"),
			Error:      lipgloss.Color("#f04c56"),
		}),
		WithIconSet(defaultIconSet()),
	}

	t := Theme{fallback: asciiIcons.clone()}
	for _, opt := range append(defaults, opts...) {
		opt(&t)
	}
	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	return t
}

// Colors exposes the theme color palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// HeaderStyle returns the style used for the result header.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.colors.Primary)
}

// TitleStyle returns the style used for trailer titles.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// LinkStyle returns the style used for trailer URLs.
func (t Theme) LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.colors.Secondary).
		Underline(true)
}

// BadgeStyle returns the badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	switch kind {
	case BadgeSuccess:
		return base.Background(t.colors.Success).Foreground(t.colors.Background)
	case BadgeError:
		return base.Background(t.colors.Error).Foreground(t.colors.Background)
	case BadgeMuted:
		return base.Background(t.colors.Muted).Foreground(t.colors.Background)
	default:
		return base.Background(t.colors.Accent).Foreground(t.colors.Background)
	}
}

func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"metadata":     "🎬",
	"video_search": "🎥",
	"link":         "🔗",
	"success":      "✅",
	"error":        "❌",
	"unknown":      "❓",
	"mail":         "📧",
}

var asciiIcons = IconSet{
	"metadata":     "[M]",
	"video_search": "[V]",
	"link":         "[→]",
	"success":      "[v]",
	"error":        "[!]",
	"unknown":      "[?]",
	"mail":         "[@]",
}
