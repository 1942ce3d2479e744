package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// User is the accent of user bubbles, Assistant of assistant bubbles
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	AmethystTheme = TUITheme{
		Name:        "amethyst",
		Description: "Amethyst - violet accents on deep purple (default)",

		Background: lipgloss.Color("#1b1626"),
		Surface:    lipgloss.Color("#272035"),
		Border:     lipgloss.Color("#4a3f63"),

		User:      lipgloss.Color("#b48ef2"),
		Assistant: lipgloss.Color("#7fd1c7"),
		Accent:    lipgloss.Color("#e39ff6"),
		Warning:   lipgloss.Color("#f2c572"),
		Error:     lipgloss.Color("#f2708a"),

		Text:     lipgloss.Color("#e6def5"),
		TextDim:  lipgloss.Color("#8a7fa3"),
		TextMute: lipgloss.Color("#4a3f63"),
	}

	EmeraldTheme = TUITheme{
		Name:        "emerald",
		Description: "Emerald - green accents on dark slate",

		Background: lipgloss.Color("#121a17"),
		Surface:    lipgloss.Color("#1c2723"),
		Border:     lipgloss.Color("#35503f"),

		User:      lipgloss.Color("#50c878"),
		Assistant: lipgloss.Color("#8fd3fe"),
		Accent:    lipgloss.Color("#c3e88d"),
		Warning:   lipgloss.Color("#ffcb6b"),
		Error:     lipgloss.Color("#ff6e6e"),

		Text:     lipgloss.Color("#dcefe4"),
		TextDim:  lipgloss.Color("#6f8f7d"),
		TextMute: lipgloss.Color("#35503f"),
	}

	SapphireTheme = TUITheme{
		Name:        "sapphire",
		Description: "Sapphire - cool blues",

		Background: lipgloss.Color("#0f1524"),
		Surface:    lipgloss.Color("#182136"),
		Border:     lipgloss.Color("#2f4270"),

		User:      lipgloss.Color("#5b8def"),
		Assistant: lipgloss.Color("#9ccfd8"),
		Accent:    lipgloss.Color("#c4a7e7"),
		Warning:   lipgloss.Color("#f6c177"),
		Error:     lipgloss.Color("#eb6f92"),

		Text:     lipgloss.Color("#dbe4f7"),
		TextDim:  lipgloss.Color("#6e7fa8"),
		TextMute: lipgloss.Color("#2f4270"),
	}

	RubyTheme = TUITheme{
		Name:        "ruby",
		Description: "Ruby - warm reds",

		Background: lipgloss.Color("#1f1214"),
		Surface:    lipgloss.Color("#2d1a1d"),
		Border:     lipgloss.Color("#5c2f36"),

		User:      lipgloss.Color("#e0115f"),
		Assistant: lipgloss.Color("#f4a261"),
		Accent:    lipgloss.Color("#ff8fab"),
		Warning:   lipgloss.Color("#e9c46a"),
		Error:     lipgloss.Color("#ff4d4d"),

		Text:     lipgloss.Color("#f5e1e4"),
		TextDim:  lipgloss.Color("#a07880"),
		TextMute: lipgloss.Color("#5c2f36"),
	}
)

var currentTUITheme = AmethystTheme

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme activates a theme by name; unknown names are ignored
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes lists the built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{AmethystTheme, EmeraldTheme, SapphireTheme, RubyTheme}
}

// TUIThemeNames returns the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
