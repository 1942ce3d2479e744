package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Markdown style names understood by glamour
const (
	StyleAuto       = "auto"
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleAuto, Description: "Dark or light, following the terminal background (default)"},
		{Name: StyleDark, Description: "Dark theme"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style names a built-in style
func IsBuiltinStyle(style string) bool {
	for _, name := range StyleNames() {
		if name == style {
			return true
		}
	}
	return false
}

// ValidateStyle accepts a built-in style or a readable JSON style file
func ValidateStyle(style string) error {
	if IsBuiltinStyle(style) {
		return nil
	}
	info, err := os.Stat(style)
	if err != nil {
		return fmt.Errorf("unknown style %q: not a built-in style or readable file", style)
	}
	if info.IsDir() {
		return fmt.Errorf("style path %q is a directory", style)
	}
	return nil
}

var (
	backgroundOnce sync.Once
	darkBackground = true
)

// ResolveStyle maps "auto" (or "") to dark or light from the terminal background.
// The background is queried once per process.
func ResolveStyle(style string) string {
	if style != "" && style != StyleAuto {
		return style
	}
	backgroundOnce.Do(func() {
		darkBackground = termenv.HasDarkBackground()
	})
	if darkBackground {
		return StyleDark
	}
	return StyleLight
}
