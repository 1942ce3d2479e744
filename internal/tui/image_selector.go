package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/jewelchat/internal/render"
)

// ImageSelectorModel lets the user choose which reply images to save.
// Every image starts selected.
type ImageSelectorModel struct {
	refs     []string
	selected map[int]bool
	cursor   int

	confirmed bool
	cancelled bool

	width  int
	height int
}

// NewImageSelectorModel creates a selector over image references
func NewImageSelectorModel(refs []string) ImageSelectorModel {
	selected := make(map[int]bool, len(refs))
	for i := range refs {
		selected[i] = true
	}
	return ImageSelectorModel{
		refs:     refs,
		selected: selected,
		width:    80,
		height:   20,
	}
}

// Update handles keys for the selector
func (m ImageSelectorModel) Update(msg tea.Msg) (ImageSelectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if len(m.refs) == 0 {
			m.cancelled = true
			return m, nil
		}

		switch msg.String() {
		case "esc", "q":
			m.cancelled = true

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.refs) - 1
			}

		case "down", "j":
			m.cursor++
			if m.cursor >= len(m.refs) {
				m.cursor = 0
			}

		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]

		case "a":
			for i := range m.refs {
				m.selected[i] = true
			}

		case "n":
			m.selected = make(map[int]bool)

		case "enter":
			m.confirmed = true

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.refs) - 1
		}
	}

	return m, nil
}

// View renders the selector
func (m ImageSelectorModel) View() string {
	var b strings.Builder

	b.WriteString(inputLabelStyle.Render("Save images"))
	b.WriteString("\n\n")

	maxVisible := m.height - 6
	if maxVisible < 3 {
		maxVisible = 3
	}
	startIdx := 0
	if m.cursor >= maxVisible {
		startIdx = m.cursor - maxVisible + 1
	}
	endIdx := startIdx + maxVisible
	if endIdx > len(m.refs) {
		endIdx = len(m.refs)
	}

	maxLen := m.width - 10
	if maxLen < 20 {
		maxLen = 20
	}
	cursorStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	checkedStyle := lipgloss.NewStyle().Foreground(colorAssistant).Bold(true)

	for i := startIdx; i < endIdx; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		checkbox := "[ ] "
		if m.selected[i] {
			checkbox = checkedStyle.Render("[x] ")
		}

		line := truncate(render.DescribeImage(fmt.Sprintf("Image %d", i+1), m.refs[i]), maxLen)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(cursor + checkbox + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("  %d of %d selected", m.SelectedCount(), len(m.refs))))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("  space toggle • a all • n none • enter save • esc cancel"))

	return b.String()
}

// SelectedCount returns the number of selected images
func (m ImageSelectorModel) SelectedCount() int {
	count := 0
	for _, v := range m.selected {
		if v {
			count++
		}
	}
	return count
}

// Selected returns the chosen references in reply order
func (m ImageSelectorModel) Selected() []string {
	var refs []string
	for i, ref := range m.refs {
		if m.selected[i] {
			refs = append(refs, ref)
		}
	}
	return refs
}

// IsConfirmed reports whether the user confirmed the selection
func (m ImageSelectorModel) IsConfirmed() bool {
	return m.confirmed && !m.cancelled
}

// IsCancelled reports whether the user cancelled
func (m ImageSelectorModel) IsCancelled() bool {
	return m.cancelled
}

// Done reports whether the selector should close
func (m ImageSelectorModel) Done() bool {
	return m.confirmed || m.cancelled
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
