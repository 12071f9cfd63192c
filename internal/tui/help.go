package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var helpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2).
	MarginTop(1)

// HelpModel renders the key bindings of a KeyMap.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a help overlay for keymap.
func NewHelpModel(keymap KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true
	return HelpModel{help: h, keymap: keymap}
}

// View renders the overlay at the given terminal width.
func (m HelpModel) View(width int) string {
	m.help.Width = width - 8 // border and padding
	return helpOverlayStyle.Render(m.help.View(m.keymap))
}
