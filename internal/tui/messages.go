// Package tui provides Bubble Tea models for the interactive TUI.
package tui

import (
	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/nav"
)

// NavMsg carries a navigation event taken from the navigation channel.
type NavMsg struct {
	Event nav.Event
}

// FiltersChosenMsg is emitted when the filter dialog is submitted.
type FiltersChosenMsg struct {
	Filters domain.SearchFilters
}

// filtersCancelledMsg is emitted when the filter dialog is dismissed.
type filtersCancelledMsg struct{}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// downloadQueuedMsg reports the outcome of queueing a photo download.
type downloadQueuedMsg struct {
	fileName string
	err      error
}
