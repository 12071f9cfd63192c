package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// FiltersModel is the photo filter dialog.
type FiltersModel struct {
	form    *huh.Form
	filters *domain.SearchFilters // bound to the form fields
}

func filtersTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(lipgloss.Color("205")).Bold(true)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(lipgloss.Color("170"))
	return t
}

// NewFiltersModel creates the dialog prefilled with current.
func NewFiltersModel(current domain.SearchFilters) FiltersModel {
	f := current

	orders := make([]huh.Option[domain.DisplayOrder], len(domain.AllDisplayOrders))
	for i, o := range domain.AllDisplayOrders {
		orders[i] = huh.NewOption(string(o), o)
	}
	contents := make([]huh.Option[domain.ContentFilter], len(domain.AllContentFilters))
	for i, c := range domain.AllContentFilters {
		contents[i] = huh.NewOption(string(c), c)
	}
	colors := make([]huh.Option[domain.PhotoColor], len(domain.AllColors))
	for i, c := range domain.AllColors {
		colors[i] = huh.NewOption(c.Label(), c)
	}
	orientations := make([]huh.Option[domain.Orientation], len(domain.AllOrientations))
	for i, o := range domain.AllOrientations {
		orientations[i] = huh.NewOption(o.Label(), o)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.DisplayOrder]().
				Title("Order").
				Options(orders...).
				Value(&f.Order),
			huh.NewSelect[domain.ContentFilter]().
				Title("Content safety").
				Options(contents...).
				Value(&f.ContentFilter),
			huh.NewSelect[domain.PhotoColor]().
				Title("Color").
				Options(colors...).
				Value(&f.Color),
			huh.NewSelect[domain.Orientation]().
				Title("Orientation").
				Options(orientations...).
				Value(&f.Orientation),
		).Title("Photo filters"),
	).WithTheme(filtersTheme()).WithShowHelp(true)

	form.SubmitCmd = func() tea.Msg { return FiltersChosenMsg{Filters: f} }
	form.CancelCmd = func() tea.Msg { return filtersCancelledMsg{} }

	return FiltersModel{form: form, filters: &f}
}

// Init initializes the form.
func (m FiltersModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form.
func (m FiltersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m, func() tea.Msg { return QuitMsg{} }
		case "esc":
			return m, func() tea.Msg { return filtersCancelledMsg{} }
		}
	}
	model, cmd := m.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.form = form
	}
	return m, cmd
}

// View renders the form.
func (m FiltersModel) View() string {
	return helpOverlayStyle.Render(m.form.View())
}

// Filters returns the values currently selected in the form.
func (m FiltersModel) Filters() domain.SearchFilters {
	return *m.filters
}
