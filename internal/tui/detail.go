package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/format"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/resource"
)

// Layout constants
const (
	leftPanelRatio = 0.4
	minLeftWidth   = 30
	maxLeftWidth   = 56
	borderSize     = 2
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))
)

// DetailModel shows one photo: metadata on the left, description and links in a
// scrollable panel on the right.
type DetailModel struct {
	deps    Deps
	photoID string
	photo   resource.Resource[domain.Photo]

	spinner  spinner.Model
	viewport viewport.Model
	keymap   KeyMap

	toast    string
	toastErr bool

	width  int
	height int
}

// NewDetailModel creates a detail view that loads photoID. It starts in the
// loading state since Init always issues the first load.
func NewDetailModel(deps Deps, photoID string) DetailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	vp := viewport.New(40, 10) // resized on WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return DetailModel{
		deps:     deps,
		photoID:  photoID,
		photo:    resource.Loading[domain.Photo]{},
		spinner:  sp,
		viewport: vp,
		keymap:   DefaultKeyMap(),
	}
}

// Init starts loading the photo unless it is already shown.
func (m DetailModel) Init() tea.Cmd {
	if _, ok := m.loaded(); ok {
		return tea.WindowSize()
	}
	return tea.Batch(m.spinner.Tick, tea.WindowSize(), m.loadPhoto())
}

func (m DetailModel) loadPhoto() tea.Cmd {
	api, id, ctx := m.deps.API, m.photoID, m.deps.Ctx
	return func() tea.Msg {
		ch := resource.Run(ctx, func(ctx context.Context) (domain.Photo, error) {
			return api.GetPhoto(ctx, id)
		})
		return photoLoadedMsg{id: id, res: resource.Await(ch)}
	}
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case photoLoadedMsg:
		if msg.id != m.photoID {
			return m, nil
		}
		m.photo = msg.res
		m.updateViewportContent()
		return m, nil

	case downloadQueuedMsg:
		if msg.err != nil {
			m.toast, m.toastErr = "Download failed: "+msg.err.Error(), true
		} else {
			m.toast, m.toastErr = "Downloading "+msg.fileName, false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DetailModel) loaded() (domain.Photo, bool) {
	s, ok := m.photo.(resource.Success[domain.Photo])
	return s.Value, ok
}

func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back), msg.String() == "q":
		return m, emit(m.deps, nav.Back{})
	case msg.String() == "ctrl+c":
		return m, func() tea.Msg { return QuitMsg{} }
	case key.Matches(msg, m.keymap.Refresh):
		if _, failed := m.photo.(resource.Error[domain.Photo]); failed {
			m.photo = resource.Loading[domain.Photo]{}
			return m, m.loadPhoto()
		}
	case key.Matches(msg, m.keymap.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keymap.Up):
		m.viewport.LineUp(1)
	case msg.String() == "ctrl+d":
		m.viewport.HalfViewDown()
	case msg.String() == "ctrl+u":
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keymap.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keymap.Bottom):
		m.viewport.GotoBottom()
	}

	photo, ok := m.loaded()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keymap.Browser):
		if photo.HTMLURL != "" {
			return m, emit(m.deps, nav.OpenURL{URL: photo.HTMLURL})
		}
	case key.Matches(msg, m.keymap.Download):
		return m, queueDownload(m.deps, photo)
	case msg.String() == "u":
		if photo.User.Username != "" {
			return m, emit(m.deps, nav.ToUserDetails{Username: photo.User.Username})
		}
	}
	return m, nil
}

func (m DetailModel) leftWidth(width int) int {
	return min(max(int(float64(width)*leftPanelRatio), minLeftWidth), maxLeftWidth)
}

// resize fits the viewport into the right panel.
func (m *DetailModel) resize() {
	rightWidth := max(m.width-m.leftWidth(m.width)-1, 30)
	contentHeight := max(m.height-2, 10) // header and footer
	m.viewport.Width = rightWidth - borderSize - 2
	m.viewport.Height = contentHeight - borderSize - 1
	m.updateViewportContent()
}

// View renders the split-screen detail view
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	header := dimStyle.Render("[esc]back [o]open [d]download [u]photographer [j/k]scroll")

	var body string
	switch r := m.photo.(type) {
	case resource.Success[domain.Photo]:
		leftWidth := m.leftWidth(width)
		rightWidth := width - leftWidth - 1
		contentHeight := max(height-2, 10)

		left := panelBorderStyle.
			Width(leftWidth - borderSize).
			Height(contentHeight - borderSize).
			Render(m.renderInfo(r.Value, leftWidth-borderSize))
		right := focusedPanelBorderStyle.
			Width(rightWidth - borderSize).
			Height(contentHeight - borderSize).
			Render(m.viewport.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	case resource.Error[domain.Photo]:
		body = lipgloss.Place(width, height-2, lipgloss.Center, lipgloss.Center,
			ErrorStyle.Render("Failed to load photo: "+r.Err.Error())+"\n\n"+dimStyle.Render("r to retry, esc to go back"))
	default:
		body = lipgloss.Place(width, height-2, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading photo...")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter(width))
}

func (m DetailModel) renderFooter(width int) string {
	left := ""
	switch {
	case m.toast != "" && m.toastErr:
		left = errorStyle.Render("✗ " + m.toast)
	case m.toast != "":
		left = successStyle.Render("✓ " + m.toast)
	}

	right := ""
	if _, ok := m.loaded(); ok && m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			right = "TOP"
		case m.viewport.AtBottom():
			right = "END"
		default:
			right = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		}
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return left + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderInfo renders the metadata panel.
func (m DetailModel) renderInfo(p domain.Photo, width int) string {
	var b strings.Builder

	title := p.Description
	if title == "" {
		title = "Untitled"
	}
	b.WriteString(detailTitleStyle.Render(wordwrap.String(title, width-2)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label + ": "))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteString("\n")
	}

	photographer := "@" + p.User.Username
	if p.User.Name != "" {
		photographer = p.User.Name + " (@" + p.User.Username + ")"
	}
	field("By", photographer)
	field("Size", format.Dimensions(p.Width, p.Height))
	field("Likes", format.AbbreviateCount(p.Likes))
	if p.Downloads > 0 {
		field("Downloads", format.AbbreviateCount(p.Downloads))
	}
	if p.Views > 0 {
		field("Views", format.AbbreviateCount(p.Views))
	}
	if !p.CreatedAt.IsZero() {
		field("Uploaded", format.Since(p.CreatedAt))
	}
	field("Location", p.Location)
	if p.Color != "" {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(p.Color)).Render("  ")
		b.WriteString(detailLabelStyle.Render("Color: "))
		b.WriteString(swatch + " " + detailValueStyle.Render(p.Color))
		b.WriteString("\n")
	}
	return b.String()
}

// updateViewportContent writes the description, tags and links into the viewport.
func (m *DetailModel) updateViewportContent() {
	p, ok := m.loaded()
	if !ok {
		return
	}
	wrapWidth := max(m.viewport.Width-2, 20)

	var b strings.Builder
	b.WriteString(authorStyle.Render("Description"))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(wordwrap.String(p.Description, wrapWidth))
	} else {
		b.WriteString(dimStyle.Render("No description"))
	}

	if len(p.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(authorStyle.Render("Tags"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(strings.Join(p.Tags, " · "), wrapWidth))
	}

	if p.User.Bio != "" {
		b.WriteString("\n\n")
		b.WriteString(authorStyle.Render("About @" + p.User.Username))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(p.User.Bio, wrapWidth))
	}

	b.WriteString("\n\n")
	b.WriteString(authorStyle.Render("Links"))
	b.WriteString("\n")
	for _, link := range []struct{ label, url string }{
		{"Page", p.HTMLURL},
		{"Full", p.URLs.Full},
		{"Regular", p.URLs.Regular},
	} {
		if link.url != "" {
			b.WriteString(detailLabelStyle.Render(link.label+": ") + link.url + "\n")
		}
	}

	m.viewport.SetContent(b.String())
}

type photoLoadedMsg struct {
	id  string
	res resource.Resource[domain.Photo]
}
