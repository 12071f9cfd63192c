package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/format"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/paging"
	"github.com/androiddevnotesforks/walleria/internal/search"
)

// Layout constants
const (
	minColumnWidth  = 28
	maxColumnWidth  = 70
	loadThreshold   = 5 // rows before the end that trigger the next page
	pageJumpSize    = 10
	maxSuggestions  = 5
	reservedHeaders = 2 // header and hint lines
)

// row is one rendered result.
type row struct {
	title  string
	suffix string
	open   nav.Event
	url    string
	photo  *domain.Photo
}

// columnView is what a column shows at one instant.
type columnView struct {
	rows    []row
	loading bool
	err     error
	end     bool
}

// column is one paginated result list.
type column interface {
	name() string
	view() columnView
	// load fetches the next page. Failed loads are only retried when retry is set.
	load(ctx context.Context, index int, retry bool) tea.Cmd
	refresh(ctx context.Context, index int) tea.Cmd
	// owns reports whether src is the pager currently backing the column.
	owns(src any) bool
}

// feed adapts a pager to a column. pager is called on every access so a column
// follows the composer when its inputs change.
type feed[T any] struct {
	label string
	pager func() *paging.Pager[T]
	toRow func(T) row
}

func (f feed[T]) name() string { return f.label }

func (f feed[T]) view() columnView {
	snap := f.pager().Snapshot()
	rows := make([]row, len(snap.Items))
	for i, item := range snap.Items {
		rows[i] = f.toRow(item)
	}
	err := snap.Err()
	if apierr.IsCancelled(err) {
		err = nil
	}
	return columnView{rows: rows, loading: snap.Loading(), err: err, end: snap.EndReached}
}

func (f feed[T]) load(ctx context.Context, index int, retry bool) tea.Cmd {
	p := f.pager()
	snap := p.Snapshot()
	if snap.Loading() || snap.EndReached || (snap.Err() != nil && !retry) {
		return nil
	}
	return func() tea.Msg {
		var err error
		if snap.Err() != nil {
			_, err = p.Retry(ctx)
		} else {
			_, err = p.LoadNext(ctx)
		}
		return pageLoadedMsg{column: index, source: p, err: err}
	}
}

func (f feed[T]) refresh(ctx context.Context, index int) tea.Cmd {
	p := f.pager()
	return func() tea.Msg {
		_, err := p.Refresh(ctx)
		return pageLoadedMsg{column: index, source: p, err: err}
	}
}

func (f feed[T]) owns(src any) bool {
	p, ok := src.(*paging.Pager[T])
	return ok && p == f.pager()
}

func photoRow(p domain.Photo) row {
	title := p.Description
	if title == "" {
		title = "Untitled"
	}
	if p.User.Username != "" {
		title += " by @" + p.User.Username
	}
	photo := p
	return row{
		title:  title,
		suffix: "♥ " + format.AbbreviateCount(p.Likes),
		open:   nav.ToPhotoDetails{PhotoID: p.ID},
		url:    p.HTMLURL,
		photo:  &photo,
	}
}

func collectionRow(c domain.Collection) row {
	return row{
		title:  c.Title,
		suffix: format.AbbreviateCount(c.TotalPhotos) + " photos",
		open:   nav.ToCollectionDetails{ID: c.ID},
		url:    c.HTMLURL,
	}
}

func userRow(u domain.User) row {
	title := "@" + u.Username
	if u.Name != "" {
		title += " (" + u.Name + ")"
	}
	return row{
		title:  title,
		suffix: format.AbbreviateCount(u.TotalPhotos) + " photos",
		open:   nav.ToUserDetails{Username: u.Username},
		url:    u.HTMLURL,
	}
}

// ResultsModel shows one or more paginated result columns side by side. The search
// screen has a query input and three columns driven by a search.Composer; feed screens
// (topic, collection and user photos) have a single photo column.
type ResultsModel struct {
	deps     Deps
	title    string
	composer *search.Composer // nil on feed screens
	closeFn  func()
	columns  []column

	// UI components
	keymap     KeyMap
	help       HelpModel
	spinner    spinner.Model
	queryInput textinput.Model

	// Selection state, per column
	selectedColumn int
	columnOffset   int
	selected       []int
	scrollOffset   []int

	// View state
	width       int
	height      int
	showHelp    bool
	inputMode   bool
	suggestions []string
	toast       string
	toastErr    bool
}

func newResultsModel(deps Deps, title string, columns []column) ResultsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search photos, collections and users..."
	ti.Prompt = "/ "
	ti.PromptStyle = PromptStyle

	return ResultsModel{
		deps:         deps,
		title:        title,
		columns:      columns,
		keymap:       DefaultKeyMap(),
		help:         NewHelpModel(DefaultKeyMap()),
		spinner:      sp,
		queryInput:   ti,
		selected:     make([]int, len(columns)),
		scrollOffset: make([]int, len(columns)),
	}
}

// NewSearchModel creates the search screen. A non-empty query is searched right away;
// otherwise the query input starts focused.
func NewSearchModel(deps Deps, query string) ResultsModel {
	c := search.New(deps.Ctx, deps.API,
		search.WithInitialQuery(query),
		search.WithHistory(deps.History),
		search.WithPageSize(deps.PageSize),
	)
	m := newResultsModel(deps, "Search", []column{
		feed[domain.Photo]{label: "Photos", pager: c.Photos, toRow: photoRow},
		feed[domain.Collection]{label: "Collections", pager: c.Collections, toRow: collectionRow},
		feed[domain.User]{label: "Users", pager: c.Users, toRow: userRow},
	})
	m.composer = c
	m.closeFn = c.Close
	m.queryInput.SetValue(query)
	if query == "" {
		m.inputMode = true
		m.queryInput.Focus()
	}
	return m
}

// NewFeedModel creates a single-column photo screen over fetch.
func NewFeedModel(deps Deps, title string, fetch paging.FetchFunc[domain.Photo]) ResultsModel {
	p := paging.New(deps.Ctx, deps.PageSize, fetch)
	m := newResultsModel(deps, title, []column{
		feed[domain.Photo]{label: "Photos", pager: func() *paging.Pager[domain.Photo] { return p }, toRow: photoRow},
	})
	m.closeFn = p.Close
	return m
}

// Close cancels the screen's streams.
func (m ResultsModel) Close() {
	if m.closeFn != nil {
		m.closeFn()
	}
}

// Init loads the first page of every column that has nothing yet.
func (m ResultsModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tea.WindowSize()}
	if m.inputMode {
		cmds = append(cmds, textinput.Blink, m.suggest(""))
	}
	if m.composer == nil || m.composer.Query() != "" {
		cmds = append(cmds, m.loadEmptyColumns())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pageLoadedMsg:
		if msg.column >= len(m.columns) || !m.columns[msg.column].owns(msg.source) {
			// Result for inputs that have since changed.
			return m, nil
		}
		if msg.err != nil && !apierr.IsCancelled(msg.err) && !errors.Is(msg.err, paging.ErrLoadInFlight) {
			m.setToast(fmt.Sprintf("%s: %v", m.columns[msg.column].name(), msg.err), true)
			logging.Warn("page load failed", "screen", m.title, "column", m.columns[msg.column].name(), "err", msg.err)
			return m, nil
		}
		return m, m.maybeLoadMore()

	case suggestionsMsg:
		if msg.prefix == m.queryInput.Value() {
			m.suggestions = msg.items
		}
		return m, nil

	case FiltersChosenMsg:
		if m.composer == nil {
			return m, nil
		}
		m.composer.SetFilters(msg.Filters)
		(&m).resetSelection(0)
		return m, m.columns[0].load(m.deps.Ctx, 0, false)

	case downloadQueuedMsg:
		if msg.err != nil {
			m.setToast("Download failed: "+msg.err.Error(), true)
		} else {
			m.setToast("Downloading "+msg.fileName, false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m ResultsModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Back, m.keymap.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.inputMode {
		return m.handleInput(msg)
	}

	switch {
	case msg.String() == "q" && m.composer == nil:
		return m, emit(m.deps, nav.Back{})
	case key.Matches(msg, m.keymap.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	case key.Matches(msg, m.keymap.Back):
		return m, emit(m.deps, nav.Back{})
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Search):
		if m.composer != nil {
			m.inputMode = true
			m.queryInput.Focus()
			return m, tea.Batch(textinput.Blink, m.suggest(m.queryInput.Value()))
		}
	case key.Matches(msg, m.keymap.Filters):
		if m.composer != nil {
			filters := m.composer.Filters()
			return m, func() tea.Msg { return openFiltersMsg{filters: filters} }
		}
	case key.Matches(msg, m.keymap.PrevTab):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			(&m).adjustColumnScroll()
		}
		return m, m.maybeLoadMore()
	case key.Matches(msg, m.keymap.NextTab):
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			(&m).adjustColumnScroll()
		}
		return m, m.maybeLoadMore()
	case key.Matches(msg, m.keymap.Down):
		(&m).moveSelection(1)
		return m, m.maybeLoadMore()
	case key.Matches(msg, m.keymap.Up):
		(&m).moveSelection(-1)
	case key.Matches(msg, m.keymap.Top):
		(&m).jumpTo(0)
	case key.Matches(msg, m.keymap.Bottom):
		(&m).jumpTo(-1)
		return m, m.maybeLoadMore()
	case msg.String() == "ctrl+d":
		(&m).moveSelection(pageJumpSize)
		return m, m.maybeLoadMore()
	case msg.String() == "ctrl+u":
		(&m).moveSelection(-pageJumpSize)
	case key.Matches(msg, m.keymap.LoadMore):
		return m, m.columns[m.selectedColumn].load(m.deps.Ctx, m.selectedColumn, true)
	case key.Matches(msg, m.keymap.Refresh):
		col := m.columns[m.selectedColumn]
		if col.view().err != nil {
			m.toast = ""
			return m, col.load(m.deps.Ctx, m.selectedColumn, true)
		}
		return m, col.refresh(m.deps.Ctx, m.selectedColumn)
	case key.Matches(msg, m.keymap.Open):
		if r, ok := m.selectedRow(); ok {
			return m, emit(m.deps, r.open)
		}
	case key.Matches(msg, m.keymap.Browser):
		if r, ok := m.selectedRow(); ok && r.url != "" {
			return m, emit(m.deps, nav.OpenURL{URL: r.url})
		}
	case key.Matches(msg, m.keymap.Download):
		if r, ok := m.selectedRow(); ok && r.photo != nil {
			return m, queueDownload(m.deps, *r.photo)
		}
	case key.Matches(msg, m.keymap.Topics):
		return m, emit(m.deps, nav.ToTopicList{})
	case key.Matches(msg, m.keymap.Profile):
		return m, emit(m.deps, nav.ToProfile{})
	}

	return m, nil
}

// handleInput handles keys while the query input is focused.
func (m ResultsModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, func() tea.Msg { return QuitMsg{} }
	case "enter":
		return m.submit(m.queryInput.Value())
	case "esc":
		m.inputMode = false
		m.queryInput.Blur()
		m.queryInput.SetValue(m.composer.Query())
		m.suggestions = nil
		return m, nil
	case "tab":
		if len(m.suggestions) > 0 {
			m.queryInput.SetValue(m.suggestions[0])
			m.queryInput.CursorEnd()
			return m, m.suggest(m.queryInput.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, tea.Batch(cmd, m.suggest(m.queryInput.Value()))
}

// submit searches for query and loads the first page of every column.
func (m ResultsModel) submit(query string) (ResultsModel, tea.Cmd) {
	if m.composer == nil {
		return m, nil
	}
	query = strings.TrimSpace(query)
	m.inputMode = false
	m.queryInput.Blur()
	m.queryInput.SetValue(query)
	m.suggestions = nil
	m.toast = ""

	m.composer.Submit(m.deps.Ctx, query)
	for i := range m.columns {
		(&m).resetSelection(i)
	}
	return m, m.loadEmptyColumns()
}

// suggest looks up recent searches resembling prefix.
func (m ResultsModel) suggest(prefix string) tea.Cmd {
	if m.composer == nil || m.deps.History == nil {
		return nil
	}
	c, ctx := m.composer, m.deps.Ctx
	return func() tea.Msg {
		items, err := c.Suggestions(ctx, prefix, maxSuggestions)
		if err != nil {
			logging.Warn("failed to load suggestions", "err", err)
			return nil
		}
		return suggestionsMsg{prefix: prefix, items: items}
	}
}

func (m ResultsModel) loadEmptyColumns() tea.Cmd {
	var cmds []tea.Cmd
	for i, col := range m.columns {
		if v := col.view(); len(v.rows) == 0 && !v.end {
			cmds = append(cmds, col.load(m.deps.Ctx, i, false))
		}
	}
	return tea.Batch(cmds...)
}

// maybeLoadMore requests the next page of the selected column when the selection
// is close to its end.
func (m ResultsModel) maybeLoadMore() tea.Cmd {
	if len(m.columns) == 0 {
		return nil
	}
	v := m.columns[m.selectedColumn].view()
	if v.end || v.loading || v.err != nil {
		return nil
	}
	if len(v.rows) == 0 || m.selected[m.selectedColumn] >= len(v.rows)-loadThreshold {
		return m.columns[m.selectedColumn].load(m.deps.Ctx, m.selectedColumn, false)
	}
	return nil
}

func (m *ResultsModel) setToast(text string, isErr bool) {
	m.toast = text
	m.toastErr = isErr
}

// View renders the screen.
func (m ResultsModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	sections := []string{m.renderHeader(width), m.renderHints(width)}
	bodyHeight := height - reservedHeaders

	if m.inputMode {
		sections = append(sections, m.queryInput.View())
		bodyHeight--
		if len(m.suggestions) > 0 {
			sections = append(sections, dimStyle.Render("recent: "+strings.Join(m.suggestions, " · ")+"  [tab] complete"))
			bodyHeight--
		}
	}
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	switch {
	case m.showHelp:
		lines := strings.Split(m.help.View(width), "\n")
		if len(lines) > bodyHeight {
			lines = lines[:bodyHeight]
		}
		sections = append(sections, strings.Join(lines, "\n"))
	case m.composer != nil && m.composer.Query() == "" && !m.inputMode:
		hint := "Press / to search. Press t to browse topics."
		sections = append(sections, lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, hint))
	default:
		sections = append(sections, m.renderColumns(width, bodyHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title on the left and the search state on the right.
func (m ResultsModel) renderHeader(width int) string {
	title := m.title
	var status []string
	if m.composer != nil {
		if q := m.composer.Query(); q != "" {
			title = fmt.Sprintf("Search: %q", q)
		}
		f := m.composer.Filters()
		status = append(status, fmt.Sprintf("%s · %s · %s · %s", f.Order, f.ContentFilter, f.Color.Label(), f.Orientation.Label()))
	}
	status = append(status, "[?]help")

	right := strings.Join(status, " | ")
	padding := width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderHints renders key hints on the left and a toast or position on the right.
func (m ResultsModel) renderHints(width int) string {
	left := "h/l:tab j/k:move enter:open o:browser d:download"
	if m.composer != nil {
		left += " /:search f:filters"
	}

	right := ""
	switch {
	case m.toast != "" && m.toastErr:
		right = errorStyle.Render(m.toast)
	case m.toast != "":
		right = successStyle.Render(m.toast)
	case len(m.columns) > 0:
		v := m.columns[m.selectedColumn].view()
		if len(v.rows) > 0 {
			right = fmt.Sprintf("%s %d/%d", strings.ToLower(m.columns[m.selectedColumn].name()), m.selected[m.selectedColumn]+1, len(v.rows))
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + right
}

// renderColumns lays the columns out side by side, scrolling horizontally when they
// do not fit.
func (m ResultsModel) renderColumns(totalWidth, totalHeight int) string {
	numCols := len(m.columns)
	if numCols == 0 {
		return ""
	}

	contentHeight := totalHeight - 2 // border
	if contentHeight < 3 {
		contentHeight = 3
	}

	visibleCols := min(max(totalWidth/minColumnWidth, 1), numCols)
	colWidth := min(max(totalWidth/visibleCols, minColumnWidth), maxColumnWidth)
	if numCols == 1 {
		colWidth = max(totalWidth, minColumnWidth)
	}
	innerWidth := max(colWidth-4, 10) // border and padding

	start := m.columnOffset
	end := start + visibleCols
	if end > numCols {
		end = numCols
		start = max(end-visibleCols, 0)
	}

	views := make([]string, 0, visibleCols+2)
	if start > 0 {
		views = append(views, scrollArrow("◀", contentHeight))
	}
	for i := start; i < end; i++ {
		views = append(views, m.renderColumn(i, colWidth, contentHeight, innerWidth))
	}
	if end < numCols {
		views = append(views, scrollArrow("▶", contentHeight))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func scrollArrow(arrow string, contentHeight int) string {
	return lipgloss.NewStyle().
		Width(2).
		Height(contentHeight+2).
		Foreground(lipgloss.Color("205")).
		Align(lipgloss.Center, lipgloss.Center).
		Render(arrow)
}

// renderColumn renders one column. innerHeight excludes the border.
func (m ResultsModel) renderColumn(index, width, innerHeight, innerWidth int) string {
	col := m.columns[index]
	v := col.view()
	isSelected := index == m.selectedColumn

	header := fmt.Sprintf("[%d] %s (%d)", index+1, col.name(), len(v.rows))
	if v.loading {
		header += " " + m.spinner.View()
	}
	lines := []string{columnHeaderStyle.Render(truncate(header, innerWidth))}

	slots := max(innerHeight-2, 1) // header and footer
	offset := m.scrollOffset[index]
	if offset > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", offset)))
		slots--
	}
	last := min(offset+max(slots, 1), len(v.rows))
	for i := offset; i < last; i++ {
		text := formatRow(v.rows[i], innerWidth-2)
		if isSelected && i == m.selected[index] {
			lines = append(lines, selectedRowStyle.Render("> "+text))
		} else {
			lines = append(lines, rowStyle.Render("  "+text))
		}
	}

	switch {
	case v.err != nil:
		lines = append(lines, errorStyle.Render(truncate("✗ "+v.err.Error(), innerWidth)), dimStyle.Render("r to retry"))
	case v.loading:
		lines = append(lines, dimStyle.Render(m.spinner.View()+" loading..."))
	case v.end && len(v.rows) == 0:
		lines = append(lines, dimStyle.Render("(no results)"))
	case last < len(v.rows):
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", len(v.rows)-last)))
	case !v.end && len(v.rows) > 0:
		lines = append(lines, dimStyle.Render("L to load more"))
	}

	borderColor := lipgloss.Color("240")
	if isSelected {
		borderColor = lipgloss.Color("205")
	}
	return lipgloss.NewStyle().
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}

// formatRow fits a row into maxWidth, right-aligning its suffix.
func formatRow(r row, maxWidth int) string {
	if r.suffix == "" {
		return truncate(r.title, maxWidth)
	}
	suffixLen := lipgloss.Width(r.suffix)
	title := truncate(r.title, max(maxWidth-suffixLen-1, 5))
	padding := max(maxWidth-lipgloss.Width(title)-suffixLen, 1)
	return title + strings.Repeat(" ", padding) + dimStyle.Render(r.suffix)
}

// truncate shortens s to width cells, ending with an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func (m ResultsModel) selectedRow() (row, bool) {
	if len(m.columns) == 0 {
		return row{}, false
	}
	v := m.columns[m.selectedColumn].view()
	idx := m.selected[m.selectedColumn]
	if idx < 0 || idx >= len(v.rows) {
		return row{}, false
	}
	return v.rows[idx], true
}

// moveSelection moves the selection in the current column by delta.
func (m *ResultsModel) moveSelection(delta int) {
	n := len(m.columns[m.selectedColumn].view().rows)
	if n == 0 {
		return
	}
	idx := min(max(m.selected[m.selectedColumn]+delta, 0), n-1)
	m.selected[m.selectedColumn] = idx
	m.adjustScroll()
}

// jumpTo selects row idx of the current column; -1 selects the last row.
func (m *ResultsModel) jumpTo(idx int) {
	n := len(m.columns[m.selectedColumn].view().rows)
	if n == 0 {
		return
	}
	if idx < 0 || idx >= n {
		idx = n - 1
	}
	m.selected[m.selectedColumn] = idx
	m.adjustScroll()
}

func (m *ResultsModel) resetSelection(col int) {
	m.selected[col] = 0
	m.scrollOffset[col] = 0
}

// adjustScroll keeps the selected row visible.
func (m *ResultsModel) adjustScroll() {
	visible := m.height - reservedHeaders - 2 - 4 // borders, header, footer, indicator
	if m.inputMode {
		visible--
	}
	if visible < 3 {
		visible = 3
	}
	col := m.selectedColumn
	sel := m.selected[col]
	if sel < m.scrollOffset[col] {
		m.scrollOffset[col] = sel
	}
	if sel >= m.scrollOffset[col]+visible {
		m.scrollOffset[col] = sel - visible + 1
	}
}

// adjustColumnScroll keeps the selected column visible.
func (m *ResultsModel) adjustColumnScroll() {
	if len(m.columns) == 0 || m.width == 0 {
		return
	}
	visibleCols := min(max(m.width/minColumnWidth, 1), len(m.columns))
	if m.selectedColumn < m.columnOffset {
		m.columnOffset = m.selectedColumn
	}
	if m.selectedColumn >= m.columnOffset+visibleCols {
		m.columnOffset = m.selectedColumn - visibleCols + 1
	}
}

// Message types
type (
	pageLoadedMsg struct {
		column int
		source any // pager the page was loaded into
		err    error
	}
	suggestionsMsg struct {
		prefix string
		items  []string
	}
	openFiltersMsg struct {
		filters domain.SearchFilters
	}
)
