package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/format"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/paging"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// topicItem wraps a domain.Topic for use in bubbles/list.
type topicItem struct {
	topic domain.Topic
}

func (i topicItem) FilterValue() string { return i.topic.Title }

func (i topicItem) Title() string { return i.topic.Title }

func (i topicItem) Description() string {
	desc := fmt.Sprintf("%s photos", format.AbbreviateCount(i.topic.TotalPhotos))
	if i.topic.Status != "" {
		desc += " · " + i.topic.Status
	}
	if i.topic.Featured {
		desc += " · featured"
	}
	return desc
}

// topicDelegate renders a topic on two lines.
type topicDelegate struct{}

func (d topicDelegate) Height() int                             { return 2 }
func (d topicDelegate) Spacing() int                            { return 1 }
func (d topicDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d topicDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(topicItem)
	if !ok {
		return
	}

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+i.Title()))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(i.Description()))
		return
	}
	fmt.Fprint(w, NormalItemStyle.Render("  "+i.Title()))
	fmt.Fprint(w, "\n  "+dimStyle.Render(i.Description()))
}

// TopicsModel lists editorial topics. Selecting one opens its photo feed.
type TopicsModel struct {
	deps    Deps
	pager   *paging.Pager[domain.Topic]
	list    list.Model
	spinner spinner.Model
	err     error
}

// NewTopicsModel creates the topic picker.
func NewTopicsModel(deps Deps) TopicsModel {
	api := deps.API
	fetch := unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Topic], error) {
		return api.ListTopics(ctx, page, perPage, unsplash.TopicPosition)
	})

	l := list.New(nil, topicDelegate{}, 80, 20)
	l.Title = "Topics"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return TopicsModel{
		deps:    deps,
		pager:   paging.New(deps.Ctx, deps.PageSize, fetch),
		list:    l,
		spinner: sp,
	}
}

// Close cancels any topic load in flight.
func (m TopicsModel) Close() {
	m.pager.Close()
}

// Init requests the window size and the first page of topics.
func (m TopicsModel) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.spinner.Tick, m.loadNext())
}

func (m TopicsModel) loadNext() tea.Cmd {
	p, ctx := m.pager, m.deps.Ctx
	return func() tea.Msg {
		snap, err := p.LoadNext(ctx)
		return topicsLoadedMsg{snap: snap, err: err}
	}
}

// Update handles messages and updates the model state.
func (m TopicsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case topicsLoadedMsg:
		m.err = msg.snap.Err()
		items := make([]list.Item, len(msg.snap.Items))
		for i, t := range msg.snap.Items {
			items[i] = topicItem{topic: t}
		}
		cmd := m.list.SetItems(items)
		// Topics are few; keep loading until all are listed.
		if msg.err == nil && !msg.snap.EndReached {
			return m, tea.Batch(cmd, m.loadNext())
		}
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, func() tea.Msg { return QuitMsg{} }
		case "q", "esc":
			return m, emit(m.deps, nav.Back{})
		case "r":
			if m.err != nil {
				m.err = nil
				p, ctx := m.pager, m.deps.Ctx
				return m, func() tea.Msg {
					snap, err := p.Retry(ctx)
					return topicsLoadedMsg{snap: snap, err: err}
				}
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(topicItem); ok {
				return m, emit(m.deps, nav.ToTopic{Slug: item.topic.Slug})
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m TopicsModel) View() string {
	if len(m.list.Items()) == 0 && m.err == nil {
		return TitleStyle.Render("Topics") + "\n" + m.spinner.View() + " Loading topics..."
	}

	view := m.list.View()
	if m.err != nil {
		view += ErrorStyle.Render(fmt.Sprintf("\nError: %v (r to retry)", m.err))
	}
	return view
}

type topicsLoadedMsg struct {
	snap paging.Snapshot[domain.Topic]
	err  error
}
