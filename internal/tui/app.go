package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/download"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/search"
	"github.com/androiddevnotesforks/walleria/internal/store"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// API is the subset of the service client the screens use.
type API interface {
	search.Searcher
	GetPhoto(ctx context.Context, id string) (domain.Photo, error)
	ListTopics(ctx context.Context, page, perPage int, order unsplash.TopicOrder) (unsplash.Result[domain.Topic], error)
	TopicPhotos(ctx context.Context, idOrSlug string, page, perPage int, order unsplash.ListOrder) (unsplash.Result[domain.Photo], error)
	CollectionPhotos(ctx context.Context, id string, page, perPage int) (unsplash.Result[domain.Photo], error)
	UserPhotos(ctx context.Context, username string, page, perPage int) (unsplash.Result[domain.Photo], error)
}

// Downloader queues photo downloads.
type Downloader interface {
	Enqueue(ctx context.Context, photo domain.Photo) (download.Request, error)
}

// Profiles returns the logged-in user's cached profile.
type Profiles interface {
	Profile(ctx context.Context) (domain.UserPrivateProfile, error)
}

// Deps are the services the screens share.
type Deps struct {
	Ctx       context.Context // app scope; cancelled when the program exits
	API       API
	History   search.History // optional
	Downloads Downloader     // optional
	Profiles  Profiles       // optional
	Nav       *nav.Channel
	PageSize  int
	OpenURL   func(string) error // defaults to the system browser
}

// emit sends a navigation event. The app reads it from the channel. The command
// waits while the channel is full and gives up only when the app scope ends.
func emit(deps Deps, ev nav.Event) tea.Cmd {
	return func() tea.Msg {
		if deps.Nav == nil {
			logging.Warn("no navigation channel, event ignored", "event", nav.Describe(ev))
			return nil
		}
		ctx := deps.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := deps.Nav.Emit(ctx, ev); err != nil {
			logging.Debug("navigation event not sent", "event", nav.Describe(ev), "err", err)
		}
		return nil
	}
}

// queueDownload starts downloading photo.
func queueDownload(deps Deps, photo domain.Photo) tea.Cmd {
	if deps.Downloads == nil {
		return func() tea.Msg { return downloadQueuedMsg{err: errors.New("downloads are not configured")} }
	}
	return func() tea.Msg {
		req, err := deps.Downloads.Enqueue(deps.Ctx, photo)
		return downloadQueuedMsg{fileName: req.FileName, err: err}
	}
}

// nextNav waits for the next navigation event.
func nextNav(ctx context.Context, ch *nav.Channel) tea.Cmd {
	return func() tea.Msg {
		ev, err := ch.Next(ctx)
		if err != nil {
			return nil
		}
		return NavMsg{Event: ev}
	}
}

// AppModel is the root Bubble Tea model. It keeps a stack of screens and routes
// navigation events to push and pop them.
type AppModel struct {
	deps   Deps
	stack  []tea.Model
	status string
	err    error
}

// NewAppModel creates the app with the search screen at the root.
func NewAppModel(deps Deps, query string) AppModel {
	if deps.Nav == nil {
		deps.Nav = nav.NewChannel()
	}
	if deps.OpenURL == nil {
		deps.OpenURL = browser.OpenURL
	}
	return AppModel{
		deps:  deps,
		stack: []tea.Model{NewSearchModel(deps, query)},
	}
}

// Init initializes the root screen and starts listening for navigation.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.top().Init(), nextNav(m.deps.Ctx, m.deps.Nav))
}

func (m AppModel) top() tea.Model {
	return m.stack[len(m.stack)-1]
}

func (m *AppModel) setTop(model tea.Model) {
	m.stack[len(m.stack)-1] = model
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.err != nil || m.status != "" {
			// Any key dismisses the banner.
			m.err, m.status = nil, ""
			if msg.String() != "ctrl+c" {
				return m, nil
			}
		}
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case QuitMsg:
		return m.quit()

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case NavMsg:
		m, cmd := m.navigate(msg.Event)
		return m, tea.Batch(cmd, nextNav(m.deps.Ctx, m.deps.Nav))

	case openFiltersMsg:
		return m.push(NewFiltersModel(msg.filters))

	case FiltersChosenMsg:
		m, cmd := m.pop()
		model, cmd2 := m.top().Update(msg)
		m.setTop(model)
		return m, tea.Batch(cmd, cmd2)

	case filtersCancelledMsg:
		return m.pop()
	}

	model, cmd := m.top().Update(msg)
	m.setTop(model)
	return m, cmd
}

// navigate applies one navigation event.
func (m AppModel) navigate(ev nav.Event) (AppModel, tea.Cmd) {
	logging.Debug("navigate", "event", nav.Describe(ev))
	api := m.deps.API

	switch ev := ev.(type) {
	case nav.ToPhotoDetails:
		return m.push(NewDetailModel(m.deps, ev.PhotoID))

	case nav.ToCollectionDetails:
		fetch := unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Photo], error) {
			return api.CollectionPhotos(ctx, ev.ID, page, perPage)
		})
		return m.push(NewFeedModel(m.deps, "Collection "+ev.ID, fetch))

	case nav.ToUserDetails:
		return m.push(m.userFeed(ev.Username, "@"+ev.Username))

	case nav.ToTopic:
		fetch := unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Photo], error) {
			return api.TopicPhotos(ctx, ev.Slug, page, perPage, unsplash.ListLatest)
		})
		return m.push(NewFeedModel(m.deps, "Topic: "+ev.Slug, fetch))

	case nav.ToTopicList:
		return m.push(NewTopicsModel(m.deps))

	case nav.ToSearch:
		for len(m.stack) > 1 {
			m, _ = m.pop()
		}
		if root, ok := m.top().(ResultsModel); ok {
			root, cmd := root.submit(ev.Query)
			m.setTop(root)
			return m, cmd
		}
		return m, nil

	case nav.ToProfile:
		if m.deps.Profiles == nil {
			m.status = "Profiles are not available."
			return m, nil
		}
		profile, err := m.deps.Profiles.Profile(m.deps.Ctx)
		if errors.Is(err, store.ErrNotFound) {
			m.status = "Not logged in. Run `walleria login` to sign in."
			return m, nil
		}
		if err != nil {
			m.err = fmt.Errorf("failed to load profile: %w", err)
			return m, nil
		}
		return m.push(m.userFeed(profile.Username, "Your photos (@"+profile.Username+")"))

	case nav.ToLogin:
		m.status = "Run `walleria login` to sign in."
		return m, nil

	case nav.Back:
		return m.pop()

	case nav.OpenURL:
		if err := m.deps.OpenURL(ev.URL); err != nil {
			logging.Warn("failed to open browser", "url", ev.URL, "err", err)
			m.status = "Open " + ev.URL + " in your browser."
		}
		return m, nil
	}
	return m, nil
}

func (m AppModel) userFeed(username, title string) ResultsModel {
	api := m.deps.API
	fetch := unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Photo], error) {
		return api.UserPhotos(ctx, username, page, perPage)
	})
	return NewFeedModel(m.deps, title, fetch)
}

func (m AppModel) push(screen tea.Model) (AppModel, tea.Cmd) {
	m.stack = append(m.stack[:len(m.stack):len(m.stack)], screen)
	return m, screen.Init()
}

// pop closes the top screen and re-initializes the one below. The root stays.
func (m AppModel) pop() (AppModel, tea.Cmd) {
	if len(m.stack) <= 1 {
		return m, nil
	}
	closeScreen(m.top())
	m.stack = m.stack[:len(m.stack)-1]
	return m, m.top().Init()
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		closeScreen(m.stack[i])
	}
	return m, tea.Quit
}

func closeScreen(screen tea.Model) {
	if c, ok := screen.(interface{ Close() }); ok {
		c.Close()
	}
}

// Depth returns the number of screens on the stack.
func (m AppModel) Depth() int {
	return len(m.stack)
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + HelpStyle.Render("Press any key to continue")
	}
	view := m.top().View()
	if m.status != "" {
		view = PromptStyle.Render(m.status) + "\n" + view
	}
	return view
}
