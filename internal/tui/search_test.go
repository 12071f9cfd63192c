package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// fakeAPI serves generated results for any query.
type fakeAPI struct {
	mu      sync.Mutex
	queries []string
}

func photosFor(query string, n int) []domain.Photo {
	out := make([]domain.Photo, n)
	for i := range out {
		out[i] = domain.Photo{
			ID:          fmt.Sprintf("%s-%d", query, i),
			Description: fmt.Sprintf("%s photo %d", query, i),
			HTMLURL:     "https://example.com/photos/" + fmt.Sprintf("%s-%d", query, i),
			User:        domain.User{Username: "author"},
			URLs:        domain.PhotoURLs{Regular: "https://images.example.com/x.jpg"},
		}
	}
	return out
}

func (f *fakeAPI) SearchPhotos(_ context.Context, query string, _ domain.SearchFilters, page, _ int) (unsplash.Result[domain.Photo], error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if query == "" {
		return unsplash.Result[domain.Photo]{Page: page}, nil
	}
	return unsplash.Result[domain.Photo]{Items: photosFor(query, 3), Page: page}, nil
}

func (f *fakeAPI) SearchCollections(_ context.Context, query string, page, _ int) (unsplash.Result[domain.Collection], error) {
	if query == "" {
		return unsplash.Result[domain.Collection]{Page: page}, nil
	}
	return unsplash.Result[domain.Collection]{
		Items: []domain.Collection{{ID: "c1", Title: query + " collection", TotalPhotos: 12}},
		Page:  page,
	}, nil
}

func (f *fakeAPI) SearchUsers(_ context.Context, query string, page, _ int) (unsplash.Result[domain.User], error) {
	if query == "" {
		return unsplash.Result[domain.User]{Page: page}, nil
	}
	return unsplash.Result[domain.User]{Items: []domain.User{{Username: query + "fan"}}, Page: page}, nil
}

func (f *fakeAPI) GetPhoto(_ context.Context, id string) (domain.Photo, error) {
	return domain.Photo{ID: id, Description: "a photo"}, nil
}

func (f *fakeAPI) ListTopics(_ context.Context, page, _ int, _ unsplash.TopicOrder) (unsplash.Result[domain.Topic], error) {
	return unsplash.Result[domain.Topic]{Items: []domain.Topic{{Slug: "nature", Title: "Nature"}}, Page: page}, nil
}

func (f *fakeAPI) TopicPhotos(_ context.Context, slug string, page, _ int, _ unsplash.ListOrder) (unsplash.Result[domain.Photo], error) {
	return unsplash.Result[domain.Photo]{Items: photosFor(slug, 2), Page: page}, nil
}

func (f *fakeAPI) CollectionPhotos(_ context.Context, id string, page, _ int) (unsplash.Result[domain.Photo], error) {
	return unsplash.Result[domain.Photo]{Items: photosFor(id, 2), Page: page}, nil
}

func (f *fakeAPI) UserPhotos(_ context.Context, username string, page, _ int) (unsplash.Result[domain.Photo], error) {
	return unsplash.Result[domain.Photo]{Items: photosFor(username, 2), Page: page}, nil
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return Deps{
		Ctx:      ctx,
		API:      &fakeAPI{},
		Nav:      nav.NewChannel(),
		PageSize: 10,
		OpenURL:  func(string) error { return nil },
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m ResultsModel, msg tea.Msg) ResultsModel {
	t.Helper()
	next, _ := m.Update(msg)
	rm, ok := next.(ResultsModel)
	require.True(t, ok)
	return rm
}

// loadedSearch returns a search screen for query with the first page of each column loaded.
func loadedSearch(t *testing.T, query string) ResultsModel {
	t.Helper()
	deps := testDeps(t)
	m := NewSearchModel(deps, query)
	t.Cleanup(m.Close)

	ctx := context.Background()
	_, err := m.composer.Photos().LoadNext(ctx)
	require.NoError(t, err)
	_, err = m.composer.Collections().LoadNext(ctx)
	require.NoError(t, err)
	_, err = m.composer.Users().LoadNext(ctx)
	require.NoError(t, err)

	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestNewSearchModel(t *testing.T) {
	deps := testDeps(t)

	t.Run("empty query focuses the input", func(t *testing.T) {
		m := NewSearchModel(deps, "")
		defer m.Close()
		assert.True(t, m.inputMode)
		assert.Len(t, m.columns, 3)
		assert.Contains(t, m.View(), "/ ")
	})

	t.Run("initial query is searched", func(t *testing.T) {
		m := NewSearchModel(deps, "fox")
		defer m.Close()
		assert.False(t, m.inputMode)
		assert.Equal(t, "fox", m.composer.Query())
		assert.Equal(t, []string{"Photos", "Collections", "Users"}, []string{
			m.columns[0].name(), m.columns[1].name(), m.columns[2].name(),
		})
	})
}

func TestResultsModel_ColumnNavigation(t *testing.T) {
	m := loadedSearch(t, "fox")

	assert.Equal(t, 0, m.selectedColumn)

	m = update(t, m, keyPress("l"))
	assert.Equal(t, 1, m.selectedColumn)
	m = update(t, m, keyPress("l"))
	assert.Equal(t, 2, m.selectedColumn)
	m = update(t, m, keyPress("l"))
	assert.Equal(t, 2, m.selectedColumn, "should stay on the last column")

	m = update(t, m, keyPress("h"))
	m = update(t, m, keyPress("h"))
	m = update(t, m, keyPress("h"))
	assert.Equal(t, 0, m.selectedColumn, "should stay on the first column")
}

func TestResultsModel_RowNavigation(t *testing.T) {
	m := loadedSearch(t, "fox")

	m = update(t, m, keyPress("j"))
	assert.Equal(t, 1, m.selected[0])
	m = update(t, m, keyPress("G"))
	assert.Equal(t, 2, m.selected[0])
	m = update(t, m, keyPress("j"))
	assert.Equal(t, 2, m.selected[0], "should not move past the last row")
	m = update(t, m, keyPress("g"))
	assert.Equal(t, 0, m.selected[0])
	m = update(t, m, keyPress("k"))
	assert.Equal(t, 0, m.selected[0])

	// Selection is kept per column.
	m = update(t, m, keyPress("j"))
	m = update(t, m, keyPress("l"))
	assert.Equal(t, 0, m.selected[1])
	m = update(t, m, keyPress("h"))
	assert.Equal(t, 1, m.selected[0])

	r, ok := m.selectedRow()
	require.True(t, ok)
	assert.Equal(t, nav.ToPhotoDetails{PhotoID: "fox-1"}, r.open)
}

func TestResultsModel_OpenEmitsNavigation(t *testing.T) {
	m := loadedSearch(t, "fox")
	m = update(t, m, keyPress("l"))

	_, cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	cmd()

	ev, err := m.deps.Nav.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nav.ToCollectionDetails{ID: "c1"}, ev)
}

func TestResultsModel_IgnoresStalePages(t *testing.T) {
	m := loadedSearch(t, "fox")
	stale := m.composer.Photos()

	m, _ = m.submit("cat")
	require.NotSame(t, stale, m.composer.Photos())

	m = update(t, m, pageLoadedMsg{column: 0, source: stale, err: errors.New("boom")})
	assert.Empty(t, m.toast, "failure of a superseded pager should not be shown")

	m = update(t, m, pageLoadedMsg{column: 0, source: m.composer.Photos(), err: errors.New("boom")})
	assert.Contains(t, m.toast, "boom")
	assert.True(t, m.toastErr)
}

func TestResultsModel_SubmitResetsSelection(t *testing.T) {
	m := loadedSearch(t, "fox")
	m = update(t, m, keyPress("j"))
	require.Equal(t, 1, m.selected[0])

	m = update(t, m, keyPress("/"))
	require.True(t, m.inputMode)
	m.queryInput.SetValue("  owl ")
	m = update(t, m, keyPress("enter"))

	assert.False(t, m.inputMode)
	assert.Equal(t, "owl", m.composer.Query())
	assert.Equal(t, 0, m.selected[0])
}

func TestResultsModel_InputEscapeRestoresQuery(t *testing.T) {
	m := loadedSearch(t, "fox")
	m = update(t, m, keyPress("/"))
	m.queryInput.SetValue("half typed")
	m = update(t, m, keyPress("esc"))

	assert.False(t, m.inputMode)
	assert.Equal(t, "fox", m.queryInput.Value())
	assert.Equal(t, "fox", m.composer.Query())
}

func TestResultsModel_SuggestionsForCurrentPrefixOnly(t *testing.T) {
	m := NewSearchModel(testDeps(t), "")
	defer m.Close()

	m.queryInput.SetValue("su")
	m = update(t, m, suggestionsMsg{prefix: "s", items: []string{"sea"}})
	assert.Empty(t, m.suggestions)

	m = update(t, m, suggestionsMsg{prefix: "su", items: []string{"sunset", "summer"}})
	assert.Equal(t, []string{"sunset", "summer"}, m.suggestions)

	m = update(t, m, keyPress("tab"))
	assert.Equal(t, "sunset", m.queryInput.Value())
}

func TestResultsModel_FiltersChosen(t *testing.T) {
	m := loadedSearch(t, "fox")
	before := m.composer.Photos()

	f := domain.DefaultSearchFilters()
	f.Color = domain.ColorRed
	m = update(t, m, FiltersChosenMsg{Filters: f})

	assert.Equal(t, f, m.composer.Filters())
	assert.NotSame(t, before, m.composer.Photos(), "photo stream should restart")
}

func TestResultsModel_DownloadQueued(t *testing.T) {
	m := loadedSearch(t, "fox")

	m = update(t, m, downloadQueuedMsg{fileName: "fox-0_photo.jpg"})
	assert.Contains(t, m.toast, "fox-0_photo.jpg")
	assert.False(t, m.toastErr)

	m = update(t, m, downloadQueuedMsg{err: errors.New("disk full")})
	assert.Contains(t, m.toast, "disk full")
	assert.True(t, m.toastErr)
}

func TestQueueDownload_WithoutDownloader(t *testing.T) {
	msg := queueDownload(testDeps(t), domain.Photo{ID: "x"})()
	q, ok := msg.(downloadQueuedMsg)
	require.True(t, ok)
	assert.Error(t, q.err)
}

func TestResultsModel_ViewDoesNotPanic(t *testing.T) {
	m := loadedSearch(t, "fox")

	sizes := []tea.WindowSizeMsg{{Width: 0, Height: 0}, {Width: 20, Height: 5}, {Width: 200, Height: 60}}
	for _, size := range sizes {
		m = update(t, m, size)
		assert.NotPanics(t, func() { _ = m.View() })
	}

	m = update(t, m, keyPress("?"))
	assert.True(t, m.showHelp)
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestFeedModel(t *testing.T) {
	deps := testDeps(t)
	fetch := unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Photo], error) {
		return deps.API.UserPhotos(ctx, "ana", page, perPage)
	})
	m := NewFeedModel(deps, "@ana", fetch)
	defer m.Close()

	require.Len(t, m.columns, 1)
	assert.Nil(t, m.composer)

	p := m.columns[0].(feed[domain.Photo]).pager()
	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.columns[0].view().rows, 2)

	// q goes back on feed screens instead of quitting.
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	ev, err := deps.Nav.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nav.Back{}, ev)
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name     string
		row      row
		maxWidth int
	}{
		{"short title", row{title: "Fox", suffix: "♥ 12"}, 30},
		{"long title", row{title: strings.Repeat("long ", 20), suffix: "♥ 1.2k"}, 30},
		{"no suffix", row{title: strings.Repeat("x", 50)}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatRow(tt.row, tt.maxWidth)
			assert.LessOrEqual(t, lipgloss.Width(out), tt.maxWidth)
			if tt.row.suffix != "" {
				assert.Contains(t, out, tt.row.suffix)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 0, "hello"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.width), "truncate(%q, %d)", tt.in, tt.width)
	}
}

func TestRowBuilders(t *testing.T) {
	p := photoRow(domain.Photo{ID: "p1", Likes: 1500, User: domain.User{Username: "ana"}})
	assert.Equal(t, "Untitled by @ana", p.title)
	assert.Equal(t, "♥ 1.5K", p.suffix)
	require.NotNil(t, p.photo)
	assert.Equal(t, "p1", p.photo.ID)

	c := collectionRow(domain.Collection{ID: "c1", Title: "Foxes", TotalPhotos: 3})
	assert.Equal(t, nav.ToCollectionDetails{ID: "c1"}, c.open)
	assert.Nil(t, c.photo)

	u := userRow(domain.User{Username: "ana", Name: "Ana"})
	assert.Equal(t, "@ana (Ana)", u.title)
	assert.Equal(t, nav.ToUserDetails{Username: "ana"}, u.open)
}
