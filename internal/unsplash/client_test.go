package unsplash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/auth"
	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/paging"
)

// newTestClient points a client at srv with no rate limit and no retry delay.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := New(Options{
		BaseURL:     srv.URL,
		AuthURL:     srv.URL,
		AccessKey:   "key",
		SecretKey:   "secret",
		RedirectURI: "urn:ietf:wg:oauth:2.0:oob",
	})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.backoffs = []time.Duration{0}
	return c
}

const photoJSON = `{
	"id": "abc123",
	"slug": "red-fox",
	"description": null,
	"alt_description": "a red fox",
	"width": 4000,
	"height": 3000,
	"color": "#c04020",
	"likes": 1520,
	"created_at": "2024-05-01T10:00:00Z",
	"urls": {"regular": "https://images/regular", "raw": "https://images/raw"},
	"links": {"html": "https://unsplash.com/photos/abc123", "download_location": "https://api/photos/abc123/download"},
	"user": {"id": "u1", "username": "jane", "name": "Jane Doe", "profile_image": {"large": "https://img/jane"}},
	"tags": [{"title": "fox"}, {"title": "wildlife"}],
	"location": {"city": "Oslo", "country": "Norway"}
}`

func TestSearchPhotos(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID key", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.Header.Get("Accept-Version"))
		got = r.URL.Query()
		w.Write([]byte(`{"total": 45, "total_pages": 3, "results": [` + photoJSON + `]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	filters := domain.DefaultSearchFilters()
	filters.Color = domain.ColorBlue

	res, err := c.SearchPhotos(context.Background(), " cats ", filters, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, "cats", got.Get("query"))
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "20", got.Get("per_page"))
	assert.Equal(t, "relevant", got.Get("order_by"))
	assert.Equal(t, "low", got.Get("content_filter"))
	assert.Equal(t, "blue", got.Get("color"))
	assert.False(t, got.Has("orientation"))

	assert.Equal(t, 45, res.Total)
	assert.True(t, res.HasMore)
	require.Len(t, res.Items, 1)

	want := domain.Photo{
		ID:          "abc123",
		Slug:        "red-fox",
		Description: "a red fox",
		Width:       4000,
		Height:      3000,
		Color:       "#c04020",
		Likes:       1520,
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		URLs:        domain.PhotoURLs{Regular: "https://images/regular", Raw: "https://images/raw"},
		HTMLURL:     "https://unsplash.com/photos/abc123",
		DownloadURL: "https://api/photos/abc123/download",
		User:        domain.User{ID: "u1", Username: "jane", Name: "Jane Doe", ProfileImage: "https://img/jane"},
		Tags:        []string{"fox", "wildlife"},
		Location:    "Oslo, Norway",
	}
	if diff := cmp.Diff(want, res.Items[0]); diff != "" {
		t.Errorf("photo mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_EmptyQueryMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	photos, err := c.SearchPhotos(context.Background(), "  ", domain.DefaultSearchFilters(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, photos.Items)
	assert.False(t, photos.HasMore)

	users, err := c.SearchUsers(context.Background(), "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, users.Items)

	cols, err := c.SearchCollections(context.Background(), "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, cols.Items)

	assert.Zero(t, calls.Load())
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(photoJSON))
	}))
	defer srv.Close()

	photo, err := newTestClient(t, srv).GetPhoto(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", photo.ID)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetPhoto(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, apierr.Network, apierr.Classify(err))
	assert.EqualValues(t, maxRetries+1, calls.Load())
}

func TestRetryWaitsOnLimiter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(photoJSON))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	// One token, refilled hourly: the first attempt spends it and the retry must not get one.
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.GetPhoto(ctx, "abc123")
	require.Error(t, err)
	assert.ErrorContains(t, err, "rate limiter")
	assert.EqualValues(t, 1, calls.Load())

	c.limiter = rate.NewLimiter(rate.Inf, 1)
	photo, err := c.GetPhoto(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", photo.ID)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apierr.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"errors":["OAuth error: The access token is invalid"]}`, apierr.Auth},
		{"not found", http.StatusNotFound, `{"errors":["Couldn't find Photo"]}`, apierr.NotFound},
		{"bad request", http.StatusBadRequest, `{"errors":["per_page must be positive"]}`, apierr.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).GetPhoto(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.want, apierr.Classify(err))
			assert.EqualValues(t, 1, calls.Load(), "4xx responses are not retried")
		})
	}
}

func TestParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 12`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetPhoto(context.Background(), "x")
	assert.Equal(t, apierr.Parse, apierr.Classify(err))
}

func TestCancelledRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(t, srv).GetPhoto(ctx, "x")
	assert.True(t, apierr.IsCancelled(err))
}

func TestUserTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer usertoken", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","username":"jane","first_name":"Jane","last_name":"Doe","email":"j@example.com","profile_image":{"large":"https://img/jane"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.creds = auth.Chain{&auth.StoredTokenProvider{Store: staticToken("usertoken")}, &auth.KeyProvider{AccessKey: "key"}}

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.UserPrivateProfile{
		ID:           "u1",
		Username:     "jane",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "j@example.com",
		ProfileImage: "https://img/jane",
	}, me)
}

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) { return string(s), nil }

func TestUpdateMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Oslo", r.PostForm.Get("location"))
		assert.False(t, r.PostForm.Has("email"))
		w.Write([]byte(`{"id":"u1","username":"jane","location":"Oslo"}`))
	}))
	defer srv.Close()

	me, err := newTestClient(t, srv).UpdateMe(context.Background(), domain.UserPrivateProfileData{Location: "Oslo"})
	require.NoError(t, err)
	assert.Equal(t, "Oslo", me.Location)
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","scope":"public","created_at":1700000000}`))
	}))
	defer srv.Close()

	tok, err := newTestClient(t, srv).ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.Token)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), tok.CreatedAt)

	_, err = newTestClient(t, srv).ExchangeCode(context.Background(), " ")
	assert.Equal(t, apierr.Auth, apierr.Classify(err))
}

func TestLoginURL(t *testing.T) {
	c := New(Options{AccessKey: "key", RedirectURI: "urn:ietf:wg:oauth:2.0:oob"})
	u, err := url.Parse(c.LoginURL())
	require.NoError(t, err)
	assert.Equal(t, "unsplash.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)
	assert.Equal(t, "key", u.Query().Get("client_id"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Contains(t, u.Query().Get("scope"), "read_user")
	assert.Equal(t, "https://unsplash.com/join", c.JoinURL())
}

func TestTrackDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos/abc123/download", r.URL.Path)
		w.Write([]byte(`{"url":"https://images/abc123?ixid=x"}`))
	}))
	defer srv.Close()

	u, err := newTestClient(t, srv).TrackDownload(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://images/abc123?ixid=x", u)
}

func TestListTopicsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Total", "3")
		switch r.URL.Query().Get("page") {
		case "1":
			w.Write([]byte(`[{"id":"t1","slug":"nature","title":"Nature"},{"id":"t2","slug":"film","title":"Film"}]`))
		default:
			w.Write([]byte(`[{"id":"t3","slug":"travel","title":"Travel","status":"open"}]`))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	p := paging.New(context.Background(), 2, Pages(func(ctx context.Context, page, perPage int) (Result[domain.Topic], error) {
		return c.ListTopics(ctx, page, perPage, TopicFeatured)
	}))
	defer p.Close()

	snap, err := p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.EndReached)

	snap, err = p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.EndReached)
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "travel", snap.Items[2].Slug)
}

func TestListResultWithoutTotal(t *testing.T) {
	full := listResult([]int{1, 2}, 1, 2, http.Header{})
	assert.True(t, full.HasMore)

	short := listResult([]int{1}, 3, 2, http.Header{})
	assert.False(t, short.HasMore)
	assert.Equal(t, 3, short.Page)
}
