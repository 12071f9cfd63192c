package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/event"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/resource"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

type fakeAPI struct {
	mu          sync.Mutex
	exchanged   []string
	exchangeErr error
	meErr       error
	meGate      chan struct{}
	meCtxErr    error
	updateErr   error
}

func (f *fakeAPI) ExchangeCode(_ context.Context, code string) (domain.AccessToken, error) {
	f.mu.Lock()
	f.exchanged = append(f.exchanged, code)
	f.mu.Unlock()
	if f.exchangeErr != nil {
		return domain.AccessToken{}, f.exchangeErr
	}
	return domain.AccessToken{Token: "tok-" + code, TokenType: "bearer", Scope: "public"}, nil
}

func (f *fakeAPI) GetMe(ctx context.Context) (domain.UserPrivateProfile, error) {
	if f.meGate != nil {
		<-f.meGate
	}
	f.mu.Lock()
	f.meCtxErr = ctx.Err()
	f.mu.Unlock()
	if f.meErr != nil {
		return domain.UserPrivateProfile{}, f.meErr
	}
	return domain.UserPrivateProfile{ID: "u1", Username: "jane"}, nil
}

func (f *fakeAPI) UpdateMe(_ context.Context, data domain.UserPrivateProfileData) (domain.UserPrivateProfile, error) {
	if f.updateErr != nil {
		return domain.UserPrivateProfile{}, f.updateErr
	}
	return domain.UserPrivateProfile{ID: "u1", Username: data.Username, Bio: data.Bio}, nil
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "walleria.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogin_SavesTokenAndProfile(t *testing.T) {
	api := &fakeAPI{}
	st := openStore(t)
	navCh := nav.NewChannel()
	m := New(context.Background(), api, st, navCh)

	got := resource.Await(m.Login(context.Background(), "  code123 "))
	require.IsType(t, resource.Success[domain.AccessToken]{}, got)
	assert.Equal(t, "tok-code123", got.(resource.Success[domain.AccessToken]).Value.Token)
	m.Wait()

	token, err := st.LoadAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-code123", token.Token)

	profile, err := m.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane", profile.Username)

	loggedIn, err := m.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.True(t, loggedIn)

	ev, err := navCh.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nav.ToProfile{}, ev)
}

func TestLogin_WaitsForRoomOnFullNavChannel(t *testing.T) {
	navCh := nav.NewChannel()
	for range event.DefaultCapacity {
		require.True(t, navCh.TryEmit(nav.Back{}))
	}
	m := New(context.Background(), &fakeAPI{}, openStore(t), navCh)

	done := make(chan resource.Resource[domain.AccessToken], 1)
	go func() { done <- resource.Await(m.Login(context.Background(), "code")) }()

	first, err := navCh.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nav.Back{}, first)

	got := <-done
	require.IsType(t, resource.Success[domain.AccessToken]{}, got)
	m.Wait()

	var last nav.Event
	for navCh.Pending() > 0 {
		last, err = navCh.Next(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, nav.ToProfile{}, last)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{exchangeErr: apierr.FromStatus("exchange code", 401, "invalid_grant")}
	st := openStore(t)
	navCh := nav.NewChannel()
	m := New(context.Background(), api, st, navCh)

	got := resource.Await(m.Login(context.Background(), "bad"))
	require.IsType(t, resource.Error[domain.AccessToken]{}, got)
	assert.Equal(t, apierr.Auth, apierr.Classify(got.(resource.Error[domain.AccessToken]).Err))
	m.Wait()

	loggedIn, err := m.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, loggedIn)
	assert.Zero(t, navCh.Pending())
}

func TestLogin_EmptyCode(t *testing.T) {
	api := &fakeAPI{}
	m := New(context.Background(), api, openStore(t), nil)

	got := resource.Await(m.Login(context.Background(), "   "))
	require.IsType(t, resource.Error[domain.AccessToken]{}, got)
	assert.ErrorIs(t, got.(resource.Error[domain.AccessToken]).Err, ErrEmptyCode)
	assert.Empty(t, api.exchanged)
}

func TestLogin_SaveOutlivesCaller(t *testing.T) {
	api := &fakeAPI{meGate: make(chan struct{})}
	st := openStore(t)
	m := New(context.Background(), api, st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	got := resource.Await(m.Login(ctx, "code"))
	require.IsType(t, resource.Success[domain.AccessToken]{}, got)

	// The screen that started the login goes away before the profile arrives.
	cancel()
	close(api.meGate)
	m.Wait()

	assert.NoError(t, api.meCtxErr)
	profile, err := st.PrivateProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
}

func TestRetrieveAndSaveUserData_ProfileFailureKeepsToken(t *testing.T) {
	api := &fakeAPI{meErr: errors.New("boom")}
	st := openStore(t)
	m := New(context.Background(), api, st, nil)

	m.RetrieveAndSaveUserData(domain.AccessToken{Token: "t"})
	m.Wait()

	token, err := st.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t", token)
	_, err = m.Profile(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout(t *testing.T) {
	st := openStore(t)
	m := New(context.Background(), &fakeAPI{}, st, nil)
	m.RetrieveAndSaveUserData(domain.AccessToken{Token: "t"})
	m.Wait()

	require.NoError(t, m.Logout(context.Background()))

	loggedIn, err := m.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, loggedIn)
	_, err = m.Profile(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	api := &fakeAPI{}
	st := openStore(t)
	m := New(context.Background(), api, st, nil)
	require.NoError(t, st.SavePrivateProfile(context.Background(), domain.UserPrivateProfile{ID: "u1", Username: "old"}))

	got := resource.Await(m.UpdateProfile(context.Background(), domain.UserPrivateProfileData{Username: "new", Bio: "hi"}))
	require.IsType(t, resource.Success[domain.UserPrivateProfile]{}, got)
	profile, err := m.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", profile.Username)

	api.updateErr = errors.New("nope")
	got = resource.Await(m.UpdateProfile(context.Background(), domain.UserPrivateProfileData{Username: "newer"}))
	require.IsType(t, resource.Error[domain.UserPrivateProfile]{}, got)
	profile, err = m.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", profile.Username)
}

func TestRefresh(t *testing.T) {
	st := openStore(t)
	m := New(context.Background(), &fakeAPI{}, st, nil)

	got := resource.Await(m.Refresh(context.Background()))
	require.IsType(t, resource.Success[domain.UserPrivateProfile]{}, got)
	profile, err := st.PrivateProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane", profile.Username)
}
