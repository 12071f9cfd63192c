// Package session manages the logged-in user: exchanging an authorization code for a
// token, persisting it together with the user's private profile, and logging out.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/nav"
	"github.com/androiddevnotesforks/walleria/internal/resource"
	"github.com/androiddevnotesforks/walleria/internal/store"
)

// ErrEmptyCode is returned by Login when no authorization code was given.
var ErrEmptyCode = errors.New("authorization code is empty")

// API is the subset of the service client the session needs.
type API interface {
	ExchangeCode(ctx context.Context, code string) (domain.AccessToken, error)
	GetMe(ctx context.Context) (domain.UserPrivateProfile, error)
	UpdateMe(ctx context.Context, data domain.UserPrivateProfileData) (domain.UserPrivateProfile, error)
}

// Store persists the session. *store.Store implements it.
type Store interface {
	SaveAccessToken(ctx context.Context, token domain.AccessToken) error
	LoadAccessToken(ctx context.Context) (domain.AccessToken, error)
	SavePrivateProfile(ctx context.Context, profile domain.UserPrivateProfile) error
	PrivateProfile(ctx context.Context) (domain.UserPrivateProfile, error)
	ClearSession(ctx context.Context) error
}

// Manager owns login state. Work that must survive the UI (saving the token and
// profile after login) runs in scope rather than in the caller's context.
type Manager struct {
	api   API
	store Store
	scope context.Context
	nav   *nav.Channel

	wg sync.WaitGroup
}

// New creates a session manager. navCh may be nil when no UI is attached.
func New(scope context.Context, api API, st Store, navCh *nav.Channel) *Manager {
	return &Manager{api: api, store: st, scope: scope, nav: navCh}
}

// Login exchanges code for an access token. The returned channel yields Loading and
// then the outcome. On success the token and profile are saved in the background and
// the UI is asked to show the profile.
func (m *Manager) Login(ctx context.Context, code string) <-chan resource.Resource[domain.AccessToken] {
	code = strings.TrimSpace(code)
	return resource.Run(ctx, func(ctx context.Context) (domain.AccessToken, error) {
		if code == "" {
			return domain.AccessToken{}, ErrEmptyCode
		}
		token, err := m.api.ExchangeCode(ctx, code)
		if err != nil {
			return domain.AccessToken{}, err
		}
		m.RetrieveAndSaveUserData(token)
		if m.nav != nil {
			if err := m.nav.Emit(ctx, nav.ToProfile{}); err != nil {
				logging.Debug("profile navigation not sent", "err", err)
			}
		}
		return token, nil
	})
}

// RetrieveAndSaveUserData saves token, then fetches and caches the private profile.
// It returns immediately; use Wait to block until it finishes.
func (m *Manager) RetrieveAndSaveUserData(token domain.AccessToken) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.saveUserData(m.scope, token); err != nil {
			logging.Error("failed to save user data", "err", err)
		}
	}()
}

func (m *Manager) saveUserData(ctx context.Context, token domain.AccessToken) error {
	if err := m.store.SaveAccessToken(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	profile, err := m.api.GetMe(ctx)
	if err != nil {
		// The token stays saved; the profile is fetched again on the next Refresh.
		return fmt.Errorf("fetch profile: %w", err)
	}
	if err := m.store.SavePrivateProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	logging.Info("logged in", "user", profile.Username)
	return nil
}

// Wait blocks until background saves have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// IsLoggedIn reports whether a user token is stored.
func (m *Manager) IsLoggedIn(ctx context.Context) (bool, error) {
	token, err := m.store.LoadAccessToken(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return token.Token != "", nil
}

// Profile returns the cached private profile. It reports store.ErrNotFound when no
// profile has been cached.
func (m *Manager) Profile(ctx context.Context) (domain.UserPrivateProfile, error) {
	return m.store.PrivateProfile(ctx)
}

// Refresh fetches the private profile from the service and caches it.
func (m *Manager) Refresh(ctx context.Context) <-chan resource.Resource[domain.UserPrivateProfile] {
	return resource.Run(ctx, func(ctx context.Context) (domain.UserPrivateProfile, error) {
		profile, err := m.api.GetMe(ctx)
		if err != nil {
			return domain.UserPrivateProfile{}, err
		}
		if err := m.store.SavePrivateProfile(ctx, profile); err != nil {
			return domain.UserPrivateProfile{}, err
		}
		return profile, nil
	})
}

// UpdateProfile edits the private profile and caches the service's response. The
// cached copy is left untouched on failure.
func (m *Manager) UpdateProfile(ctx context.Context, data domain.UserPrivateProfileData) <-chan resource.Resource[domain.UserPrivateProfile] {
	return resource.Run(ctx, func(ctx context.Context) (domain.UserPrivateProfile, error) {
		profile, err := m.api.UpdateMe(ctx, data)
		if err != nil {
			return domain.UserPrivateProfile{}, err
		}
		if err := m.store.SavePrivateProfile(ctx, profile); err != nil {
			return domain.UserPrivateProfile{}, err
		}
		return profile, nil
	})
}

// Logout removes the token and cached profile.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	logging.Info("logged out")
	return nil
}
