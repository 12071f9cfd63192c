package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// Preference keys for the login session.
const (
	KeyAccessToken    = "session.access_token"
	KeyPrivateProfile = "session.private_profile"
)

// SaveAccessToken persists the user token.
func (s *Store) SaveAccessToken(ctx context.Context, token domain.AccessToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode access token: %w", err)
	}
	return s.Set(ctx, KeyAccessToken, string(data))
}

// LoadAccessToken returns the stored user token, or ErrNotFound when logged out.
func (s *Store) LoadAccessToken(ctx context.Context) (domain.AccessToken, error) {
	raw, err := s.Get(ctx, KeyAccessToken)
	if err != nil {
		return domain.AccessToken{}, err
	}
	var token domain.AccessToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return domain.AccessToken{}, fmt.Errorf("failed to decode access token: %w", err)
	}
	return token, nil
}

// AccessToken returns the stored token string, or "" when logged out.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	token, err := s.LoadAccessToken(ctx)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token.Token, nil
}

// SavePrivateProfile caches the logged-in user's profile.
func (s *Store) SavePrivateProfile(ctx context.Context, profile domain.UserPrivateProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return s.Set(ctx, KeyPrivateProfile, string(data))
}

// PrivateProfile returns the cached profile, or ErrNotFound if none is cached.
func (s *Store) PrivateProfile(ctx context.Context) (domain.UserPrivateProfile, error) {
	raw, err := s.Get(ctx, KeyPrivateProfile)
	if err != nil {
		return domain.UserPrivateProfile{}, err
	}
	var profile domain.UserPrivateProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domain.UserPrivateProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

// ClearSession removes the token and cached profile together.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.Delete(ctx, KeyAccessToken, KeyPrivateProfile)
}
