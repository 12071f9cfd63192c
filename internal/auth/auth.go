// Package auth resolves the Authorization header for API requests.
// A logged-in user's OAuth token wins over the application access key, so requests
// made after login act on behalf of the user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// AccessKeyEnv is the environment variable holding the application access key.
const AccessKeyEnv = "WALLERIA_ACCESS_KEY"

// ErrNoCredentials indicates that a provider has nothing to offer.
var ErrNoCredentials = errors.New("no credentials available")

// CredentialProvider yields a complete Authorization header value.
type CredentialProvider interface {
	Authorization(ctx context.Context) (string, error)
}

// TokenStore reads the persisted user access token. An empty token means logged out.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
}

// StoredTokenProvider authenticates as the logged-in user.
type StoredTokenProvider struct {
	Store TokenStore
}

// Authorization returns "Bearer <token>" for the stored user token.
func (p *StoredTokenProvider) Authorization(ctx context.Context) (string, error) {
	if p.Store == nil {
		return "", ErrNoCredentials
	}
	token, err := p.Store.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read stored token: %w", err)
	}
	if token == "" {
		return "", ErrNoCredentials
	}
	return "Bearer " + token, nil
}

// KeyProvider authenticates as the application using a configured access key.
type KeyProvider struct {
	AccessKey string
}

// Authorization returns "Client-ID <key>".
func (p *KeyProvider) Authorization(context.Context) (string, error) {
	key := strings.TrimSpace(p.AccessKey)
	if key == "" {
		return "", ErrNoCredentials
	}
	return "Client-ID " + key, nil
}

// EnvProvider reads the access key from WALLERIA_ACCESS_KEY.
type EnvProvider struct{}

// Authorization returns "Client-ID <key>" from the environment.
func (e *EnvProvider) Authorization(ctx context.Context) (string, error) {
	key := os.Getenv(AccessKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s not set: %w", AccessKeyEnv, ErrNoCredentials)
	}
	return (&KeyProvider{AccessKey: key}).Authorization(ctx)
}

// Chain tries providers in order and returns the first header found.
type Chain []CredentialProvider

// Authorization returns the first successful provider's header.
// Provider failures other than ErrNoCredentials abort the chain.
func (c Chain) Authorization(ctx context.Context) (string, error) {
	for _, p := range c {
		header, err := p.Authorization(ctx)
		if err == nil {
			return header, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return "", err
		}
	}
	return "", fmt.Errorf(
		"%w: log in with 'walleria login', or set api.access_key in the config file or %s",
		ErrNoCredentials, AccessKeyEnv,
	)
}

// Default builds the standard chain: stored user token, configured key, environment.
func Default(store TokenStore, accessKey string) Chain {
	return Chain{
		&StoredTokenProvider{Store: store},
		&KeyProvider{AccessKey: accessKey},
		&EnvProvider{},
	}
}

// IsUserToken reports whether header authenticates a user rather than the application.
func IsUserToken(header string) bool {
	return strings.HasPrefix(header, "Bearer ")
}
