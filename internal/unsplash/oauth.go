package unsplash

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// Scopes requested at login.
var Scopes = []string{
	"public",
	"read_user",
	"write_user",
	"read_photos",
	"write_photos",
	"write_likes",
	"write_followers",
	"read_collections",
	"write_collections",
}

// LoginURL returns the authorization page the user visits to grant access.
func (c *Client) LoginURL() string {
	q := url.Values{}
	q.Set("client_id", c.accessKey)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(Scopes, " "))
	return c.authURL + "/oauth/authorize?" + q.Encode()
}

// JoinURL returns the sign-up page.
func (c *Client) JoinURL() string {
	return c.authURL + "/join"
}

// ExchangeCode trades an authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (domain.AccessToken, error) {
	const op = "exchange code"
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.AccessToken{}, apierr.New(apierr.Auth, op, errors.New("empty authorization code"))
	}
	if c.accessKey == "" || c.secretKey == "" {
		return domain.AccessToken{}, apierr.New(apierr.Auth, op, errors.New("api.access_key and api.secret_key must be configured"))
	}

	form := url.Values{}
	form.Set("client_id", c.accessKey)
	form.Set("client_secret", c.secretKey)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
		CreatedAt   int64  `json:"created_at"`
	}
	if _, err := c.do(ctx, op, http.MethodPost, c.authURL+"/oauth/token", nil, form, &resp, false); err != nil {
		return domain.AccessToken{}, err
	}
	if resp.AccessToken == "" {
		return domain.AccessToken{}, apierr.New(apierr.Parse, op, errors.New("response has no access_token"))
	}

	token := domain.AccessToken{
		Token:     resp.AccessToken,
		TokenType: resp.TokenType,
		Scope:     resp.Scope,
	}
	if resp.CreatedAt > 0 {
		token.CreatedAt = time.Unix(resp.CreatedAt, 0).UTC()
	}
	return token, nil
}
