package unsplash

import (
	"context"
	"net/http"
	"net/url"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// GetUser returns a public user profile.
func (c *Client) GetUser(ctx context.Context, username string) (domain.User, error) {
	var resp apiUser
	if _, err := c.get(ctx, "get user", "/users/"+url.PathEscape(username), nil, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.toDomain(), nil
}

// GetMe returns the authenticated user's private profile. It requires a user token.
func (c *Client) GetMe(ctx context.Context) (domain.UserPrivateProfile, error) {
	var resp apiUser
	if _, err := c.get(ctx, "get private profile", "/me", nil, &resp); err != nil {
		return domain.UserPrivateProfile{}, err
	}
	return resp.toPrivateProfile(), nil
}

// UpdateMe updates the authenticated user's profile. Empty fields are left unchanged.
func (c *Client) UpdateMe(ctx context.Context, data domain.UserPrivateProfileData) (domain.UserPrivateProfile, error) {
	form := url.Values{}
	set := func(key, value string) {
		if value != "" {
			form.Set(key, value)
		}
	}
	set("username", data.Username)
	set("first_name", data.FirstName)
	set("last_name", data.LastName)
	set("email", data.Email)
	set("url", data.PortfolioURL)
	set("location", data.Location)
	set("bio", data.Bio)
	set("instagram_username", data.InstagramUsername)

	var resp apiUser
	if _, err := c.do(ctx, "update private profile", http.MethodPut, c.baseURL+"/me", nil, form, &resp, true); err != nil {
		return domain.UserPrivateProfile{}, err
	}
	return resp.toPrivateProfile(), nil
}
