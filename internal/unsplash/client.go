// Package unsplash provides a REST client for the Unsplash API v1.
// Each method issues one request and maps the JSON response to domain types, keeping the
// wire format out of the rest of the application.
package unsplash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/auth"
	"github.com/androiddevnotesforks/walleria/internal/logging"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	DefaultAuthURL = "https://unsplash.com"

	// DefaultRequestsPerHour is the demo application quota.
	DefaultRequestsPerHour = 50

	maxResponseSize = 8 << 20
	maxRetries      = 3
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL         string
	AuthURL         string
	AccessKey       string
	SecretKey       string
	RedirectURI     string
	Timeout         time.Duration
	RequestsPerHour int
	Credentials     auth.CredentialProvider
	HTTPClient      *http.Client
}

// Client is an Unsplash API client. It is safe for concurrent use.
type Client struct {
	baseURL     string
	authURL     string
	accessKey   string
	secretKey   string
	redirectURI string
	creds       auth.CredentialProvider
	http        *http.Client
	limiter     *rate.Limiter
	backoffs    []time.Duration
}

// New creates a client. Credentials default to the access key alone.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerHour <= 0 {
		opts.RequestsPerHour = DefaultRequestsPerHour
	}
	if opts.Credentials == nil {
		opts.Credentials = &auth.KeyProvider{AccessKey: opts.AccessKey}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	// Spread the hourly quota evenly, allowing a small burst for page bursts.
	every := time.Hour / time.Duration(opts.RequestsPerHour)
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		authURL:     strings.TrimRight(opts.AuthURL, "/"),
		accessKey:   opts.AccessKey,
		secretKey:   opts.SecretKey,
		redirectURI: opts.RedirectURI,
		creds:       opts.Credentials,
		http:        opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Every(every), 5),
		backoffs:    []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// get issues an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) (http.Header, error) {
	return c.do(ctx, op, http.MethodGet, c.baseURL+path, query, nil, out, true)
}

// do executes a request, rate limiting each attempt, and retries on 429/5xx and transport errors.
// form, when non-nil, is sent as the request body. out may be nil.
func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, form url.Values, out any, authenticate bool) (http.Header, error) {
	var header string
	if authenticate {
		h, err := c.creds.Authorization(ctx)
		if err != nil {
			return nil, apierr.New(apierr.Auth, op, err)
		}
		header = h
	}

	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Every attempt spends quota, retries included.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apierr.Wrap(op, fmt.Errorf("rate limiter: %w", err))
		}

		var reqBody io.Reader
		if form != nil {
			reqBody = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, apierr.Wrap(op, fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept-Version", "v1")
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, apierr.Wrap(op, ctx.Err())
			}
			lastErr = apierr.New(apierr.Network, op, err)
			if !c.sleep(ctx, attempt, 0) {
				return nil, apierr.Wrap(op, ctx.Err())
			}
			continue
		}

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if readErr != nil {
			lastErr = apierr.New(apierr.Network, op, fmt.Errorf("read response: %w", readErr))
			if !c.sleep(ctx, attempt, 0) {
				return nil, apierr.Wrap(op, ctx.Err())
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out != nil && len(bytes.TrimSpace(data)) > 0 {
				if err := json.Unmarshal(data, out); err != nil {
					return nil, apierr.New(apierr.Parse, op, fmt.Errorf("parse response: %w", err))
				}
			}
			return resp.Header, nil
		}

		statusErr := apierr.FromStatus(op, resp.StatusCode, errorMessage(data))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = statusErr
			logging.Debug("retrying request", "op", op, "status", resp.StatusCode, "attempt", attempt+1)
			if !c.sleep(ctx, attempt, retryAfter(resp)) {
				return nil, apierr.Wrap(op, ctx.Err())
			}
			continue
		}
		return nil, statusErr
	}

	return nil, lastErr
}

// sleep waits before the next attempt. It returns false if ctx ended first.
// No wait happens after the final attempt.
func (c *Client) sleep(ctx context.Context, attempt int, override time.Duration) bool {
	if attempt >= maxRetries {
		return ctx.Err() == nil
	}
	delay := c.backoffs[min(attempt, len(c.backoffs)-1)]
	if override > 0 {
		delay = override
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter honors the Retry-After header on 429, capped at 30s.
func retryAfter(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusTooManyRequests {
		return 0
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, 30*time.Second)
}

// errorMessage extracts the "errors" array the API returns on failure.
func errorMessage(data []byte) string {
	var body struct {
		Errors []string `json:"errors"`
		Error  string   `json:"error_description"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Errors) > 0 {
			return strings.Join(body.Errors, "; ")
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// pageQuery builds the common page/per_page parameters. Pages are 1-based.
func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}

// totalFromHeader reads the X-Total header sent on list endpoints.
func totalFromHeader(h http.Header) int {
	n, _ := strconv.Atoi(h.Get("X-Total"))
	return n
}
