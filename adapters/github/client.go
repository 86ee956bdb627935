// Package githubapi implements the portfolio network lookups against the
// public GitHub surfaces: the REST API, the raw-content host, the community
// contributions API, and the pinned-repository proxy.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-portfolio/portfolio"
)

const (
	defaultAPIBaseURL           = "https://api.github.com"
	defaultRawBaseURL           = "https://raw.githubusercontent.com"
	defaultContributionsBaseURL = "https://github-contributions-api.deno.dev"
	defaultPinnedBaseURL        = "https://gh-pinned-repos.egoist.dev"
	defaultUserAgent            = "go-portfolio/0.1"
	defaultTimeout              = 10 * time.Second
)

// Config configures the GitHub client. Zero values fall back to the public
// endpoints with a 10 second timeout.
type Config struct {
	APIBaseURL           string
	RawBaseURL           string
	ContributionsBaseURL string
	PinnedBaseURL        string
	Token                string
	HTTPClient           *http.Client
}

// Client is a portfolio.ProfileSource backed by unauthenticated (or
// token-assisted) HTTP lookups. Rate limiting is the remote's responsibility.
type Client struct {
	client               *http.Client
	apiBaseURL           string
	rawBaseURL           string
	contributionsBaseURL string
	pinnedBaseURL        string
	token                string
}

var _ portfolio.ProfileSource = (*Client)(nil)

// New creates a Client with the provided configuration.
func New(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		client:               client,
		apiBaseURL:           stringOr(cfg.APIBaseURL, defaultAPIBaseURL),
		rawBaseURL:           stringOr(cfg.RawBaseURL, defaultRawBaseURL),
		contributionsBaseURL: stringOr(cfg.ContributionsBaseURL, defaultContributionsBaseURL),
		pinnedBaseURL:        stringOr(cfg.PinnedBaseURL, defaultPinnedBaseURL),
		token:                cfg.Token,
	}
}

// User fetches the primary profile record. A not-found status is reported
// distinctly from other failures so the caller can preserve the error kind.
func (c *Client) User(ctx context.Context, handle string) (portfolio.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.apiBaseURL, url.PathEscape(handle))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return portfolio.UserProfile{}, portfolio.NewError(portfolio.KindFetch, "profile lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return portfolio.UserProfile{}, portfolio.NewError(portfolio.KindNotFound, fmt.Sprintf("user %q not found", handle), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return portfolio.UserProfile{}, portfolio.NewError(portfolio.KindFetch, fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, endpoint), nil)
	}

	var profile portfolio.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return portfolio.UserProfile{}, portfolio.NewError(portfolio.KindFetch, "decode profile response", err)
	}
	return profile, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", defaultUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
