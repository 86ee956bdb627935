package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/goliatone/go-portfolio/portfolio"
)

// pinnedRepo is the pinned-repository proxy's wire shape.
type pinnedRepo struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
}

// listedRepo is the REST repository-listing wire shape.
type listedRepo struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stargazers  int     `json:"stargazers_count"`
	Forks       int     `json:"forks_count"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// Pinned queries the pinned-repository proxy.
func (c *Client) Pinned(ctx context.Context, handle string) ([]portfolio.RepositorySummary, error) {
	endpoint := fmt.Sprintf("%s/?username=%s", c.pinnedBaseURL, url.QueryEscape(handle))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	var pinned []pinnedRepo
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return nil, fmt.Errorf("decode pinned response: %w", err)
	}

	out := make([]portfolio.RepositorySummary, 0, len(pinned))
	for _, repo := range pinned {
		out = append(out, portfolio.RepositorySummary{
			Owner:       repo.Owner,
			Name:        repo.Repo,
			Description: nilIfEmpty(repo.Description),
			Language:    nilIfEmpty(repo.Language),
			Stars:       repo.Stars,
			Forks:       repo.Forks,
		})
	}
	return out, nil
}

// ReposByStars lists the user's top repositories by star count. It backs the
// fallback path when no pinned repositories are available.
func (c *Client) ReposByStars(ctx context.Context, handle string, limit int) ([]portfolio.RepositorySummary, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=stars&per_page=%d", c.apiBaseURL, url.PathEscape(handle), limit)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	var listed []listedRepo
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("decode repos response: %w", err)
	}

	out := make([]portfolio.RepositorySummary, 0, len(listed))
	for _, repo := range listed {
		out = append(out, portfolio.RepositorySummary{
			Owner:       repo.Owner.Login,
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stargazers,
			Forks:       repo.Forks,
		})
	}
	return out, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
