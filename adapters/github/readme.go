package githubapi

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// readmeBranches are the branch names tried in order for the profile README.
var readmeBranches = []string{"main", "master"}

// Readme fetches the profile README from <handle>/<handle>, trying the main
// branch first and then master. Both missing means an empty string; this
// lookup never fails an aggregation.
func (c *Client) Readme(ctx context.Context, handle string) (string, error) {
	escaped := url.PathEscape(handle)
	for _, branch := range readmeBranches {
		endpoint := fmt.Sprintf("%s/%s/%s/%s/README.md", c.rawBaseURL, escaped, escaped, branch)

		resp, err := c.get(ctx, endpoint)
		if err != nil {
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			continue
		}
		return string(body), nil
	}
	return "", nil
}
