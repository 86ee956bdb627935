package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// Contributions fetches the raw contribution payload for shape detection.
// The payload is returned undecoded; callers run it through
// portfolio.ParseContributions. Failures here are never fatal to an
// aggregation, so plain errors suffice.
func (c *Client) Contributions(ctx context.Context, handle string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.contributionsBaseURL, url.PathEscape(handle))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read contributions response: %w", err)
	}
	return json.RawMessage(body), nil
}
