package portfolio

import (
	"context"
	"encoding/json"
)

// TransparentColor marks synthetic padding cells; the renderer leaves them
// invisible instead of painting a contribution square.
const TransparentColor = "transparent"

// DefaultTopRepoLimit is how many repositories the star-count fallback keeps.
const DefaultTopRepoLimit = 6

// UserProfile is the aggregated public profile for one fetch cycle. It is
// immutable after aggregation and discarded when a new search starts.
type UserProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Company     string `json:"company"`
	Blog        string `json:"blog"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	HTMLURL     string `json:"html_url"`

	// Contributions is the trailing-year total; nil when no contribution
	// payload carried a recognizable total.
	Contributions *int                  `json:"contributions,omitempty"`
	Calendar      *ContributionCalendar `json:"contribution_calendar,omitempty"`
	Readme        string                `json:"readme,omitempty"`
}

// ContributionCalendar is the weekly contribution grid for the trailing
// twelve months of data availability.
type ContributionCalendar struct {
	TotalContributions int    `json:"totalContributions"`
	Weeks              []Week `json:"weeks"`
}

// Week holds exactly seven day cells once normalized; short weeks are padded
// with transparent placeholders.
type Week struct {
	Days []Day `json:"contributionDays"`
}

// Day is a single heatmap cell. Padding days carry TransparentColor and a
// zero count.
type Day struct {
	Color   string `json:"color"`
	Count   int    `json:"contributionCount"`
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
}

// RepositorySummary describes one highlighted repository. Description and
// Language stay nil when the source returned null; the presentation layer
// supplies placeholders.
type RepositorySummary struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"repo"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
}

// Result is the outcome of one aggregation: the profile plus the repository
// list in presentation order.
type Result struct {
	Profile      UserProfile
	Repositories []RepositorySummary
}

// ProfileSource provides the network lookups behind an aggregation. User is
// the mandatory lookup; the others degrade gracefully.
type ProfileSource interface {
	User(ctx context.Context, handle string) (UserProfile, error)
	Contributions(ctx context.Context, handle string) (json.RawMessage, error)
	Readme(ctx context.Context, handle string) (string, error)
	Pinned(ctx context.Context, handle string) ([]RepositorySummary, error)
	ReposByStars(ctx context.Context, handle string, limit int) ([]RepositorySummary, error)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NoopLogger discards all log output.
type NoopLogger struct{}

func (NoopLogger) Debugf(string, ...any) {}
func (NoopLogger) Infof(string, ...any)  {}
func (NoopLogger) Errorf(string, ...any) {}
