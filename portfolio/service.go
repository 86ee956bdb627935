package portfolio

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"
)

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Source       ProfileSource
	Logger       Logger
	TopRepoLimit int
}

// Service aggregates a GitHub user's public profile, contribution calendar,
// README, and highlighted repositories into one Result.
type Service struct {
	source       ProfileSource
	logger       Logger
	topRepoLimit int
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = NoopLogger{}
	}
	limit := cfg.TopRepoLimit
	if limit <= 0 {
		limit = DefaultTopRepoLimit
	}
	return &Service{
		source:       cfg.Source,
		logger:       logger,
		topRepoLimit: limit,
	}
}

// Aggregate resolves the handle and joins the profile, contribution, README
// and repository lookups. The profile lookup is mandatory and its error kind
// is preserved; calendar and README failures degrade to absent fields.
func (s *Service) Aggregate(ctx context.Context, input string) (Result, error) {
	handle := ResolveHandle(input)
	if handle == "" {
		return Result{}, NewError(KindValidation, "empty profile handle", nil)
	}

	var (
		profile    UserProfile
		profileErr error
		contrib    json.RawMessage
		readme     string
		repos      []RepositorySummary
		reposErr   error
	)

	// The group context cancels the optional lookups once the mandatory one
	// has failed; their errors are collected separately so the reported kind
	// never depends on which goroutine lost the race.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, profileErr = s.source.User(gctx, handle)
		return profileErr
	})
	g.Go(func() error {
		raw, err := s.source.Contributions(gctx, handle)
		if err != nil {
			s.logger.Debugf("contribution lookup degraded for %s: %v", handle, err)
			return nil
		}
		contrib = raw
		return nil
	})
	g.Go(func() error {
		text, err := s.source.Readme(gctx, handle)
		if err != nil {
			s.logger.Debugf("readme lookup degraded for %s: %v", handle, err)
			return nil
		}
		readme = text
		return nil
	})
	g.Go(func() error {
		repos, reposErr = s.resolveRepositories(gctx, handle)
		return nil
	})
	_ = g.Wait()

	if profileErr != nil {
		return Result{}, profileErr
	}
	if reposErr != nil {
		return Result{}, NewError(KindFetch, "repository lookup failed", reposErr)
	}

	total, cal := ParseContributions(contrib)
	if cal == nil && len(contrib) > 0 {
		s.logger.Debugf("contribution payload for %s matched no known shape", handle)
	}
	profile.Contributions = total
	profile.Calendar = cal
	profile.Readme = readme

	s.logger.Infof("aggregated profile for %s: %d repositories, calendar=%t, readme=%t",
		handle, len(repos), cal != nil, readme != "")

	return Result{Profile: profile, Repositories: repos}, nil
}

// resolveRepositories prefers the pinned-repository lookup and falls back to
// the top repositories by star count when pinned data is missing or empty.
func (s *Service) resolveRepositories(ctx context.Context, handle string) ([]RepositorySummary, error) {
	pinned, err := s.source.Pinned(ctx, handle)
	if err != nil {
		s.logger.Debugf("pinned lookup degraded for %s: %v", handle, err)
	}
	if err == nil && len(pinned) > 0 {
		return pinned, nil
	}
	return s.source.ReposByStars(ctx, handle, s.topRepoLimit)
}
