package reference

import (
	"context"
)

// Service resolves reference entities for the submission engine and serves
// the option lists used to build the intake form. Lookups are read-only
// snapshots; no caching across requests, each call re-resolves.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveClient returns the client only when it exists and is active.
func (s *Service) ResolveClient(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// ResolveActivity returns the activity only when it exists and is active.
func (s *Service) ResolveActivity(ctx context.Context, id int64) (*Activity, error) {
	return s.repo.GetActivity(ctx, id)
}

// ResolveOutcome returns the outcome only when it exists and is active.
func (s *Service) ResolveOutcome(ctx context.Context, id int64) (*Outcome, error) {
	return s.repo.GetOutcome(ctx, id)
}

// Options returns the active reference lists in one payload.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	clients, err := s.repo.ListActiveClients(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.ListActiveActivities(ctx)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.repo.ListActiveOutcomes(ctx)
	if err != nil {
		return nil, err
	}
	return &Options{
		Clients:    clients,
		Activities: activities,
		Outcomes:   outcomes,
	}, nil
}
