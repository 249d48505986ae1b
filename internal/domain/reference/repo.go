package reference

import (
	"context"
	"errors"
)

// ErrNotFound signals that a reference entity does not exist or is inactive.
// Resolution failures are reported to callers as validation failures, never
// as fatal errors.
var ErrNotFound = errors.New("reference entity not found")

// Repository provides read access to the admin-managed reference tables.
// The engine only reads them; creation and updates belong to an external
// admin collaborator.
type Repository interface {
	GetClient(ctx context.Context, id int64) (*Client, error)
	GetActivity(ctx context.Context, id int64) (*Activity, error)
	GetOutcome(ctx context.Context, id int64) (*Outcome, error)

	ListActiveClients(ctx context.Context) ([]*Client, error)
	ListActiveActivities(ctx context.Context) ([]*Activity, error)
	ListActiveOutcomes(ctx context.Context) ([]*Outcome, error)
}
