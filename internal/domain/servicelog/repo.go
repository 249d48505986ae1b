package servicelog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLogNotFound signals that a service log does not exist or is not visible
// to the requesting user.
var ErrLogNotFound = errors.New("service log not found")

// Repository persists service logs and their patient entries.
type Repository interface {
	// CreateWithEntries inserts the log and all of its entries in a single
	// atomic unit. Either every row becomes visible or none do.
	CreateWithEntries(ctx context.Context, log *ServiceLog, entries []*PatientEntry) error

	GetByID(ctx context.Context, id uuid.UUID) (*ServiceLog, []*PatientEntry, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*ServiceLog, int, error)
}
