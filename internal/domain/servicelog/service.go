package servicelog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmissionResult is the payload returned for a persisted submission.
type SubmissionResult struct {
	ServiceLog     *ServiceLog     `json:"serviceLog"`
	PatientEntries []*PatientEntry `json:"patientEntries"`
	Totals         Totals          `json:"totals"`
}

// Service orchestrates the submission engine: validation, the transactional
// write, and aggregate calculation.
type Service struct {
	repo      Repository
	validator *Validator
	logger    zerolog.Logger
}

func NewService(repo Repository, resolver ReferenceResolver, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: NewValidator(resolver),
		logger:    logger,
	}
}

// Submit validates the request, persists the log and its entries atomically,
// and returns the persisted rows with derived totals. Resubmitting an
// identical payload creates an independent log with a fresh identifier.
// The write begins only after validation has fully completed.
func (s *Service) Submit(ctx context.Context, userID string, req *SubmissionRequest) (*SubmissionResult, error) {
	sub, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	log := &ServiceLog{
		ID:           uuid.New(),
		UserID:       userID,
		ClientID:     sub.ClientID,
		ActivityID:   sub.ActivityID,
		ServiceDate:  sub.ServiceDate,
		PatientCount: sub.PatientCount,
		IsDraft:      sub.IsDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !sub.IsDraft {
		log.SubmittedAt = &now
	}

	entries := make([]*PatientEntry, 0, len(sub.Entries))
	for i, in := range sub.Entries {
		entries = append(entries, &PatientEntry{
			ID:              uuid.New(),
			ServiceLogID:    log.ID,
			Position:        i + 1,
			AppointmentType: in.AppointmentType,
			OutcomeID:       in.OutcomeID,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if err := s.repo.CreateWithEntries(ctx, log, entries); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("service_log_id", log.ID.String()).
		Str("user_id", userID).
		Int("patient_count", log.PatientCount).
		Bool("is_draft", log.IsDraft).
		Msg("service log created")

	return &SubmissionResult{
		ServiceLog:     log,
		PatientEntries: entries,
		Totals:         CalculateTotals(entries),
	}, nil
}

// Get returns a log with its entries and totals. Logs are visible only to
// their owning user; anything else reports not found.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*SubmissionResult, error) {
	log, entries, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.UserID != userID {
		return nil, ErrLogNotFound
	}
	return &SubmissionResult{
		ServiceLog:     log,
		PatientEntries: entries,
		Totals:         CalculateTotals(entries),
	}, nil
}

// List returns the user's own logs, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*ServiceLog, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
