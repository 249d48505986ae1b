package servicelog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clinlog/clinlog/internal/domain/reference"
)

// SubmissionRequest is the inbound payload for creating a service log.
// Required fields are pointers so that absence can be told apart from the
// zero value.
type SubmissionRequest struct {
	ClientID       *FlexID        `json:"clientId"`
	ActivityID     *FlexID        `json:"activityId"`
	ServiceDate    *string        `json:"serviceDate"`
	PatientCount   *int           `json:"patientCount"`
	PatientEntries []EntryRequest `json:"patientEntries"`
	IsDraft        bool           `json:"isDraft"`
}

// EntryRequest is one inbound patient entry.
type EntryRequest struct {
	AppointmentType string  `json:"appointmentType"`
	OutcomeID       *FlexID `json:"outcomeId"`
}

// Submission is the normalized, fully-resolved form of a valid request.
// All ids are canonical int64, the service date is parsed, and every entry
// references an outcome that was active at validation time.
type Submission struct {
	ClientID     int64
	ActivityID   int64
	ServiceDate  Date
	PatientCount int
	IsDraft      bool
	Entries      []EntryInput
}

// EntryInput is one normalized patient entry within a Submission.
type EntryInput struct {
	AppointmentType AppointmentType
	OutcomeID       int64
}

// FieldError describes one validation failure. Position is the 1-based
// index of the offending entry for per-entry failures, zero otherwise.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Position int    `json:"position,omitempty"`
}

// ValidationError carries the complete field-error list for one rejected
// submission. Message names the first blocking problem; Fields holds every
// accumulated failure so the caller gets one full report per attempt.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Message: fields[0].Message, Fields: fields}
}

// ReferenceResolver resolves reference entities by id, returning
// reference.ErrNotFound when the entity is missing or inactive.
type ReferenceResolver interface {
	ResolveClient(ctx context.Context, id int64) (*reference.Client, error)
	ResolveActivity(ctx context.Context, id int64) (*reference.Activity, error)
	ResolveOutcome(ctx context.Context, id int64) (*reference.Outcome, error)
}

// Validator runs the full submission validation pass.
type Validator struct {
	resolver ReferenceResolver
}

func NewValidator(resolver ReferenceResolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate checks a submission in fixed order: required top-level fields,
// then client/activity resolution, then the per-entry pass. The first two
// stages short-circuit; the entry pass accumulates every failure before
// rejecting, so a form-driven caller gets one complete report per attempt.
// A *ValidationError is returned for caller mistakes; any other error is a
// storage failure and must not be surfaced as a validation problem.
func (v *Validator) Validate(ctx context.Context, req *SubmissionRequest) (*Submission, error) {
	if fields := checkRequired(req); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	serviceDate, err := ParseDate(*req.ServiceDate)
	if err != nil {
		return nil, newValidationError([]FieldError{{
			Field:   "serviceDate",
			Message: fmt.Sprintf("serviceDate %q is not a valid date (YYYY-MM-DD)", *req.ServiceDate),
		}})
	}
	if *req.PatientCount < 1 {
		return nil, newValidationError([]FieldError{{
			Field:   "patientCount",
			Message: fmt.Sprintf("patientCount must be at least 1, got %d", *req.PatientCount),
		}})
	}

	if _, err := v.resolver.ResolveClient(ctx, req.ClientID.Int64()); err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return nil, newValidationError([]FieldError{{
				Field:   "clientId",
				Message: fmt.Sprintf("client %d not found or inactive", req.ClientID.Int64()),
			}})
		}
		return nil, fmt.Errorf("resolving client %d: %w", req.ClientID.Int64(), err)
	}
	if _, err := v.resolver.ResolveActivity(ctx, req.ActivityID.Int64()); err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return nil, newValidationError([]FieldError{{
				Field:   "activityId",
				Message: fmt.Sprintf("activity %d not found or inactive", req.ActivityID.Int64()),
			}})
		}
		return nil, fmt.Errorf("resolving activity %d: %w", req.ActivityID.Int64(), err)
	}

	entries, fields, err := v.validateEntries(ctx, *req.PatientCount, req.PatientEntries)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	return &Submission{
		ClientID:     req.ClientID.Int64(),
		ActivityID:   req.ActivityID.Int64(),
		ServiceDate:  serviceDate,
		PatientCount: *req.PatientCount,
		IsDraft:      req.IsDraft,
		Entries:      entries,
	}, nil
}

// checkRequired reports every absent top-level field in one pass.
func checkRequired(req *SubmissionRequest) []FieldError {
	var fields []FieldError
	var missing []string
	add := func(name string) {
		missing = append(missing, name)
		fields = append(fields, FieldError{Field: name, Message: name + " is required"})
	}
	if req.ClientID == nil {
		add("clientId")
	}
	if req.ActivityID == nil {
		add("activityId")
	}
	if req.ServiceDate == nil {
		add("serviceDate")
	}
	if req.PatientCount == nil {
		add("patientCount")
	}
	if req.PatientEntries == nil {
		add("patientEntries")
	}
	if len(missing) > 0 {
		fields[0].Message = "missing required fields: " + strings.Join(missing, ", ")
	}
	return fields
}

// validateEntries runs the per-entry pass. It never short-circuits between
// entries; every failure is accumulated with its 1-based position. The
// returned error is reserved for storage failures during outcome lookups.
func (v *Validator) validateEntries(ctx context.Context, patientCount int, reqs []EntryRequest) ([]EntryInput, []FieldError, error) {
	var fields []FieldError

	if len(reqs) == 0 {
		fields = append(fields, FieldError{
			Field:   "patientEntries",
			Message: "patientEntries must contain at least one entry",
		})
		return nil, fields, nil
	}
	if len(reqs) != patientCount {
		fields = append(fields, FieldError{
			Field: "patientEntries",
			Message: fmt.Sprintf("patient entries count (%d) does not match patient count (%d)",
				len(reqs), patientCount),
		})
	}

	entries := make([]EntryInput, 0, len(reqs))
	for i, er := range reqs {
		pos := i + 1

		at := AppointmentType(er.AppointmentType)
		if !at.Valid() {
			fields = append(fields, FieldError{
				Field:    "appointmentType",
				Position: pos,
				Message: fmt.Sprintf("entry %d: appointmentType %q must be one of new, followup, dna",
					pos, er.AppointmentType),
			})
		}

		if er.OutcomeID == nil {
			fields = append(fields, FieldError{
				Field:    "outcomeId",
				Position: pos,
				Message:  fmt.Sprintf("entry %d: outcomeId is required", pos),
			})
			continue
		}
		outcomeID := er.OutcomeID.Int64()
		if _, err := v.resolver.ResolveOutcome(ctx, outcomeID); err != nil {
			if errors.Is(err, reference.ErrNotFound) {
				fields = append(fields, FieldError{
					Field:    "outcomeId",
					Position: pos,
					Message:  fmt.Sprintf("entry %d: outcome %d not found or inactive", pos, outcomeID),
				})
				continue
			}
			return nil, nil, fmt.Errorf("resolving outcome %d: %w", outcomeID, err)
		}

		entries = append(entries, EntryInput{AppointmentType: at, OutcomeID: outcomeID})
	}

	if len(fields) > 0 {
		return nil, fields, nil
	}
	return entries, nil, nil
}
