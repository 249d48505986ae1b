package servicelog

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentType classifies a patient entry.
type AppointmentType string

const (
	AppointmentNew      AppointmentType = "new"
	AppointmentFollowup AppointmentType = "followup"
	AppointmentDNA      AppointmentType = "dna"
)

// Valid reports whether t is one of the three enumerated values.
func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentNew, AppointmentFollowup, AppointmentDNA:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component. It marshals to and from
// the ISO form "YYYY-MM-DD" and maps to the SQL DATE type.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// FlexID is an int64 identifier that accepts either a JSON number or a
// numeric string on input. Payloads arrive with ids in both forms; FlexID
// normalizes them once at the decoding boundary so the rest of the engine
// only ever sees int64.
type FlexID int64

func (f FlexID) Int64() int64 { return int64(f) }

func (f *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		return fmt.Errorf("identifier must be a number or numeric string")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %q: must be numeric", s)
	}
	*f = FlexID(n)
	return nil
}

// ServiceLog is one clinician's record of an activity performed for a
// client/site on a given date, with patientCount patient entries.
// submittedAt is null exactly when isDraft is true.
type ServiceLog struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"userId"`
	ClientID     int64      `db:"client_id" json:"clientId"`
	ActivityID   int64      `db:"activity_id" json:"activityId"`
	ServiceDate  Date       `db:"service_date" json:"serviceDate"`
	PatientCount int        `db:"patient_count" json:"patientCount"`
	IsDraft      bool       `db:"is_draft" json:"isDraft"`
	SubmittedAt  *time.Time `db:"submitted_at" json:"submittedAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// PatientEntry is one per-appointment record within a service log. Entries
// are owned exclusively by their parent log and are cascade-deleted with it.
type PatientEntry struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ServiceLogID    uuid.UUID       `db:"service_log_id" json:"serviceLogId"`
	Position        int             `db:"position" json:"position"`
	AppointmentType AppointmentType `db:"appointment_type" json:"appointmentType"`
	OutcomeID       int64           `db:"outcome_id" json:"outcomeId"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// Totals carries the derived aggregate counts over an entry list. The
// server-computed value is authoritative; clients may duplicate the
// arithmetic for pre-submission feedback only.
type Totals struct {
	TotalEntries     int `json:"totalEntries"`
	NewPatients      int `json:"newPatients"`
	FollowupPatients int `json:"followupPatients"`
	DNACount         int `json:"dnaCount"`
}
