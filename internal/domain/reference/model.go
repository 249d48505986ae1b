package reference

import "time"

// Client maps to the clients table. A client is the site or organisation a
// service log is recorded against.
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Activity maps to the activities table.
type Activity struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Outcome maps to the outcomes table. Each patient entry references one
// outcome.
type Outcome struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Options bundles the active reference lists consumed by form-driven clients.
type Options struct {
	Clients    []*Client   `json:"clients"`
	Activities []*Activity `json:"activities"`
	Outcomes   []*Outcome  `json:"outcomes"`
}
