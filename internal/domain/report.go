package domain

import "time"

// Reason is the rejection reason emitted by the classification pipeline.
// The zero value means the record passed.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonInvalid    Reason = "invalid"
	ReasonDuplicate  Reason = "duplicate"
	ReasonNoTerm     Reason = "no_term"
	ReasonExclusion  Reason = "exclusion"
	ReasonNonTech    Reason = "non_tech"
	ReasonUserFilter Reason = "user_filter"
)

// Counts holds one counter per reason plus approvals.
type Counts struct {
	Approved   int `db:"approved" json:"approved"`
	Invalid    int `db:"invalid" json:"invalid"`
	Duplicate  int `db:"duplicate" json:"duplicate"`
	NoTerm     int `db:"no_term" json:"no_term"`
	Exclusion  int `db:"exclusion" json:"exclusion"`
	NonTech    int `db:"non_tech" json:"non_tech"`
	UserFilter int `db:"user_filter" json:"user_filter"`
}

// Total is the number of records counted.
func (c Counts) Total() int {
	return c.Approved + c.Invalid + c.Duplicate + c.NoTerm + c.Exclusion + c.NonTech + c.UserFilter
}

// RunReport summarises one pipeline run.
type RunReport struct {
	RunID    string
	Term     string
	Location string

	Fetched       int
	PlanEntries   int
	FailedEntries []string

	Counts

	Saved         bool
	Persisted     bool
	Inserted      int
	PersistError  string
	Published     int
	PublishErrors int

	StartedAt time.Time
	Duration  time.Duration
}
