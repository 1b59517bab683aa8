package domain

import "time"

const (
	// DateUnknown is the published-at sentinel when no date could be resolved.
	DateUnknown = "N/A"

	// DateLayout is the canonical published-at text format (DD/MM/YYYY).
	DateLayout = "02/01/2006"

	// NoDescription replaces a blank description on approval.
	NoDescription = "Sem descrição."
)

// RawListing is an unvalidated record as returned by a search provider.
// OriginCountry and OriginRemote are tagged by the orchestrator from the plan
// entry that produced the record.
type RawListing struct {
	Title       string
	Company     string
	Location    string
	Link        string
	Description string
	Site        string
	PostedRaw   string
	PostedAt    *time.Time

	OriginCountry string
	OriginRemote  bool
}

// Listing is the canonical, deduplicated form ready for display or storage.
// Rejected is the persisted sticky dismissal set by an operator; it is unrelated
// to the per-run rejection reasons.
type Listing struct {
	ID          int64     `db:"id" json:"id,omitempty"`
	Title       string    `db:"title" json:"title"`
	Company     string    `db:"company" json:"company"`
	Location    string    `db:"location" json:"location"`
	Link        string    `db:"link" json:"link"`
	Description string    `db:"description" json:"description"`
	Source      string    `db:"source" json:"source"`
	PublishedAt string    `db:"published_at" json:"published_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Applied     bool      `db:"applied" json:"applied"`
	Rejected    bool      `db:"rejected" json:"rejected"`
}
