package domain

// SearchQuery is one call to a provider, built from a plan entry.
type SearchQuery struct {
	Term        string
	AltTerm     string
	Location    string
	Country     string
	CountWanted int
	MaxAgeHours int
	Remote      bool
}

// PlanEntry is one country slice of a search plan.
type PlanEntry struct {
	Location    string
	Country     string
	CountWanted int
	Remote      bool
}
