// Package report aggregates classification outcomes into run counters.
package report

import (
	"fmt"
	"strings"

	"job_seeker/internal/domain"
)

// Reporter accumulates one counter per reason plus approvals.
type Reporter struct {
	counts domain.Counts
}

// New returns a Reporter with every counter at zero.
func New() *Reporter {
	return &Reporter{}
}

// Record counts one verdict reason. ReasonNone counts as approved.
func (r *Reporter) Record(reason domain.Reason) {
	switch reason {
	case domain.ReasonNone:
		r.counts.Approved++
	case domain.ReasonInvalid:
		r.counts.Invalid++
	case domain.ReasonDuplicate:
		r.counts.Duplicate++
	case domain.ReasonNoTerm:
		r.counts.NoTerm++
	case domain.ReasonExclusion:
		r.counts.Exclusion++
	case domain.ReasonNonTech:
		r.counts.NonTech++
	case domain.ReasonUserFilter:
		r.counts.UserFilter++
	}
}

// Counts returns a copy of the current counters.
func (r *Reporter) Counts() domain.Counts {
	return r.counts
}

// Tally counts a whole batch of reasons.
func Tally(reasons []domain.Reason) domain.Counts {
	r := New()
	for _, reason := range reasons {
		r.Record(reason)
	}
	return r.Counts()
}

// Summary renders the operator-facing one-line summary of a run.
func Summary(rep *domain.RunReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "approved=%d invalid=%d duplicate=%d no_term=%d exclusion=%d non_tech=%d user_filter=%d",
		rep.Approved, rep.Invalid, rep.Duplicate, rep.NoTerm, rep.Exclusion, rep.NonTech, rep.UserFilter)
	fmt.Fprintf(&sb, " fetched=%d", rep.Fetched)
	if len(rep.FailedEntries) > 0 {
		fmt.Fprintf(&sb, " failed_entries=%s", strings.Join(rep.FailedEntries, ","))
	}
	if rep.Saved {
		if rep.Persisted {
			fmt.Fprintf(&sb, " inserted=%d", rep.Inserted)
		} else {
			fmt.Fprintf(&sb, " persist_error=%q", rep.PersistError)
		}
	}
	return sb.String()
}
