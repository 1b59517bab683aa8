// Package dates resolves provider date expressions into the canonical
// DD/MM/YYYY form.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"job_seeker/internal/domain"
	"job_seeker/internal/textnorm"
)

const daysPerMonth = 30

var (
	isoPrefixRegex = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	canonicalRegex = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

	todayRegex = regexp.MustCompile(`(?:^|[^a-z])(seg|segundos?|secs?|seconds?|min|mins|minutos?|minutes?|horas?|hours?|hrs?|h|agora|now|hoje|today|just now)(?:$|[^a-z])`)
	dayRegex   = regexp.MustCompile(`(\d+)\+?\s*(d|dias?|days?)\b`)
	weekRegex  = regexp.MustCompile(`(\d+)\+?\s*(w|sem|semanas?|weeks?)\b`)
	monthRegex = regexp.MustCompile(`(\d+)\+?\s*(m|mes|meses|months?)\b`)
	haRegex    = regexp.MustCompile(`\bha\s+(\d+)\s*([a-z]*)`)
)

var emptySentinels = map[string]bool{
	"":     true,
	"none": true,
	"nan":  true,
	"nat":  true,
	"null": true,
}

// Resolver converts date expressions relative to its clock.
type Resolver struct {
	now func() time.Time
}

// NewResolver returns a Resolver. A nil now uses time.Now.
func NewResolver(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

func (r *Resolver) today() time.Time {
	n := r.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// ResolveRelative interprets an English or Portuguese relative phrase such as
// "3 days ago", "há 2 semanas" or "just now". ok is false when nothing matched.
func (r *Resolver) ResolveRelative(expr string) (t time.Time, ok bool) {
	s := textnorm.Normalize(expr)
	if s == "" {
		return time.Time{}, false
	}
	today := r.today()

	if todayRegex.MatchString(s) {
		return today, true
	}
	if n, ok := leadingCount(dayRegex, s); ok {
		return today.AddDate(0, 0, -n), true
	}
	if n, ok := leadingCount(weekRegex, s); ok {
		return today.AddDate(0, 0, -7*n), true
	}
	if n, ok := leadingCount(monthRegex, s); ok {
		return today.AddDate(0, 0, -daysPerMonth*n), true
	}
	if m := haRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		unit := m[2]
		switch {
		case strings.HasPrefix(unit, "hora"):
			return today, true
		case strings.HasPrefix(unit, "semana"):
			return today.AddDate(0, 0, -7*n), true
		case strings.HasPrefix(unit, "mes"):
			return today.AddDate(0, 0, -daysPerMonth*n), true
		default:
			return today.AddDate(0, 0, -n), true
		}
	}

	return time.Time{}, false
}

func leadingCount(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatCanonical renders v as DD/MM/YYYY. It accepts time.Time, *time.Time,
// ISO "YYYY-MM-DD..." strings, already canonical strings and relative
// expressions. Empty sentinels yield "N/A"; anything else unrecognized falls
// back to its first ten characters. It never panics.
func (r *Resolver) FormatCanonical(v any) string {
	switch x := v.(type) {
	case nil:
		return domain.DateUnknown
	case time.Time:
		if x.IsZero() {
			return domain.DateUnknown
		}
		return x.Format(domain.DateLayout)
	case *time.Time:
		if x == nil || x.IsZero() {
			return domain.DateUnknown
		}
		return x.Format(domain.DateLayout)
	case string:
		return r.formatString(x)
	default:
		return r.formatString(textnorm.NormalizeAny(x))
	}
}

func (r *Resolver) formatString(raw string) string {
	s := strings.TrimSpace(raw)
	if emptySentinels[strings.ToLower(s)] {
		return domain.DateUnknown
	}

	if m := isoPrefixRegex.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t.Format(domain.DateLayout)
		}
	}

	if canonicalRegex.MatchString(s) {
		if _, err := time.Parse(domain.DateLayout, s); err == nil {
			return s
		}
	}

	if t, ok := r.ResolveRelative(s); ok {
		return t.Format(domain.DateLayout)
	}

	runes := []rune(s)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return string(runes)
}

// IsCanonical reports whether s is a valid DD/MM/YYYY date or the unknown
// sentinel.
func IsCanonical(s string) bool {
	if s == domain.DateUnknown {
		return true
	}
	if !canonicalRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// Published resolves a raw listing's posted date, preferring the absolute
// timestamp, and guarantees a canonical result.
func (r *Resolver) Published(raw domain.RawListing) string {
	var out string
	if raw.PostedAt != nil && !raw.PostedAt.IsZero() {
		out = r.FormatCanonical(*raw.PostedAt)
	} else {
		out = r.FormatCanonical(raw.PostedRaw)
	}
	if !IsCanonical(out) {
		return domain.DateUnknown
	}
	return out
}
