package storage

import (
	"job_seeker/internal/domain"
	"job_seeker/internal/textnorm"
)

// KeyedListing is a listing row plus the folded title/company keys that the
// pair lookup matches on. Folding happens here, not in SQL, so accented text
// compares the same on every driver and collation.
type KeyedListing struct {
	domain.Listing
	TitleKey   string `db:"title_key"`
	CompanyKey string `db:"company_key"`
}

func Keyed(l domain.Listing) KeyedListing {
	return KeyedListing{
		Listing:    l,
		TitleKey:   textnorm.Fold(l.Title),
		CompanyKey: textnorm.Fold(l.Company),
	}
}
