package service

import (
	"job_seeker/internal/domain"
	"job_seeker/internal/textnorm"
)

var remoteLocations = map[string]bool{
	"remote":    true,
	"remoto":    true,
	"anywhere":  true,
	"worldwide": true,
}

// countryAliases maps normalized location spellings to canonical country ids.
var countryAliases = map[string]string{
	"usa":                      "usa",
	"us":                       "usa",
	"eua":                      "usa",
	"united states":            "usa",
	"estados unidos":           "usa",
	"brazil":                   "brazil",
	"brasil":                   "brazil",
	"br":                       "brazil",
	"uk":                       "uk",
	"united kingdom":           "uk",
	"reino unido":              "uk",
	"england":                  "uk",
	"germany":                  "germany",
	"alemanha":                 "germany",
	"deutschland":              "germany",
	"portugal":                 "portugal",
	"pt":                       "portugal",
	"canada":                   "canada",
	"netherlands":              "netherlands",
	"holanda":                  "netherlands",
	"paises baixos":            "netherlands",
	"ireland":                  "ireland",
	"irlanda":                  "ireland",
	"spain":                    "spain",
	"espanha":                  "spain",
	"united states of america": "usa",
}

// IsRemote reports whether location asks for remote postings.
func IsRemote(location string) bool {
	return remoteLocations[textnorm.Normalize(location)]
}

// CountryID resolves a location to its canonical country id. Unknown
// locations resolve to their normalized form.
func CountryID(location string) string {
	n := textnorm.Normalize(location)
	if id, ok := countryAliases[n]; ok {
		return id
	}
	return n
}

// BuildPlan fans a remote location out across roster with an even share of
// countWanted, or builds a single-country plan otherwise.
func BuildPlan(location string, countWanted int, roster []string) []domain.PlanEntry {
	if IsRemote(location) && len(roster) > 0 {
		share := countWanted / len(roster)
		if share < 1 {
			share = 1
		}
		plan := make([]domain.PlanEntry, 0, len(roster))
		for _, country := range roster {
			id := CountryID(country)
			plan = append(plan, domain.PlanEntry{
				Location:    country,
				Country:     id,
				CountWanted: share,
				Remote:      true,
			})
		}
		return plan
	}

	return []domain.PlanEntry{{
		Location:    location,
		Country:     CountryID(location),
		CountWanted: countWanted,
	}}
}
