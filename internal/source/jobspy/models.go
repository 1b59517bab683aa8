package jobspy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type searchRequest struct {
	SiteName                 []string `json:"site_name"`
	SearchTerm               string   `json:"search_term"`
	GoogleSearchTerm         string   `json:"google_search_term,omitempty"`
	Location                 string   `json:"location"`
	ResultsWanted            int      `json:"results_wanted"`
	HoursOld                 int      `json:"hours_old,omitempty"`
	CountryIndeed            string   `json:"country_indeed"`
	IsRemote                 bool     `json:"is_remote"`
	LinkedinFetchDescription bool     `json:"linkedin_fetch_description"`
}

type searchResponse struct {
	Count int   `json:"count"`
	Jobs  []Job `json:"jobs"`
}

type Job struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	JobURL      string     `json:"job_url"`
	Description string     `json:"description"`
	Site        string     `json:"site"`
	DatePosted  DatePosted `json:"date_posted"`
}

// DatePosted accepts a date string, epoch milliseconds or null.
type DatePosted struct {
	Raw string
	At  *time.Time
}

func (d *DatePosted) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = DatePosted{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DatePosted{Raw: s}
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("date_posted: %w", err)
	}
	at := time.UnixMilli(int64(ms)).UTC()
	*d = DatePosted{At: &at}
	return nil
}
