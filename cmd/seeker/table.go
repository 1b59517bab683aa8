package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"job_seeker/internal/domain"
)

const (
	titleWidth    = 40
	companyWidth  = 24
	locationWidth = 22
)

var listingHeader = []string{"ID", "PUBLISHED", "SOURCE", "TITLE", "COMPANY", "LOCATION", "LINK"}

// renderListings writes listings as an aligned table. Widths are measured in
// terminal cells so accented and wide characters line up.
func renderListings(w io.Writer, listings []domain.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "no listings")
		return
	}

	rows := make([][]string, 0, len(listings)+1)
	rows = append(rows, listingHeader)
	for _, l := range listings {
		id := "-"
		if l.ID > 0 {
			id = strconv.FormatInt(l.ID, 10)
		}
		rows = append(rows, []string{
			id,
			l.PublishedAt,
			l.Source,
			runewidth.Truncate(l.Title, titleWidth, "…"),
			runewidth.Truncate(l.Company, companyWidth, "…"),
			runewidth.Truncate(l.Location, locationWidth, "…"),
			l.Link,
		})
	}

	widths := make([]int, len(listingHeader))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, b.String())
	}
}
