// Package summary reduces recorded interactions into per-category totals and
// carries the round-trip contract between the rendered report and its parser.
package summary

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ErrEmptyData is returned when a summary is requested over zero records.
// There is no meaningful zero-record report; the caller tells the user there
// is nothing to summarize instead of rendering an empty document.
var ErrEmptyData = errors.New("no records to summarize")

// Summary is the aggregation result consumed by the report renderer.
type Summary struct {
	UserName  string
	StartDate string
	EndDate   string
	// CategoryTotals maps category label -> accumulated amount.
	CategoryTotals map[string]int
	// DescriptionTotals maps category label -> description label -> amount.
	DescriptionTotals map[string]map[string]int
	Language          string
}

// Title is the first line of every report. Its format is load-bearing: Parse
// recovers the report dates from it.
func (s *Summary) Title() string {
	return fmt.Sprintf("Summary from %s to %s", s.StartDate, s.EndDate)
}

func (s *Summary) Intro() string {
	return fmt.Sprintf("Welcome %s. Please find your summaries below.", s.UserName)
}

// FontFamily selects the script family for the active language. The Latin
// font cannot shape Devanagari, so non-English reports switch to Gargi.
func (s *Summary) FontFamily() string {
	if s.Language != "" && s.Language != "en" {
		return "Gargi"
	}
	return "NotoSans"
}

// SortedCategories returns the category labels in stable (sorted) order so
// rendering is deterministic.
func (s *Summary) SortedCategories() []string {
	out := make([]string, 0, len(s.CategoryTotals))
	for c := range s.CategoryTotals {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SortedDescriptions returns the description labels of one category in
// stable order.
func (s *Summary) SortedDescriptions(category string) []string {
	out := make([]string, 0, len(s.DescriptionTotals[category]))
	for d := range s.DescriptionTotals[category] {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

var (
	titlePattern = regexp.MustCompile(`Summary from (\d{1,2}-\d{1,2}-\d{4}) to (\d{1,2}-\d{1,2}-\d{4})`)
	rowPattern   = regexp.MustCompile(`(?m)^\s*(.*?)\s+(\d+)\s*$`)
)

// Parsed is the machine-readable content recovered from a rendered report.
type Parsed struct {
	StartDate      string
	EndDate        string
	CategoryTotals map[string]int
}

// Resolver maps a sanitized row label back to its canonical category label,
// or reports that the row is not a category.
type Resolver func(cleaned string) (string, bool)

// Parse recovers the report dates and category totals from rendered report
// text. This is the inverse of the renderer's text layout and a first-class
// contract: render then Parse must reproduce the totals.
func Parse(text string, resolve Resolver) (Parsed, error) {
	dates := titlePattern.FindStringSubmatch(text)
	if dates == nil {
		return Parsed{}, errors.New("summary does not contain the date pattern")
	}
	rows := rowPattern.FindAllStringSubmatch(text, -1)
	if rows == nil {
		return Parsed{}, errors.New("summary does not contain category rows")
	}
	totals := make(map[string]int)
	for _, row := range rows {
		label, ok := resolve(Clean(row[1]))
		if !ok {
			continue
		}
		if _, seen := totals[label]; seen {
			// Category table rows come first; later description rows that
			// happen to resolve to the same label must not clobber them.
			continue
		}
		n, err := strconv.Atoi(row[2])
		if err != nil {
			continue
		}
		totals[label] = n
	}
	if len(totals) == 0 {
		return Parsed{}, errors.New("summary does not contain categories")
	}
	return Parsed{StartDate: dates[1], EndDate: dates[2], CategoryTotals: totals}, nil
}

// fmtDate renders a timestamp in the report's DD-MM-YYYY format.
func fmtDate(t time.Time) string {
	return t.Format("02-01-2006")
}
