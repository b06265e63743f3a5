package summary

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"expensebot/internal/labels"
	"expensebot/internal/store"
)

// FromEvents reduces raw flat-menu events into a Summary.
//
// Events are walked in timestamp order carrying a current category and
// description: category buttons switch the category (and reset the
// description to "unknown"), free text becomes the description, and every
// number is accumulated against the pair. Start and summary presses are
// no-ops; the cost prompt label is neither category nor description.
func FromEvents(events []store.EventRecord, table *labels.Table) (*Summary, error) {
	if len(events) == 0 {
		return nil, ErrEmptyData
	}
	sorted := sortedByTime(events, func(e store.EventRecord) int64 { return e.Timestamp.UnixNano() })

	categoryTotals := make(map[string]int)
	descriptionTotals := make(map[string]map[string]int)
	currentCategory := ""
	currentDescription := labels.Unknown

	for _, ev := range sorted {
		text := strings.ToLower(strings.TrimSpace(ev.Text))
		switch {
		case text == table.GetLower(labels.KeyStart) || text == table.GetLower(labels.KeySummary):
			// Control presses carry no expense data.
		case table.IsCategory(text):
			currentCategory = text
			currentDescription = labels.Unknown
		case isDigits(text):
			cost, _ := strconv.Atoi(text)
			categoryTotals[currentCategory] += cost
			addTo(descriptionTotals, currentCategory, currentDescription, cost)
		case text != table.GetLower(labels.KeyCost):
			currentDescription = text
		}
	}

	return &Summary{
		UserName:          sorted[0].UserName,
		StartDate:         fmtDate(sorted[0].Timestamp),
		EndDate:           fmtDate(sorted[len(sorted)-1].Timestamp),
		CategoryTotals:    categoryTotals,
		DescriptionTotals: descriptionTotals,
		Language:          "en",
	}, nil
}

// FromMetadata reduces persisted selection-path metadata into a Summary.
//
// Each path is split on the delimiter. Paths with fewer than five tokens
// (user id, start sentinel, category, description, price) carry no completed
// transaction and are skipped. The last token is the price: for a range
// bucket the upper bound is charged, for a custom entry the plain integer;
// anything else means the path never reached a price and the record is
// skipped. The category is token 2 and the description token 3; tokens in
// between those and the price (source, the custom marker) are ignored.
// Internal tokens are translated to display labels for the given language.
func FromMetadata(mds []store.Metadata, lang string) (*Summary, error) {
	if len(mds) == 0 {
		return nil, ErrEmptyData
	}
	sorted := sortedByTime(mds, func(m store.Metadata) int64 { return m.Timestamp.UnixNano() })

	categoryTotals := make(map[string]int)
	descriptionTotals := make(map[string]map[string]int)

	for _, md := range sorted {
		tokens := strings.Split(md.SelectionPath, ":")
		if len(tokens) < 5 {
			log.Printf("skipping selection path with %d tokens: %q", len(tokens), md.SelectionPath)
			continue
		}
		cost, ok := parseCost(tokens[len(tokens)-1])
		if !ok {
			log.Printf("skipping selection path without a price: %q", md.SelectionPath)
			continue
		}
		category, description := tokens[2], tokens[3]
		categoryTotals[category] += cost
		addTo(descriptionTotals, category, description, cost)
	}

	translatedCategories := make(map[string]int, len(categoryTotals))
	for k, v := range categoryTotals {
		translatedCategories[labels.ButtonText(k, lang)] = v
	}
	translatedDescriptions := make(map[string]map[string]int, len(descriptionTotals))
	for k, descs := range descriptionTotals {
		inner := make(map[string]int, len(descs))
		for d, v := range descs {
			inner[labels.ButtonText(d, lang)] = v
		}
		translatedDescriptions[labels.ButtonText(k, lang)] = inner
	}

	return &Summary{
		UserName:          sorted[0].UserName,
		StartDate:         fmtDate(sorted[0].Timestamp),
		EndDate:           fmtDate(sorted[len(sorted)-1].Timestamp),
		CategoryTotals:    translatedCategories,
		DescriptionTotals: translatedDescriptions,
		Language:          lang,
	}, nil
}

// parseCost extracts the cost from a terminal path token. A range token like
// "50-100" charges the upper bound; this mirrors the recorded data exactly
// even though a midpoint might look more natural.
func parseCost(token string) (int, bool) {
	if strings.Contains(token, "-") {
		max := 0
		for _, part := range strings.Split(token, "-") {
			n, err := strconv.Atoi(part)
			if err != nil {
				return 0, false
			}
			if n > max {
				max = n
			}
		}
		return max, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func addTo(m map[string]map[string]int, category, description string, cost int) {
	if m[category] == nil {
		m[category] = make(map[string]int)
	}
	m[category][description] += cost
}

func sortedByTime[T any](in []T, key func(T) int64) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
