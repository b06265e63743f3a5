// Package labels holds the static button label and translation tables shared
// by the bot menus and the summary pipeline. Pure data plus lookups.
package labels

import "strings"

// Well-known flat-menu button keys.
const (
	KeyStart   = "start"
	KeyCost    = "cost"
	KeySummary = "summary"
	KeyPicture = "picture"
	KeyOther   = "other"
)

// Unknown is the placeholder description used when the user never entered one.
const Unknown = "unknown"

// Table is a flat-menu label set: semantic key -> display string.
type Table struct {
	Name         string
	StartMessage string
	buttons      map[string]string
	// rows is the reply-keyboard layout, as button keys.
	rows [][]string
}

// Get returns the display string for a button key, or "" if unknown.
func (t *Table) Get(key string) string { return t.buttons[key] }

// GetLower returns the lowercased display string for a button key.
func (t *Table) GetLower(key string) string { return strings.ToLower(t.buttons[key]) }

// IsCategory reports whether the given lowercased message text is one of the
// category buttons. Every button except the cost button counts as a category;
// start and summary are filtered out by the aggregator before this check.
func (t *Table) IsCategory(lowered string) bool {
	if lowered == t.GetLower(KeyCost) {
		return false
	}
	for _, v := range t.buttons {
		if lowered == strings.ToLower(v) {
			return true
		}
	}
	return false
}

// Buttons returns a copy of the key -> display mapping.
func (t *Table) Buttons() map[string]string {
	out := make(map[string]string, len(t.buttons))
	for k, v := range t.buttons {
		out[k] = v
	}
	return out
}

// Keyboard returns the reply-keyboard layout as rows of display strings.
func (t *Table) Keyboard() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		r := make([]string, 0, len(row))
		for _, key := range row {
			r = append(r, t.buttons[key])
		}
		out = append(out, r)
	}
	return out
}

const financeStartMessage = `To record your finances:

1. Press the button for the category
2. Reply with details of what you purchased (optional)
3. Press "Cost 💵" and enter an amount
4. ...after a few iterations, click "summary"`

const timeStartMessage = `1. Press the button for the category
2. Reply with details of what you did (optional)
3. Press "Time 🕰️" and enter a duration
4. ...after a few iterations, click "summary"`

var defaultRows = [][]string{
	{"c1", "c2"},
	{"c3", "c4"},
	{"c5", KeyOther},
	{KeyCost},
	{KeySummary},
}

// Finance is the expense-tracking menu.
var Finance = &Table{
	Name:         "finance",
	StartMessage: financeStartMessage,
	buttons: map[string]string{
		"c1":       "Groceries 🍅🥛",
		"c2":       "Transport 🚙",
		"c3":       "Clothes 👕",
		"c4":       "House 🛖📱💡",
		"c5":       "Fun 🏝️🍹🍰",
		KeyOther:   "Other..📃",
		KeyPicture: "Picture 📃",
		KeyCost:    "Cost 💵",
		KeySummary: "Summary",
		KeyStart:   "/start",
	},
	rows: defaultRows,
}

// TimeManagement is the time-allocation variant of the flat menu.
var TimeManagement = &Table{
	Name:         "time",
	StartMessage: timeStartMessage,
	buttons: map[string]string{
		"c1":       "Creating 🥷",
		"c2":       "Understanding 🕵️",
		"c3":       "🔥 -fighting",
		"c4":       "Writing 🖋️",
		"c5":       "Recharging 🔋",
		KeyOther:   "Other..📃",
		KeyPicture: "Picture 📃",
		KeyCost:    "Time 🕰️",
		KeySummary: "Summary",
		KeyStart:   "/start",
	},
	rows: defaultRows,
}

// ByName returns the flat table registered under the given name.
func ByName(name string) (*Table, bool) {
	switch name {
	case Finance.Name:
		return Finance, true
	case TimeManagement.Name:
		return TimeManagement, true
	}
	return nil, false
}
