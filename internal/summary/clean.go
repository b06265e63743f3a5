package summary

import (
	"regexp"
	"strings"

	"expensebot/internal/labels"
)

// The report fonts do not cover emoji and arbitrary symbols, so cell text is
// reduced to word characters, whitespace and Devanagari before layout.
var (
	emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}` +
		`\x{1F300}-\x{1F5FF}` +
		`\x{1F680}-\x{1F6FF}` +
		`\x{1F1E0}-\x{1F1FF}` +
		`\x{2702}-\x{27B0}` +
		`\x{24C2}-\x{1F251}]+`)
	disallowedPattern = regexp.MustCompile(`[^\w\s\p{Devanagari}]`)
)

// Clean strips emoji and symbols from text while preserving alphanumerics
// and Devanagari, then lowercases and trims it.
func Clean(text string) string {
	text = emojiPattern.ReplaceAllString(text, "")
	text = disallowedPattern.ReplaceAllString(text, "")
	return strings.ToLower(strings.TrimSpace(text))
}

// FlatResolver resolves sanitized row text back to the flat table's display
// labels. A row resolves to the first label whose sanitized form contains it.
func FlatResolver(table *labels.Table) Resolver {
	buttons := table.Buttons()
	return func(cleaned string) (string, bool) {
		if cleaned == "" {
			return "", false
		}
		for _, label := range buttons {
			if strings.Contains(Clean(label), cleaned) {
				return label, true
			}
		}
		return "", false
	}
}

// CatalogResolver resolves sanitized row text back to the hierarchical
// catalog's category labels for the given language.
func CatalogResolver(lang string) Resolver {
	return func(cleaned string) (string, bool) {
		if cleaned == "" {
			return "", false
		}
		for _, tok := range labels.Categories {
			label := labels.ButtonText(tok, lang)
			if strings.Contains(Clean(label), cleaned) {
				return label, true
			}
		}
		return "", false
	}
}
