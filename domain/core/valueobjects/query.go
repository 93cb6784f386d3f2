package valueobjects

import (
	"strings"

	pkgerrors "memview-backend/pkg/errors"
)

// SearchQuery is a normalized semantic-search query.
// Normalization is mandatory before the query reaches the backend:
// surrounding whitespace is trimmed, trailing ellipsis runs are stripped
// and internal whitespace is collapsed to single spaces.
type SearchQuery struct {
	text string
}

// NewSearchQuery normalizes raw user input into a SearchQuery
func NewSearchQuery(raw string) (SearchQuery, error) {
	text := normalizeQueryText(raw)
	if text == "" {
		return SearchQuery{}, pkgerrors.NewValidation("search query cannot be empty")
	}
	return SearchQuery{text: text}, nil
}

// Text returns the normalized query text
func (q SearchQuery) Text() string {
	return q.text
}

// Terms returns the lower-cased whitespace-separated query terms,
// used by the local substring fallback
func (q SearchQuery) Terms() []string {
	fields := strings.Fields(q.text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// IsZero reports whether the query was never initialized
func (q SearchQuery) IsZero() bool {
	return q.text == ""
}

func normalizeQueryText(raw string) string {
	return strings.Join(strings.Fields(trimTrailingEllipses(raw)), " ")
}

// trimTrailingEllipses strips trailing ellipsis runs: the unicode ellipsis
// and runs of two or more dots, with any whitespace in between
// ("foo bar ..." -> "foo bar"). A single trailing period is not an ellipsis
// and stays ("e.g." -> "e.g.").
func trimTrailingEllipses(text string) string {
	for {
		trimmed := strings.TrimRight(text, " \t\r\n")
		if rest, ok := strings.CutSuffix(trimmed, "…"); ok {
			text = rest
			continue
		}
		dots := 0
		for dots < len(trimmed) && trimmed[len(trimmed)-1-dots] == '.' {
			dots++
		}
		if dots < 2 {
			return text
		}
		text = trimmed[:len(trimmed)-dots]
	}
}
