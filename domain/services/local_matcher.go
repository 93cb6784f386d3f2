package services

import (
	"strings"

	"memview-backend/domain/core/entities"
	"memview-backend/domain/core/valueobjects"
)

// LocalMatch is a single hit produced by the local fallback search
type LocalMatch struct {
	NodeID     string
	Similarity valueobjects.Similarity
}

// LocalMatcher finds memory nodes relevant to a query without the remote
// semantic-search collaborator. It is the automatic fallback when the
// remote search fails, so it favors recall over precision.
type LocalMatcher interface {
	Match(query valueobjects.SearchQuery, nodes []entities.MemoryNode) []LocalMatch
}

// SubstringMatcher implements LocalMatcher with case-insensitive substring
// matching: a node matches if its content contains ANY query term.
// All matches receive the same fixed approximate similarity since no real
// scoring is available locally.
type SubstringMatcher struct {
	similarity valueobjects.Similarity
}

// NewSubstringMatcher creates a matcher assigning the standard fallback score
func NewSubstringMatcher() *SubstringMatcher {
	return &SubstringMatcher{similarity: valueobjects.LocalFallbackSimilarity}
}

// Match implements LocalMatcher
func (m *SubstringMatcher) Match(query valueobjects.SearchQuery, nodes []entities.MemoryNode) []LocalMatch {
	terms := query.Terms()
	if len(terms) == 0 {
		return nil
	}

	var matches []LocalMatch
	for _, node := range nodes {
		content := strings.ToLower(node.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				matches = append(matches, LocalMatch{NodeID: node.ID, Similarity: m.similarity})
				break
			}
		}
	}
	return matches
}
