package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memview-backend/domain/core/entities"
	"memview-backend/domain/core/valueobjects"
)

func TestSubstringMatcher_AnyTermMatches(t *testing.T) {
	matcher := NewSubstringMatcher()
	query, err := valueobjects.NewSearchQuery("alpha beta")
	require.NoError(t, err)

	nodes := []entities.MemoryNode{
		{ID: "a", Content: "The ALPHA release notes"},
		{ID: "b", Content: "nothing relevant here"},
		{ID: "c", Content: "beta testing checklist"},
		{ID: "d", Content: "alpha and beta together"},
	}

	matches := matcher.Match(query, nodes)
	require.Len(t, matches, 3)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.NodeID)
		assert.Equal(t, valueobjects.LocalFallbackSimilarity, m.Similarity)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)
}

func TestSubstringMatcher_NoMatches(t *testing.T) {
	matcher := NewSubstringMatcher()
	query, err := valueobjects.NewSearchQuery("zzz")
	require.NoError(t, err)

	matches := matcher.Match(query, []entities.MemoryNode{
		{ID: "a", Content: "alpha"},
	})
	assert.Empty(t, matches)
}
