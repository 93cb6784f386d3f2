package valueobjects

// Similarity is a normalized [0,1] relevance score from the semantic-search
// collaborator. Out-of-range backend values are clamped at construction so
// downstream size and color interpolation never sees an invalid score.
type Similarity float64

// LocalFallbackSimilarity is the fixed approximate score assigned to nodes
// matched by the local substring fallback when the remote search is down.
const LocalFallbackSimilarity Similarity = 0.6

// NewSimilarity clamps the given value into [0,1]
func NewSimilarity(value float64) Similarity {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return Similarity(value)
}

// Float64 returns the score as a plain float64
func (s Similarity) Float64() float64 {
	return float64(s)
}
