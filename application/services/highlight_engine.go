package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"memview-backend/application/ports"
	"memview-backend/domain/core/entities"
	"memview-backend/domain/core/valueobjects"
	domainservices "memview-backend/domain/services"
	"memview-backend/pkg/observability"
)

// SearchState is the highlight engine's lifecycle state
type SearchState string

const (
	SearchIdle        SearchState = "idle"
	SearchRunning     SearchState = "searching"
	SearchHighlighted SearchState = "highlighted"
	SearchFailed      SearchState = "failed"
)

// HighlightState is the overlay a completed search leaves on the graph.
// It is replaced wholesale after each search; there is no incremental merge.
type HighlightState struct {
	HighlightedIDs map[string]struct{}
	SimilarityByID map[string]float64
}

// EmptyHighlightState returns a cleared overlay
func EmptyHighlightState() HighlightState {
	return HighlightState{
		HighlightedIDs: map[string]struct{}{},
		SimilarityByID: map[string]float64{},
	}
}

// IsHighlighted reports whether the node id is part of the highlight set
func (h HighlightState) IsHighlighted(nodeID string) bool {
	_, ok := h.HighlightedIDs[nodeID]
	return ok
}

// EdgeHighlighted applies the edge rule: an edge is highlighted iff both
// endpoints are highlighted, never based on a score of its own.
func (h HighlightState) EdgeHighlighted(edge entities.MemoryEdge) bool {
	return h.IsHighlighted(edge.SourceID) && h.IsHighlighted(edge.TargetID)
}

// Active reports whether any highlight is in effect
func (h HighlightState) Active() bool {
	return len(h.HighlightedIDs) > 0
}

// SearchOutcome summarizes a completed search for the caller
type SearchOutcome struct {
	Query        string               `json:"query"`
	Results      []ports.SearchResult `json:"-"`
	ResultCount  int                  `json:"result_count"`
	UsedFallback bool                 `json:"used_fallback"`
	Stale        bool                 `json:"stale"`
}

// HighlightCommit receives the new overlay plus the ids to re-center on.
// The view composer owns the shared state, so commits go through it.
type HighlightCommit func(state HighlightState, focus []string)

// HighlightEngineConfig tunes the search dispatch
type HighlightEngineConfig struct {
	MinSimilarity float64
	Limit         int
	AccessType    string
}

// DefaultHighlightEngineConfig returns the standard search tuning
func DefaultHighlightEngineConfig() HighlightEngineConfig {
	return HighlightEngineConfig{
		MinSimilarity: 0.3,
		Limit:         20,
		AccessType:    "search",
	}
}

// HighlightEngine orchestrates semantic-similarity searches and converts the
// results into the highlight overlay. Remote failures fall back to a local
// substring match automatically; the user only ever sees an informational
// notice, never a hard search error.
type HighlightEngine struct {
	search   ports.SearchService
	tracker  ports.AccessTracker
	matcher  domainservices.LocalMatcher
	notifier ports.Notifier
	commit   HighlightCommit
	logger   *zap.Logger
	metrics  *observability.Collector
	config   HighlightEngineConfig

	mu    sync.Mutex
	seq   uint64
	state SearchState
}

// NewHighlightEngine creates a highlight engine
func NewHighlightEngine(
	search ports.SearchService,
	tracker ports.AccessTracker,
	matcher domainservices.LocalMatcher,
	notifier ports.Notifier,
	commit HighlightCommit,
	logger *zap.Logger,
	metrics *observability.Collector,
	config HighlightEngineConfig,
) *HighlightEngine {
	if matcher == nil {
		matcher = domainservices.NewSubstringMatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Limit <= 0 {
		config = DefaultHighlightEngineConfig()
	}
	return &HighlightEngine{
		search:   search,
		tracker:  tracker,
		matcher:  matcher,
		notifier: notifier,
		commit:   commit,
		logger:   logger,
		metrics:  metrics,
		config:   config,
		state:    SearchIdle,
	}
}

// State returns the engine's current lifecycle state
func (e *HighlightEngine) State() SearchState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Submit normalizes and runs a search, committing the resulting overlay.
// localNodes is the current snapshot used by the substring fallback.
//
// Overlapping submissions are resolved latest-wins: each submission takes a
// sequence token and only the completion holding the newest token may
// commit. Stale completions are discarded, closing the out-of-order
// overwrite gap that naive last-write-wins would leave open.
func (e *HighlightEngine) Submit(ctx context.Context, rawQuery string, localNodes []entities.MemoryNode) (*SearchOutcome, error) {
	query, err := valueobjects.NewSearchQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.seq++
	token := e.seq
	e.state = SearchRunning
	e.mu.Unlock()

	results, usedFallback := e.runSearch(ctx, query, localNodes)

	outcome := &SearchOutcome{
		Query:        query.Text(),
		Results:      results,
		ResultCount:  len(results),
		UsedFallback: usedFallback,
	}

	state := EmptyHighlightState()
	focus := make([]string, 0, len(results))
	for _, r := range results {
		state.HighlightedIDs[r.NodeID] = struct{}{}
		state.SimilarityByID[r.NodeID] = r.Similarity.Float64()
		focus = append(focus, r.NodeID)
	}

	// The token check and the commit form one critical section: a completion
	// that passes the check cannot be overtaken by a newer submission before
	// its overlay lands. The composer renders outside its own lock and never
	// calls back into the engine, so holding e.mu across the commit is safe.
	e.mu.Lock()
	if token != e.seq {
		e.mu.Unlock()
		e.logger.Debug("discarding stale search completion",
			zap.String("query", query.Text()),
			zap.Uint64("token", token),
		)
		outcome.Stale = true
		return outcome, nil
	}
	if usedFallback && len(results) == 0 {
		e.state = SearchFailed
	} else {
		e.state = SearchHighlighted
	}
	if e.commit != nil {
		e.commit(state, focus)
	}
	e.mu.Unlock()

	e.notifyOutcome(outcome)
	e.recordOutcome(outcome)

	// Access tracking is best effort and must never block the caller or
	// surface as an error, so it runs detached from the request context.
	if !usedFallback && len(results) > 0 && e.tracker != nil {
		go e.trackResults(context.WithoutCancel(ctx), results)
	}

	return outcome, nil
}

// Clear resets the engine and removes the overlay. The commit happens under
// the same critical section as the token bump, so an in-flight completion can
// never land after the clear.
func (e *HighlightEngine) Clear() {
	e.mu.Lock()
	e.seq++ // Invalidate any search still in flight
	e.state = SearchIdle
	if e.commit != nil {
		e.commit(EmptyHighlightState(), nil)
	}
	e.mu.Unlock()
}

// runSearch tries the remote search and falls back to local matching
func (e *HighlightEngine) runSearch(ctx context.Context, query valueobjects.SearchQuery, localNodes []entities.MemoryNode) ([]ports.SearchResult, bool) {
	results, err := e.search.SearchMemoryNodes(ctx, ports.SearchRequest{
		QueryText:     query.Text(),
		MinSimilarity: e.config.MinSimilarity,
		Limit:         e.config.Limit,
	})
	if err == nil {
		return results, false
	}

	e.logger.Warn("remote search failed, using local substring fallback",
		zap.String("query", query.Text()),
		zap.Error(err),
	)

	matches := e.matcher.Match(query, localNodes)
	fallback := make([]ports.SearchResult, 0, len(matches))
	for _, m := range matches {
		fallback = append(fallback, ports.SearchResult{
			NodeID:     m.NodeID,
			Similarity: m.Similarity,
		})
	}
	return fallback, true
}

func (e *HighlightEngine) notifyOutcome(outcome *SearchOutcome) {
	if e.notifier == nil {
		return
	}
	switch {
	case outcome.ResultCount == 0 && outcome.UsedFallback:
		e.notifier.Info("Search is temporarily unavailable and nothing matched locally")
	case outcome.ResultCount == 0:
		e.notifier.Info("No memories matched your search")
	case outcome.UsedFallback:
		e.notifier.Info("Showing approximate local matches; semantic search is unavailable")
	}
}

func (e *HighlightEngine) recordOutcome(outcome *SearchOutcome) {
	if e.metrics == nil {
		return
	}
	switch {
	case outcome.UsedFallback:
		e.metrics.SearchesTotal.WithLabelValues("fallback").Inc()
	case outcome.ResultCount == 0:
		e.metrics.SearchesTotal.WithLabelValues("empty").Inc()
	default:
		e.metrics.SearchesTotal.WithLabelValues("remote").Inc()
	}
}

// trackResults issues the per-result access-tracking calls, weighted by
// similarity. Failures are logged and counted, nothing more.
func (e *HighlightEngine) trackResults(ctx context.Context, results []ports.SearchResult) {
	for _, r := range results {
		err := e.tracker.TrackNodeAccess(ctx, ports.TrackRequest{
			NodeID:     r.NodeID,
			AccessType: e.config.AccessType,
			Weight:     r.Similarity.Float64(),
		})
		if err != nil {
			if e.metrics != nil {
				e.metrics.TrackingFailures.Inc()
			}
			e.logger.Debug("access tracking failed",
				zap.String("nodeID", r.NodeID),
				zap.Error(err),
			)
		}
	}
}
