package ports

import (
	"context"

	"memview-backend/domain/core/entities"
	"memview-backend/domain/core/valueobjects"
)

// NodeWeights maps node ids to their access metadata snapshot
type NodeWeights map[string]entities.NodeMetadata

// SearchRequest is the query-in contract of the semantic-search collaborator
type SearchRequest struct {
	QueryText     string
	MinSimilarity float64
	Limit         int
}

// SearchResult is one hit returned by the semantic search.
// Content is carried along so the explorer can display the match without an
// extra fetch; it plays no part in highlight computation.
type SearchResult struct {
	NodeID     string
	Similarity valueobjects.Similarity
	Content    string
}

// TrackRequest records one access to a node, weighted by relevance
type TrackRequest struct {
	NodeID     string
	AccessType string
	Weight     float64
}

// GenerationReport is the outcome of a knowledge-graph generation run
type GenerationReport struct {
	Status       string `json:"status"`
	NodesCreated int    `json:"nodes_created"`
	EdgesCreated int    `json:"edges_created"`
	Message      string `json:"message"`
}

// MemoryReader fetches the raw graph snapshot from the memory store
type MemoryReader interface {
	GetMemoryNodes(ctx context.Context) ([]entities.MemoryNode, error)
	GetMemoryEdges(ctx context.Context) ([]entities.MemoryEdge, error)
	GetNodeWeights(ctx context.Context) (NodeWeights, error)
}

// SearchService runs a remote semantic-similarity search
type SearchService interface {
	SearchMemoryNodes(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}

// AccessTracker records node accesses, best effort. Implementations must
// tolerate backend quirks (a known 405 on some flows) without escalating.
type AccessTracker interface {
	TrackNodeAccess(ctx context.Context, req TrackRequest) error
}

// GraphGenerator asks the backend to grow the graph from free text
type GraphGenerator interface {
	GenerateKnowledgeGraph(ctx context.Context, text string) (*GenerationReport, error)
}

// MemoryWriter covers the destructive operations the context menu can
// dispatch. Kept separate from MemoryReader so read-only consumers cannot
// accidentally mutate the store.
type MemoryWriter interface {
	DeleteMemoryNode(ctx context.Context, nodeID string) error
}
