package services

import (
	"memview-backend/domain/core/entities"
	"memview-backend/domain/specifications"
)

// FilterState holds the orthogonal view filters. Empty values pass through.
type FilterState struct {
	NodeType     string `json:"node_type,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// GraphAdapter normalizes a raw snapshot into the visible node and edge
// sets. It is a pure recomputation over the full collections, never an
// incremental diff, so it can be re-run on every filter, highlight or
// snapshot change without drift.
type GraphAdapter struct{}

// NewGraphAdapter creates a stateless adapter
func NewGraphAdapter() *GraphAdapter {
	return &GraphAdapter{}
}

// VisibleGraph applies the two-stage filter: nodes first, then edges by
// label AND endpoint visibility. Edges referencing a filtered-out node are
// excluded from the view, not from the underlying snapshot.
func (a *GraphAdapter) VisibleGraph(
	nodes []entities.MemoryNode,
	edges []entities.MemoryEdge,
	filter FilterState,
) ([]entities.MemoryNode, []entities.MemoryEdge) {
	nodeSpec := specifications.NewNodeTypeSpec(filter.NodeType)

	visibleNodes := make([]entities.MemoryNode, 0, len(nodes))
	visibleIDs := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		if nodeSpec.IsSatisfiedBy(node) {
			visibleNodes = append(visibleNodes, node)
			visibleIDs[node.ID] = struct{}{}
		}
	}

	edgeSpec := specifications.NewEdgeLabelSpec(filter.Relationship).
		And(specifications.NewEdgeEndpointsVisibleSpec(visibleIDs))

	visibleEdges := make([]entities.MemoryEdge, 0, len(edges))
	for _, edge := range edges {
		if edgeSpec.IsSatisfiedBy(edge) {
			visibleEdges = append(visibleEdges, edge)
		}
	}

	return visibleNodes, visibleEdges
}
