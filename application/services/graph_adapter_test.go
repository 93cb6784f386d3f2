package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memview-backend/domain/core/entities"
)

func TestVisibleGraph_NodeTypeFilterDropsDanglingEdges(t *testing.T) {
	adapter := NewGraphAdapter()

	nodes := []entities.MemoryNode{
		{ID: "a", Type: entities.NodeTypeDocument},
		{ID: "b", Type: entities.NodeTypePrompt},
	}
	edges := []entities.MemoryEdge{
		{SourceID: "a", TargetID: "b", Label: "uses"},
	}

	visibleNodes, visibleEdges := adapter.VisibleGraph(nodes, edges, FilterState{NodeType: "prompt"})

	require.Len(t, visibleNodes, 1)
	assert.Equal(t, "b", visibleNodes[0].ID)
	assert.Empty(t, visibleEdges)
}

func TestVisibleGraph_RelationshipFilter(t *testing.T) {
	adapter := NewGraphAdapter()

	nodes := []entities.MemoryNode{
		{ID: "a", Type: entities.NodeTypeDocument},
		{ID: "b", Type: entities.NodeTypePrompt},
		{ID: "c", Type: entities.NodeTypeOther},
	}
	edges := []entities.MemoryEdge{
		{SourceID: "a", TargetID: "b", Label: "uses"},
		{SourceID: "b", TargetID: "c", Label: "implements"},
	}

	_, visibleEdges := adapter.VisibleGraph(nodes, edges, FilterState{Relationship: "uses"})

	require.Len(t, visibleEdges, 1)
	assert.Equal(t, "uses", visibleEdges[0].Label)
}

func TestVisibleGraph_NoFiltersPassThrough(t *testing.T) {
	adapter := NewGraphAdapter()

	nodes := []entities.MemoryNode{
		{ID: "a", Type: entities.NodeTypeDocument},
		{ID: "b", Type: entities.NodeTypePrompt},
	}
	edges := []entities.MemoryEdge{
		{SourceID: "a", TargetID: "b", Label: "uses"},
	}

	visibleNodes, visibleEdges := adapter.VisibleGraph(nodes, edges, FilterState{})
	assert.Len(t, visibleNodes, 2)
	assert.Len(t, visibleEdges, 1)
}

func TestVisibleGraph_Idempotent(t *testing.T) {
	adapter := NewGraphAdapter()

	nodes := []entities.MemoryNode{
		{ID: "a", Type: entities.NodeTypeDocument},
		{ID: "b", Type: entities.NodeTypePrompt},
		{ID: "c", Type: entities.NodeTypePrompt},
	}
	edges := []entities.MemoryEdge{
		{SourceID: "a", TargetID: "b", Label: "uses"},
		{SourceID: "b", TargetID: "c", Label: "uses"},
	}
	filter := FilterState{NodeType: "prompt", Relationship: "uses"}

	firstNodes, firstEdges := adapter.VisibleGraph(nodes, edges, filter)
	secondNodes, secondEdges := adapter.VisibleGraph(firstNodes, firstEdges, filter)

	assert.Equal(t, firstNodes, secondNodes)
	assert.Equal(t, firstEdges, secondEdges)
}

func TestVisibleGraph_ReferentialIntegrity(t *testing.T) {
	adapter := NewGraphAdapter()

	nodes := []entities.MemoryNode{
		{ID: "a", Type: entities.NodeTypeDocument},
		{ID: "b", Type: entities.NodeTypePrompt},
		{ID: "c", Type: entities.NodeTypeOther},
	}
	edges := []entities.MemoryEdge{
		{SourceID: "a", TargetID: "b", Label: "uses"},
		{SourceID: "b", TargetID: "ghost", Label: "uses"}, // dangling target
		{SourceID: "c", TargetID: "a", Label: "mentions"},
	}

	for _, filter := range []FilterState{
		{},
		{NodeType: "prompt"},
		{NodeType: "document"},
		{Relationship: "uses"},
		{NodeType: "other", Relationship: "mentions"},
	} {
		visibleNodes, visibleEdges := adapter.VisibleGraph(nodes, edges, filter)

		idSet := make(map[string]struct{}, len(visibleNodes))
		for _, n := range visibleNodes {
			idSet[n.ID] = struct{}{}
		}
		for _, e := range visibleEdges {
			_, srcOK := idSet[e.SourceID]
			_, dstOK := idSet[e.TargetID]
			assert.True(t, srcOK && dstOK, "edge %s->%s escaped the node filter %+v", e.SourceID, e.TargetID, filter)
		}
	}
}

func TestVisibleGraph_EmptyResultIsValid(t *testing.T) {
	adapter := NewGraphAdapter()

	visibleNodes, visibleEdges := adapter.VisibleGraph(nil, nil, FilterState{})
	assert.NotNil(t, visibleNodes)
	assert.NotNil(t, visibleEdges)
	assert.Empty(t, visibleNodes)
	assert.Empty(t, visibleEdges)
}
