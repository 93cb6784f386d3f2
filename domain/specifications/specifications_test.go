package specifications

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memview-backend/domain/core/entities"
)

func TestNodeTypeSpec(t *testing.T) {
	doc := entities.MemoryNode{ID: "a", Type: entities.NodeTypeDocument}
	prompt := entities.MemoryNode{ID: "b", Type: entities.NodeTypePrompt}

	spec := NewNodeTypeSpec("document")
	assert.True(t, spec.IsSatisfiedBy(doc))
	assert.False(t, spec.IsSatisfiedBy(prompt))

	// Empty filter is a pass-through
	passThrough := NewNodeTypeSpec("")
	assert.True(t, passThrough.IsSatisfiedBy(doc))
	assert.True(t, passThrough.IsSatisfiedBy(prompt))
}

func TestNodeHasAnyTagSpec(t *testing.T) {
	node := entities.MemoryNode{ID: "a", Tags: []string{"Research", "ml"}}

	assert.True(t, NewNodeHasAnyTagSpec([]string{"research"}).IsSatisfiedBy(node))
	assert.True(t, NewNodeHasAnyTagSpec([]string{"nope", "ML"}).IsSatisfiedBy(node))
	assert.False(t, NewNodeHasAnyTagSpec([]string{"nope"}).IsSatisfiedBy(node))
	assert.True(t, NewNodeHasAnyTagSpec(nil).IsSatisfiedBy(node))
}

func TestEdgeLabelSpec(t *testing.T) {
	edge := entities.MemoryEdge{SourceID: "a", TargetID: "b", Label: "uses"}

	assert.True(t, NewEdgeLabelSpec("uses").IsSatisfiedBy(edge))
	assert.False(t, NewEdgeLabelSpec("implements").IsSatisfiedBy(edge))
	assert.True(t, NewEdgeLabelSpec("").IsSatisfiedBy(edge))
}

func TestEdgeEndpointsVisibleSpec(t *testing.T) {
	visible := map[string]struct{}{"a": {}, "b": {}}
	spec := NewEdgeEndpointsVisibleSpec(visible)

	assert.True(t, spec.IsSatisfiedBy(entities.MemoryEdge{SourceID: "a", TargetID: "b"}))
	assert.False(t, spec.IsSatisfiedBy(entities.MemoryEdge{SourceID: "a", TargetID: "c"}))
	assert.False(t, spec.IsSatisfiedBy(entities.MemoryEdge{SourceID: "c", TargetID: "d"}))
}

func TestCompositeSpecifications(t *testing.T) {
	edge := entities.MemoryEdge{SourceID: "a", TargetID: "b", Label: "uses"}
	visible := map[string]struct{}{"a": {}, "b": {}}

	both := NewEdgeLabelSpec("uses").And(NewEdgeEndpointsVisibleSpec(visible))
	assert.True(t, both.IsSatisfiedBy(edge))

	wrongLabel := NewEdgeLabelSpec("implements").And(NewEdgeEndpointsVisibleSpec(visible))
	assert.False(t, wrongLabel.IsSatisfiedBy(edge))

	negated := NewEdgeLabelSpec("uses").Not()
	assert.False(t, negated.IsSatisfiedBy(edge))
}
