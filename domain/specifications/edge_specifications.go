package specifications

import (
	"memview-backend/domain/core/entities"
)

// EdgeSpecification is a specification for MemoryEdge values
type EdgeSpecification interface {
	Specification[entities.MemoryEdge]
}

// EdgeLabelSpec filters edges by relationship label.
// An empty filter value is a pass-through.
type EdgeLabelSpec struct {
	BaseSpecification[entities.MemoryEdge]
	label string
}

// NewEdgeLabelSpec creates a specification for the relationship filter
func NewEdgeLabelSpec(label string) *EdgeLabelSpec {
	spec := &EdgeLabelSpec{
		label: label,
	}
	spec.BaseSpecification = BaseSpecification[entities.MemoryEdge]{
		evaluator: spec.evaluate,
	}
	return spec
}

func (s *EdgeLabelSpec) evaluate(edge entities.MemoryEdge) bool {
	if s.label == "" {
		return true
	}
	return edge.Label == s.label
}

// EdgeEndpointsVisibleSpec guarantees edge referential integrity: an edge is
// only satisfied when both endpoints survive the node filter. This is what
// keeps the rendered edge set a subset of the rendered node set.
type EdgeEndpointsVisibleSpec struct {
	BaseSpecification[entities.MemoryEdge]
	visibleIDs map[string]struct{}
}

// NewEdgeEndpointsVisibleSpec creates a specification over a visible-node id set
func NewEdgeEndpointsVisibleSpec(visibleIDs map[string]struct{}) *EdgeEndpointsVisibleSpec {
	spec := &EdgeEndpointsVisibleSpec{
		visibleIDs: visibleIDs,
	}
	spec.BaseSpecification = BaseSpecification[entities.MemoryEdge]{
		evaluator: spec.evaluate,
	}
	return spec
}

func (s *EdgeEndpointsVisibleSpec) evaluate(edge entities.MemoryEdge) bool {
	_, srcOK := s.visibleIDs[edge.SourceID]
	_, dstOK := s.visibleIDs[edge.TargetID]
	return srcOK && dstOK
}
