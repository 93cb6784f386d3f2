package specifications

import (
	"memview-backend/domain/core/entities"
)

// NodeSpecification is a specification for MemoryNode entities
type NodeSpecification interface {
	Specification[entities.MemoryNode]
}

// NodeTypeSpec filters nodes by their content type.
// An empty filter value is a pass-through: every node is satisfied.
type NodeTypeSpec struct {
	BaseSpecification[entities.MemoryNode]
	nodeType string
}

// NewNodeTypeSpec creates a specification for the node-type filter
func NewNodeTypeSpec(nodeType string) *NodeTypeSpec {
	spec := &NodeTypeSpec{
		nodeType: nodeType,
	}
	spec.BaseSpecification = BaseSpecification[entities.MemoryNode]{
		evaluator: spec.evaluate,
	}
	return spec
}

func (s *NodeTypeSpec) evaluate(node entities.MemoryNode) bool {
	if s.nodeType == "" {
		return true
	}
	return string(node.Type) == s.nodeType
}

// NodeHasAnyTagSpec is satisfied when a node carries at least one of the
// given tags. Used by the tag facet of the explorer sidebar.
type NodeHasAnyTagSpec struct {
	BaseSpecification[entities.MemoryNode]
	tags []string
}

// NewNodeHasAnyTagSpec creates a specification for node tags
func NewNodeHasAnyTagSpec(tags []string) *NodeHasAnyTagSpec {
	spec := &NodeHasAnyTagSpec{
		tags: tags,
	}
	spec.BaseSpecification = BaseSpecification[entities.MemoryNode]{
		evaluator: spec.evaluate,
	}
	return spec
}

func (s *NodeHasAnyTagSpec) evaluate(node entities.MemoryNode) bool {
	if len(s.tags) == 0 {
		return true
	}
	for _, tag := range s.tags {
		if node.HasTag(tag) {
			return true
		}
	}
	return false
}
