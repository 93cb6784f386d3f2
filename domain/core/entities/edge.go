package entities

// MemoryEdge is a typed relationship between two memory nodes.
// Both endpoints must reference node ids present in the same snapshot;
// the adapter enforces that at view-composition time rather than here,
// because the raw snapshot may legitimately be ahead of the node fetch.
type MemoryEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

// Touches reports whether the edge references the given node id
func (e MemoryEdge) Touches(nodeID string) bool {
	return e.SourceID == nodeID || e.TargetID == nodeID
}
