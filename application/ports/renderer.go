package ports

import (
	"memview-backend/domain/core/entities"
)

// RenderedNode is a node ready for the force-directed layout renderer
type RenderedNode struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Type        entities.NodeType `json:"type"`
	Size        float64           `json:"size"`
	Highlighted bool              `json:"highlighted"`
	Similarity  float64           `json:"similarity,omitempty"`
}

// RenderedEdge is an edge ready for the renderer
type RenderedEdge struct {
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Highlighted bool   `json:"highlighted"`
}

// Renderer is the narrow interface the view composer drives. The sizing,
// color and highlight engines never see renderer internals (canvas drawing,
// physics parameters), so any 2D or WebGL layout library can sit behind it.
type Renderer interface {
	// Render replaces the displayed graph with the given model
	Render(nodes []RenderedNode, edges []RenderedEdge)

	// ZoomToFit re-centers the viewport around the given nodes
	ZoomToFit(nodeIDs []string)
}

// Notifier delivers user-facing notices. It is kept separate from the pure
// decision functions so those stay testable without a UI harness.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}
