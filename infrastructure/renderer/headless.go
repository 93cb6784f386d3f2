// Package renderer provides the server-side stand-in for the browser's
// force-directed layout library. The engines never call the renderer
// directly; they go through the narrow ports.Renderer interface, so the real
// canvas/WebGL renderer in the browser can be substituted without touching
// any engine code.
package renderer

import (
	"sync"

	"memview-backend/application/ports"
)

// Frame is the last model pushed to the renderer plus the viewport focus
type Frame struct {
	Nodes []ports.RenderedNode `json:"nodes"`
	Edges []ports.RenderedEdge `json:"edges"`
	Focus []string             `json:"focus,omitempty"`
}

// Headless implements ports.Renderer by recording the latest frame.
// The browser shell polls the frame over HTTP and feeds it to its local
// layout library; a zoom target set by ZoomToFit is delivered once.
type Headless struct {
	mu    sync.Mutex
	frame Frame
}

// NewHeadless creates an empty headless renderer
func NewHeadless() *Headless {
	return &Headless{}
}

// Render implements ports.Renderer
func (r *Headless) Render(nodes []ports.RenderedNode, edges []ports.RenderedEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Nodes = nodes
	r.frame.Edges = edges
}

// ZoomToFit implements ports.Renderer
func (r *Headless) ZoomToFit(nodeIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Focus = nodeIDs
}

// Snapshot returns the current frame, clearing the one-shot focus hint
func (r *Headless) Snapshot() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame := r.frame
	r.frame.Focus = nil
	return frame
}
