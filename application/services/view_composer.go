package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"memview-backend/application/ports"
	"memview-backend/domain/core/entities"
	domainservices "memview-backend/domain/services"
	pkgerrors "memview-backend/pkg/errors"
)

// ViewModel is the renderable graph model plus the view settings it was
// composed under
type ViewModel struct {
	Nodes          []ports.RenderedNode      `json:"nodes"`
	Edges          []ports.RenderedEdge      `json:"edges"`
	Filter         FilterState               `json:"filter"`
	SizingMode     domainservices.SizingMode `json:"sizing_mode"`
	HighlightCount int                       `json:"highlight_count"`
}

// ViewComposerDeps bundles the composer's collaborators
type ViewComposerDeps struct {
	Reader    ports.MemoryReader
	Generator ports.GraphGenerator
	Renderer  ports.Renderer
	Notifier  ports.Notifier
	Sizer     domainservices.NodeSizer
	Colors    domainservices.ColorMapper
	Logger    *zap.Logger
	Clock     func() time.Time
}

// ViewComposer owns the shared view state: the raw snapshot, node weights,
// filters, sizing mode and the highlight overlay. Every mutation goes
// through a named method; no other component writes this state directly.
// Each mutation recomposes the full model and pushes it to the renderer.
type ViewComposer struct {
	reader    ports.MemoryReader
	generator ports.GraphGenerator
	renderer  ports.Renderer
	notifier  ports.Notifier
	adapter   *GraphAdapter
	sizer     domainservices.NodeSizer
	colors    domainservices.ColorMapper
	logger    *zap.Logger
	clock     func() time.Time

	mu        sync.RWMutex
	nodes     []entities.MemoryNode
	edges     []entities.MemoryEdge
	weights   ports.NodeWeights
	filter    FilterState
	highlight HighlightState
	mode      domainservices.SizingMode
	loaded    bool
}

// NewViewComposer creates a composer with sensible defaults for any
// collaborator left nil
func NewViewComposer(deps ViewComposerDeps) *ViewComposer {
	if deps.Sizer == nil {
		deps.Sizer = domainservices.NewDefaultNodeSizer(nil)
	}
	if deps.Colors == nil {
		deps.Colors = domainservices.NewDefaultColorMapper()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &ViewComposer{
		reader:    deps.Reader,
		generator: deps.Generator,
		renderer:  deps.Renderer,
		notifier:  deps.Notifier,
		adapter:   NewGraphAdapter(),
		sizer:     deps.Sizer,
		colors:    deps.Colors,
		logger:    deps.Logger,
		clock:     deps.Clock,
		weights:   ports.NodeWeights{},
		highlight: EmptyHighlightState(),
		mode:      domainservices.SizingUniform,
	}
}

// Refresh re-fetches the snapshot. The weights fetch is kicked off only
// after the graph data resolves (data before weights), and is best effort.
//
// On fetch failure prior data is retained so the user keeps a working view,
// except on the initial or a forced refresh, where the view resets to empty.
func (c *ViewComposer) Refresh(ctx context.Context, forced bool) error {
	nodes, err := c.reader.GetMemoryNodes(ctx)
	if err == nil {
		var edgeErr error
		var edges []entities.MemoryEdge
		edges, edgeErr = c.reader.GetMemoryEdges(ctx)
		if edgeErr != nil {
			err = edgeErr
		} else {
			c.mu.Lock()
			c.nodes = nodes
			c.edges = edges
			c.loaded = true
			c.mu.Unlock()
		}
	}

	if err != nil {
		c.mu.Lock()
		if forced || !c.loaded {
			c.nodes = nil
			c.edges = nil
			c.weights = ports.NodeWeights{}
			c.loaded = false
		}
		model := c.composeLocked()
		c.mu.Unlock()
		c.publish(model, nil)
		if c.notifier != nil {
			c.notifier.Error("Failed to load the memory graph")
		}
		return pkgerrors.NewUnavailable("fetching memory graph", err)
	}

	weights, werr := c.reader.GetNodeWeights(ctx)
	c.mu.Lock()
	if werr != nil {
		// Keep the previous weights snapshot; sizing degrades gracefully
		c.logger.Warn("node weights fetch failed", zap.Error(werr))
	} else {
		c.weights = weights
	}
	model := c.composeLocked()
	c.mu.Unlock()

	c.publish(model, nil)
	return nil
}

// Nodes returns a copy of the raw node snapshot (fallback search input)
func (c *ViewComposer) Nodes() []entities.MemoryNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	nodes := make([]entities.MemoryNode, len(c.nodes))
	copy(nodes, c.nodes)
	return nodes
}

// NodeByID looks up a node in the raw snapshot
func (c *ViewComposer) NodeByID(nodeID string) (entities.MemoryNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.nodes {
		if n.ID == nodeID {
			return n, true
		}
	}
	return entities.MemoryNode{}, false
}

// ApplyFilter replaces the filter state and recomposes
func (c *ViewComposer) ApplyFilter(filter FilterState) {
	c.mu.Lock()
	c.filter = filter
	model := c.composeLocked()
	c.mu.Unlock()
	c.publish(model, nil)
}

// SetSizingMode switches the global sizing strategy and recomposes
func (c *ViewComposer) SetSizingMode(mode domainservices.SizingMode) {
	c.mu.Lock()
	c.mode = mode
	model := c.composeLocked()
	c.mu.Unlock()
	c.publish(model, nil)
}

// SetHighlight replaces the highlight overlay wholesale and recomposes.
// This is the commit point of the highlight engine; when the new overlay is
// non-empty the renderer is asked to re-center on the highlighted subset.
func (c *ViewComposer) SetHighlight(state HighlightState, focus []string) {
	c.mu.Lock()
	c.highlight = state
	model := c.composeLocked()
	c.mu.Unlock()
	c.publish(model, focus)
}

// Generate asks the backend to grow the graph from free text and refetches
// the snapshot on success
func (c *ViewComposer) Generate(ctx context.Context, text string) (*ports.GenerationReport, error) {
	if c.generator == nil {
		return nil, pkgerrors.NewInternal("graph generator not configured", nil)
	}
	report, err := c.generator.GenerateKnowledgeGraph(ctx, text)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generating knowledge graph")
	}

	if refreshErr := c.Refresh(ctx, false); refreshErr != nil {
		c.logger.Warn("refresh after generation failed", zap.Error(refreshErr))
	}
	if c.notifier != nil && report.Message != "" {
		c.notifier.Info(report.Message)
	}
	return report, nil
}

// Compose builds the renderable model from the current view state
func (c *ViewComposer) Compose() ViewModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.composeLocked()
}

// composeLocked must be called with at least a read lock held
func (c *ViewComposer) composeLocked() ViewModel {
	visibleNodes, visibleEdges := c.adapter.VisibleGraph(c.nodes, c.edges, c.filter)
	now := c.clock()

	renderedNodes := make([]ports.RenderedNode, 0, len(visibleNodes))
	for _, node := range visibleNodes {
		highlighted := c.highlight.IsHighlighted(node.ID)
		renderedNodes = append(renderedNodes, ports.RenderedNode{
			ID:          node.ID,
			Label:       node.Label(),
			Type:        node.Type,
			Size:        c.sizer.Size(c.mode, c.metadataFor(node), highlighted, now),
			Highlighted: highlighted,
			Similarity:  c.highlight.SimilarityByID[node.ID],
		})
	}

	renderedEdges := make([]ports.RenderedEdge, 0, len(visibleEdges))
	for _, edge := range visibleEdges {
		highlighted := c.highlight.EdgeHighlighted(edge)
		renderedEdges = append(renderedEdges, ports.RenderedEdge{
			SourceID:    edge.SourceID,
			TargetID:    edge.TargetID,
			Label:       edge.Label,
			Color:       c.colors.EdgeColor(edge.Label, highlighted),
			Highlighted: highlighted,
		})
	}

	return ViewModel{
		Nodes:          renderedNodes,
		Edges:          renderedEdges,
		Filter:         c.filter,
		SizingMode:     c.mode,
		HighlightCount: len(c.highlight.HighlightedIDs),
	}
}

// metadataFor prefers the tracked weights snapshot over whatever metadata
// rode along with the node fetch
func (c *ViewComposer) metadataFor(node entities.MemoryNode) *entities.NodeMetadata {
	if meta, ok := c.weights[node.ID]; ok {
		return &meta
	}
	return node.Metadata
}

// publish pushes the model to the renderer outside the state lock
func (c *ViewComposer) publish(model ViewModel, focus []string) {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(model.Nodes, model.Edges)
	if len(focus) > 0 {
		c.renderer.ZoomToFit(focus)
	}
}
