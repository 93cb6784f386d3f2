package services

import (
	"context"
	"sync"

	"memview-backend/application/ports"
	"memview-backend/domain/core/entities"
)

// stubSearch is a controllable SearchService
type stubSearch struct {
	mu      sync.Mutex
	results []ports.SearchResult
	err     error
	lastReq ports.SearchRequest
	calls   int
}

func (s *stubSearch) SearchMemoryNodes(_ context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastReq = req
	return s.results, s.err
}

// funcSearch delegates to a per-request function, for tests that need to
// control completion order
type funcSearch struct {
	fn func(req ports.SearchRequest) ([]ports.SearchResult, error)
}

func (s *funcSearch) SearchMemoryNodes(_ context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	return s.fn(req)
}

// stubTracker records tracking calls and can simulate failures
type stubTracker struct {
	mu   sync.Mutex
	reqs []ports.TrackRequest
	err  error
	done chan struct{}
}

func (s *stubTracker) TrackNodeAccess(_ context.Context, req ports.TrackRequest) error {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	err := s.err
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return err
}

func (s *stubTracker) requests() []ports.TrackRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.TrackRequest(nil), s.reqs...)
}

// stubNotifier collects notices by level
type stubNotifier struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (s *stubNotifier) Info(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
}

func (s *stubNotifier) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warns = append(s.warns, msg)
}

func (s *stubNotifier) Error(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

// stubRenderer records what the composer pushes
type stubRenderer struct {
	mu      sync.Mutex
	renders int
	nodes   []ports.RenderedNode
	edges   []ports.RenderedEdge
	focus   [][]string
}

func (s *stubRenderer) Render(nodes []ports.RenderedNode, edges []ports.RenderedEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	s.nodes = nodes
	s.edges = edges
}

func (s *stubRenderer) ZoomToFit(nodeIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = append(s.focus, nodeIDs)
}

// stubReader serves a fixed snapshot and can fail per collection
type stubReader struct {
	nodes      []entities.MemoryNode
	edges      []entities.MemoryEdge
	weights    ports.NodeWeights
	nodesErr   error
	edgesErr   error
	weightsErr error

	mu          sync.Mutex
	weightCalls int
	nodeCalls   int
}

func (s *stubReader) GetMemoryNodes(context.Context) ([]entities.MemoryNode, error) {
	s.mu.Lock()
	s.nodeCalls++
	s.mu.Unlock()
	return s.nodes, s.nodesErr
}

func (s *stubReader) GetMemoryEdges(context.Context) ([]entities.MemoryEdge, error) {
	return s.edges, s.edgesErr
}

func (s *stubReader) GetNodeWeights(context.Context) (ports.NodeWeights, error) {
	s.mu.Lock()
	s.weightCalls++
	s.mu.Unlock()
	return s.weights, s.weightsErr
}

// stubGenerator returns a fixed report
type stubGenerator struct {
	report *ports.GenerationReport
	err    error
}

func (s *stubGenerator) GenerateKnowledgeGraph(context.Context, string) (*ports.GenerationReport, error) {
	return s.report, s.err
}
