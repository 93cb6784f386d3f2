// Package client implements the memory-store collaborator ports over its
// REST API. Transport details (paths, DTO shapes, epoch-second timestamps)
// stay inside this package; the application layer only sees domain types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"memview-backend/application/ports"
	"memview-backend/domain/core/entities"
	"memview-backend/domain/core/valueobjects"
	pkgerrors "memview-backend/pkg/errors"
)

// trackingFallbackAccessType is substituted when the backend answers 405 for
// an access type it does not support. The correct taxonomy is still being
// clarified with the backend owner; "view" is the one type every deployment
// accepts.
const trackingFallbackAccessType = "view"

// Client talks to the memory store. It implements ports.MemoryReader,
// ports.SearchService, ports.AccessTracker and ports.GraphGenerator.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a client for the given base URL
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "memory-search",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
		tracer:  otel.Tracer("memview/client"),
	}
}

// ============================================================================
// DTOs
// ============================================================================

type nodeMetadataDTO struct {
	Importance   *float64 `json:"importance,omitempty"`
	LastAccessed *int64   `json:"last_accessed,omitempty"` // epoch seconds
	AccessCount  *int     `json:"access_count,omitempty"`
}

type nodeDTO struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Content  string           `json:"content"`
	Tags     []string         `json:"tags"`
	Metadata *nodeMetadataDTO `json:"metadata,omitempty"`
}

type edgeDTO struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

type searchRequestDTO struct {
	Query         string  `json:"query"`
	MinSimilarity float64 `json:"min_similarity"`
	Limit         int     `json:"limit"`
}

type searchResultDTO struct {
	NodeID     string  `json:"node_id"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content"`
}

type trackRequestDTO struct {
	NodeID       string  `json:"node_id"`
	AccessType   string  `json:"access_type"`
	AccessWeight float64 `json:"access_weight"`
}

type generateRequestDTO struct {
	Text string `json:"text"`
}

func (d *nodeMetadataDTO) toEntity() *entities.NodeMetadata {
	if d == nil {
		return nil
	}
	meta := &entities.NodeMetadata{
		Importance:  d.Importance,
		AccessCount: d.AccessCount,
	}
	if d.LastAccessed != nil {
		t := time.Unix(*d.LastAccessed, 0).UTC()
		meta.LastAccessed = &t
	}
	return meta
}

// ============================================================================
// MemoryReader
// ============================================================================

// GetMemoryNodes implements ports.MemoryReader
func (c *Client) GetMemoryNodes(ctx context.Context) ([]entities.MemoryNode, error) {
	ctx, span := c.tracer.Start(ctx, "client.GetMemoryNodes")
	defer span.End()

	var dtos []nodeDTO
	if err := c.getJSON(ctx, "/api/memory/nodes", &dtos); err != nil {
		return nil, pkgerrors.NewUnavailable("fetching memory nodes", err)
	}

	nodes := make([]entities.MemoryNode, 0, len(dtos))
	for _, d := range dtos {
		nodes = append(nodes, entities.MemoryNode{
			ID:       d.ID,
			Type:     entities.ParseNodeType(d.Type),
			Content:  d.Content,
			Tags:     d.Tags,
			Metadata: d.Metadata.toEntity(),
		})
	}
	span.SetAttributes(attribute.Int("nodes.count", len(nodes)))
	return nodes, nil
}

// GetMemoryEdges implements ports.MemoryReader
func (c *Client) GetMemoryEdges(ctx context.Context) ([]entities.MemoryEdge, error) {
	ctx, span := c.tracer.Start(ctx, "client.GetMemoryEdges")
	defer span.End()

	var dtos []edgeDTO
	if err := c.getJSON(ctx, "/api/memory/edges", &dtos); err != nil {
		return nil, pkgerrors.NewUnavailable("fetching memory edges", err)
	}

	edges := make([]entities.MemoryEdge, 0, len(dtos))
	for _, d := range dtos {
		edges = append(edges, entities.MemoryEdge{
			SourceID: d.SourceID,
			TargetID: d.TargetID,
			Label:    d.Label,
		})
	}
	span.SetAttributes(attribute.Int("edges.count", len(edges)))
	return edges, nil
}

// GetNodeWeights implements ports.MemoryReader
func (c *Client) GetNodeWeights(ctx context.Context) (ports.NodeWeights, error) {
	ctx, span := c.tracer.Start(ctx, "client.GetNodeWeights")
	defer span.End()

	var dtos map[string]nodeMetadataDTO
	if err := c.getJSON(ctx, "/api/memory/weights", &dtos); err != nil {
		return nil, pkgerrors.NewUnavailable("fetching node weights", err)
	}

	weights := make(ports.NodeWeights, len(dtos))
	for id, d := range dtos {
		d := d
		weights[id] = *d.toEntity()
	}
	return weights, nil
}

// ============================================================================
// SearchService
// ============================================================================

// SearchMemoryNodes implements ports.SearchService. The call goes through a
// circuit breaker: once the search backend is failing hard, requests are
// rejected immediately so the local fallback kicks in without waiting out
// the timeout on every keystroke.
func (c *Client) SearchMemoryNodes(ctx context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	ctx, span := c.tracer.Start(ctx, "client.SearchMemoryNodes")
	defer span.End()

	body, err := c.breaker.Execute(func() (any, error) {
		var dtos []searchResultDTO
		err := c.postJSON(ctx, "/api/memory/search", searchRequestDTO{
			Query:         req.QueryText,
			MinSimilarity: req.MinSimilarity,
			Limit:         req.Limit,
		}, &dtos)
		return dtos, err
	})
	if err != nil {
		span.RecordError(err)
		return nil, pkgerrors.NewUnavailable("semantic search", err)
	}

	dtos := body.([]searchResultDTO)
	results := make([]ports.SearchResult, 0, len(dtos))
	for _, d := range dtos {
		results = append(results, ports.SearchResult{
			NodeID:     d.NodeID,
			Similarity: valueobjects.NewSimilarity(d.Similarity),
			Content:    d.Content,
		})
	}
	span.SetAttributes(attribute.Int("results.count", len(results)))
	return results, nil
}

// ============================================================================
// AccessTracker
// ============================================================================

// TrackNodeAccess implements ports.AccessTracker. Some backend flows answer
// 405 for access types they do not support; in that case the call is retried
// once with the universally accepted "view" type. Callers treat any
// remaining error as log-only.
func (c *Client) TrackNodeAccess(ctx context.Context, req ports.TrackRequest) error {
	status, err := c.postStatus(ctx, "/api/memory/access", trackRequestDTO{
		NodeID:       req.NodeID,
		AccessType:   req.AccessType,
		AccessWeight: req.Weight,
	})
	if err == nil && status == http.StatusMethodNotAllowed && req.AccessType != trackingFallbackAccessType {
		c.logger.Debug("access type rejected with 405, retrying as view",
			zap.String("nodeID", req.NodeID),
			zap.String("accessType", req.AccessType),
		)
		status, err = c.postStatus(ctx, "/api/memory/access", trackRequestDTO{
			NodeID:       req.NodeID,
			AccessType:   trackingFallbackAccessType,
			AccessWeight: req.Weight,
		})
	}
	if err != nil {
		return pkgerrors.NewUnavailable("tracking node access", err)
	}
	if status >= http.StatusBadRequest {
		return pkgerrors.NewUnavailable("tracking node access", fmt.Errorf("backend returned %d", status))
	}
	return nil
}

// ============================================================================
// GraphGenerator
// ============================================================================

// GenerateKnowledgeGraph implements ports.GraphGenerator
func (c *Client) GenerateKnowledgeGraph(ctx context.Context, text string) (*ports.GenerationReport, error) {
	ctx, span := c.tracer.Start(ctx, "client.GenerateKnowledgeGraph")
	defer span.End()

	var report ports.GenerationReport
	if err := c.postJSON(ctx, "/api/memory/generate", generateRequestDTO{Text: text}, &report); err != nil {
		span.RecordError(err)
		return nil, pkgerrors.NewUnavailable("generating knowledge graph", err)
	}
	return &report, nil
}

// ============================================================================
// MemoryWriter
// ============================================================================

// DeleteMemoryNode implements ports.MemoryWriter
func (c *Client) DeleteMemoryNode(ctx context.Context, nodeID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/memory/nodes/"+nodeID, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return pkgerrors.NewUnavailable("deleting memory node", err)
	}
	return nil
}

// ============================================================================
// HTTP plumbing
// ============================================================================

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// postStatus posts and returns the status code without treating non-2xx as
// a transport error; the tracker needs to see the 405 to react to it.
func (c *Client) postStatus(ctx context.Context, path string, in any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: backend returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
