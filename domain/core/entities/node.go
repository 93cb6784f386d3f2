package entities

import (
	"strings"
	"time"
)

// NodeType classifies the kind of content a memory node holds
type NodeType string

const (
	NodeTypePrompt   NodeType = "prompt"
	NodeTypeDocument NodeType = "document"
	NodeTypeOther    NodeType = "other"
)

// ParseNodeType normalizes a raw type string into a known NodeType.
// Unrecognized values map to NodeTypeOther so the view never drops nodes
// just because the store introduced a new content kind.
func ParseNodeType(raw string) NodeType {
	switch NodeType(strings.ToLower(strings.TrimSpace(raw))) {
	case NodeTypePrompt:
		return NodeTypePrompt
	case NodeTypeDocument:
		return NodeTypeDocument
	default:
		return NodeTypeOther
	}
}

// NodeMetadata carries the access statistics the sizing engine feeds on.
// It is owned by the remote tracking collaborator; the client only ever
// receives a best-effort snapshot, so every field is optional.
type NodeMetadata struct {
	Importance   *float64   `json:"importance,omitempty"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	AccessCount  *int       `json:"access_count,omitempty"`
}

// MemoryNode is a unit of stored content in the knowledge graph
type MemoryNode struct {
	ID       string        `json:"id"`
	Type     NodeType      `json:"type"`
	Content  string        `json:"content"`
	Tags     []string      `json:"tags,omitempty"`
	Metadata *NodeMetadata `json:"metadata,omitempty"`
}

// Label returns a short display label derived from the node content
func (n MemoryNode) Label() string {
	const maxLabelLen = 60

	label := strings.TrimSpace(n.Content)
	if idx := strings.IndexAny(label, "\r\n"); idx >= 0 {
		label = label[:idx]
	}
	// Truncate on rune boundaries so multi-byte content stays valid UTF-8
	if runes := []rune(label); len(runes) > maxLabelLen {
		label = strings.TrimSpace(string(runes[:maxLabelLen])) + "…"
	}
	return label
}

// HasTag reports whether the node carries the given tag (case-insensitive)
func (n MemoryNode) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
