package entities

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseNodeType(t *testing.T) {
	assert.Equal(t, NodeTypePrompt, ParseNodeType("prompt"))
	assert.Equal(t, NodeTypeDocument, ParseNodeType(" Document "))
	assert.Equal(t, NodeTypeOther, ParseNodeType("other"))
	assert.Equal(t, NodeTypeOther, ParseNodeType("brand-new-kind"))
	assert.Equal(t, NodeTypeOther, ParseNodeType(""))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short content passes through",
			content: "a short note",
			want:    "a short note",
		},
		{
			name:    "first line only",
			content: "headline\nrest of the body",
			want:    "headline",
		},
		{
			name:    "long content truncated with ellipsis",
			content: strings.Repeat("a", 80),
			want:    strings.Repeat("a", 60) + "…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := MemoryNode{ID: "n", Content: tt.content}
			assert.Equal(t, tt.want, node.Label())
		})
	}
}

func TestLabel_MultiByteContentStaysValidUTF8(t *testing.T) {
	node := MemoryNode{ID: "n", Content: strings.Repeat("日本語のメモ", 20)}

	label := node.Label()
	assert.True(t, utf8.ValidString(label), "truncation split a multi-byte rune: %q", label)
	assert.Equal(t, 61, utf8.RuneCountInString(label))
	assert.True(t, strings.HasSuffix(label, "…"))
}

func TestHasTag(t *testing.T) {
	node := MemoryNode{ID: "n", Tags: []string{"Research", "ml"}}

	assert.True(t, node.HasTag("research"))
	assert.True(t, node.HasTag("ML"))
	assert.False(t, node.HasTag("ops"))
	assert.False(t, MemoryNode{}.HasTag("anything"))
}
