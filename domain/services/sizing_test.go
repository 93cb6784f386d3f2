package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memview-backend/domain/core/entities"
)

var sizingNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func timePtr(t time.Time) *time.Time {
	return &t
}

func TestParseSizingMode(t *testing.T) {
	for _, valid := range []string{"uniform", "importance", "recency", "frequency"} {
		mode, err := ParseSizingMode(valid)
		require.NoError(t, err)
		assert.Equal(t, SizingMode(valid), mode)
	}

	_, err := ParseSizingMode("gigantic")
	assert.Error(t, err)
}

func TestSize_Uniform(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)

	meta := &entities.NodeMetadata{
		Importance:  floatPtr(1),
		AccessCount: intPtr(100),
	}
	assert.Equal(t, 4.0, sizer.Size(SizingUniform, meta, false, sizingNow))
	assert.Equal(t, 4.0, sizer.Size(SizingUniform, nil, false, sizingNow))
}

func TestSize_BoundsAcrossAllModes(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)
	cfg := DefaultSizingConfig()

	metas := []*entities.NodeMetadata{
		nil,
		{},
		{Importance: floatPtr(0)},
		{Importance: floatPtr(0.5)},
		{Importance: floatPtr(1)},
		{AccessCount: intPtr(0)},
		{AccessCount: intPtr(3)},
		{AccessCount: intPtr(1000)},
		{LastAccessed: timePtr(sizingNow)},
		{LastAccessed: timePtr(sizingNow.Add(-time.Hour))},
		{LastAccessed: timePtr(sizingNow.Add(-30 * 24 * time.Hour))},
	}

	for _, mode := range []SizingMode{SizingUniform, SizingImportance, SizingRecency, SizingFrequency} {
		for _, meta := range metas {
			for _, highlighted := range []bool{false, true} {
				size := sizer.Size(mode, meta, highlighted, sizingNow)
				assert.GreaterOrEqual(t, size, cfg.MinSize,
					"mode=%s highlighted=%v", mode, highlighted)
				assert.LessOrEqual(t, size, cfg.MaxSize*cfg.HighlightBoost,
					"mode=%s highlighted=%v", mode, highlighted)
			}
		}
	}
}

func TestSize_MonotonicInImportance(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)

	prev := -1.0
	for _, importance := range []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0} {
		size := sizer.Size(SizingImportance, &entities.NodeMetadata{Importance: floatPtr(importance)}, false, sizingNow)
		assert.GreaterOrEqual(t, size, prev, "importance=%v", importance)
		prev = size
	}
}

func TestSize_MonotonicInAccessCount(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)

	prev := -1.0
	for _, count := range []int{0, 1, 3, 6, 10, 50} {
		size := sizer.Size(SizingFrequency, &entities.NodeMetadata{AccessCount: intPtr(count)}, false, sizingNow)
		assert.GreaterOrEqual(t, size, prev, "accessCount=%d", count)
		prev = size
	}
}

func TestSize_DecreasingInHoursSinceAccess(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)

	prev := 1000.0
	for _, hours := range []int{0, 1, 3, 6, 12, 48, 720} {
		last := sizingNow.Add(-time.Duration(hours) * time.Hour)
		size := sizer.Size(SizingRecency, &entities.NodeMetadata{LastAccessed: &last}, false, sizingNow)
		assert.LessOrEqual(t, size, prev, "hours=%d", hours)
		prev = size
	}
}

func TestSize_MissingMetadataBehavesAsUniform(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)

	uniform := sizer.Size(SizingUniform, nil, false, sizingNow)
	assert.Equal(t, uniform, sizer.Size(SizingRecency, &entities.NodeMetadata{}, false, sizingNow))
	assert.Equal(t, uniform, sizer.Size(SizingFrequency, &entities.NodeMetadata{}, false, sizingNow))
	assert.Equal(t, uniform, sizer.Size(SizingRecency, nil, false, sizingNow))
	assert.Equal(t, uniform, sizer.Size(SizingFrequency, nil, false, sizingNow))
}

func TestSize_HighlightBoostAppliedAfterClamp(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)
	cfg := DefaultSizingConfig()

	// A huge access count saturates the base size at MaxSize; the boost
	// then lifts the final size beyond it.
	meta := &entities.NodeMetadata{AccessCount: intPtr(1000)}
	base := sizer.Size(SizingFrequency, meta, false, sizingNow)
	boosted := sizer.Size(SizingFrequency, meta, true, sizingNow)

	assert.Equal(t, cfg.MaxSize, base)
	assert.InDelta(t, cfg.MaxSize*cfg.HighlightBoost, boosted, 1e-9)
}

func TestSize_Deterministic(t *testing.T) {
	sizer := NewDefaultNodeSizer(nil)
	meta := &entities.NodeMetadata{
		Importance:   floatPtr(0.7),
		AccessCount:  intPtr(5),
		LastAccessed: timePtr(sizingNow.Add(-2 * time.Hour)),
	}

	for _, mode := range []SizingMode{SizingUniform, SizingImportance, SizingRecency, SizingFrequency} {
		first := sizer.Size(mode, meta, true, sizingNow)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, sizer.Size(mode, meta, true, sizingNow), "mode=%s", mode)
		}
	}
}
