package features

import (
	"math"
	"testing"

	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/layout"
	"github.com/hupe1980/featcol/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignmentScoreLayout(t *testing.T) {
	assert.Equal(t, 36, AlignmentScoreLayout.Width())
	assert.Equal(t, 0, AlignmentScoreLayout.Padding())

	wantOffsets := []int{0, 4, 8, 12, 16, 20, 28, 32}
	require.Equal(t, len(wantOffsets), AlignmentScoreLayout.NumFields())
	for i, off := range wantOffsets {
		assert.Equal(t, off, AlignmentScoreLayout.Field(i).Offset, AlignmentScoreLayout.Field(i).Name)
	}

	mz, ok := AlignmentScoreLayout.Lookup("maxMzDelta")
	require.True(t, ok)
	assert.Equal(t, layout.Float64, mz.Kind)
	assert.False(t, mz.Aligned())
	assert.Equal(t, "rate", AlignmentScoreLayout.Presence().Name)
}

func sampleScore() AlignmentScore {
	return AlignmentScore{
		Rate:                  0.75,
		AlignedFeatures:       12,
		ExtraFeatures:         3,
		WeightedDistanceScore: 0.42,
		MzPpmDelta:            1.8,
		MaxMzDelta:            0.0021,
		MaxRtDelta:            0.35,
		MaxMobilityDelta:      0.01,
	}
}

func TestAlignmentScoreColumn_SetGetAbsent(t *testing.T) {
	col, err := NewAlignmentScoreColumn(segment.NewHeapAllocator(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, col.Capacity())
	assert.Equal(t, 360, len(col.Bytes()))

	rec := sampleScore()
	col.Set(0, rec)
	got, ok := col.Get(0)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	before := append([]byte(nil), col.Bytes()[:36]...)
	col.SetAbsent(0)
	_, ok = col.Get(0)
	assert.False(t, ok)

	after := col.Bytes()[:36]
	assert.NotEqual(t, before[:4], after[:4])
	assert.Equal(t, before[4:], after[4:], "only the rate bytes change")
}

func TestAlignmentScoreColumn_NaNRateIsAbsent(t *testing.T) {
	col, err := NewAlignmentScoreColumn(segment.NewHeapAllocator(), 1)
	require.NoError(t, err)

	rec := sampleScore()
	rec.Rate = float32(math.NaN())
	col.Set(2, rec)
	assert.True(t, col.IsAbsent(2))
	assert.Equal(t, 0, col.PresentCount())
}

func TestAlignmentScoreColumn_UnalignedFieldRoundTrip(t *testing.T) {
	col, err := NewAlignmentScoreColumn(segment.NewMmapAllocator(), 1)
	require.NoError(t, err)
	defer col.Close()

	for i := 0; i < col.Capacity(); i++ {
		rec := sampleScore()
		rec.AlignedFeatures = int32(i)
		rec.MaxMzDelta = math.Pi * float64(i)
		col.Set(i, rec)
	}

	_, err = col.EnsureCapacity(col.Capacity() + 1)
	require.NoError(t, err)
	assert.Equal(t, 110, col.Capacity())

	for i := 0; i < 10; i++ {
		got, ok := col.Get(i)
		require.True(t, ok)
		assert.Equal(t, int32(i), got.AlignedFeatures)
		assert.Equal(t, math.Pi*float64(i), got.MaxMzDelta)
	}
	for i := 10; i < 110; i++ {
		assert.True(t, col.IsAbsent(i))
	}
}

func TestAlignmentScoreColumn_Options(t *testing.T) {
	col, err := NewAlignmentScoreColumn(segment.NewHeapAllocator(), 4,
		column.WithName("scores"), column.WithGrowthFactor(1))
	require.NoError(t, err)
	assert.Equal(t, "scores", col.Name())
	assert.Equal(t, 4, col.Capacity())
}
