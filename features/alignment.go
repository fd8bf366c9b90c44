package features

import (
	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/layout"
	"github.com/hupe1980/featcol/segment"
)

// AlignmentScore summarizes how well a feature aligned across runs.
// A NaN Rate means the score was not computed.
type AlignmentScore struct {
	Rate                  float32
	AlignedFeatures       int32
	ExtraFeatures         int32
	WeightedDistanceScore float32
	MzPpmDelta            float32
	MaxMzDelta            float64
	MaxRtDelta            float32
	MaxMobilityDelta      float32
}

// AlignmentScoreLayout is the binary layout of an AlignmentScore row.
var AlignmentScoreLayout = layout.NewBuilder("AlignmentScore").
	Add("rate", layout.Float32).
	Add("alignedFeatures", layout.Int32).
	Add("extraFeatures", layout.Int32).
	Add("weightedDistanceScore", layout.Float32).
	Add("mzPpmDelta", layout.Float32).
	AddUnaligned("maxMzDelta", layout.Float64).
	Add("maxRtDelta", layout.Float32).
	Add("maxMobilityDelta", layout.Float32).
	MustBuild()

var (
	fRate                  = AlignmentScoreLayout.Field(0)
	fAlignedFeatures       = AlignmentScoreLayout.Field(1)
	fExtraFeatures         = AlignmentScoreLayout.Field(2)
	fWeightedDistanceScore = AlignmentScoreLayout.Field(3)
	fMzPpmDelta            = AlignmentScoreLayout.Field(4)
	fMaxMzDelta            = AlignmentScoreLayout.Field(5)
	fMaxRtDelta            = AlignmentScoreLayout.Field(6)
	fMaxMobilityDelta      = AlignmentScoreLayout.Field(7)
)

func encodeAlignmentScore(row []byte, v *AlignmentScore) {
	fRate.PutFloat32(row, v.Rate)
	fAlignedFeatures.PutInt32(row, v.AlignedFeatures)
	fExtraFeatures.PutInt32(row, v.ExtraFeatures)
	fWeightedDistanceScore.PutFloat32(row, v.WeightedDistanceScore)
	fMzPpmDelta.PutFloat32(row, v.MzPpmDelta)
	fMaxMzDelta.PutFloat64(row, v.MaxMzDelta)
	fMaxRtDelta.PutFloat32(row, v.MaxRtDelta)
	fMaxMobilityDelta.PutFloat32(row, v.MaxMobilityDelta)
}

func decodeAlignmentScore(row []byte, v *AlignmentScore) {
	v.Rate = fRate.Float32(row)
	v.AlignedFeatures = fAlignedFeatures.Int32(row)
	v.ExtraFeatures = fExtraFeatures.Int32(row)
	v.WeightedDistanceScore = fWeightedDistanceScore.Float32(row)
	v.MzPpmDelta = fMzPpmDelta.Float32(row)
	v.MaxMzDelta = fMaxMzDelta.Float64(row)
	v.MaxRtDelta = fMaxRtDelta.Float32(row)
	v.MaxMobilityDelta = fMaxMobilityDelta.Float32(row)
}

// AlignmentScoreCodec is the shared codec for AlignmentScore columns.
var AlignmentScoreCodec = mustStructCodec(AlignmentScoreLayout, encodeAlignmentScore, decodeAlignmentScore)

// AlignmentScoreColumn stores one AlignmentScore per row.
type AlignmentScoreColumn = column.Column[AlignmentScore]

// NewAlignmentScoreColumn creates an AlignmentScore column.
func NewAlignmentScoreColumn(alloc segment.Allocator, initialCapacity int, opts ...column.Option) (*AlignmentScoreColumn, error) {
	return column.New[AlignmentScore](alloc, AlignmentScoreCodec, initialCapacity, opts...)
}

func mustStructCodec[T any](desc *layout.Descriptor, encode, decode func([]byte, *T)) *column.StructCodec[T] {
	c, err := column.NewStructCodec(desc, encode, decode)
	if err != nil {
		panic(err)
	}
	return c
}
