// Package features defines the feature-store column types built on package
// column.
//
// AlignmentScore is the per-feature alignment quality record. Its 36-byte
// layout is part of the on-disk contract and must not change:
//
//	offset  field                  kind
//	     0  rate                   float32  (presence)
//	     4  alignedFeatures        int32
//	     8  extraFeatures          int32
//	    12  weightedDistanceScore  float32
//	    16  mzPpmDelta             float32
//	    20  maxMzDelta             float64  (unaligned)
//	    28  maxRtDelta             float32
//	    32  maxMobilityDelta       float32
//
// maxMzDelta sits at offset 20 rather than 24 so the record needs no padding.
package features
