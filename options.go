// Copyright © 2019 OpenGene <dev@opengene.org>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package fastv

import "fmt"

// Options holds every tunable the detection core consumes. Defaults match
// original_source/src/options.cpp exactly.
type Options struct {
	// KmerKeyLen is K, the k-mer key length in bases (1..32). Zero means
	// "infer from the first record": BuildUniqueKmerIndex and
	// BuildKmerCollectionIndex set it from their input, while
	// BuildGenomeIndex returns an error if it is still zero.
	KmerKeyLen int

	// PositiveThreshold is the mean-hit-depth cutoff for a POSITIVE
	// UniqueKmerIndex verdict.
	PositiveThreshold float64

	// EdThreshold is the maximum edit distance accepted by GenomeIndex
	// seed-and-extend alignment.
	EdThreshold int

	// DepthThreshold is the minimum per-bin coverage (bases/binSize) to
	// count that bin as covered for GenomeIndex's coverage rate.
	DepthThreshold float64

	// StatsBinSize is the fixed coverage bin size; zero auto-selects one
	// so the largest contig has roughly 1600 bins.
	StatsBinSize int

	// LongReadThreshold: reads longer than this are split into segments.
	LongReadThreshold int

	// SegmentLength is the split size used for long reads.
	SegmentLength int

	// KCCoverageThreshold is the minimum coverage fraction for a
	// collection to be reported at all.
	KCCoverageThreshold float64

	// KCCoverageHighConfidence and KCMedianHitHighConfidence gate the
	// high-confidence predicate on a reported KCResult.
	KCCoverageHighConfidence  float64
	KCMedianHitHighConfidence int

	// Verbose enables Info-level build/scan progress logging.
	Verbose bool
}

// NewOptions returns an Options populated with the same defaults as
// original_source/src/options.cpp's Options constructor.
func NewOptions() *Options {
	return &Options{
		KmerKeyLen:                0,
		PositiveThreshold:         0.1,
		EdThreshold:               8,
		DepthThreshold:            1.0,
		StatsBinSize:              0,
		LongReadThreshold:         200,
		SegmentLength:             100,
		KCCoverageThreshold:       0.1,
		KCCoverageHighConfidence:  0.9,
		KCMedianHitHighConfidence: 10,
	}
}

// Validate mirrors Options::validate's range checks from the original
// implementation.
func (o *Options) Validate() error {
	if o.KmerKeyLen < 0 || o.KmerKeyLen > 32 {
		return newErrorf(ErrInputFormat, "kmerKeyLen must be in [0, 32], got %d", o.KmerKeyLen)
	}
	if o.PositiveThreshold < 0.001 || o.PositiveThreshold > 100 {
		return newErrorf(ErrInputFormat, "positiveThreshold must be in [0.001, 100], got %v", o.PositiveThreshold)
	}
	if o.DepthThreshold < 0.001 || o.DepthThreshold > 1000 {
		return newErrorf(ErrInputFormat, "depthThreshold must be in [0.001, 1000], got %v", o.DepthThreshold)
	}
	if o.LongReadThreshold < 100 || o.LongReadThreshold > 10000 {
		return newErrorf(ErrInputFormat, "longReadThreshold must be in [100, 10000], got %d", o.LongReadThreshold)
	}
	if o.SegmentLength < 50 || o.SegmentLength > 5000 {
		return newErrorf(ErrInputFormat, "segmentLength must be in [50, 5000], got %d", o.SegmentLength)
	}
	if o.SegmentLength >= o.LongReadThreshold {
		return newErrorf(ErrInputFormat, "segmentLength (%d) must be smaller than longReadThreshold (%d)", o.SegmentLength, o.LongReadThreshold)
	}
	if o.EdThreshold < 0 || o.EdThreshold > 50 {
		return newErrorf(ErrInputFormat, "edThreshold must be in [0, 50], got %d", o.EdThreshold)
	}
	return nil
}

func (o *Options) String() string {
	return fmt.Sprintf("K=%d positiveThreshold=%v edThreshold=%d depthThreshold=%v statsBinSize=%d",
		o.KmerKeyLen, o.PositiveThreshold, o.EdThreshold, o.DepthThreshold, o.StatsBinSize)
}
