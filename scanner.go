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

// ScanResult summarises one Scan call against the shared indices.
type ScanResult struct {
	UniqueHits   int
	GenomeMapped bool
}

// Detected reports whether this result counts as a positive read: any
// unique-kmer hit, or any accepted genome alignment, on either
// orientation.
func (r ScanResult) Detected() bool {
	return r.UniqueHits > 0 || r.GenomeMapped
}

// Scanner walks a read in both orientations and dispatches each k-mer to
// whichever of the three shared indices are configured. Any of the three
// may be nil; a nil index is simply skipped. A Scanner holds no
// per-read state between calls and is safe to share or to give one per
// worker, since the indices themselves carry all mutable state.
type Scanner struct {
	opt       *Options
	uniqueIdx *UniqueKmerIndex
	genomeIdx *GenomeIndex
	collIdx   *KmerCollectionIndex
}

// NewScanner builds a Scanner over whichever indices are non-nil.
func NewScanner(opt *Options, unique *UniqueKmerIndex, genome *GenomeIndex, coll *KmerCollectionIndex) *Scanner {
	return &Scanner{opt: opt, uniqueIdx: unique, genomeIdx: genome, collIdx: coll}
}

// Scan dispatches read to every configured index and reports the
// combined outcome. Reads longer than LongReadThreshold are split into
// non-overlapping SegmentLength chunks and scanned independently; their
// results are merged.
func (s *Scanner) Scan(read string) ScanResult {
	if len(read) > s.opt.LongReadThreshold {
		var agg ScanResult
		for start := 0; start < len(read); start += s.opt.SegmentLength {
			end := start + s.opt.SegmentLength
			if end > len(read) {
				end = len(read)
			}
			seg := s.Scan(read[start:end])
			agg.UniqueHits += seg.UniqueHits
			agg.GenomeMapped = agg.GenomeMapped || seg.GenomeMapped
		}
		return agg
	}

	var result ScanResult
	fwdHits, fwdMapped := s.scanOrientation(read)
	result.UniqueHits += fwdHits
	result.GenomeMapped = result.GenomeMapped || fwdMapped

	rcHits, rcMapped := s.scanOrientation(ReverseComplement(read))
	result.UniqueHits += rcHits
	result.GenomeMapped = result.GenomeMapped || rcMapped

	return result
}

// scanOrientation walks one orientation's key stream, updating every
// configured index, then aligns against GenomeIndex if GenomeIndex.ProbablyHas
// reported any key along the way.
func (s *Scanner) scanOrientation(seq string) (uniqueHits int, genomeMapped bool) {
	k := s.opt.KmerKeyLen
	limit := len(seq) - k + 1
	if limit <= 0 {
		return 0, false
	}

	needAlignment := false
	forEachKmer(seq, k, limit, func(pos int, key uint64) bool {
		if s.genomeIdx != nil && !needAlignment && s.genomeIdx.ProbablyHas(key) {
			needAlignment = true
		}
		if s.uniqueIdx != nil && s.uniqueIdx.Add(key) {
			uniqueHits++
		}
		if s.collIdx != nil {
			s.collIdx.Add(key)
		}
		// Once alignment is already flagged and neither a unique-kmer nor
		// a collection index is configured, nothing later in the walk can
		// change the outcome; stop early rather than pay for it.
		if needAlignment && s.uniqueIdx == nil && s.collIdx == nil {
			return false
		}
		return true
	})

	if needAlignment && s.genomeIdx != nil {
		genomeMapped = s.genomeIdx.Align(seq)
	}
	return uniqueHits, genomeMapped
}
