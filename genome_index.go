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

import (
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

const (
	maxContigCount  = 255
	maxContigLength = 1 << 24 // 16 Mbp
	polyATailGuard  = 28
	seedSampleStep  = 10
)

// MapResult is the outcome of aligning one read against one candidate
// contig start.
type MapResult struct {
	Mapped bool
	Start  int
	Len    int
	Ed     int
}

// GenomeIndex maps reads against one or more reference contigs by
// seed-and-extend alignment, accumulating per-contig coverage and
// mismatch statistics in fixed-size bins.
type GenomeIndex struct {
	opt *Options

	names []string
	seqs  []string

	lowComplexity map[uint64]bool
	seedTable     map[uint64][]uint32
	bloom         *bloomFilter

	binSize      int
	coverage     [][]float64
	editDistance [][]float64
	reads        []uint64
	bases        []uint64
	totalEd      []uint64

	hitCount    uint64
	missedCount uint64

	mu sync.Mutex // guards coverage/editDistance/reads/bases/totalEd
}

// BuildGenomeIndex loads reference contigs from a FASTA file and builds
// the seed table, low-complexity exclusion set, and Bloom pre-filter.
func BuildGenomeIndex(path string, opt *Options) (*GenomeIndex, error) {
	src, err := NewFastaSource(path, true)
	if err != nil {
		return nil, err
	}
	names, seqs, err := src.ReadOrdered()
	if err != nil {
		return nil, err
	}
	if opt.KmerKeyLen <= 0 {
		return nil, newErrorf(ErrInputFormat, "genome index requires a positive kmerKeyLen, got %d", opt.KmerKeyLen)
	}

	gi := &GenomeIndex{
		opt:           opt,
		lowComplexity: buildLowComplexityKeys(opt.KmerKeyLen),
		seedTable:     make(map[uint64][]uint32),
	}

	for i, seq := range seqs {
		if len(gi.names) >= maxContigCount {
			log.Warningf("up to %d genomes are supported, skipping remaining contigs starting at %s", maxContigCount, names[i])
			break
		}
		if len(seq) >= maxContigLength {
			log.Warningf("genome size up to %s bp is supported, skipping %s (%d bp)",
				humanize.Comma(maxContigLength), names[i], len(seq))
			continue
		}
		gi.names = append(gi.names, names[i])
		gi.seqs = append(gi.seqs, seq)
	}
	if len(gi.names) == 0 {
		return nil, newErrorf(ErrInputFormat, "no usable contig found in %s", path)
	}

	if opt.StatsBinSize == 0 {
		opt.StatsBinSize = autoSelectBinSize(gi.seqs)
	}
	gi.binSize = opt.StatsBinSize

	n := len(gi.names)
	gi.coverage = make([][]float64, n)
	gi.editDistance = make([][]float64, n)
	gi.reads = make([]uint64, n)
	gi.bases = make([]uint64, n)
	gi.totalEd = make([]uint64, n)
	for i, seq := range gi.seqs {
		binNum := (len(seq) + 1) / gi.binSize
		gi.coverage[i] = make([]float64, binNum)
		gi.editDistance[i] = make([]float64, binNum)
	}

	gi.buildSeedTable()
	gi.bloom = newBloomFilter()
	for key := range gi.seedTable {
		gi.bloom.Add(key)
	}

	log.Infof("genome index: %d contigs, %s seed keys, bin size %d",
		n, humanize.Comma(int64(len(gi.seedTable))), gi.binSize)
	return gi, nil
}

// autoSelectBinSize picks a coverage bin width so the largest contig has
// roughly 1600 bins, snapped to a round scale.
func autoSelectBinSize(seqs []string) int {
	maxLen := 0
	for _, seq := range seqs {
		if len(seq) > maxLen {
			maxLen = len(seq)
		}
	}
	raw := maxLen / 1600
	switch {
	case raw < 1:
		return 1
	case raw < 10:
		return raw
	case raw < 100:
		return (raw / 10) * 10
	case raw < 1000:
		return (raw / 100) * 100
	case raw < 10000:
		return (raw / 1000) * 1000
	case raw < 100000:
		return (raw / 10000) * 10000
	default:
		return 100000
	}
}

func buildLowComplexityKeys(k int) map[uint64]bool {
	bases := []byte{'A', 'T', 'C', 'G'}
	set := make(map[uint64]bool)
	buf := make([]byte, k)
	for _, origin := range bases {
		for _, diff1 := range bases {
			for _, diff2 := range bases {
				for i := range buf {
					buf[i] = origin
				}
				for p := 0; p < k; p++ {
					for q := 0; q < k; q++ {
						buf[p] = diff1
						buf[q] = diff2
						if key, valid := Encode(string(buf), 0, k); valid {
							set[key] = true
						}
						buf[p] = origin
						buf[q] = origin
					}
				}
			}
		}
	}
	return set
}

func packIdPos(id, pos int) uint32 {
	return (uint32(id) << 24) | (uint32(pos) & 0xFFFFFF)
}

func unpackIdPos(v uint32) (id, pos int) {
	return int(v >> 24), int(v & 0xFFFFFF)
}

// forEachKmer walks seq calling fn(pos, key) for every K-length key
// starting at pos in [0, limit). Ambiguous bases are skipped by
// rebuilding the (K-1)-prefix immediately after the offending run. fn may
// return false to stop the walk early.
func forEachKmer(seq string, k, limit int, fn func(pos int, key uint64) bool) {
	if limit <= 0 || k < 1 {
		return
	}
	mask := Mask(k)
	p := 0
	prefix, valid := Encode(seq, p, k-1)
	for !valid {
		p++
		if p >= limit {
			return
		}
		prefix, valid = Encode(seq, p, k-1)
	}
	key := prefix
	for p < limit {
		code := baseCode[seq[p+k-1]]
		if code < 0 {
			p++
			if p >= limit {
				return
			}
			prefix, valid = Encode(seq, p, k-1)
			for !valid {
				p++
				if p >= limit {
					return
				}
				prefix, valid = Encode(seq, p, k-1)
			}
			key = prefix
			continue
		}
		key = ((key << 2) | uint64(code)) & mask
		if !fn(p, key) {
			return
		}
		p++
	}
}

func (gi *GenomeIndex) buildSeedTable() {
	k := gi.opt.KmerKeyLen
	for id, seq := range gi.seqs {
		limit := len(seq) - k - polyATailGuard
		if limit <= 0 {
			continue
		}
		forEachKmer(seq, k, limit, func(pos int, key uint64) bool {
			if gi.lowComplexity[key] {
				return true
			}
			gi.seedTable[key] = append(gi.seedTable[key], packIdPos(id, pos))
			return true
		})
	}
}

// ProbablyHas reports whether key has at least one seed. The Bloom filter
// rejects most absent keys cheaply; keys it passes are confirmed against
// the seed table, so both answers are exact.
func (gi *GenomeIndex) ProbablyHas(key uint64) bool {
	hit := gi.bloom.MayContain(key)
	if hit {
		if _, ok := gi.seedTable[key]; ok {
			atomic.AddUint64(&gi.hitCount, 1)
			return true
		}
	}
	atomic.AddUint64(&gi.missedCount, 1)
	return false
}

// Seeds returns every (contigID, position) pair recorded for key.
func (gi *GenomeIndex) Seeds(key uint64) []uint32 {
	return gi.seedTable[key]
}

// ContigCount reports the number of loaded contigs.
func (gi *GenomeIndex) ContigCount() int { return len(gi.names) }

// mapToGenome aligns read (anchored at readPos) against one candidate
// contig start derived from a seed hit.
func (gi *GenomeIndex) mapToGenome(read string, readPos int, contig string, contigPos int) MapResult {
	var r MapResult
	if contigPos < readPos {
		return r
	}
	start := contigPos - readPos
	if len(contig)-start < len(read) {
		return r
	}

	window := contig[start : start+len(read)]
	hd := Hamming(read, window, len(read))

	var ed int
	if hd <= 2 {
		ed = hd
	} else {
		band := gi.opt.EdThreshold + 1
		ed = EditDistance(read, window, len(read), len(read), band)
	}

	r.Ed = ed
	r.Start = start
	r.Len = len(read)
	r.Mapped = ed <= gi.opt.EdThreshold && ed < len(read)/4
	return r
}

// Align walks the forward key stream of read (every position up to 10,
// then every 10th position), dispatching each seed hit to alignment and
// accumulating coverage for every contig with at least one accepted match. It reports whether any contig was mapped.
func (gi *GenomeIndex) Align(read string) bool {
	k := gi.opt.KmerKeyLen
	limit := len(read) - k
	if limit <= 0 {
		return false
	}

	results := make([][]MapResult, len(gi.names))

	forEachKmer(read, k, limit, func(pos int, key uint64) bool {
		if pos > 10 && pos%seedSampleStep != 0 {
			return true
		}
		if !gi.ProbablyHas(key) {
			return true
		}
		seeds := gi.seedTable[key]
		for i := 0; i < len(seeds); i++ {
			id, contigPos := unpackIdPos(seeds[i])
			if len(results[id]) > 0 {
				continue // this contig already has an accepted match
			}
			r := gi.mapToGenome(read, pos, gi.seqs[id], contigPos)
			if !r.Mapped {
				continue
			}
			results[id] = append(results[id], r)
			// collect further multiply-mapped seeds of the same contig
			// at this read position before moving to the next key.
			for j := i + 1; j < len(seeds); j++ {
				nextID, nextPos := unpackIdPos(seeds[j])
				if nextID != id {
					break
				}
				rNext := gi.mapToGenome(read, pos, gi.seqs[id], nextPos)
				if rNext.Mapped {
					results[id] = append(results[id], rNext)
				}
			}
		}
		return true
	})

	mapped := false
	gi.mu.Lock()
	defer gi.mu.Unlock()
	for id, rs := range results {
		if len(rs) == 0 {
			continue
		}
		mapped = true
		weight := 1.0 / float64(len(rs))
		minEd := rs[0].Ed
		for _, r := range rs {
			gi.cover(id, r.Start, r.Len, r.Ed, weight)
			if r.Ed < minEd {
				minEd = r.Ed
			}
		}
		gi.reads[id]++
		gi.bases[id] += uint64(rs[0].Len)
		gi.totalEd[id] += uint64(minEd)
	}
	return mapped
}

// cover apportions one accepted match's length and edit distance across
// its overlapping coverage bins. Caller holds gi.mu.
func (gi *GenomeIndex) cover(id, start, length, ed int, weight float64) {
	binSize := gi.binSize
	leftBin := start / binSize
	rightBin := (start + length) / binSize

	if leftBin == rightBin {
		if leftBin < len(gi.coverage[id]) {
			gi.coverage[id][leftBin] += float64(length) * weight
			gi.editDistance[id][leftBin] += float64(ed) * weight
		}
		return
	}

	for bin := leftBin; bin <= rightBin; bin++ {
		left := bin * binSize
		if bin == leftBin {
			left = start
		}
		right := (bin + 1) * binSize
		if bin == rightBin {
			right = start + length
		}
		proportion := float64(right-left) / float64(length)
		if bin < len(gi.coverage[id]) {
			gi.coverage[id][bin] += float64(right-left) * weight
			gi.editDistance[id][bin] += float64(ed) * proportion * weight
		}
	}
}

// CoverageRate is the fraction of id's bins whose raw coverage/binSize
// meets DepthThreshold.
func (gi *GenomeIndex) CoverageRate(id int) float64 {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	bins := gi.coverage[id]
	if len(bins) == 0 {
		return 0
	}
	covered := 0
	for _, c := range bins {
		if c/float64(gi.binSize) >= gi.opt.DepthThreshold {
			covered++
		}
	}
	return float64(covered) / float64(len(bins))
}

// GenomeReport is one row of GenomeIndex's per-contig reporting table.
type GenomeReport struct {
	Name              string
	Length            int
	Reads             uint64
	Bases             uint64
	CoverageRate      float64
	AvgMismatchRatio  float64
	TotalEditDistance uint64
}

// Report summarises per-contig hit, coverage and mismatch statistics in
// contig load order.
func (gi *GenomeIndex) Report() []GenomeReport {
	out := make([]GenomeReport, len(gi.names))
	for i, name := range gi.names {
		out[i] = GenomeReport{
			Name:              name,
			Length:            len(gi.seqs[i]),
			Reads:             gi.reads[i],
			Bases:             gi.bases[i],
			CoverageRate:      gi.CoverageRate(i),
			TotalEditDistance: gi.totalEd[i],
		}
		if gi.bases[i] > 0 {
			out[i].AvgMismatchRatio = float64(gi.totalEd[i]) / float64(gi.bases[i])
		}
	}
	return out
}
