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
	"sort"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// Verdict is the POSITIVE/NEGATIVE call a UniqueKmerIndex reports after a
// scan, based on mean hit depth against PositiveThreshold.
type Verdict string

const (
	Positive Verdict = "POSITIVE"
	Negative Verdict = "NEGATIVE"
)

type uniqueKmerEntry struct {
	name  string
	seq   string
	count uint32 // atomic
}

// UniqueKmerIndex holds a small set of species-diagnostic k-mers and counts
// hits per key, without ever inserting a new key at query time.
type UniqueKmerIndex struct {
	k       int
	entries map[uint64]*uniqueKmerEntry
}

// BuildUniqueKmerIndex loads target k-mers from a FASTA file. K is taken
// from the first sequence's length when opt.KmerKeyLen is zero and is then
// written back to opt.KmerKeyLen; any sequence whose length differs from K
// is skipped with a warning. Fatal if no usable k-mer remains.
func BuildUniqueKmerIndex(path string, opt *Options) (*UniqueKmerIndex, error) {
	src, err := NewFastaSource(path, true)
	if err != nil {
		return nil, err
	}
	names, seqs, err := src.ReadOrdered()
	if err != nil {
		return nil, err
	}

	idx := &UniqueKmerIndex{k: opt.KmerKeyLen, entries: make(map[uint64]*uniqueKmerEntry)}

	for i, seq := range seqs {
		if idx.k == 0 {
			idx.k = len(seq)
		}
		if len(seq) != idx.k {
			log.Warningf("unique k-mer length must be %d, skipped %s: %s", idx.k, names[i], seq)
			continue
		}
		key, valid := Encode(seq, 0, idx.k)
		if !valid {
			log.Warningf("unique k-mer contains a non-ACGT base, skipped %s: %s", names[i], seq)
			continue
		}
		idx.entries[key] = &uniqueKmerEntry{name: names[i], seq: seq}
	}

	if len(idx.entries) == 0 {
		return nil, newErrorf(ErrInputFormat, "no usable k-mer found in %s", path)
	}
	if opt.KmerKeyLen == 0 {
		opt.KmerKeyLen = idx.k
	}

	log.Infof("unique k-mer index: %s targets loaded (K=%d) from %s", humanize.Comma(int64(len(idx.entries))), idx.k, path)
	return idx, nil
}

// K reports the configured key length.
func (idx *UniqueKmerIndex) K() int { return idx.k }

// Add increments key's hit counter and returns true if key is one of the
// loaded targets; otherwise it returns false without inserting anything.
// Safe for concurrent use by multiple scanners.
func (idx *UniqueKmerIndex) Add(key uint64) bool {
	e, ok := idx.entries[key]
	if !ok {
		return false
	}
	atomic.AddUint32(&e.count, 1)
	return true
}

// MeanHit is the arithmetic mean of all target counters; 0 when the index
// holds no targets.
func (idx *UniqueKmerIndex) MeanHit() float64 {
	if len(idx.entries) == 0 {
		return 0
	}
	var total uint64
	for _, e := range idx.entries {
		total += uint64(atomic.LoadUint32(&e.count))
	}
	return float64(total) / float64(len(idx.entries))
}

// Verdict reports POSITIVE iff MeanHit >= threshold, else NEGATIVE.
func (idx *UniqueKmerIndex) Verdict(threshold float64) Verdict {
	if idx.MeanHit() >= threshold {
		return Positive
	}
	return Negative
}

// HitReport is one row of UniqueKmerIndex's reporting table.
type HitReport struct {
	Label string // name + "_" + seq
	Name  string
	Seq   string
	Count uint32
}

// Report returns every target's hit count, sorted by the composite
// name_seq label for a stable, reproducible ordering.
func (idx *UniqueKmerIndex) Report() []HitReport {
	out := make([]HitReport, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, HitReport{
			Label: e.name + "_" + e.seq,
			Name:  e.name,
			Seq:   e.seq,
			Count: atomic.LoadUint32(&e.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
