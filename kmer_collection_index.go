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
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/twotwotwo/sorts/sortutil"
)

const (
	kcHashLength  = 1 << 30
	kcCollision   = 0xFFFFFFFF
	kcHashFactorA = 1713137323
	kcHashFactorB = 7341234131
	kcHashFactorC = 371371377
)

func kcHash(key uint64) uint64 {
	return (kcHashFactorA*key + (key>>12)*kcHashFactorB + (key>>24)*kcHashFactorC) & (kcHashLength - 1)
}

// KCHit is a unique k-mer's post-build record: the key itself, the
// collection it belongs to, and its accumulated hit count.
type KCHit struct {
	Key64 uint64
	ID    int
	Hit   uint32
}

// KmerCollectionIndex ranks many labelled k-mer sets (one per candidate
// genome) by coverage, median and mean hit depth, using a fixed-size
// open-addressed hash with explicit collision marking.
type KmerCollectionIndex struct {
	opt *Options

	names      []string
	kmerCounts []int // unique-key count per collection, after build

	slots []uint32 // kcHashLength cells; 0=empty, kcCollision, else 1-based KCHit index
	hits  []KCHit

	// per-collection runtime aggregates, populated by Stat
	statDone   bool
	sumHits    []uint64
	medianHits []int
	meanHits   []float64
	coverage   []float64
	results    []KCResult
}

// KCResult is one ranked, reportable collection.
type KCResult struct {
	Name           string
	Hit            uint64
	Coverage       float64
	MedianHit      int
	MeanHit        float64
	KmerCount      int
	HighConfidence bool
}

// BuildKmerCollectionIndex reads a FASTA where each contig is one
// candidate collection and its sequence lines each carry a single k-mer
// literal of length K.
func BuildKmerCollectionIndex(path string, opt *Options) (*KmerCollectionIndex, error) {
	names, kmerLists, err := readKmerCollectionFasta(path, opt)
	if err != nil {
		return nil, err
	}

	kc := &KmerCollectionIndex{
		opt:   opt,
		names: names,
		slots: make([]uint32, kcHashLength),
	}
	kc.kmerCounts = make([]int, len(names))

	// pass 1: provisional slot assignment and collision detection
	for id, kmers := range kmerLists {
		unique := 0
		for _, key := range kmers {
			h := kcHash(key)
			switch {
			case kc.slots[h] == 0:
				unique++
				kc.slots[h] = uint32(id + 1)
			case kc.slots[h] != kcCollision:
				if int(kc.slots[h]) == id+1 {
					unique--
				} else {
					kc.kmerCounts[kc.slots[h]-1]--
				}
				kc.slots[h] = kcCollision
			}
		}
		kc.kmerCounts[id] = unique
	}

	total := 0
	for _, c := range kc.kmerCounts {
		total += c
	}
	kc.hits = make([]KCHit, total)

	// pass 2: compact surviving unique keys into kc.hits, rewriting slots
	// to 1-based KCHit indices.
	cur := 0
	for id, kmers := range kmerLists {
		for _, key := range kmers {
			h := kcHash(key)
			if int(kc.slots[h]) == id+1 {
				kc.slots[h] = uint32(cur + 1)
				kc.hits[cur] = KCHit{Key64: key, ID: id}
				cur++
			}
		}
	}

	log.Infof("k-mer collection index: %d collections, %s unique keys",
		len(names), humanize.Comma(int64(total)))
	return kc, nil
}

func readKmerCollectionFasta(path string, opt *Options) (names []string, kmerLists [][]uint64, err error) {
	if _, err := NewFastaSource(path, true); err != nil {
		return nil, nil, err
	}
	// Every k-mer literal lives on its own line and must never be
	// concatenated into one sequence, so records are grouped by line
	// here instead of going through FastaSource's sequence joining.
	recordNames, recordLines, err := readFastaLinesByRecord(path)
	if err != nil {
		return nil, nil, err
	}

	k := opt.KmerKeyLen
	for i, lines := range recordLines {
		var keys []uint64
		for _, line := range lines {
			if k == 0 {
				k = len(line)
				opt.KmerKeyLen = k
			}
			if len(line) != k {
				log.Warningf("collection k-mer length must be %d, skipped %s: %s", k, recordNames[i], line)
				continue
			}
			key, valid := Encode(line, 0, k)
			if !valid {
				log.Warningf("collection k-mer contains a non-ACGT base, skipped %s: %s", recordNames[i], line)
				continue
			}
			keys = append(keys, key)
		}
		names = append(names, recordNames[i])
		kmerLists = append(kmerLists, keys)
	}
	if len(names) == 0 {
		return nil, nil, newErrorf(ErrInputFormat, "no collection records found in %s", path)
	}
	return names, kmerLists, nil
}

// readFastaLinesByRecord groups a FASTA file's raw sequence lines by
// record without concatenating them.
func readFastaLinesByRecord(path string) (names []string, lines [][]string, err error) {
	raw, err := readRawLines(path)
	if err != nil {
		return nil, nil, err
	}
	var curLines []string
	haveRecord := false
	flush := func() {
		if haveRecord {
			lines = append(lines, curLines)
		}
	}
	for _, line := range raw {
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			names = append(names, firstToken(strings.TrimPrefix(line, ">")))
			curLines = nil
			haveRecord = true
			continue
		}
		if haveRecord {
			curLines = append(curLines, strings.ToUpper(line))
		}
	}
	flush()
	return names, lines, nil
}

// Stat computes per-collection sum/median/mean hit depth and coverage,
// then ranks every collection clearing KCCoverageThreshold and a minimum
// k-mer count into Results. Must be called once after scanning, before
// Results or any KCResult is trusted.
func (kc *KmerCollectionIndex) Stat() {
	n := len(kc.names)
	kmerHits := make([][]uint64, n)
	kc.sumHits = make([]uint64, n)
	kc.medianHits = make([]int, n)
	kc.meanHits = make([]float64, n)
	kc.coverage = make([]float64, n)

	for i := range kc.hits {
		h := kc.hits[i]
		if h.Hit > 0 {
			kc.sumHits[h.ID] += uint64(h.Hit)
			kmerHits[h.ID] = append(kmerHits[h.ID], uint64(h.Hit))
		}
	}

	for id := 0; id < n; id++ {
		if kc.kmerCounts[id] == 0 {
			continue
		}
		// sortutil.Uint64s sorts ascending; the median rank is counted from
		// the high end, so it is read off from the tail of hits.
		sortutil.Uint64s(kmerHits[id])
		medianPos := kc.kmerCounts[id] / 2
		if medianPos < len(kmerHits[id]) {
			kc.medianHits[id] = int(kmerHits[id][len(kmerHits[id])-1-medianPos])
		}
		kc.meanHits[id] = float64(kc.sumHits[id]) / float64(kc.kmerCounts[id])
		kc.coverage[id] = float64(len(kmerHits[id])) / float64(kc.kmerCounts[id])
	}

	kc.results = kc.results[:0]
	for id := 0; id < n; id++ {
		if kc.coverage[id] > kc.opt.KCCoverageThreshold && kc.kmerCounts[id] > 10 {
			r := KCResult{
				Name:      kc.names[id],
				Hit:       kc.sumHits[id],
				Coverage:  kc.coverage[id],
				MedianHit: kc.medianHits[id],
				MeanHit:   kc.meanHits[id],
				KmerCount: kc.kmerCounts[id],
			}
			r.HighConfidence = r.Coverage >= kc.opt.KCCoverageHighConfidence &&
				r.MedianHit >= kc.opt.KCMedianHitHighConfidence
			kc.results = append(kc.results, r)
		}
	}
	sort.Slice(kc.results, func(i, j int) bool {
		if kc.results[i].Coverage == kc.results[j].Coverage {
			return kc.results[i].MedianHit > kc.results[j].MedianHit
		}
		return kc.results[i].Coverage > kc.results[j].Coverage
	})
	kc.statDone = true
}

// Add increments the hit counter for key64 and returns true iff it
// resolves to a recorded unique key (never a collided or empty slot).
func (kc *KmerCollectionIndex) Add(key64 uint64) bool {
	h := kcHash(key64)
	idx := kc.slots[h]
	if idx == 0 || idx == kcCollision {
		return false
	}
	if kc.hits[idx-1].Key64 != key64 {
		return false
	}
	atomic.AddUint32(&kc.hits[idx-1].Hit, 1)
	return true
}

// Results returns the ranked, thresholded collections computed by Stat.
func (kc *KmerCollectionIndex) Results() []KCResult {
	if !kc.statDone {
		kc.Stat()
	}
	return kc.results
}
