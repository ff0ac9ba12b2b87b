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
	"strings"
	"testing"
)

// buildCollectionFasta writes n distinct K-length k-mers per collection.
func buildCollectionFasta(t *testing.T, names []string, countPerName int, k int) string {
	t.Helper()
	var sb strings.Builder
	counter := 0
	for _, name := range names {
		sb.WriteString(">" + name + "\n")
		for i := 0; i < countPerName; i++ {
			sb.WriteString(distinctKmer(counter, k) + "\n")
			counter++
		}
	}
	return writeTempFasta(t, sb.String())
}

// distinctKmer deterministically derives a unique K-length ACGT string
// from an integer index by encoding it in base 4.
func distinctKmer(n, k int) string {
	bases := []byte{'A', 'T', 'C', 'G'}
	buf := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		buf[i] = bases[n%4]
		n /= 4
	}
	return string(buf)
}

func TestKmerCollectionIndexAddRejectsUnknownKey(t *testing.T) {
	path := buildCollectionFasta(t, []string{"collA"}, 20, 5)
	opt := NewOptions()
	opt.KmerKeyLen = 5
	kc, err := BuildKmerCollectionIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildKmerCollectionIndex: %v", err)
	}
	unknownKey, _ := Encode(distinctKmer(999999, 5), 0, 5)
	if kc.Add(unknownKey) {
		t.Error("Add must reject a key never inserted at build time")
	}
}

func TestKmerCollectionIndexAddIncrementsExactlyOne(t *testing.T) {
	path := buildCollectionFasta(t, []string{"collA"}, 20, 5)
	opt := NewOptions()
	opt.KmerKeyLen = 5
	kc, err := BuildKmerCollectionIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildKmerCollectionIndex: %v", err)
	}
	key, _ := Encode(distinctKmer(0, 5), 0, 5)
	if !kc.Add(key) {
		t.Fatal("expected Add to accept a key inserted at build time")
	}
	if !kc.Add(key) {
		t.Fatal("expected second Add of the same key to also accept")
	}

	h := kcHash(key)
	idx := kc.slots[h]
	if kc.hits[idx-1].Hit != 2 {
		t.Errorf("hit count = %d, want 2", kc.hits[idx-1].Hit)
	}
}

func TestKmerCollectionIndexRankingAndConfidence(t *testing.T) {
	k := 5
	path := buildCollectionFasta(t, []string{"A", "B"}, 100, k)
	opt := NewOptions()
	opt.KmerKeyLen = k
	opt.KCCoverageThreshold = 0.1
	opt.KCCoverageHighConfidence = 0.9
	opt.KCMedianHitHighConfidence = 10
	kc, err := BuildKmerCollectionIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildKmerCollectionIndex: %v", err)
	}

	// collection A: counter 0..99 -> keys 0..99; hit 90 distinct keys at
	// depth 20 each.
	for i := 0; i < 90; i++ {
		key, _ := Encode(distinctKmer(i, k), 0, k)
		for d := 0; d < 20; d++ {
			kc.Add(key)
		}
	}
	// collection B: counter 100..199 -> keys 100..199; hit 50 distinct keys
	// at depth 8 each.
	for i := 0; i < 50; i++ {
		key, _ := Encode(distinctKmer(100+i, k), 0, k)
		for d := 0; d < 8; d++ {
			kc.Add(key)
		}
	}

	results := kc.Results()
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if results[0].Name != "A" {
		t.Errorf("rank 0 = %s, want A (higher coverage)", results[0].Name)
	}
	if results[0].Coverage < 0.89 || results[0].Coverage > 0.91 {
		t.Errorf("A coverage = %v, want ~0.90", results[0].Coverage)
	}
	if !results[0].HighConfidence {
		t.Error("A should be high-confidence")
	}
	if results[1].Name != "B" {
		t.Errorf("rank 1 = %s, want B", results[1].Name)
	}
	if results[1].HighConfidence {
		t.Error("B should not be high-confidence (coverage 0.50 < 0.9)")
	}
}

func TestKmerCollectionIndexMedianOddKmerCount(t *testing.T) {
	k := 5
	path := buildCollectionFasta(t, []string{"A"}, 11, k)
	opt := NewOptions()
	opt.KmerKeyLen = k
	opt.KCCoverageThreshold = 0.1
	kc, err := BuildKmerCollectionIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildKmerCollectionIndex: %v", err)
	}

	// 11 distinct keys, each hit to a distinct depth: 110,100,...,10.
	// Descending-sorted, the rank-6 (1-based) / index-5 (0-based) median is 60.
	for i := 0; i < 11; i++ {
		key, _ := Encode(distinctKmer(i, k), 0, k)
		depth := 110 - i*10
		for d := 0; d < depth; d++ {
			kc.Add(key)
		}
	}

	results := kc.Results()
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	if results[0].MedianHit != 60 {
		t.Errorf("MedianHit = %d, want 60", results[0].MedianHit)
	}
}

func TestKmerCollectionIndexDistinctKeysStayUnique(t *testing.T) {
	path := buildCollectionFasta(t, []string{"A", "B"}, 1, 5)
	opt := NewOptions()
	opt.KmerKeyLen = 5
	kc, err := BuildKmerCollectionIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildKmerCollectionIndex: %v", err)
	}
	if kc.kmerCounts[0] != 1 || kc.kmerCounts[1] != 1 {
		t.Fatalf("expected both collections to retain their single distinct key, got %v", kc.kmerCounts)
	}
}
