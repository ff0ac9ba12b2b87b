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

import "testing"

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	bf := newBloomFilter()
	keys := []uint64{0, 1, 12345, 1 << 40, 0xFFFFFFFF}
	for _, k := range keys {
		bf.Add(k)
	}
	for _, k := range keys {
		if !bf.MayContain(k) {
			t.Errorf("MayContain(%d) = false after Add(%d), want true (zero false negatives)", k, k)
		}
	}
}

func TestBloomFilterAbsentKeyCanBeRejected(t *testing.T) {
	bf := newBloomFilter()
	bf.Add(42)
	if bf.MayContain(999999937) {
		// Not a hard guarantee (false positives are allowed), but this
		// particular pair of keys shouldn't collide on all three hashes.
		t.Skip("unlucky hash collision across all three slots; not a correctness failure")
	}
}

func TestBloomFilterContigKmersAllPresent(t *testing.T) {
	contig := "ACGTACGTACGTACGTACGTACGTAC"
	k := 5
	bf := newBloomFilter()
	var keys []uint64
	for i := 0; i+k <= len(contig); i++ {
		key, valid := Encode(contig, i, k)
		if !valid {
			continue
		}
		keys = append(keys, key)
		bf.Add(key)
	}
	for _, key := range keys {
		if !bf.MayContain(key) {
			t.Errorf("MayContain(%d) = false for a key drawn from the built contig", key)
		}
	}
}
