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

// bloomFilterLength is 2^29 slots (one byte each, ~512 MiB), matching
// genomes.cpp's BLOOM_FILTER_LENGTH. This is a build-time memory floor for
// any GenomeIndex, regardless of reference size.
const bloomFilterLength = 1 << 29

var bloomFactors = [3]uint64{1713137323, 371371377, 7341234131}

// bloomFilter is a fixed-size, zero-false-negative membership pre-filter
// over the GenomeIndex seed table. It never stores the actual key set —
// only three independent multiplicative-hash bits per inserted key — so a
// negative answer here means the key is certainly absent from the seed
// table, while a positive answer only means "probably present."
type bloomFilter struct {
	bits []byte
}

func newBloomFilter() *bloomFilter {
	return &bloomFilter{bits: make([]byte, bloomFilterLength)}
}

func (bf *bloomFilter) slots(key uint64) [3]uint64 {
	var s [3]uint64
	for i, f := range bloomFactors {
		s[i] = (f * key) & (bloomFilterLength - 1)
	}
	return s
}

// Add sets all three bits for key.
func (bf *bloomFilter) Add(key uint64) {
	for _, s := range bf.slots(key) {
		bf.bits[s] = 1
	}
}

// MayContain returns false iff any of the three bits for key is unset —
// in which case key is definitely not in the seed table. A true result is
// only probabilistic.
func (bf *bloomFilter) MayContain(key uint64) bool {
	for _, s := range bf.slots(key) {
		if bf.bits[s] == 0 {
			return false
		}
	}
	return true
}
