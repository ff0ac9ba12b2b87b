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

// complement maps each DNA byte to its Watson-Crick complement, preserving
// N (and any other byte) unchanged.
var complement = buildComplementTable()

func buildComplementTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	t['A'], t['T'] = 'T', 'A'
	t['a'], t['t'] = 't', 'a'
	t['C'], t['G'] = 'G', 'C'
	t['c'], t['g'] = 'g', 'c'
	return t
}

// ReverseComplement returns the reverse complement of seq. Any byte other
// than A/T/C/G (including N) is passed through unchanged, preserving its
// position under reversal.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complement[seq[i]]
	}
	return string(out)
}

// Hamming counts mismatching positions between a and b over their first n
// bytes. Both must be at least n bytes long.
func Hamming(a, b string, n int) int {
	d := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// EditDistance computes the Levenshtein distance between a[:n] and b[:m]
// using a band of width 2*band+1 around the main diagonal. Cells outside
// the band are treated as unreachable (a large sentinel), which is safe
// here because every caller only trusts the result when it is below
// len(read)/4 — any true distance that large would fall outside a band
// sized edThreshold+1 anyway, so the band either reports the true
// distance or correctly reports "too large to matter".
func EditDistance(a, b string, n, m int, band int) int {
	if band < 1 {
		band = 1
	}
	const inf = 1 << 30

	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := 0; j <= m; j++ {
		if j <= band {
			prev[j] = j
		} else {
			prev[j] = inf
		}
	}

	for i := 1; i <= n; i++ {
		lo := i - band
		if lo < 0 {
			lo = 0
		}
		hi := i + band
		if hi > m {
			hi = m
		}
		for j := 0; j <= m; j++ {
			cur[j] = inf
		}
		if lo == 0 {
			cur[0] = i
		}
		for j := lo; j <= hi; j++ {
			if j == 0 {
				continue
			}
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			best := prev[j] + 1 // deletion
			if ins := cur[j-1] + 1; ins < best {
				best = ins // insertion
			}
			if sub := prev[j-1] + cost; sub < best {
				best = sub // substitution
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	result := prev[m]
	if result >= inf {
		return n // outside the band: report a distance that will never pass the ed<len/4 gate
	}
	return result
}
