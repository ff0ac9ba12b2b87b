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

import "errors"

// ErrIllegalBase describes a byte outside {A,T,C,G} (case insensitive)
// where a k-mer key is required. No function in this package returns it:
// Encode and Slide report such a byte through their valid result. Unlike the
// teacher toolkit's IUPAC folding, fastv treats every non-ACGT byte
// (including N) as ambiguous: ambiguous runs are skipped by the scanner,
// never silently approximated.
var ErrIllegalBase = errors.New("fastv: illegal base")

// ErrKOverflow describes a k-mer length outside [1, 32] — the range that
// fits in the low 2K bits of a uint64 key. Encode reports such a length
// through its valid result rather than returning this error.
var ErrKOverflow = errors.New("fastv: k-mer length (1-32) overflow")

// baseCode maps the four DNA bases (and their lowercase forms) to their
// 2-bit code: A=0, T=1, C=2, G=3.
var baseCode = [256]int8{}
var bit2base = [4]byte{'A', 'T', 'C', 'G'}

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	baseCode['A'], baseCode['a'] = 0, 0
	baseCode['T'], baseCode['t'] = 1, 1
	baseCode['C'], baseCode['c'] = 2, 2
	baseCode['G'], baseCode['g'] = 3, 3
}

// Encode returns the 2-bit-packed key of the len bases of seq starting at
// pos. valid is false iff any of those bases is not A/T/C/G; the returned
// key is undefined in that case.
func Encode(seq string, pos, length int) (key uint64, valid bool) {
	if length < 1 || length > 32 {
		return 0, false
	}
	for i := 0; i < length; i++ {
		c := baseCode[seq[pos+i]]
		if c < 0 {
			return 0, false
		}
		key = (key << 2) | uint64(c)
	}
	return key, true
}

// Decode reverses Encode, returning the k-length A/T/C/G sequence that
// produced key.
func Decode(key uint64, k int) string {
	buf := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		buf[i] = bit2base[key&3]
		key >>= 2
	}
	return string(buf)
}

// Mask returns (1<<(2*k))-1, the bitmask isolating the low 2k bits used by
// a k-mer key.
func Mask(k int) uint64 {
	return (uint64(1) << uint(2*k)) - 1
}

// Slide advances a rolling k-mer key by one base: prevKey is shifted left
// two bits, the new base's code is OR'd in, and the result is masked to
// 2k bits. valid is false (and key undefined) if nextBase is not A/T/C/G.
func Slide(prevKey uint64, nextBase byte, mask uint64) (key uint64, valid bool) {
	c := baseCode[nextBase]
	if c < 0 {
		return 0, false
	}
	key = ((prevKey << 2) | uint64(c)) & mask
	return key, true
}
