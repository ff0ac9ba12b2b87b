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

func TestReverseComplementInvolution(t *testing.T) {
	seqs := []string{"ACGT", "AAAAACCCCCGGGGGTTTTT", "ACGTN", "NNNNN", ""}
	for _, seq := range seqs {
		rc := ReverseComplement(seq)
		if got := ReverseComplement(rc); got != seq {
			t.Errorf("ReverseComplement(ReverseComplement(%q)) = %q, want %q", seq, got, seq)
		}
	}
}

func TestReverseComplementKnownValue(t *testing.T) {
	if got := ReverseComplement("ACGTA"); got != "TACGT" {
		t.Errorf("ReverseComplement(ACGTA) = %s, want TACGT", got)
	}
}

func TestHamming(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"AAAAA", "AAAAA", 0},
		{"AAAAA", "AAAAT", 1},
		{"ACGTA", "TGCAT", 5},
	}
	for _, c := range cases {
		if got := Hamming(c.a, c.b, len(c.a)); got != c.want {
			t.Errorf("Hamming(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestEditDistanceIdentical(t *testing.T) {
	s := "AAAAACCCCCGGGGGTTTTT"
	if got := EditDistance(s, s, len(s), len(s), 3); got != 0 {
		t.Errorf("EditDistance identical = %d, want 0", got)
	}
}

func TestEditDistanceSubstitution(t *testing.T) {
	a := "AAAAACCCCCGGGGGTTTTT"
	b := "AAAAACCCCCGGGGGTTTTA"
	if got := EditDistance(a, b, len(a), len(b), 3); got != 1 {
		t.Errorf("EditDistance one substitution = %d, want 1", got)
	}
}

func TestEditDistanceIndel(t *testing.T) {
	a := "AAAACCCCGGGGTTTT"
	b := "AAAACCCGGGGTTTT" // one deletion
	if got := EditDistance(a, b, len(a), len(b), 3); got != 1 {
		t.Errorf("EditDistance one deletion = %d, want 1", got)
	}
}
