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

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seqs := []string{"A", "ACGT", "AAAAA", "TTTTT", "ACGTACGTACGTACGTACGTACGTACGTAC"}
	for _, seq := range seqs {
		key, valid := Encode(seq, 0, len(seq))
		if !valid {
			t.Fatalf("Encode(%s): expected valid", seq)
		}
		if got := Decode(key, len(seq)); got != seq {
			t.Errorf("Decode(Encode(%s)) = %s, want %s", seq, got, seq)
		}
	}
}

func TestEncodeRejectsAmbiguous(t *testing.T) {
	for _, seq := range []string{"AAANA", "ACGTN", "acgtn", "AC-GT"} {
		if _, valid := Encode(seq, 0, len(seq)); valid {
			t.Errorf("Encode(%s): expected invalid", seq)
		}
	}
}

func TestEncodeRejectsLength(t *testing.T) {
	if _, valid := Encode("A", 0, 0); valid {
		t.Error("Encode with length 0 should be invalid")
	}
	long := make([]byte, 33)
	for i := range long {
		long[i] = 'A'
	}
	if _, valid := Encode(string(long), 0, 33); valid {
		t.Error("Encode with length 33 should be invalid")
	}
}

func TestSlide(t *testing.T) {
	k := 5
	mask := Mask(k)
	key, valid := Encode("AAAAA", 0, k)
	if !valid {
		t.Fatal("Encode(AAAAA) should be valid")
	}
	// sliding in 'T' should produce AAAAT's key
	key, valid = Slide(key, 'T', mask)
	if !valid {
		t.Fatal("Slide('T') should be valid")
	}
	want, _ := Encode("AAAAT", 0, k)
	if key != want {
		t.Errorf("Slide produced %d, want %d", key, want)
	}
}

func TestSlideMasksHighBits(t *testing.T) {
	k := 3
	mask := Mask(k)
	key, _ := Encode("ACG", 0, k)
	for _, b := range []byte{'A', 'C', 'G', 'T'} {
		key, _ = Slide(key, b, mask)
		if key > mask {
			t.Errorf("Slide result %d exceeds mask %d", key, mask)
		}
	}
}

func TestSlideRejectsAmbiguous(t *testing.T) {
	if _, valid := Slide(0, 'N', Mask(5)); valid {
		t.Error("Slide('N') should be invalid")
	}
}

func TestMask(t *testing.T) {
	if Mask(1) != 0x3 {
		t.Errorf("Mask(1) = %d, want 3", Mask(1))
	}
	if Mask(32) != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("Mask(32) = %d, want max uint64", Mask(32))
	}
}
