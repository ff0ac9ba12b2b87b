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

func TestScannerReverseComplementDetection(t *testing.T) {
	path := writeTempFasta(t, ">target\nACGTA\n")
	opt := NewOptions()
	opt.KmerKeyLen = 5
	uniqueIdx, err := BuildUniqueKmerIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildUniqueKmerIndex: %v", err)
	}

	scanner := NewScanner(opt, uniqueIdx, nil, nil)
	result := scanner.Scan("TACGT") // reverse complement of ACGTA

	if result.UniqueHits != 1 {
		t.Errorf("UniqueHits = %d, want 1", result.UniqueHits)
	}
	if !result.Detected() {
		t.Error("expected the reverse-complement read to be detected")
	}
}

func TestScannerForwardDetection(t *testing.T) {
	path := writeTempFasta(t, ">target\nACGTA\n")
	opt := NewOptions()
	opt.KmerKeyLen = 5
	uniqueIdx, err := BuildUniqueKmerIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildUniqueKmerIndex: %v", err)
	}

	scanner := NewScanner(opt, uniqueIdx, nil, nil)
	result := scanner.Scan("ACGTA")

	if result.UniqueHits != 1 {
		t.Errorf("UniqueHits = %d, want 1", result.UniqueHits)
	}
	if !result.Detected() {
		t.Error("expected the forward read to be detected")
	}
}

func TestScannerUndetectedWhenNoHit(t *testing.T) {
	path := writeTempFasta(t, ">target\nACGTA\n")
	opt := NewOptions()
	opt.KmerKeyLen = 5
	uniqueIdx, err := BuildUniqueKmerIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildUniqueKmerIndex: %v", err)
	}

	scanner := NewScanner(opt, uniqueIdx, nil, nil)
	result := scanner.Scan("GGGGG")

	if result.Detected() {
		t.Error("expected an unrelated read to be undetected")
	}
}

func TestScannerSplitsLongReadsIntoSegments(t *testing.T) {
	path := writeTempFasta(t, ">target\nACGTA\n")
	opt := NewOptions()
	opt.KmerKeyLen = 5
	opt.LongReadThreshold = 10
	opt.SegmentLength = 5
	uniqueIdx, err := BuildUniqueKmerIndex(path, opt)
	if err != nil {
		t.Fatalf("BuildUniqueKmerIndex: %v", err)
	}

	scanner := NewScanner(opt, uniqueIdx, nil, nil)
	// 15 bases: three 5-base segments, the middle one an exact target hit.
	result := scanner.Scan("GGGGGACGTAGGGGG")

	if result.UniqueHits != 1 {
		t.Errorf("UniqueHits = %d, want 1 (one segment carries the target)", result.UniqueHits)
	}
}

func TestScannerGenomeAlignment(t *testing.T) {
	contigPath := writeTempFasta(t, ">contig1\nACGTTGCAACGGTACCTAGAAAAAAAAAAAAAAAAAAAAAAAAAAAAA\n")
	opt := NewOptions()
	opt.KmerKeyLen = 5
	opt.EdThreshold = 2
	opt.StatsBinSize = 10
	genomeIdx, err := BuildGenomeIndex(contigPath, opt)
	if err != nil {
		t.Fatalf("BuildGenomeIndex: %v", err)
	}

	scanner := NewScanner(opt, nil, genomeIdx, nil)
	result := scanner.Scan("ACGTTGCAACGGTACCTAGA")

	if !result.GenomeMapped {
		t.Error("expected the read to align against the genome index")
	}
	if !result.Detected() {
		t.Error("expected a genome-mapped read to be detected")
	}
}
