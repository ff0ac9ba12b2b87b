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

// Package fastv implements the detection engine behind the fastv microbial
// (e.g. viral) sequence identification pipeline.
//
// Three complementary reference indices are built from FASTA input and
// queried by a single fused read scanner:
//
//   - UniqueKmerIndex: a small set of species-diagnostic k-mers, reporting a
//     POSITIVE/NEGATIVE call from mean hit depth.
//   - GenomeIndex: one or more reference contigs, mapped via seed-and-extend
//     alignment with per-bin coverage and mismatch accumulation.
//   - KmerCollectionIndex: many labelled k-mer sets (one per candidate
//     genome), ranked by k-mer coverage, median and mean hit depth.
//
// FASTQ ingestion, quality/adapter trimming, thread orchestration, output
// writers and report rendering all live outside this package; it consumes
// cleaned read sequences and produces hit/coverage/mismatch statistics.
package fastv
