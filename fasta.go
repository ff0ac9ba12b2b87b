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
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

var fastaSuffixes = []string{".fasta.gz", ".fna.gz", ".fa.gz", ".fasta", ".fna", ".fa"}

func isGzipSuffix(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

func hasFastaSuffix(path string) bool {
	for _, s := range fastaSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// FastaSource reads a plain or gzipped FASTA file and yields one sequence
// per header. Accepted extensions are .fa/.fna/.fasta and their .gz
// variants; anything else is a fatal InputFormat error.
type FastaSource struct {
	Path string
	// UpperCase forces every base to upper case.
	UpperCase bool
}

// NewFastaSource validates the extension up front so callers get a fast,
// clear failure before touching the filesystem.
func NewFastaSource(path string, upperCase bool) (*FastaSource, error) {
	if !hasFastaSuffix(path) {
		return nil, newErrorf(ErrInputFormat,
			"not a FASTA file (expected .fa/.fna/.fasta or .gz variant): %s", path)
	}
	return &FastaSource{Path: path, UpperCase: upperCase}, nil
}

// ReadAll returns the file's records as an id -> sequence map, so file
// order is not kept and a later record with a repeated id replaces the
// earlier one. The id is the first whitespace-separated token after '>' on
// the header line, not the entire header line.
func (fs *FastaSource) ReadAll() (map[string]string, error) {
	names, seqs, err := fs.readOrdered()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(names))
	for i, name := range names {
		out[name] = seqs[i]
	}
	return out, nil
}

// ReadOrdered is like ReadAll but preserves file order and duplicate
// headers (GenomeIndex and KmerCollectionIndex both need stable,
// duplicate-tolerant contig ordering — a plain map loses both).
func (fs *FastaSource) ReadOrdered() (names []string, seqs []string, err error) {
	return fs.readOrdered()
}

func (fs *FastaSource) readOrdered() (names []string, seqs []string, err error) {
	lines, err := readRawLines(fs.Path)
	if err != nil {
		return nil, nil, err
	}

	var curName string
	var curSeq strings.Builder
	haveRecord := false

	flush := func() {
		if haveRecord {
			names = append(names, curName)
			seqs = append(seqs, curSeq.String())
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			curName = firstToken(strings.TrimPrefix(line, ">"))
			curSeq.Reset()
			haveRecord = true
		} else if haveRecord {
			if fs.UpperCase {
				line = strings.ToUpper(line)
			}
			curSeq.WriteString(line)
		}
	}
	flush()

	if len(names) == 0 {
		return nil, nil, newErrorf(ErrInputFormat, "no FASTA records found in %s", fs.Path)
	}
	return names, seqs, nil
}

// readRawLines returns every CR/LF-stripped line of a plain or gzipped
// text file, in order, without interpreting FASTA structure.
func readRawLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening file %s", path)
	}
	defer f.Close()

	var r *bufio.Reader
	if isGzipSuffix(path) {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "opening gzip file %s", path)
		}
		defer gz.Close()
		r = bufio.NewReaderSize(gz, os.Getpagesize())
	} else {
		r = bufio.NewReaderSize(f, os.Getpagesize())
	}

	var lines []string
	for {
		line, readErr := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		lines = append(lines, line)
		if readErr != nil {
			break
		}
	}
	return lines, nil
}

func firstToken(header string) string {
	i := strings.IndexAny(header, " \t")
	if i < 0 {
		return header
	}
	return header[:i]
}
