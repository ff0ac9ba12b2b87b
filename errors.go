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

import "github.com/pkg/errors"

// ErrorKind classifies the fatal error conditions raised while building or
// querying the shared indices. Per-read errors never surface one of these;
// a read that cannot be keyed is simply reported as not detected.
type ErrorKind int

const (
	// ErrInputFormat covers unsupported file extensions, FASTA files with
	// no usable records, k-mer files with zero usable keys, and a configured
	// k-mer length outside [0, 32]. K-mers whose length differs from K are
	// skipped with a warning rather than reported as errors.
	ErrInputFormat ErrorKind = iota
	// ErrCapacity covers contig/collection counts or sizes that exceed the
	// index's fixed-width encoding. BuildGenomeIndex handles its capacity
	// limits (contig length and contig count) by logging a warning and
	// skipping the offending contigs; no build function returns this kind.
	ErrCapacity
	// ErrConsistency covers internal bugs: a contig id or bin count that
	// does not match what the index itself built.
	ErrConsistency
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInputFormat:
		return "input format"
	case ErrCapacity:
		return "capacity"
	case ErrConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// Error is a fatal core error tagged with its ErrorKind so callers can
// distinguish build-time input problems from internal consistency bugs.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

func newError(kind ErrorKind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg})
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: errors.Errorf(format, args...).Error()})
}
