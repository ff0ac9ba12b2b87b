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

package cmd

import (
	"fmt"
	"os"

	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"

	"github.com/OpenGene/fastv"
)

// checkError prints err and exits with a non-zero status. nil is a no-op.
func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	checkError(err)
	return v
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return v
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return v
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v <= 0 {
		checkError(fmt.Errorf("value of --%s should be a positive integer", flag))
	}
	return v
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v < 0 {
		checkError(fmt.Errorf("value of --%s should not be negative", flag))
	}
	return v
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	v, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return v
}

func getFlagStringSlice(cmd *cobra.Command, flag string) []string {
	v, err := cmd.Flags().GetStringSlice(flag)
	checkError(err)
	return v
}

// getFileList resolves positional args to an input file list, falling back
// to stdin ("-") when none are given.
func getFileList(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func isStdin(file string) bool {
	return file == "-"
}

// checkFileExists aborts with a clear error if path is not stdin and does
// not exist on disk.
func checkFileExists(path string) {
	if isStdin(path) {
		return
	}
	ok, err := pathutil.Exists(path)
	checkError(err)
	if !ok {
		checkError(fmt.Errorf("file does not exist: %s", path))
	}
}

// optionsFromFlags builds a *fastv.Options from the tuning flags shared by
// every subcommand that builds or queries an index, then validates it.
func optionsFromFlags(cmd *cobra.Command) *fastv.Options {
	opt := fastv.NewOptions()
	opt.Verbose = getFlagBool(cmd, "verbose")

	if cmd.Flags().Lookup("kmer-len") != nil {
		opt.KmerKeyLen = getFlagNonNegativeInt(cmd, "kmer-len")
	}
	if cmd.Flags().Lookup("positive-threshold") != nil {
		opt.PositiveThreshold = getFlagFloat64(cmd, "positive-threshold")
	}
	if cmd.Flags().Lookup("ed-threshold") != nil {
		opt.EdThreshold = getFlagNonNegativeInt(cmd, "ed-threshold")
	}
	if cmd.Flags().Lookup("depth-threshold") != nil {
		opt.DepthThreshold = getFlagFloat64(cmd, "depth-threshold")
	}
	if cmd.Flags().Lookup("bin-size") != nil {
		opt.StatsBinSize = getFlagNonNegativeInt(cmd, "bin-size")
	}
	if cmd.Flags().Lookup("long-read-threshold") != nil {
		opt.LongReadThreshold = getFlagPositiveInt(cmd, "long-read-threshold")
	}
	if cmd.Flags().Lookup("segment-length") != nil {
		opt.SegmentLength = getFlagPositiveInt(cmd, "segment-length")
	}
	if cmd.Flags().Lookup("kc-coverage-threshold") != nil {
		opt.KCCoverageThreshold = getFlagFloat64(cmd, "kc-coverage-threshold")
	}
	if cmd.Flags().Lookup("kc-coverage-high-confidence") != nil {
		opt.KCCoverageHighConfidence = getFlagFloat64(cmd, "kc-coverage-high-confidence")
	}
	if cmd.Flags().Lookup("kc-median-hit-high-confidence") != nil {
		opt.KCMedianHitHighConfidence = getFlagNonNegativeInt(cmd, "kc-median-hit-high-confidence")
	}

	checkError(opt.Validate())
	fastv.SetVerbose(opt.Verbose)
	return opt
}

// addTuningFlags registers the flags optionsFromFlags reads, letting each
// subcommand opt in to only the knobs relevant to the indices it builds.
func addTuningFlags(cmd *cobra.Command, withKmerLen, withUnique, withGenome, withCollection bool) {
	if withKmerLen {
		cmd.Flags().IntP("kmer-len", "k", 0, "k-mer key length (1-32); 0 infers it from the unique k-mer or collection file; a genome index needs it set unless a unique k-mer file is also given")
	}
	if withUnique {
		cmd.Flags().Float64P("positive-threshold", "", 0.1, "minimum mean hit depth for a POSITIVE unique-kmer verdict")
	}
	if withGenome {
		cmd.Flags().IntP("ed-threshold", "e", 8, "maximum edit distance accepted by seed-and-extend alignment")
		cmd.Flags().Float64P("depth-threshold", "d", 1.0, "minimum per-bin coverage depth to count a bin as covered")
		cmd.Flags().IntP("bin-size", "", 0, "coverage bin size in bases; 0 auto-selects one from contig length")
	}
	if withUnique || withGenome || withCollection {
		cmd.Flags().IntP("long-read-threshold", "", 200, "reads longer than this are split into segments before scanning")
		cmd.Flags().IntP("segment-length", "", 100, "segment size used for long reads")
	}
	if withCollection {
		cmd.Flags().Float64P("kc-coverage-threshold", "", 0.1, "minimum k-mer coverage fraction for a collection to be reported")
		cmd.Flags().Float64P("kc-coverage-high-confidence", "", 0.9, "coverage fraction required for a high-confidence call")
		cmd.Flags().IntP("kc-median-hit-high-confidence", "", 10, "median hit depth required for a high-confidence call")
	}
}
