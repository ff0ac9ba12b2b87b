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
	"runtime"

	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// VERSION is the toolkit version reported by --version and in the root
// command's long help.
const VERSION = "0.1.0"

var log = logging.MustGetLogger("fastv")

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "fastv",
	Short:   "ultrafast microbial/viral sequence detection from FASTQ reads",
	Version: VERSION,
	Long: fmt.Sprintf(`fastv - ultrafast identification of microbial/viral sequences from FASTQ reads

fastv scans sequencing reads against one or more reference indices built
from k-mer keys (<=32 bases): a small panel of diagnostic unique k-mers for
a quick positive/negative call, a whole-genome seed-and-extend aligner for
coverage and mismatch statistics, and a k-mer collection index for ranking
candidate organisms by how much of their k-mer set is covered.

Version: %s

`, VERSION),
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main and only needs to happen once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 2 {
		defaultThreads = 2
	}

	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of CPUs to use; the subcommands scan reads on a single goroutine and do not read this value")
	RootCmd.PersistentFlags().BoolP("verbose", "", false, "print verbose information")
}
