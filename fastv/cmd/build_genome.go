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
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	"github.com/OpenGene/fastv"
)

var buildGenomeCmd = &cobra.Command{
	Use:   "build-genome",
	Short: "build a genome index and report per-contig coverage after seed-and-extend alignment",
	Long: `build a genome index and report per-contig coverage after seed-and-extend alignment

Loads reference contigs, builds the Bloom pre-filter and seed table, then
aligns every read in isolation, without building a unique-kmer or
collection index.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := optionsFromFlags(cmd)

		genomeFasta := getFlagString(cmd, "genome-fasta")
		if genomeFasta == "" {
			checkError(fmt.Errorf("--genome-fasta is required"))
		}
		checkFileExists(genomeFasta)

		idx, err := fastv.BuildGenomeIndex(genomeFasta, opt)
		checkError(err)

		scanner := fastv.NewScanner(opt, nil, idx, nil)

		files := getFlagStringSlice(cmd, "reads")
		if len(files) == 0 {
			files = getFileList(args)
		}
		for _, file := range files {
			checkFileExists(file)
			reader, err := fastx.NewDefaultReader(file)
			checkError(err)
			var record *fastx.Record
			for {
				record, err = reader.Read()
				if err != nil {
					if err == io.EOF {
						break
					}
					checkError(err)
					break
				}
				scanner.Scan(string(record.Seq.Seq))
			}
		}

		style := &stable.TableStyle{
			Name:      "plain",
			HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			Padding:   "",
		}
		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "name"},
			{Header: "length", Align: stable.AlignRight},
			{Header: "reads", Align: stable.AlignRight},
			{Header: "bases", Align: stable.AlignRight},
			{Header: "coverage-rate", Align: stable.AlignRight},
			{Header: "avg-mismatch-ratio", Align: stable.AlignRight},
		})
		for _, row := range idx.Report() {
			tbl.AddRow([]interface{}{
				row.Name,
				humanize.Comma(int64(row.Length)),
				humanize.Comma(int64(row.Reads)),
				humanize.Comma(int64(row.Bases)),
				fmt.Sprintf("%.4f", row.CoverageRate),
				fmt.Sprintf("%.4f", row.AvgMismatchRatio),
			})
		}
		os.Stdout.Write(tbl.Render(style))
	},
}

func init() {
	RootCmd.AddCommand(buildGenomeCmd)

	buildGenomeCmd.Flags().StringP("genome-fasta", "g", "", "FASTA file of reference genome contigs")
	buildGenomeCmd.Flags().StringSliceP("reads", "r", nil, "FASTQ/FASTA read file(s)")

	addTuningFlags(buildGenomeCmd, true, false, true, false)
}
