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

var buildCollectionCmd = &cobra.Command{
	Use:   "build-collection",
	Short: "build a k-mer collection index and report ranked organism coverage",
	Long: `build a k-mer collection index and report ranked organism coverage

Loads per-organism k-mer sets (one FASTA record per organism), then ranks
every organism whose coverage clears --kc-coverage-threshold by coverage,
without building a unique-kmer or genome index.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := optionsFromFlags(cmd)

		collectionFasta := getFlagString(cmd, "collection-fasta")
		if collectionFasta == "" {
			checkError(fmt.Errorf("--collection-fasta is required"))
		}
		checkFileExists(collectionFasta)

		idx, err := fastv.BuildKmerCollectionIndex(collectionFasta, opt)
		checkError(err)

		scanner := fastv.NewScanner(opt, nil, nil, idx)

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
			{Header: "hit", Align: stable.AlignRight},
			{Header: "coverage", Align: stable.AlignRight},
			{Header: "median-hit", Align: stable.AlignRight},
			{Header: "mean-hit", Align: stable.AlignRight},
			{Header: "high-confidence", Align: stable.AlignLeft},
		})
		for _, row := range idx.Results() {
			tbl.AddRow([]interface{}{
				row.Name,
				humanize.Comma(int64(row.Hit)),
				fmt.Sprintf("%.4f", row.Coverage),
				row.MedianHit,
				fmt.Sprintf("%.2f", row.MeanHit),
				boolStr("yes", "no", row.HighConfidence),
			})
		}
		os.Stdout.Write(tbl.Render(style))
	},
}

func init() {
	RootCmd.AddCommand(buildCollectionCmd)

	buildCollectionCmd.Flags().StringP("collection-fasta", "c", "", "FASTA file of per-organism k-mer collections, one record per organism")
	buildCollectionCmd.Flags().StringSliceP("reads", "r", nil, "FASTQ/FASTA read file(s)")

	addTuningFlags(buildCollectionCmd, true, false, false, true)
}
