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

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	"github.com/OpenGene/fastv"
)

var buildKmerCmd = &cobra.Command{
	Use:   "build-kmer",
	Short: "build a unique-kmer index and report its hit table against a read file",
	Long: `build a unique-kmer index and report its hit table against a read file

Loads a small panel of diagnostic k-mer targets and reports mean hit depth
and the POSITIVE/NEGATIVE verdict after scanning every read, without
building a genome or collection index.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := optionsFromFlags(cmd)

		kmerFasta := getFlagString(cmd, "kmer-fasta")
		if kmerFasta == "" {
			checkError(fmt.Errorf("--kmer-fasta is required"))
		}
		checkFileExists(kmerFasta)

		idx, err := fastv.BuildUniqueKmerIndex(kmerFasta, opt)
		checkError(err)

		scanner := fastv.NewScanner(opt, idx, nil, nil)

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

		fmt.Printf("mean hit depth %.3f, verdict %s\n", idx.MeanHit(), idx.Verdict(opt.PositiveThreshold))

		style := &stable.TableStyle{
			Name:      "plain",
			HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			Padding:   "",
		}
		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "name"},
			{Header: "seq"},
			{Header: "hits", Align: stable.AlignRight},
		})
		for _, row := range idx.Report() {
			tbl.AddRow([]interface{}{row.Name, row.Seq, row.Count})
		}
		os.Stdout.Write(tbl.Render(style))
	},
}

func init() {
	RootCmd.AddCommand(buildKmerCmd)

	buildKmerCmd.Flags().StringP("kmer-fasta", "u", "", "FASTA file of diagnostic unique k-mer targets")
	buildKmerCmd.Flags().StringSliceP("reads", "r", nil, "FASTQ/FASTA read file(s)")

	addTuningFlags(buildKmerCmd, true, true, false, false)
}
