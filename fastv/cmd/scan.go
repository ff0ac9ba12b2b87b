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

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "scan FASTQ/FASTA reads against unique-kmer, genome, and/or collection indices",
	Long: `scan FASTQ/FASTA reads against unique-kmer, genome, and/or collection indices

At least one of --kmer-fasta, --genome-fasta, or --collection-fasta must be
given. Every configured index is queried for every read, in both the
forward and reverse-complement orientation.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := optionsFromFlags(cmd)

		uniqueRef := getFlagString(cmd, "kmer-fasta")
		genomeRef := getFlagString(cmd, "genome-fasta")
		collectionRef := getFlagString(cmd, "collection-fasta")
		if uniqueRef == "" && genomeRef == "" && collectionRef == "" {
			checkError(fmt.Errorf("at least one of --kmer-fasta, --genome-fasta, --collection-fasta is required"))
		}

		var uniqueIdx *fastv.UniqueKmerIndex
		var genomeIdx *fastv.GenomeIndex
		var collIdx *fastv.KmerCollectionIndex
		var err error

		if uniqueRef != "" {
			checkFileExists(uniqueRef)
			uniqueIdx, err = fastv.BuildUniqueKmerIndex(uniqueRef, opt)
			checkError(err)
		}
		if genomeRef != "" {
			checkFileExists(genomeRef)
			genomeIdx, err = fastv.BuildGenomeIndex(genomeRef, opt)
			checkError(err)
		}
		if collectionRef != "" {
			checkFileExists(collectionRef)
			collIdx, err = fastv.BuildKmerCollectionIndex(collectionRef, opt)
			checkError(err)
		}

		scanner := fastv.NewScanner(opt, uniqueIdx, genomeIdx, collIdx)

		files := getFlagStringSlice(cmd, "reads")
		if len(files) == 0 {
			files = getFileList(args)
		}
		var totalReads, detectedReads uint64

		for _, file := range files {
			checkFileExists(file)
			if opt.Verbose {
				log.Infof("scanning %s", file)
			}
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
				totalReads++
				result := scanner.Scan(string(record.Seq.Seq))
				if result.Detected() {
					detectedReads++
				}
			}
		}

		log.Infof("%s of %s reads detected", humanize.Comma(int64(detectedReads)), humanize.Comma(int64(totalReads)))

		printScanReports(uniqueIdx, genomeIdx, collIdx)
	},
}

func printScanReports(uniqueIdx *fastv.UniqueKmerIndex, genomeIdx *fastv.GenomeIndex, collIdx *fastv.KmerCollectionIndex) {
	style := &stable.TableStyle{
		Name:      "plain",
		HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		Padding:   "",
	}

	if uniqueIdx != nil {
		fmt.Println("\n# unique k-mer targets")
		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "name"},
			{Header: "seq"},
			{Header: "hits", Align: stable.AlignRight},
		})
		for _, row := range uniqueIdx.Report() {
			tbl.AddRow([]interface{}{row.Name, row.Seq, row.Count})
		}
		os.Stdout.Write(tbl.Render(style))
	}

	if genomeIdx != nil {
		fmt.Println("\n# genome contigs")
		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "name"},
			{Header: "length", Align: stable.AlignRight},
			{Header: "reads", Align: stable.AlignRight},
			{Header: "bases", Align: stable.AlignRight},
			{Header: "coverage-rate", Align: stable.AlignRight},
			{Header: "avg-mismatch-ratio", Align: stable.AlignRight},
		})
		for _, row := range genomeIdx.Report() {
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
	}

	if collIdx != nil {
		fmt.Println("\n# k-mer collections")
		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "name"},
			{Header: "hit", Align: stable.AlignRight},
			{Header: "coverage", Align: stable.AlignRight},
			{Header: "median-hit", Align: stable.AlignRight},
			{Header: "mean-hit", Align: stable.AlignRight},
			{Header: "high-confidence", Align: stable.AlignLeft},
		})
		for _, row := range collIdx.Results() {
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
	}
}

func boolStr(sTrue, sFalse string, v bool) string {
	if v {
		return sTrue
	}
	return sFalse
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("kmer-fasta", "u", "", "FASTA file of diagnostic unique k-mer targets")
	scanCmd.Flags().StringP("genome-fasta", "g", "", "FASTA file of reference genome contigs")
	scanCmd.Flags().StringP("collection-fasta", "c", "", "FASTA file of per-organism k-mer collections, one record per organism")
	scanCmd.Flags().StringSliceP("reads", "r", nil, "FASTQ/FASTA read file(s); repeat the flag or comma-separate, falls back to positional args then stdin")

	addTuningFlags(scanCmd, true, true, true, true)
}
