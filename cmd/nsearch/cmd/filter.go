package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/ioseq"
	"github.com/nsearch-go/nsearch/merge"
	"github.com/nsearch-go/nsearch/seqcore"
	"github.com/nsearch-go/nsearch/stats"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Drop FASTQ reads whose expected error count exceeds a threshold",
	Long: `filter computes each read's expected number of errors, the sum
of 10^(-Q/10) over its quality string, and drops reads whose expected
error count exceeds --max-errors, in the style of usearch/vsearch's
-fastq_filter -fastq_maxee.`,
	Run: func(cmd *cobra.Command, args []string) {
		inFile := getFlagString(cmd, "in")
		outFile := getFlagString(cmd, "out")
		maxErrors := getFlagFloat64(cmd, "max-errors")

		if inFile == "" {
			checkError(fmt.Errorf("flag -i/--in is required"))
		}
		checkFiles(inFile)

		reader, err := ioseq.NewFastxReader(expandPath(inFile))
		checkError(err)

		outFh, err := createOutput(outFile)
		checkError(err)
		defer outFh.Close()
		writer := ioseq.NewSequenceWriter(outFh, ioseq.FASTA, alphabet.DNA{})

		st := stats.New()
		st.StartTimer()

		var kept, dropped int
		for {
			s, err := reader.ReadOne()
			if err != nil {
				if err == io.EOF {
					break
				}
				checkError(err)
			}
			st.AddProcessed()

			if expectedErrors(s) <= maxErrors {
				checkError(writer.Write(s))
				kept++
			} else {
				dropped++
			}
		}
		checkError(writer.Flush())

		st.StopTimer()
		printRunStats(st,
			[2]string{"kept", fmt.Sprintf("%d", kept)},
			[2]string{"dropped", fmt.Sprintf("%d", dropped)},
		)
	},
}

// expectedErrors sums the per-base error probability implied by s's
// quality string. A read with no quality (FASTA input) always passes.
func expectedErrors(s seqcore.Sequence) float64 {
	if len(s.Quality) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(s.Quality); i++ {
		q := int(s.Quality[i]) - int(seqcore.MinQual)
		sum += merge.ErrorProbability(q)
	}
	return sum
}

func init() {
	RootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringP("in", "i", "", "input FASTQ file")
	filterCmd.Flags().StringP("out", "o", "filtered.fasta", "output FASTA file for reads that pass the filter")
	filterCmd.Flags().Float64P("max-errors", "e", 1.0, "maximum expected number of errors allowed in a read")
}
