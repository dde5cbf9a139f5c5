package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/ioseq"
	"github.com/nsearch-go/nsearch/merge"
	"github.com/nsearch-go/nsearch/pipeline"
	"github.com/nsearch-go/nsearch/seqcore"
	"github.com/nsearch-go/nsearch/stats"
)

// numReadsPerWorkItem batches paired reads into work items, matching the
// original app's Merge.cpp (`numReadsPerWorkItem = 512`), so per-item
// queue overhead doesn't dominate a single pair's merge cost.
const numReadsPerWorkItem = 512

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge overlapping paired-end reads into a single consensus read",
	Long: `merge finds the best overlap between a forward and reverse read
of a paired-end fragment and, where one exists at the requested identity,
writes out a single merged consensus read with recomputed quality scores.`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		fwdFile := getFlagString(cmd, "forward")
		revFile := getFlagString(cmd, "reverse")
		outFile := getFlagString(cmd, "out")
		minOverlap := getFlagPositiveInt(cmd, "min-overlap")
		minIdentity := getFlagFloat64(cmd, "min-id")

		if fwdFile == "" || revFile == "" {
			checkError(fmt.Errorf("flags -1/--forward and -2/--reverse are required"))
		}
		checkFiles(fwdFile, revFile)

		fwdReader, err := ioseq.NewFastxReader(expandPath(fwdFile))
		checkError(err)
		revReader, err := ioseq.NewFastxReader(expandPath(revFile))
		checkError(err)

		outFh, err := createOutput(outFile)
		checkError(err)
		defer outFh.Close()
		writer := ioseq.NewSequenceWriter(outFh, ioseq.FASTQ, alphabet.DNA{})

		st := stats.New()
		st.StartTimer()

		writeQueue := pipeline.NewQueue(1, func() pipeline.Processor {
			return &mergedBatchWriter{writer: writer}
		})

		mergerQueue := pipeline.NewQueue(opt.Threads, func() pipeline.Processor {
			return &readMerger{
				merger:     merge.NewMerger(alphabet.DNA{}, minOverlap, minIdentity),
				writeQueue: writeQueue,
				stats:      st,
			}
		})

		readProgress := newProgressReporter(opt.Verbose)
		mergerQueue.OnProcessed(readProgress.onProcessed)

		for {
			fwdBatch, ferr := fwdReader.ReadN(numReadsPerWorkItem)
			revBatch, rerr := revReader.ReadN(numReadsPerWorkItem)
			if len(fwdBatch) == 0 {
				break
			}
			mergerQueue.Enqueue(pairedReadsJob{fwd: fwdBatch, rev: revBatch})
			if (ferr != nil && ferr != io.EOF) || (rerr != nil && rerr != io.EOF) {
				checkError(ferr)
				checkError(rerr)
			}
			if len(fwdBatch) < numReadsPerWorkItem || len(revBatch) < numReadsPerWorkItem {
				break
			}
		}

		mergerQueue.WaitTillDone()
		mergerQueue.Stop()

		writeQueue.WaitTillDone()
		writeQueue.Stop()

		checkError(writer.Flush())

		st.StopTimer()
		printRunStats(st)
	},
}

// pairedReadsJob is one batch of lockstep-read forward/reverse pairs.
type pairedReadsJob struct {
	fwd []seqcore.Sequence
	rev []seqcore.Sequence
}

// readMerger is the merge-stage pipeline.Processor: it merges every pair
// in a batch, forwarding only the successfully merged reads on to the
// single-worker write queue, matching Merge.cpp's ReadMergerWorker.
type readMerger struct {
	merger     *merge.Merger
	writeQueue *pipeline.Queue
	stats      *stats.Stats
}

func (p *readMerger) Process(item pipeline.Item) {
	job := item.(pairedReadsJob)

	var merged []seqcore.Sequence
	n := len(job.fwd)
	if len(job.rev) < n {
		n = len(job.rev)
	}
	for i := 0; i < n; i++ {
		if mergedRead, ok := p.merger.Merge(job.fwd[i], job.rev[i]); ok {
			p.stats.AddMerged(mergedRead.Length())
			merged = append(merged, mergedRead)
		}
	}

	if len(merged) > 0 {
		p.writeQueue.Enqueue(merged)
	}
	for range job.fwd {
		p.stats.AddProcessed()
	}
}

// mergedBatchWriter is the single-worker write-stage pipeline.Processor,
// so batches are written one at a time and never interleave. Batches
// arrive in the order the opt.Threads merge workers finish them, which
// need not be input order when more than one merge worker runs.
type mergedBatchWriter struct {
	writer ioseq.Writer
}

func (w *mergedBatchWriter) Process(item pipeline.Item) {
	batch := item.([]seqcore.Sequence)
	for _, s := range batch {
		if err := w.writer.Write(s); err != nil {
			log.Warningf("failed writing merged read %s: %s", s.Identifier, err)
		}
	}
}

func init() {
	RootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringP("forward", "1", "", "forward reads FASTQ file")
	mergeCmd.Flags().StringP("reverse", "2", "", "reverse reads FASTQ file")
	mergeCmd.Flags().StringP("out", "o", "merged.fastq", "output file for merged reads")
	mergeCmd.Flags().IntP("min-overlap", "", merge.DefaultMinOverlap, "minimum overlap length to accept a merge")
	mergeCmd.Flags().Float64P("min-id", "", merge.DefaultMinIdentity, "minimum overlap identity to accept a merge")
}
