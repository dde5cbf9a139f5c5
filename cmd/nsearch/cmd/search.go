package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nsearch-go/nsearch/align"
	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/database"
	"github.com/nsearch-go/nsearch/ioseq"
	"github.com/nsearch-go/nsearch/pipeline"
	"github.com/nsearch-go/nsearch/search"
	"github.com/nsearch-go/nsearch/seqcore"
	"github.com/nsearch-go/nsearch/stats"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search query sequences against a target database by global alignment",
	Long: `search finds, for every query sequence, the top-scoring target
sequences in a database by k-mer-filtered global alignment, in the style
of usearch/vsearch's -usearch_global.`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		dbFile := getFlagString(cmd, "db")
		queryFile := getFlagString(cmd, "query")
		indexFile := getFlagString(cmd, "db-index")
		outPrefix := getFlagString(cmd, "out-prefix")
		csvOut := getFlagString(cmd, "csv-out")
		nameMapFile := getFlagString(cmd, "name-map")
		protein := getFlagBool(cmd, "protein")
		window := getFlagPositiveInt(cmd, "word-size")
		minIdentity := getFlagFloat64(cmd, "id")
		maxAccepts := getFlagPositiveInt(cmd, "maxaccepts")
		maxRejects := getFlagPositiveInt(cmd, "maxrejects")
		strandFlag := getFlagString(cmd, "strand")

		if dbFile == "" {
			checkError(fmt.Errorf("flag -d/--db is required"))
		}
		if queryFile == "" {
			checkError(fmt.Errorf("flag -q/--query is required"))
		}
		checkFiles(dbFile, queryFile)

		var a alphabet.Alphabet = alphabet.DNA{}
		if protein {
			a = alphabet.Protein{}
		}

		var strand search.Strand
		switch strandFlag {
		case "plus":
			strand = search.Plus
		case "minus":
			strand = search.Minus
		case "both":
			strand = search.Both
		default:
			checkError(fmt.Errorf("invalid --strand %q, want plus/minus/both", strandFlag))
		}

		db := loadOrBuildDatabase(expandPath(dbFile), expandPath(indexFile), window, a, opt.Verbose)

		var nameMap map[string]string
		if nameMapFile != "" {
			var err error
			nameMap, err = readNameMap(expandPath(nameMapFile))
			checkError(err)
		}

		alignDefaults := alphabet.DefaultParams(a)
		alignParams := align.Params{
			Match:             alignDefaults.Match,
			Mismatch:          alignDefaults.Mismatch,
			InteriorGapOpen:   alignDefaults.InteriorGapOpen,
			InteriorGapExtend: alignDefaults.InteriorGapExtend,
			TerminalGapOpen:   alignDefaults.TerminalGapOpen,
			TerminalGapExtend: alignDefaults.TerminalGapExtend,
			Bandwidth:         alignDefaults.Bandwidth,
			XDrop:             alignDefaults.XDrop,
		}

		params := search.Params{
			MinIdentity: minIdentity,
			MaxAccepts:  maxAccepts,
			MaxRejects:  maxRejects,
			Strand:      strand,
		}

		queryReader, err := ioseq.NewFastxReader(expandPath(queryFile))
		checkError(err)

		humanOut, err := createOutput(outPrefix + ".txt")
		checkError(err)
		defer humanOut.Close()
		humanWriter := ioseq.NewHumanHitWriter(humanOut)

		var csvWriter *ioseq.CSVHitWriter
		if csvOut != "" {
			csvFh, err := createOutput(csvOut)
			checkError(err)
			defer csvFh.Close()
			csvWriter = ioseq.NewCSVHitWriter(csvFh)
		}

		st := stats.New()
		st.StartTimer()

		var writeMu sync.Mutex

		factory := func() pipeline.Processor {
			searcher := search.NewSearcher(db, a, alignParams)
			return &searchProcessor{
				searcher: searcher,
				params:   params,
				nameMap:  nameMap,
				human:    humanWriter,
				csv:      csvWriter,
				writeMu:  &writeMu,
				stats:    st,
			}
		}

		queue := pipeline.NewQueue(opt.Threads, factory)
		progress := newProgressReporter(opt.Verbose)
		queue.OnProcessed(progress.onProcessed)

		for {
			query, err := queryReader.ReadOne()
			if err != nil {
				if err == io.EOF {
					break
				}
				checkError(err)
			}
			queue.Enqueue(searchJob{query: query})
		}

		queue.WaitTillDone()
		queue.Stop()
		st.StopTimer()

		printRunStats(st, [2]string{"targets", fmt.Sprintf("%d", db.NumSeqs())})
	},
}

// searchJob is one query enqueued onto the worker pipeline.
type searchJob struct {
	query seqcore.Sequence
}

// searchProcessor is the per-worker pipeline.Processor: it owns its own
// *search.Searcher (whose internal scratch buffers are not safe to share
// across goroutines) and writes accepted hits under writeMu, since the
// hit writers themselves are shared across workers.
type searchProcessor struct {
	searcher *search.Searcher
	params   search.Params
	nameMap  map[string]string

	human   *ioseq.HumanHitWriter
	csv     *ioseq.CSVHitWriter
	writeMu *sync.Mutex

	stats *stats.Stats
}

func (p *searchProcessor) Process(item pipeline.Item) {
	job := item.(searchJob)
	hits := p.searcher.Search(job.query, p.params)
	p.stats.AddProcessed()

	if len(hits) == 0 {
		return
	}

	if p.nameMap != nil {
		for i := range hits {
			if mapped, ok := p.nameMap[hits[i].Target.Identifier]; ok {
				hits[i].Target.Identifier = mapped
			}
		}
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := p.human.Write(job.query, hits); err != nil {
		log.Warningf("failed writing hit report for %s: %s", job.query.Identifier, err)
	}
	if p.csv != nil {
		if err := p.csv.Write(job.query, hits); err != nil {
			log.Warningf("failed writing CSV hit report for %s: %s", job.query.Identifier, err)
		}
	}
}

// loadOrBuildDatabase loads a previously-saved index from indexFile when
// present, otherwise builds one from dbFile's sequences and, if indexFile
// is non-empty, persists it for the next run. Per SPEC_FULL.md's
// supplemented "Database index persistence" feature.
func loadOrBuildDatabase(dbFile, indexFile string, window int, a alphabet.Alphabet, verbose bool) *database.Database {
	if indexFile != "" {
		if fh, err := os.Open(indexFile); err == nil {
			defer fh.Close()
			db, err := database.Load(fh, a)
			if err == nil {
				if verbose {
					log.Infof("loaded index from %s (%d sequences)", indexFile, db.NumSeqs())
				}
				return db
			}
			log.Warningf("failed loading index %s, rebuilding: %s", indexFile, err)
		}
	}

	reader, err := ioseq.NewFastxReader(dbFile)
	checkError(err)

	var seqs []seqcore.Sequence
	for {
		s, err := reader.ReadOne()
		if err != nil {
			if err == io.EOF {
				break
			}
			checkError(err)
		}
		seqs = append(seqs, s)
	}

	var progress database.ProgressFunc
	if verbose {
		progress = func(done, total int) {
			log.Infof("indexing: %d/%d sequences", done, total)
		}
	}
	db := database.Build(seqs, window, a, progress)

	if indexFile != "" {
		fh, err := os.Create(indexFile)
		if err != nil {
			log.Warningf("failed creating index file %s: %s", indexFile, err)
			return db
		}
		defer fh.Close()
		if err := db.Save(fh); err != nil {
			log.Warningf("failed saving index to %s: %s", indexFile, err)
		}
	}

	return db
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("db", "d", "", "target database FASTA/FASTQ file")
	searchCmd.Flags().StringP("query", "q", "", "query FASTA/FASTQ file")
	searchCmd.Flags().StringP("db-index", "x", "", "path to a persisted database index; built and cached here if missing")
	searchCmd.Flags().StringP("out-prefix", "o", "nsearch", `output prefix; human-readable hits go to "<prefix>.txt"`)
	searchCmd.Flags().StringP("csv-out", "", "", "also write a CSV hit report to this file")
	searchCmd.Flags().StringP("name-map", "M", "", "tabular two-column file mapping target names to user-defined values")
	searchCmd.Flags().BoolP("protein", "", false, "treat sequences as protein instead of DNA")
	searchCmd.Flags().IntP("word-size", "w", 8, "k-mer window size used for candidate filtering")
	searchCmd.Flags().Float64P("id", "", 0.75, "minimum fractional identity to accept a hit")
	searchCmd.Flags().IntP("maxaccepts", "", 1, "maximum number of accepted hits per query before stopping")
	searchCmd.Flags().IntP("maxrejects", "", 32, "maximum number of rejected candidates per query before stopping")
	searchCmd.Flags().StringP("strand", "", "plus", "strand(s) to search: plus, minus, or both")
}
