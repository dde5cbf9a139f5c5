package cmd

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	"github.com/nsearch-go/nsearch/stats"
)

// Options carries the global (persistent) flags, matching
// unikmer/cmd/common.go's Options/getOptions shape.
type Options struct {
	Threads int
	Verbose bool
}

func getOptions(cmd *cobra.Command) *Options {
	return &Options{
		Threads: getFlagPositiveInt(cmd, "threads"),
		Verbose: getFlagBool(cmd, "verbose"),
	}
}

// progressReporter logs a running "N processed" line through the package
// logger, throttled to every reportEvery records, wired as a
// pipeline.Queue OnProcessed callback.
type progressReporter struct {
	verbose     bool
	reportEvery int
}

func newProgressReporter(verbose bool) *progressReporter {
	return &progressReporter{verbose: verbose, reportEvery: 10000}
}

func (p *progressReporter) onProcessed(totalProcessed, totalEnqueued int) {
	if !p.verbose {
		return
	}
	if totalProcessed%p.reportEvery != 0 {
		return
	}
	log.Infof("processed %s reads", humanize.Comma(int64(totalProcessed)))
}

// runStatsTableStyle matches unikmer/cmd/info.go's plain borderless style.
var runStatsTableStyle = &stable.TableStyle{
	Name:      "plain",
	HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
	DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
	Padding:   "",
}

// printRunStats renders a two-column metric/value summary table for s at
// the end of a search/merge run, per SPEC_FULL.md's supplemented run
// statistics feature.
func printRunStats(s *stats.Stats, extra ...[2]string) {
	tbl := stable.New()
	tbl.HeaderWithFormat([]stable.Column{
		{Header: "metric"},
		{Header: "value", Align: stable.AlignRight},
	})

	tbl.AddRow([]interface{}{"processed", humanize.Comma(s.NumProcessed())})
	tbl.AddRow([]interface{}{"merged", humanize.Comma(s.NumMerged())})
	tbl.AddRow([]interface{}{"mean merged length", fmt.Sprintf("%.1f", s.MeanMergedLength())})
	tbl.AddRow([]interface{}{"elapsed", s.Elapsed().Round(1e6).String()})
	for _, row := range extra {
		tbl.AddRow([]interface{}{row[0], row[1]})
	}

	fmt.Println(string(tbl.Render(runStatsTableStyle)))
}
