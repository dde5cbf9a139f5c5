// Package cmd implements the nsearch command-line surface: search, merge,
// and filter, over the core alignment/merge/pipeline packages.
package cmd

import (
	"fmt"
	"os"
	"runtime"

	logging "github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// log is the package-level logger shared by every subcommand, in the same
// style as unikmer/cmd's log.Infof/log.Warningf call sites (the go-logging
// backend itself is wired up in main.go's init, matching unikmer/main.go).
var log = logging.MustGetLogger("nsearch")

const version = "0.1.0"

// RootCmd is the base command when nsearch is invoked with no subcommand.
var RootCmd = &cobra.Command{
	Use:   "nsearch",
	Short: "Global-alignment sequence search and paired-end read merging",
	Long: fmt.Sprintf(`nsearch - global-alignment sequence search and paired-end read merging

A k-mer-filtered global-alignment search tool (in the style of
usearch/vsearch) plus a paired-end read merger, sharing one alignment
and sequence-I/O core.

Version: %s
`, version),
}

// Execute runs RootCmd. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 4 {
		defaultThreads = 4
	}
	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of worker goroutines to use")
	RootCmd.PersistentFlags().BoolP("verbose", "", false, "print verbose progress information")
}
