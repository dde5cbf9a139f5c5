package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	pgzip "github.com/klauspost/pgzip"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/shenwei356/breader"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

// checkError prints err (if non-nil) and exits, matching unikmer/cmd's
// ubiquitous checkError(err) call-site contract.
func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than 0", flag))
	}
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	value, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return value
}

func isStdin(file string) bool { return file == "-" }

// checkFiles verifies every non-stdin path in files exists before any
// worker pipeline is started, matching unikmer/cmd/util.go's checkFiles
// (github.com/shenwei356/util/pathutil.Exists).
func checkFiles(files ...string) {
	for _, file := range files {
		if isStdin(file) {
			continue
		}
		ok, err := pathutil.Exists(file)
		if err != nil {
			checkError(fmt.Errorf("fail to check file %s: %s", file, err))
		}
		if !ok {
			checkError(fmt.Errorf("file does not exist: %s", file))
		}
	}
}

// expandPath resolves a leading ~ in a path via go-homedir, used for the
// input path flags (database, query, index, name map, reads); output
// paths given with -o are not expanded.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	checkError(err)
	return expanded
}

// createOutput opens path for writing, transparently wrapping it in a
// parallel gzip writer when path ends in ".gz", matching unikmer/cmd/util-io.go's
// outStream gzip-on-suffix convention (github.com/klauspost/pgzip).
func createOutput(path string) (io.WriteCloser, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		return &gzipFileWriter{gw: pgzip.NewWriter(fh), fh: fh}, nil
	}
	return fh, nil
}

// gzipFileWriter closes the pgzip writer (flushing its trailer) before the
// underlying file, so Close() never leaves a truncated .gz file.
type gzipFileWriter struct {
	gw *pgzip.Writer
	fh *os.File
}

func (w *gzipFileWriter) Write(p []byte) (int, error) { return w.gw.Write(p) }

func (w *gzipFileWriter) Close() error {
	if err := w.gw.Close(); err != nil {
		w.fh.Close()
		return err
	}
	return w.fh.Close()
}

// readNameMap parses a two-column tab-separated file (old name, new name)
// into a lookup table, used by the hit writer's --name-map identifier
// remapping. Grounded on unikmer's own breader.NewBufferedReader(file, n,
// bufSize, parseFunc) idiom (taxonomy.go's NewTaxonomy).
func readNameMap(file string) (map[string]string, error) {
	type kv struct{ key, value string }

	parseFunc := func(line string) (interface{}, bool, error) {
		var tab int
		for tab = 0; tab < len(line); tab++ {
			if line[tab] == '\t' {
				break
			}
		}
		if tab == 0 || tab == len(line) {
			return nil, false, nil
		}
		return kv{key: line[:tab], value: line[tab+1:]}, true, nil
	}

	reader, err := breader.NewBufferedReader(file, 2, 50, parseFunc)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, 1024)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, chunk.Err
		}
		for _, data := range chunk.Data {
			pair := data.(kv)
			names[pair.key] = pair.value
		}
	}
	return names, nil
}
