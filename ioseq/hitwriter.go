package ioseq

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	logging "github.com/shenwei356/go-logging"

	"github.com/nsearch-go/nsearch/align"
	"github.com/nsearch-go/nsearch/search"
	"github.com/nsearch-go/nsearch/seqcore"
)

var log = logging.MustGetLogger("nsearch")

// maxAlignmentLineWidth wraps the Qry/Tgt/match trio at 60 columns,
// matching Alnout::Writer's MAX_ALIGNMENT_STRING_LENGTH_LINE.
const maxAlignmentLineWidth = 60

// HitWriter is the push interface the core writes a query's accepted hit
// list through.
type HitWriter interface {
	Write(query seqcore.Sequence, hits []search.Hit) error
}

// HumanHitWriter renders the per-query summary block and, for every hit,
// the 60-column-wrapped aligned trio (query/match/target lines) plus a
// column/identity/gaps stats line, matching nsearch's Alnout::Writer.
type HumanHitWriter struct {
	w io.Writer
}

func NewHumanHitWriter(w io.Writer) *HumanHitWriter {
	return &HumanHitWriter{w: w}
}

func (hw *HumanHitWriter) Write(query seqcore.Sequence, hits []search.Hit) error {
	fmt.Fprintf(hw.w, "Query >%s\n", query.Identifier)
	fmt.Fprintf(hw.w, " %%Id   TLen  Target\n")
	for _, hit := range hits {
		fmt.Fprintf(hw.w, "%3.0f%%%7d  %s\n", hit.Identity*100.0, hit.Target.Length(), hit.Target.Identifier)
	}
	fmt.Fprintln(hw.w)

	for _, hit := range hits {
		queryLenStr := strconv.Itoa(query.Length())
		targetLenStr := strconv.Itoa(hit.Target.Length())
		maxLen := len(queryLenStr)
		if len(targetLenStr) > maxLen {
			maxLen = len(targetLenStr)
		}

		fmt.Fprintf(hw.w, "Query%*s nt >%s\n", maxLen+1, queryLenStr, query.Identifier)
		fmt.Fprintf(hw.w, "Target%*s nt >%s\n", maxLen+1, targetLenStr, hit.Target.Identifier)
		fmt.Fprintln(hw.w)

		lines, numCols, numMatches, numGaps, correct := extractAlignmentLines(query.Symbols, hit.Target.Symbols, hit.Cigar)
		if !correct {
			log.Warningf("!!!INVALID ALIGNMENT!!! query=%s target=%s", query.Identifier, hit.Target.Identifier)
		}

		padLen := 1
		if n := len(lines); n > 0 {
			qe := strconv.Itoa(lines[n-1].qe)
			te := strconv.Itoa(lines[n-1].te)
			padLen = len(qe)
			if len(te) > padLen {
				padLen = len(te)
			}
		}

		for _, line := range lines {
			fmt.Fprintf(hw.w, "Qry %*d + %s %d\n", padLen, line.qs, line.q, line.qe)
			fmt.Fprintf(hw.w, "%s%s\n", spaces(7+padLen), line.a)
			fmt.Fprintf(hw.w, "Tgt %*d + %s %d\n", padLen, line.ts, line.t, line.te)
			fmt.Fprintln(hw.w)
		}

		identity := 0.0
		gapsRatio := 0.0
		if numCols > 0 {
			identity = float64(numMatches) / float64(numCols)
			gapsRatio = float64(numGaps) / float64(numCols)
		}
		fmt.Fprintf(hw.w, "%d cols, %d ids (%.1f%%), %d gaps (%.1f%%)\n", numCols, numMatches, 100.0*identity, numGaps, 100.0*gapsRatio)
		fmt.Fprintln(hw.w)
	}
	return nil
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// alignmentLine is one 60-column-wide wrapped segment of a rendered
// alignment: query/target substrings, the match/mismatch/gap marker row,
// and the 1-based start/end coordinates on each side.
type alignmentLine struct {
	qs, qe int
	q      string
	ts, te int
	t      string
	a      string
}

// extractAlignmentLines walks cigar (with its leading/trailing terminal
// gap run excluded from display, matching the original's "don't take
// terminal gap into account" trim), building the wrapped display lines and
// the column/match/gap counts used for the trailing stats line. correct is
// false if a Match run covers a pair of symbols that don't actually match
// under plain nucleotide equality — the safety-net diagnostic of spec §7.
func extractAlignmentLines(query, target string, cigar align.Cigar) (lines []alignmentLine, numCols, numMatches, numGaps int, correct bool) {
	correct = true

	interior := cigar.Trim()

	queryStart, targetStart := cigar.LeadingConsumed()

	qcount, tcount := queryStart, targetStart
	var line alignmentLine
	line.qs = queryStart + 1
	line.ts = targetStart + 1

	flush := func() {
		if line.a == "" {
			return
		}
		line.qe = qcount
		line.te = tcount
		lines = append(lines, line)
	}

	for _, e := range interior {
		for i := 0; i < e.Count; i++ {
			switch e.Op {
			case align.Insertion:
				line.t += "-"
				line.q += string(query[qcount])
				qcount++
				line.a += " "
				numGaps++
			case align.Deletion:
				line.q += "-"
				line.t += string(target[tcount])
				tcount++
				line.a += " "
				numGaps++
			case align.Match:
				q, t := query[qcount], target[tcount]
				qcount++
				tcount++
				numMatches++
				line.q += string(q)
				line.t += string(t)
				if q != t {
					correct = false
					line.a += "X"
				} else {
					line.a += "|"
				}
			case align.Mismatch:
				line.q += string(query[qcount])
				line.t += string(target[tcount])
				qcount++
				tcount++
				line.a += " "
			}

			numCols++
			if numCols%maxAlignmentLineWidth == 0 {
				flush()
				line = alignmentLine{qs: qcount + 1, ts: tcount + 1}
			}
		}
	}
	flush()

	return lines, numCols, numMatches, numGaps, correct
}

// CSVHitWriter emits one CSV row per hit: query id, target id, match
// start/end on query and target, the extracted aligned substrings, column
// counts, identity, CIGAR string, and strand.
type CSVHitWriter struct {
	w *csv.Writer
}

func NewCSVHitWriter(w io.Writer) *CSVHitWriter {
	return &CSVHitWriter{w: csv.NewWriter(w)}
}

func (cw *CSVHitWriter) Write(query seqcore.Sequence, hits []search.Hit) error {
	for _, hit := range hits {
		lines, numCols, numMatches, _, _ := extractAlignmentLines(query.Symbols, hit.Target.Symbols, hit.Cigar)

		qAligned, tAligned := "", ""
		qs, qe, ts, te := 0, 0, 0, 0
		if len(lines) > 0 {
			qs, ts = lines[0].qs, lines[0].ts
			qe, te = lines[len(lines)-1].qe, lines[len(lines)-1].te
			for _, l := range lines {
				qAligned += l.q
				tAligned += l.t
			}
		}

		record := []string{
			query.Identifier,
			hit.Target.Identifier,
			strconv.Itoa(qs), strconv.Itoa(qe),
			strconv.Itoa(ts), strconv.Itoa(te),
			qAligned,
			tAligned,
			strconv.Itoa(numCols),
			strconv.Itoa(numMatches),
			strconv.FormatFloat(hit.Identity, 'f', 4, 64),
			hit.Cigar.String(),
			strandString(hit.Strand),
		}
		if err := cw.w.Write(record); err != nil {
			return err
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

func strandString(s search.Strand) string {
	switch s {
	case search.Minus:
		return "-"
	case search.Both:
		return "both"
	default:
		return "+"
	}
}
