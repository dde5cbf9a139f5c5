// Package align implements the alignment core: the CIGAR model, the
// x-drop extension and banded global-alignment DP kernels, HSP chaining,
// and the supporting seed-collection data structures (RangeMerger,
// HitTracker, Highscore), grounded on nsearch's Alignment/* headers.
package align

import (
	"fmt"
	"strings"
)

// Op is one CIGAR run's alignment operation.
type Op byte

const (
	Match Op = iota
	Mismatch
	Insertion // consumes query only
	Deletion  // consumes target only
)

func (o Op) Byte() byte {
	switch o {
	case Match:
		return 'M'
	case Mismatch:
		return 'X'
	case Insertion:
		return 'I'
	case Deletion:
		return 'D'
	}
	return '?'
}

// Entry is one run-length-encoded CIGAR run.
type Entry struct {
	Count int
	Op    Op
}

// Cigar is an ordered sequence of runs; adjacent entries always differ in
// Op (Add enforces this).
type Cigar []Entry

// Add appends count consecutive occurrences of op, merging into the last
// run when it shares the same Op. A zero count is a no-op.
func (c *Cigar) Add(count int, op Op) {
	if count <= 0 {
		return
	}
	if n := len(*c); n > 0 && (*c)[n-1].Op == op {
		(*c)[n-1].Count += count
		return
	}
	*c = append(*c, Entry{Count: count, Op: op})
}

// AddOne appends a single occurrence of op.
func (c *Cigar) AddOne(op Op) { c.Add(1, op) }

// Append concatenates other onto c, merging the boundary run if both sides
// share an Op.
func (c *Cigar) Append(other Cigar) {
	for _, e := range other {
		c.Add(e.Count, e.Op)
	}
}

// Reverse returns a new Cigar holding c's runs in reverse order; c itself
// is left unchanged.
func (c Cigar) Reverse() Cigar {
	out := make(Cigar, len(c))
	for i, e := range c {
		out[len(c)-1-i] = e
	}
	return out
}

// Lengths returns the total number of query and target columns consumed.
func (c Cigar) Lengths() (queryLen, targetLen int) {
	for _, e := range c {
		switch e.Op {
		case Match, Mismatch:
			queryLen += e.Count
			targetLen += e.Count
		case Insertion:
			queryLen += e.Count
		case Deletion:
			targetLen += e.Count
		}
	}
	return
}

// trimTerminal returns the interior run slice, skipping a single leading
// and/or trailing Insertion/Deletion run.
func (c Cigar) trimTerminal() Cigar {
	start, end := 0, len(c)
	if start < end && (c[start].Op == Insertion || c[start].Op == Deletion) {
		start++
	}
	if end > start && (c[end-1].Op == Insertion || c[end-1].Op == Deletion) {
		end--
	}
	return c[start:end]
}

// Trim is the exported form of trimTerminal, used by display code that
// renders only the interior of an alignment (Alnout::Writer skips a
// leading/trailing gap run before extracting alignment lines).
func (c Cigar) Trim() Cigar { return c.trimTerminal() }

// LeadingConsumed returns the query and target columns consumed by a
// skipped leading Insertion/Deletion run, i.e. the 0-based offsets at
// which the trimmed, displayed portion of the alignment begins.
func (c Cigar) LeadingConsumed() (queryOffset, targetOffset int) {
	if len(c) == 0 {
		return 0, 0
	}
	switch c[0].Op {
	case Insertion:
		return c[0].Count, 0
	case Deletion:
		return 0, c[0].Count
	}
	return 0, 0
}

// Identity computes matches / (matches + mismatches + interior gaps),
// excluding a leading/trailing gap run. Returns 0 for an all-gap or empty
// CIGAR.
func (c Cigar) Identity() float64 {
	interior := c.trimTerminal()

	var matches, mismatches, gapCols int
	for _, e := range interior {
		switch e.Op {
		case Match:
			matches += e.Count
		case Mismatch:
			mismatches += e.Count
		case Insertion, Deletion:
			gapCols += e.Count
		}
	}
	total := matches + mismatches + gapCols
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// String renders the CIGAR in the conventional "<count><op>..." form.
func (c Cigar) String() string {
	var b strings.Builder
	for _, e := range c {
		fmt.Fprintf(&b, "%d%c", e.Count, e.Op.Byte())
	}
	return b.String()
}
