package align

// Segment is a seed pair spanning len positions starting at (QueryPos,
// TargetPos), produced once overlapping same-diagonal k-mer hits have been
// coalesced.
type Segment struct {
	QueryPos, TargetPos, Len int
}

// HitTracker buckets k-mer hits by diagonal (targetPos - queryPos) and
// merges same-diagonal windows into contiguous seed segments.
type HitTracker struct {
	byDiagonal map[int]*RangeMerger
}

func NewHitTracker() *HitTracker {
	return &HitTracker{byDiagonal: make(map[int]*RangeMerger)}
}

// Add records that k-mer of width w occurs at queryPos in the query and
// targetPos in the target.
func (h *HitTracker) Add(queryPos, targetPos, w int) {
	d := targetPos - queryPos
	m, ok := h.byDiagonal[d]
	if !ok {
		m = &RangeMerger{}
		h.byDiagonal[d] = m
	}
	m.Insert(queryPos, queryPos+w)
}

// Segments returns every coalesced seed segment across all diagonals.
func (h *HitTracker) Segments() []Segment {
	var out []Segment
	for d, m := range h.byDiagonal {
		for _, r := range m.Ranges() {
			out = append(out, Segment{QueryPos: r.Start, TargetPos: r.Start + d, Len: r.End - r.Start})
		}
	}
	return out
}
