package align

import "math"

// HSP is a high-scoring segment pair: a gapped local alignment between
// [A1,A2] of the query and [B1,B2] of the target, both ends inclusive.
type HSP struct {
	A1, A2 int
	B1, B2 int
	Score  int
	Cigar  Cigar
}

// Length is the HSP's span along its longer axis.
func (h HSP) Length() int {
	qLen := h.A2 - h.A1 + 1
	tLen := h.B2 - h.B1 + 1
	if qLen > tLen {
		return qLen
	}
	return tLen
}

// Overlaps reports whether h and o overlap on either axis (closed
// intervals).
func (h HSP) Overlaps(o HSP) bool {
	return (h.A1 <= o.A2 && o.A1 <= h.A2) || (h.B1 <= o.B2 && o.B1 <= h.B2)
}

// distance is the Euclidean distance between the gap separating h and o's
// boxes along both axes (0 if they touch or overlap on an axis).
func (h HSP) distance(o HSP) float64 {
	da := axisGap(h.A1, h.A2, o.A1, o.A2)
	db := axisGap(h.B1, h.B2, o.B1, o.B2)
	return math.Sqrt(float64(da*da + db*db))
}

func axisGap(a1, a2, b1, b2 int) int {
	if a2 < b1 {
		return b1 - a2 - 1
	}
	if b2 < a1 {
		return a1 - b2 - 1
	}
	return 0
}
