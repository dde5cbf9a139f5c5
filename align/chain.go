package align

import "sort"

// MaxHSPJoinDistance bounds how far an HSP's box may sit from the nearest
// already-accepted HSP and still be chained.
const MaxHSPJoinDistance = 16

// Chain greedily selects a non-overlapping, distance-bounded subset of
// hsps (sorted internally by descending score) and returns it ordered by
// (A1, B1) for stitching.
func Chain(hsps []HSP) []HSP {
	byScore := make([]HSP, len(hsps))
	copy(byScore, hsps)
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].Score > byScore[j].Score })

	var accepted []HSP
	for _, h := range byScore {
		if !canJoin(accepted, h) {
			continue
		}
		accepted = append(accepted, h)
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].A1 != accepted[j].A1 {
			return accepted[i].A1 < accepted[j].A1
		}
		return accepted[i].B1 < accepted[j].B1
	})
	return accepted
}

func canJoin(accepted []HSP, h HSP) bool {
	if len(accepted) == 0 {
		return true
	}
	near := false
	for _, a := range accepted {
		if a.Overlaps(h) {
			return false
		}
		if a.distance(h) <= MaxHSPJoinDistance {
			near = true
		}
	}
	return near
}
