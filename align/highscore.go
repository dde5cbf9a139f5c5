package align

import "sort"

// ScoredID pairs a sequence id with its accumulated shared-k-mer count.
type ScoredID struct {
	SeqID int
	Score int
}

// Highscore keeps the top-N (seqId, score) pairs by score, used to bound
// candidate-sequence processing during the counting phase of a search.
type Highscore struct {
	capacity int
	entries  []ScoredID
}

func NewHighscore(capacity int) *Highscore {
	return &Highscore{capacity: capacity}
}

// Add records score for seqID, inserting it into the bounded top-N set.
// Lower-scoring entries are evicted in batches: only once more than four
// times capacity entries have accumulated (and on every Entries call).
func (h *Highscore) Add(seqID, score int) {
	h.entries = append(h.entries, ScoredID{seqID, score})
	if len(h.entries) <= h.capacity*4 {
		return
	}
	h.trim()
}

func (h *Highscore) trim() {
	sort.Slice(h.entries, func(i, j int) bool { return h.entries[i].Score > h.entries[j].Score })
	if len(h.entries) > h.capacity {
		h.entries = h.entries[:h.capacity]
	}
}

// Entries returns the accumulated entries sorted by descending score,
// truncated to the configured capacity.
func (h *Highscore) Entries() []ScoredID {
	h.trim()
	return h.entries
}
