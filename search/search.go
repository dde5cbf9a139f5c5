// Package search implements the global-alignment search pipeline: shared
// k-mer candidate filtering, HSP construction and chaining, and banded
// stitching into a full query-vs-target alignment, per nsearch's
// GlobalSearch / QueryDatabaseSearcherWorker.
package search

import (
	"github.com/twotwotwo/sorts"

	"github.com/nsearch-go/nsearch/align"
	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/database"
	"github.com/nsearch-go/nsearch/kmer"
	"github.com/nsearch-go/nsearch/seqcore"
)

// largeCandidateThreshold is the nonzero-hit candidate count above which
// rankCandidates switches from align.Highscore's batched sort.Slice to a
// parallel sorts.Sort pass, since the db-wide hits vector can have far more
// nonzero entries than maxAccepts+maxRejects ever needs to keep.
const largeCandidateThreshold = 4096

// byHitCount sorts (seqID, hits) pairs by descending hit count. Its only
// purpose is to satisfy sort.Interface for sorts.Sort.
type byHitCount []align.ScoredID

func (b byHitCount) Len() int           { return len(b) }
func (b byHitCount) Less(i, j int) bool { return b[i].Score > b[j].Score }
func (b byHitCount) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b byHitCount) Key(i int) sorts.Key { return -sorts.IntKey(b[i].Score) }

// Strand selects which orientation(s) of the query are searched.
type Strand int

const (
	Plus Strand = iota
	Minus
	Both
)

// Params configures a single Search call.
type Params struct {
	MinIdentity float64
	MaxAccepts  int
	MaxRejects  int
	Strand      Strand
}

// Hit is one accepted alignment between the query and a database target.
type Hit struct {
	TargetID int
	Target   seqcore.Sequence
	Cigar    align.Cigar
	Score    int
	Identity float64
	Strand   Strand
}

// minHSPLength enforces spec's "reject HSP if Length < min(16, |q|/2)".
func minHSPLength(queryLen int) int {
	half := queryLen / 2
	if half < 16 {
		return half
	}
	return 16
}

// Searcher holds the per-worker scratch state: one hits vector sized |D|
// and one uniqueCheck bitset sized U, allocated once and reset per query,
// plus the two aligners. The candidate list, the per-target seed map and
// the aligners' DP cell matrices are still allocated on every query.
type Searcher struct {
	db       *database.Database
	alphabet alphabet.Alphabet
	window   int
	matchFn  align.MatchFunc
	params   align.Params
	extender *align.Extender
	banded   *align.BandedAligner

	hits        []int
	uniqueCheck []bool
}

// NewSearcher builds a Searcher bound to db, reusing db's window size and
// alphabet for k-mer iteration, and alignParams for both aligners.
func NewSearcher(db *database.Database, a alphabet.Alphabet, alignParams align.Params) *Searcher {
	return &Searcher{
		db:          db,
		alphabet:    a,
		window:      db.Window,
		matchFn:     a.DoSymbolsMatch,
		params:      alignParams,
		extender:    align.NewExtender(alignParams),
		banded:      align.NewBandedAligner(alignParams),
		hits:        make([]int, db.NumSeqs()),
		uniqueCheck: make([]bool, db.NumBuckets()),
	}
}

// Search runs the full pipeline for one query, honoring params.Strand. For
// Minus or Both it also searches the reverse complement as an independent
// pass; for Both the plus-strand pass runs first.
func (s *Searcher) Search(query seqcore.Sequence, params Params) []Hit {
	var hits []Hit

	if params.Strand == Plus || params.Strand == Both {
		hits = append(hits, s.searchStrand(query, params, Plus)...)
	}
	if params.Strand == Minus || params.Strand == Both {
		rc := query.ReverseComplement(s.alphabet)
		hits = append(hits, s.searchStrand(rc, params, Minus)...)
	}
	return hits
}

func (s *Searcher) searchStrand(query seqcore.Sequence, params Params, strand Strand) []Hit {
	q := []byte(query.Symbols)

	for i := range s.hits {
		s.hits[i] = 0
	}
	for i := range s.uniqueCheck {
		s.uniqueCheck[i] = false
	}

	// 1. Candidate counting.
	it := kmer.NewIterator(q, s.window, s.alphabet)
	for {
		code, _, ok := it.Next()
		if !ok {
			break
		}
		if code == kmer.Ambiguous {
			continue
		}
		b := s.db.Bucket(code)
		if s.uniqueCheck[b] {
			continue
		}
		s.uniqueCheck[b] = true
		for _, id := range s.db.SeqIDsByKmer(code) {
			s.hits[id]++
		}
	}

	capacity := params.MaxAccepts + params.MaxRejects
	if capacity <= 0 {
		capacity = 1
	}
	candidates := s.rankCandidates(capacity)

	// 2 & 3. Candidate processing with early termination.
	var out []Hit
	accepts, rejects := 0, 0
	for _, cand := range candidates {
		if accepts >= params.MaxAccepts || rejects >= params.MaxRejects {
			break
		}
		target := s.db.Seqs[cand.SeqID]
		hsp, ok := s.alignCandidate(query, target, cand.SeqID)
		if !ok {
			rejects++
			continue
		}
		identity := hsp.Cigar.Identity()
		if identity >= params.MinIdentity {
			out = append(out, Hit{
				TargetID: cand.SeqID,
				Target:   target,
				Cigar:    hsp.Cigar,
				Score:    hsp.Score,
				Identity: identity,
				Strand:   strand,
			})
			accepts++
		} else {
			rejects++
		}
	}
	return out
}

// rankCandidates returns the top-capacity (seqID, hits) pairs from the
// db-wide hits vector by descending hit count. For the common small-database
// case it delegates to align.Highscore's batched sort.Slice; once the
// nonzero-hit candidate count grows past largeCandidateThreshold it instead
// does one parallel sorts.Sort pass over the whole candidate list, which
// beats repeated partial re-sorts once that list no longer fits cheaply in
// a handful of sort.Slice calls.
func (s *Searcher) rankCandidates(capacity int) []align.ScoredID {
	var all []align.ScoredID
	for id, h := range s.hits {
		if h > 0 {
			all = append(all, align.ScoredID{SeqID: id, Score: h})
		}
	}

	if len(all) <= largeCandidateThreshold {
		top := align.NewHighscore(capacity)
		for _, c := range all {
			top.Add(c.SeqID, c.Score)
		}
		return top.Entries()
	}

	sorts.Sort(byHitCount(all))
	if len(all) > capacity {
		all = all[:capacity]
	}
	return all
}

// alignCandidate runs seed collection, seed extension, chaining and
// stitching for one (query, target) pair, returning the single stitched
// HSP covering the full query-vs-target alignment.
func (s *Searcher) alignCandidate(query, target seqcore.Sequence, targetID int) (align.HSP, bool) {
	q := []byte(query.Symbols)
	t := []byte(target.Symbols)

	segments := s.collectSeeds(q, targetID)

	var hsps []align.HSP
	minLen := minHSPLength(len(q))
	for _, seg := range segments {
		hsp := s.extendSeed(q, t, seg)
		if hsp.Length() < minLen {
			continue
		}
		hsps = append(hsps, hsp)
	}
	if len(hsps) == 0 {
		return align.HSP{}, false
	}

	chain := align.Chain(hsps)
	if len(chain) == 0 {
		return align.HSP{}, false
	}

	var cigar align.Cigar
	first := chain[0]
	s.banded.Align(q, t, s.matchFn, first.A1, first.B1, 0, 0, align.Reverse, &cigar)

	score := 0
	for i, hsp := range chain {
		cigar.Append(hsp.Cigar)
		score += hsp.Score
		if i+1 < len(chain) {
			next := chain[i+1]
			score += s.banded.Align(q, t, s.matchFn, hsp.A2+1, hsp.B2+1, next.A1, next.B1, align.Forward, &cigar)
		}
	}
	last := chain[len(chain)-1]
	score += s.banded.Align(q, t, s.matchFn, last.A2+1, last.B2+1, len(q), len(t), align.Forward, &cigar)

	return align.HSP{
		A1: 0, A2: len(q) - 1,
		B1: 0, B2: len(t) - 1,
		Score: score,
		Cigar: cigar,
	}, true
}

// collectSeeds implements §4.5a: re-iterate q's k-mers, and for every
// query position whose k-mer also occurs in target, pair it with every
// occurrence position in target's own k-mer stream, merging touching
// pairs per diagonal via HitTracker.
func (s *Searcher) collectSeeds(q []byte, targetID int) []align.Segment {
	tKmers := s.db.Kmers(targetID)
	positionsByCode := make(map[uint32][]int, len(tKmers))
	for p, code := range tKmers {
		if code == kmer.Ambiguous {
			continue
		}
		positionsByCode[code] = append(positionsByCode[code], p)
	}

	tracker := align.NewHitTracker()
	it := kmer.NewIterator(q, s.window, s.alphabet)
	for {
		code, pq, ok := it.Next()
		if !ok {
			break
		}
		if code == kmer.Ambiguous {
			continue
		}
		for _, pt := range positionsByCode[code] {
			tracker.Add(pq, pt, s.window)
		}
	}
	return tracker.Segments()
}

// extendSeed implements §4.5b: extend Reverse and Forward from a seed
// segment, build the middle CIGAR by walking the seed itself, and sum the
// three scores into one HSP.
func (s *Searcher) extendSeed(q, t []byte, seg align.Segment) align.HSP {
	var leftCigar, rightCigar, middleCigar align.Cigar

	leftScore, a1, b1 := s.extender.Extend(q, t, s.matchFn, seg.QueryPos, seg.TargetPos, align.Reverse, &leftCigar)
	rightScore, a2, b2 := s.extender.Extend(q, t, s.matchFn, seg.QueryPos+seg.Len, seg.TargetPos+seg.Len, align.Forward, &rightCigar)

	middleScore := 0
	for i := 0; i < seg.Len; i++ {
		match := s.matchFn(q[seg.QueryPos+i], t[seg.TargetPos+i])
		if match {
			middleCigar.Add(1, align.Match)
		} else {
			middleCigar.Add(1, align.Mismatch)
		}
		middleScore += s.matchScore(match)
	}

	var cigar align.Cigar
	cigar.Append(leftCigar)
	cigar.Append(middleCigar)
	cigar.Append(rightCigar)

	return align.HSP{
		A1: a1, A2: a2,
		B1: b1, B2: b2,
		Score: leftScore + middleScore + rightScore,
		Cigar: cigar,
	}
}

func (s *Searcher) matchScore(isMatch bool) int {
	if isMatch {
		return s.params.Match
	}
	return s.params.Mismatch
}
