package merge

import (
	"math"
	"sync"
)

// MaxScore is the highest representable Phred quality score.
const MaxScore = 41

// MinQual is the Phred+33 ASCII offset, matching seqcore's quality encoding.
const MinQual = 33

// qscore holds the process-wide lazily-built posterior-Q tables, computed
// once per process per Edgar & Flyvbjerg (2015).
type qscore struct {
	match    [MaxScore + 1][MaxScore + 1]int
	mismatch [MaxScore + 1][MaxScore + 1]int
}

var (
	qscoreOnce     sync.Once
	qscoreInstance qscore
)

func scoreToProbability(q int) float64 {
	return math.Pow(10, -float64(q)/10.0)
}

// ErrorProbability converts a Phred quality score (not an ASCII byte) to
// its base-call error probability, 10^(-Q/10). Exported for the expected-
// error read filter, which sums this across a whole read's quality string.
func ErrorProbability(q int) float64 {
	return scoreToProbability(q)
}

func probabilityToScore(p float64) int {
	q := int(math.Round(-10.0 * math.Log10(p)))
	if q > MaxScore {
		q = MaxScore
	}
	return q
}

func buildQScoreTables() qscore {
	var t qscore
	for qx := 0; qx <= MaxScore; qx++ {
		px := scoreToProbability(qx)
		for qy := 0; qy <= MaxScore; qy++ {
			py := scoreToProbability(qy)

			pMatch := (px * py / 3.0) / (1.0 - px - py + 4.0*px*py/3.0)

			pLo, pHi := px, py
			if pLo > pHi {
				pLo, pHi = pHi, pLo
			}
			pMismatch := pLo * (1.0 - pHi/3.0) / (px + py - 4.0*px*py/3.0)

			t.match[qx][qy] = probabilityToScore(pMatch)
			t.mismatch[qx][qy] = probabilityToScore(pMismatch)
		}
	}
	return t
}

func qscoreTables() *qscore {
	qscoreOnce.Do(func() {
		qscoreInstance = buildQScoreTables()
	})
	return &qscoreInstance
}

// PosteriorMatch returns the posterior quality score for two observations
// of the same base, given their Phred quality scores (not ASCII bytes).
func PosteriorMatch(q1, q2 int) int {
	return qscoreTables().match[q1][q2]
}

// PosteriorMismatch returns the posterior quality score for two disagreeing
// observations of a base, given their Phred quality scores.
func PosteriorMismatch(q1, q2 int) int {
	return qscoreTables().mismatch[q1][q2]
}
