package align

// Extender runs x-drop gapped local extension from a seed point, per
// nsearch's ExtendAlign kernel: a single (non-affine) gap cost, a full DP
// cell matrix filled row by row, pruned by a running best-score drop-off.
type Extender struct {
	params Params
}

func NewExtender(params Params) *Extender {
	return &Extender{params: params}
}

type extendCell struct {
	score      int
	vgapScore  int
	mainFrom   int8 // 0 diag, 1 hgap, 2 vgap, -1 pruned/unreached, -2 origin
	vOpened    bool
	hOpened    bool
}

func extAIdx(startA, x int, dir Direction) int {
	if dir == Forward {
		return startA + x - 1
	}
	return startA - x
}

// Extend runs the extension and appends the resulting alignment to cigar
// in true sequence order (ascending positions in A and B) for either
// direction, so callers append a Reverse-direction result and a
// Forward-direction result as-is.
//
// Returns the best score reached and the absolute, inclusive position in
// A and B at which that score was reached (the new HSP boundary on that
// side of the seed).
func (e *Extender) Extend(A, B []byte, doMatch MatchFunc, startA, startB int, dir Direction, cigar *Cigar) (score, bestA, bestB int) {
	p := e.params
	gapOpenExtend := p.InteriorGapOpen + p.InteriorGapExtend

	var maxCols, maxRows int
	if dir == Forward {
		maxCols = len(A) - startA + 1
		maxRows = len(B) - startB + 1
	} else {
		maxCols = startA + 1
		maxRows = startB + 1
	}
	if maxCols < 1 {
		maxCols = 1
	}
	if maxRows < 1 {
		maxRows = 1
	}

	cells := make([][]extendCell, maxRows)
	for y := range cells {
		cells[y] = make([]extendCell, maxCols)
	}

	bestScore := 0
	bestX, bestY := 0, 0

	// Row 0: pure horizontal gap chain from the origin.
	cells[0][0] = extendCell{score: 0, mainFrom: -2}
	for x := 1; x < maxCols; x++ {
		raw := cells[0][x-1].score + p.InteriorGapExtend
		if x == 1 {
			raw = 0 + gapOpenExtend
		}
		if bestScore-raw > p.XDrop {
			cells[0][x].mainFrom = -1
			cells[0][x].score = minScore
			// Further columns only get worse; stop extending row 0.
			for x2 := x + 1; x2 < maxCols; x2++ {
				cells[0][x2].mainFrom = -1
				cells[0][x2].score = minScore
			}
			break
		}
		cells[0][x] = extendCell{score: raw, mainFrom: 1, hOpened: x == 1}
		cells[0][x].vgapScore = minScore
	}
	cells[0][0].vgapScore = minScore

	for y := 1; y < maxRows; y++ {
		rowGap := minScore
		anyValid := false

		for x := 0; x < maxCols; x++ {
			var diag int = minScore
			if x > 0 {
				prev := cells[y-1][x-1]
				if prev.score > minScore/2 {
					aIdx, bIdx := extAIdx(startA, x, dir), extAIdx(startB, y, dir)
					diag = prev.score + p.matchScore(doMatch(A[aIdx], B[bIdx]))
				}
			} else {
				diag = minScore
			}

			vgapOpen := minScore
			vgapExtend := minScore
			prevUp := cells[y-1][x]
			if prevUp.score > minScore/2 {
				vgapOpen = prevUp.score + gapOpenExtend
			}
			if prevUp.vgapScore > minScore/2 {
				vgapExtend = prevUp.vgapScore + p.InteriorGapExtend
			}
			vgap := minScore
			vOpened := true
			if vgapExtend > vgapOpen {
				vgap = vgapExtend
				vOpened = false
			} else {
				vgap = vgapOpen
				vOpened = true
			}

			hgapOpen := minScore
			hgapExtend := minScore
			if x > 0 {
				prevLeft := cells[y][x-1]
				if prevLeft.score > minScore/2 {
					hgapOpen = prevLeft.score + gapOpenExtend
				}
				if rowGap > minScore/2 {
					hgapExtend = rowGap + p.InteriorGapExtend
				}
			}
			hgap := minScore
			hOpened := true
			if hgapExtend > hgapOpen {
				hgap = hgapExtend
				hOpened = false
			} else {
				hgap = hgapOpen
				hOpened = true
			}
			rowGap = hgap

			score := diag
			from := int8(0)
			if hgap > score {
				score = hgap
				from = 1
			}
			if vgap > score {
				score = vgap
				from = 2
			}

			if score <= minScore/2 || bestScore-score > p.XDrop {
				cells[y][x] = extendCell{score: minScore, vgapScore: minScore, mainFrom: -1}
				continue
			}

			anyValid = true
			cells[y][x] = extendCell{score: score, vgapScore: vgap, mainFrom: from, vOpened: vOpened, hOpened: hOpened}

			if score > bestScore {
				bestScore = score
				bestX, bestY = x, y
			}
		}

		if !anyValid {
			break
		}
	}

	ops := e.backtrace(A, B, doMatch, cells, startA, startB, bestX, bestY, dir)
	if dir == Forward {
		for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
			ops[i], ops[j] = ops[j], ops[i]
		}
	}
	for _, op := range ops {
		cigar.AddOne(op)
	}

	bestA = extAIdx(startA, bestX, dir)
	bestBpos := extAIdx(startB, bestY, dir)
	return bestScore, bestA, bestBpos
}

func (e *Extender) backtrace(A, B []byte, doMatch MatchFunc, cells [][]extendCell, startA, startB, x, y int, dir Direction) []Op {
	var ops []Op
	state := 0 // 0 main, 1 hgap, 2 vgap
	for !(x == 0 && y == 0 && state == 0) {
		switch state {
		case 0:
			switch cells[y][x].mainFrom {
			case 0:
				aIdx, bIdx := extAIdx(startA, x, dir), extAIdx(startB, y, dir)
				if doMatch(A[aIdx], B[bIdx]) {
					ops = append(ops, Match)
				} else {
					ops = append(ops, Mismatch)
				}
				x--
				y--
			case 1:
				state = 1
			case 2:
				state = 2
			default:
				x, y = 0, 0
			}
		case 1:
			ops = append(ops, Insertion)
			opened := cells[y][x].hOpened
			x--
			if opened {
				state = 0
			}
		case 2:
			ops = append(ops, Deletion)
			opened := cells[y][x].vOpened
			y--
			if opened {
				state = 0
			}
		}
	}
	return ops
}
