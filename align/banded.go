package align

// BandedAligner computes an affine-gap global alignment over a rectangle
// around the main diagonal, per nsearch's BandedAlign: gaps touching a
// sequence boundary get the cheap terminal rate, interior gaps the
// expensive one.
type BandedAligner struct {
	params Params
}

func NewBandedAligner(params Params) *BandedAligner {
	return &BandedAligner{params: params}
}

type bandedCell struct {
	score      int
	eScore     int // horizontal gap (Insertion, consumes A), valid for x>0
	fScore     int // vertical gap (Deletion, consumes B), valid for y>0
	mainFrom   int8 // 0 diag, 1 hgap, 2 vgap, -1 out of band, -2 origin
	eOpened    bool
	fOpened    bool
}

func bandedAIdx(startA, x int, dir Direction) int {
	if dir == Forward {
		return startA + x - 1
	}
	return startA - x
}

// Align computes the alignment score over [startA..endA] x [startB..endB]
// (Forward: endA >= startA; Reverse: endA <= startA, symmetric on B) and
// appends the backtrace to cigar. Returns the alignment score.
func (al *BandedAligner) Align(A, B []byte, doMatch MatchFunc, startA, startB, endA, endB int, dir Direction, cigar *Cigar) int {
	width := abs(endA-startA) + 1
	height := abs(endB-startB) + 1
	if width == 1 && height == 1 {
		return 0
	}

	p := al.params
	bw := p.Bandwidth

	cells := make([][]bandedCell, height)
	for y := range cells {
		cells[y] = make([]bandedCell, width)
		for x := range cells[y] {
			cells[y][x] = bandedCell{score: minScore, eScore: minScore, fScore: minScore, mainFrom: -1}
		}
	}

	lenA, lenB := len(A), len(B)
	isTerminalA := func(x int) bool {
		aIdx := bandedAIdx(startA, x, dir)
		return aIdx == 0 || aIdx == lenA-1
	}
	isTerminalB := func(y int) bool {
		bIdx := bandedAIdx(startB, y, dir)
		return bIdx == 0 || bIdx == lenB-1
	}

	cells[0][0] = bandedCell{score: 0, eScore: minScore, fScore: minScore, mainFrom: -2}

	for y := 0; y < height; y++ {
		left := y - bw
		if left < 0 {
			left = 0
		}
		right := y + bw
		if right > width-1 {
			right = width - 1
		}
		if y == height-1 {
			right = width - 1
		}

		for x := left; x <= right; x++ {
			if x == 0 && y == 0 {
				continue
			}

			// E: horizontal gap, from (x-1, y) in the same row.
			e := minScore
			eOpened := true
			if x > 0 {
				termA := isTerminalA(x)
				prevMain := cells[y][x-1].score
				prevE := cells[y][x-1].eScore
				open, ext := minScore, minScore
				if prevMain > minScore/2 {
					open = prevMain + p.gapOpen(termA) + p.gapExtend(termA)
				}
				if prevE > minScore/2 {
					ext = prevE + p.gapExtend(termA)
				}
				if ext > open {
					e, eOpened = ext, false
				} else {
					e, eOpened = open, true
				}
			}

			// F: vertical gap, from (x, y-1) in the previous row.
			f := minScore
			fOpened := true
			if y > 0 {
				termB := isTerminalB(y)
				prevMain := cells[y-1][x].score
				prevF := cells[y-1][x].fScore
				open, ext := minScore, minScore
				if prevMain > minScore/2 {
					open = prevMain + p.gapOpen(termB) + p.gapExtend(termB)
				}
				if prevF > minScore/2 {
					ext = prevF + p.gapExtend(termB)
				}
				if ext > open {
					f, fOpened = ext, false
				} else {
					f, fOpened = open, true
				}
			}

			// Diag: match/mismatch, from (x-1, y-1).
			diag := minScore
			if x > 0 && y > 0 {
				prevDiag := cells[y-1][x-1].score
				if prevDiag > minScore/2 {
					aIdx, bIdx := bandedAIdx(startA, x, dir), bandedAIdx(startB, y, dir)
					diag = prevDiag + p.matchScore(doMatch(A[aIdx], B[bIdx]))
				}
			}

			score := diag
			from := int8(0)
			if e > score {
				score, from = e, 1
			}
			if f > score {
				score, from = f, 2
			}

			cells[y][x] = bandedCell{score: score, eScore: e, fScore: f, mainFrom: from, eOpened: eOpened, fOpened: fOpened}
		}
	}

	last := cells[height-1][width-1]
	ops := al.backtrace(A, B, doMatch, cells, startA, startB, width-1, height-1, dir)
	if dir == Forward {
		for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
			ops[i], ops[j] = ops[j], ops[i]
		}
	}
	for _, op := range ops {
		cigar.AddOne(op)
	}

	return last.score
}

func (al *BandedAligner) backtrace(A, B []byte, doMatch MatchFunc, cells [][]bandedCell, startA, startB, x, y int, dir Direction) []Op {
	var ops []Op
	state := 0 // 0 main, 1 hgap(E), 2 vgap(F)
	for !(x == 0 && y == 0 && state == 0) {
		switch state {
		case 0:
			switch cells[y][x].mainFrom {
			case 0:
				aIdx, bIdx := bandedAIdx(startA, x, dir), bandedAIdx(startB, y, dir)
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
			opened := cells[y][x].eOpened
			x--
			if opened {
				state = 0
			}
		case 2:
			ops = append(ops, Deletion)
			opened := cells[y][x].fOpened
			y--
			if opened {
				state = 0
			}
		}
	}
	return ops
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
