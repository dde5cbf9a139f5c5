package merge

import "testing"

func TestPosteriorMatchOfTwoHighQualitiesIsHigherThanEither(t *testing.T) {
	q := PosteriorMatch(40, 40)
	if q <= 40 {
		t.Fatalf("expected agreeing high-quality bases to raise confidence, got %d", q)
	}
}

func TestPosteriorMatchIsSymmetric(t *testing.T) {
	if PosteriorMatch(20, 35) != PosteriorMatch(35, 20) {
		t.Fatal("expected PosteriorMatch to be symmetric in its arguments")
	}
}

func TestPosteriorMismatchIsSymmetric(t *testing.T) {
	if PosteriorMismatch(20, 35) != PosteriorMismatch(35, 20) {
		t.Fatal("expected PosteriorMismatch to be symmetric in its arguments")
	}
}

func TestPosteriorScoresClampToMaxScore(t *testing.T) {
	if PosteriorMatch(41, 41) > MaxScore {
		t.Fatalf("posterior match score exceeds MaxScore")
	}
}
