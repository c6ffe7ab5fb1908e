package search

import (
	"testing"

	"github.com/vchizhov/splitpool/common"
)

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	pos := startPosition(t)
	if got := Evaluate(pos); got != 0 {
		t.Fatalf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white, err := common.NewPositionFromFEN("4k3/8/8/8/8/8/8/4KQ2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	black, err := common.NewPositionFromFEN("4k3/8/8/8/8/8/8/4KQ2 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if Evaluate(&white) != -Evaluate(&black) {
		t.Fatalf("Evaluate should flip sign with side to move: %d vs %d", Evaluate(&white), Evaluate(&black))
	}
	if Evaluate(&white) <= 0 {
		t.Fatalf("white up a queen should evaluate positive, got %d", Evaluate(&white))
	}
}
