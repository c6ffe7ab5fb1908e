package search

import (
	"testing"

	"github.com/vchizhov/splitpool/common"
)

func startPosition(t *testing.T) *common.Position {
	t.Helper()
	pos, err := common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	return &pos
}

func TestScoreMoveRanksHashMoveFirst(t *testing.T) {
	pos := startPosition(t)
	moves := common.GenerateLegalMoves(pos)
	if len(moves) < 2 {
		t.Fatal("expected at least two legal moves from the start position")
	}
	hash := moves[0]
	other := moves[1]
	hist := newHistoryTable()
	var killers [2]common.Move

	hashScore := scoreMove(hash, hash, killers, hist, pos.WhiteMove)
	otherScore := scoreMove(other, hash, killers, hist, pos.WhiteMove)
	if hashScore >= otherScore {
		t.Fatalf("hash move score %d should sort before %d", hashScore, otherScore)
	}
}

func TestScoreMoveRanksKillerAboveQuiet(t *testing.T) {
	pos := startPosition(t)
	moves := common.GenerateLegalMoves(pos)
	var quiet, killer common.Move
	for _, m := range moves {
		if m.CapturedPiece() == common.Empty {
			if quiet == common.MoveEmpty {
				quiet = m
			} else if killer == common.MoveEmpty {
				killer = m
				break
			}
		}
	}
	if quiet == common.MoveEmpty || killer == common.MoveEmpty {
		t.Skip("start position did not offer two distinct quiet moves")
	}
	hist := newHistoryTable()
	killers := [2]common.Move{killer, common.MoveEmpty}

	killerScore := scoreMove(killer, common.MoveEmpty, killers, hist, pos.WhiteMove)
	quietScore := scoreMove(quiet, common.MoveEmpty, killers, hist, pos.WhiteMove)
	if killerScore >= quietScore {
		t.Fatalf("killer score %d should sort before quiet score %d", killerScore, quietScore)
	}
}

func TestHistoryTableRatioTracksSuccess(t *testing.T) {
	pos := startPosition(t)
	moves := common.GenerateLegalMoves(pos)
	move := moves[0]
	hist := newHistoryTable()

	if got := hist.Ratio(pos.WhiteMove, move); got != 0 {
		t.Fatalf("untried move ratio = %d, want 0", got)
	}

	hist.Update(pos.WhiteMove, move, true)
	hist.Update(pos.WhiteMove, move, false)
	if got := hist.Ratio(pos.WhiteMove, move); got != 500 {
		t.Fatalf("ratio after one success one failure = %d, want 500", got)
	}
}
