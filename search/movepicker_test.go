package search

import (
	"testing"

	"github.com/vchizhov/splitpool/common"
)

func TestMovePickerReturnsEveryMoveExactlyOnce(t *testing.T) {
	pos := startPosition(t)
	moves := common.GenerateLegalMoves(pos)
	hist := newHistoryTable()
	var killers [2]common.Move

	mp := newMovePicker(moves, common.MoveEmpty, killers, hist, pos.WhiteMove)

	seen := make(map[common.Move]bool, len(moves))
	count := 0
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if seen[m] {
			t.Fatalf("move %v returned twice", m)
		}
		seen[m] = true
		count++
	}
	if count != len(moves) {
		t.Fatalf("picked %d moves, want %d", count, len(moves))
	}
	if mp.Remaining() != 0 {
		t.Fatalf("Remaining() = %d after exhaustion, want 0", mp.Remaining())
	}
}

func TestMovePickerOrdersHashMoveFirst(t *testing.T) {
	pos := startPosition(t)
	moves := common.GenerateLegalMoves(pos)
	hash := moves[len(moves)-1]
	hist := newHistoryTable()
	var killers [2]common.Move

	mp := newMovePicker(moves, hash, killers, hist, pos.WhiteMove)
	first, ok := mp.Next()
	if !ok || first != hash {
		t.Fatalf("first move = %v, want hash move %v", first, hash)
	}
}
