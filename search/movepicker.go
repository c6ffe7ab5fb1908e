package search

import "github.com/vchizhov/splitpool/common"

// movePicker is an incremental selection-sort cursor over a scored
// move list. Pulling a private picker (one not attached to a split
// point) needs no synchronization since only the owning Worker ever
// touches it. Once a split point shares a picker across Workers, every
// Next call is made while holding that SplitPoint's mutex — movePicker
// itself stays lock-free, matching the teacher's separation between
// move ordering and the locking that protects it.
type movePicker struct {
	moves  []common.Move
	scores []int
	idx    int
}

func newMovePicker(moves []common.Move, hashMove common.Move, killers [2]common.Move, hist *historyTable, whiteMove bool) *movePicker {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(m, hashMove, killers, hist, whiteMove)
	}
	return &movePicker{moves: moves, scores: scores}
}

// Next returns the next-best unpulled move, or ok=false once exhausted.
func (mp *movePicker) Next() (move common.Move, ok bool) {
	if mp.idx >= len(mp.moves) {
		return common.MoveEmpty, false
	}
	best := mp.idx
	for i := mp.idx + 1; i < len(mp.moves); i++ {
		if mp.scores[i] < mp.scores[best] {
			best = i
		}
	}
	mp.moves[mp.idx], mp.moves[best] = mp.moves[best], mp.moves[mp.idx]
	mp.scores[mp.idx], mp.scores[best] = mp.scores[best], mp.scores[mp.idx]
	move = mp.moves[mp.idx]
	mp.idx++
	return move, true
}

// Remaining reports how many moves have not yet been pulled.
func (mp *movePicker) Remaining() int {
	return len(mp.moves) - mp.idx
}
