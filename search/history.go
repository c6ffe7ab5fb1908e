package search

import (
	"sync/atomic"

	"github.com/vchizhov/splitpool/common"
)

// historyTable tracks how often a quiet move has produced a cutoff
// relative to how often it was tried, indexed by (side, moving piece,
// destination square) exactly as the teacher's historytable.go packs
// its index. Every field is accessed with the sync/atomic package
// because slaves at different split points update the same table
// concurrently with no other coordination — the teacher's own
// pieceSquareIndex scheme already assumes lock-free concurrent use.
type historyTable struct {
	success [2 * 8 * 64]int32
	try     [2 * 8 * 64]int32
}

func newHistoryTable() *historyTable {
	return &historyTable{}
}

func historyIndex(whiteMove bool, move common.Move) int {
	i := (move.MovingPiece() << 6) | move.To()
	if whiteMove {
		return i
	}
	return i | (1 << 9)
}

func (h *historyTable) Update(whiteMove bool, move common.Move, good bool) {
	i := historyIndex(whiteMove, move)
	atomic.AddInt32(&h.try[i], 1)
	if good {
		atomic.AddInt32(&h.success[i], 1)
	}
}

// Ratio returns a 0..1000 score: higher means this move has cut off
// more often in similar positions. An untried move scores 0, the same
// as a move that has never cut off, which is deliberate:
// untried quiet moves fall behind tried-and-decent ones in ordering.
func (h *historyTable) Ratio(whiteMove bool, move common.Move) int {
	i := historyIndex(whiteMove, move)
	try := atomic.LoadInt32(&h.try[i])
	if try == 0 {
		return 0
	}
	success := atomic.LoadInt32(&h.success[i])
	return int(int64(success) * 1000 / int64(try))
}
