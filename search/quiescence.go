package search

import (
	"github.com/vchizhov/splitpool/common"
	"github.com/vchizhov/splitpool/pool"
)

// quiescence extends the search along capture sequences past the
// nominal horizon so alphaBeta never evaluates a position with a
// hanging piece on the board, grounded in the teacher's Quiescence.
// It never calls pool.Split: capture sequences are short and narrow
// enough that recruiting helpers here would lose more to overhead
// than it could gain.
func (e *Engine) quiescence(w *pool.Worker, ctx *workerContext, pos *common.Position, ss []stackFrame, ply, alpha, beta int) int {
	e.tm.IncNodes()
	if ply&63 == 0 {
		e.tm.PanicOnHardTimeout()
	}
	if w.CutoffOccurred() {
		panic(errSearchTimeout)
	}

	standPat := Evaluate(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= maxPly-1 {
		return standPat
	}

	var buf [common.MaxMoves]common.Move
	captures := common.GenerateCaptures(buf[:], pos, false)

	best := standPat
	for _, move := range captures {
		var child common.Position
		if !pos.MakeMove(move, &child) {
			continue
		}
		value := -e.quiescence(w, ctx, &child, ss, ply+1, -beta, -alpha)
		if value > best {
			best = value
			if value > alpha {
				alpha = value
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}
