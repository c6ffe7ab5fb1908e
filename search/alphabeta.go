package search

import (
	"github.com/vchizhov/splitpool/common"
	"github.com/vchizhov/splitpool/pool"
)

// alphaBeta is the single recursive search function, grounded in the
// teacher's SearchService.AlphaBeta: transposition table probe, a
// move loop ordered by scoreMove, and — once depth and move count
// clear the pool's gating knobs — a hand-off of the remaining moves to
// pool.Split so other Workers can help finish this node.
func (e *Engine) alphaBeta(w *pool.Worker, ctx *workerContext, pos *common.Position, ss []stackFrame, ply, depth, alpha, beta int, nodeType pool.NodeType) int {
	if depth <= 0 {
		return e.quiescence(w, ctx, pos, ss, ply, alpha, beta)
	}
	if ply&63 == 0 {
		e.tm.PanicOnHardTimeout()
	}
	if w.CutoffOccurred() {
		panic(errSearchTimeout)
	}

	hashMove := common.MoveEmpty
	if move, score, ttDepth, bound, found := e.TT.Read(pos.Key); found && ttDepth >= depth {
		hashMove = move
		switch bound {
		case BoundExact:
			return score
		case BoundLower:
			if score >= beta {
				return score
			}
		case BoundUpper:
			if score <= alpha {
				return score
			}
		}
	}

	frame := &ss[ply]
	moves := common.GenerateLegalMoves(pos)
	if len(moves) == 0 {
		if pos.IsCheck() {
			return -valueMate + ply
		}
		return 0
	}

	mp := newMovePicker(moves, hashMove, frame.killers, e.History, pos.WhiteMove)

	bestValue := -valueInfinite
	bestMove := common.MoveEmpty
	origAlpha := alpha
	moveCount := 0

	for {
		move, ok := mp.Next()
		if !ok {
			break
		}
		var child common.Position
		if !pos.MakeMove(move, &child) {
			continue
		}
		moveCount++
		e.tm.IncNodes()
		frame.currentMove = move

		value := -e.alphaBeta(w, ctx, &child, ss, ply+1, depth-1, -beta, -alpha, childNodeType(nodeType))
		e.recordMoveResult(pos, move, value > alpha)

		if value > bestValue {
			bestValue = value
			bestMove = move
			if value > alpha {
				alpha = value
				if alpha >= beta {
					e.recordKiller(frame, move)
					break
				}
			}
		}

		if e.shouldSplit(w, depth, moveCount, mp.Remaining(), nodeType) {
			sv, sm, entered := e.split(w, ctx, pos, ss, ply, depth, alpha, beta, bestValue, bestMove, moveCount, mp, nodeType)
			if !entered {
				// No slave was actually recruited (the availability check
				// in shouldSplit raced with another master), so the split
				// point was never entered and mp is untouched: keep pulling
				// moves serially instead of abandoning the rest of them.
				continue
			}
			if sv > bestValue {
				bestValue = sv
				bestMove = sm
			}
			break
		}
	}

	e.storeTT(pos.Key, bestMove, bestValue, depth, origAlpha, beta)
	return bestValue
}

func childNodeType(n pool.NodeType) pool.NodeType {
	switch n {
	case pool.NodeTypePV:
		return pool.NodeTypePV
	case pool.NodeTypeCut:
		return pool.NodeTypeAll
	default:
		return pool.NodeTypeCut
	}
}

func (e *Engine) recordKiller(frame *stackFrame, move common.Move) {
	if move == frame.killers[0] {
		return
	}
	frame.killers[1] = frame.killers[0]
	frame.killers[0] = move
}

func (e *Engine) recordMoveResult(pos *common.Position, move common.Move, raisedAlpha bool) {
	if move.CapturedPiece() != common.Empty {
		return
	}
	e.History.Update(pos.WhiteMove, move, raisedAlpha)
}

func (e *Engine) storeTT(key uint64, move common.Move, value, depth, alpha, beta int) {
	bound := BoundExact
	switch {
	case value <= alpha:
		bound = BoundUpper
	case value >= beta:
		bound = BoundLower
	}
	e.TT.Update(key, move, value, depth, bound)
}

// shouldSplit decides whether the remaining moves at this node are
// worth handing to pool.Split: deep enough, with enough moves left
// that recruiting helpers can pay for itself, not so close to a
// cutoff that helpers would likely search wasted work, and — the
// pool's own slave_available precheck — there is actually a Worker
// free to recruit right now. Without that last check a single-Worker
// pool would "split" into a collaborator that finds nobody to recruit
// and declines, silently abandoning every move after the first. Root
// nodes never split: searchRoot searches its moves one by one.
func (e *Engine) shouldSplit(w *pool.Worker, depth, moveCount, remaining int, nodeType pool.NodeType) bool {
	if depth < e.minSplitDepth {
		return false
	}
	if moveCount < 1 || remaining < 1 {
		return false
	}
	if nodeType == pool.NodeTypeCut {
		return false
	}
	return e.Pool.SlaveAvailable(w)
}

// split hands the position and remaining move picker to the pool and
// returns once every participant has finished, or immediately if the
// pool declined to enter the split point at all. It is the only caller
// of pool.Split in this repository.
func (e *Engine) split(w *pool.Worker, ctx *workerContext, pos *common.Position, ss []stackFrame, ply, depth, alpha, beta, bestValue int, bestMove common.Move, moveCount int, mp *movePicker, nodeType pool.NodeType) (int, common.Move, bool) {
	req := pool.SplitRequest{
		Position:   pos,
		Stack:      ss[:ply+1],
		Ply:        ply,
		Alpha:      alpha,
		Beta:       beta,
		BestValue:  bestValue,
		BestMove:   bestMove,
		Depth:      depth,
		MoveCount:  moveCount,
		MovePicker: mp,
		NodeType:   nodeType,
	}
	return e.Pool.Split(w, req, false)
}

// searchSplitPoint is what Engine.Run dispatches to once a Worker
// (master or recruited slave) discovers it is working at a split
// point rather than at the root. Every participant pulls moves from
// the same shared movePicker until it is exhausted or a cutoff
// occurs; the master additionally waits for every slave to drain
// before returning, so pool.Split never reports a result while a
// slave is still mid-evaluation of a move it already pulled.
func (e *Engine) searchSplitPoint(w *pool.Worker, ctx *workerContext, sp *pool.SplitPoint) {
	index := w.Index()
	isMaster := sp.MasterWorker() == w

	stack := e.localStack(ctx, sp)

	// Deferred so that a cutoff or timeout panic unwinding the loop
	// below still clears this participant's bit and still makes the
	// master wait for the split to drain.
	defer func() {
		sp.ClearParticipant(index)
		if isMaster {
			sp.WaitDrained(index)
		}
	}()

	for {
		e.tm.PanicOnHardTimeout()
		if w.CutoffOccurred() {
			break
		}

		sp.Lock()
		if sp.Cutoff || sp.Alpha >= sp.Beta {
			sp.Unlock()
			break
		}
		mp, _ := sp.MovePicker.(*movePicker)
		move, ok := mp.Next()
		if !ok {
			sp.Unlock()
			break
		}
		alpha := sp.Alpha
		beta := sp.Beta
		depth := sp.Depth
		nodeType := sp.NodeType
		basePos := sp.Position
		sp.Unlock()

		var child common.Position
		if !basePos.MakeMove(move, &child) {
			continue
		}
		e.tm.IncNodes()

		value := -e.alphaBeta(w, ctx, &child, stack, sp.Ply+1, depth-1, -beta, -alpha, childNodeType(nodeType))
		e.recordMoveResult(basePos, move, value > alpha)

		sp.Lock()
		if value > sp.BestValue {
			sp.BestValue = value
			sp.BestMove = move
			if value > sp.Alpha {
				sp.Alpha = value
				if sp.Alpha >= sp.Beta {
					sp.Cutoff = true
				}
			}
		}
		sp.Unlock()
	}
}

// localStack copies the master's stack up to and including the split
// ply into this Worker's own stack, so deeper recursion writes to a
// slice no one else touches. Grounded in the original's memcpy of the
// parent's last few Stack frames into each slave's local array before
// it proceeds past the split point.
func (e *Engine) localStack(ctx *workerContext, sp *pool.SplitPoint) []stackFrame {
	shared, _ := sp.Stack.([]stackFrame)
	copy(ctx.stack[:len(shared)], shared)
	return ctx.stack
}
