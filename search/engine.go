package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vchizhov/splitpool/common"
	"github.com/vchizhov/splitpool/pool"
)

// Engine is the external collaborator pool.ThreadPool drives: it
// supplies the actual alpha-beta search that runs inside every
// Worker's Run call, and it is the only thing in this repository that
// calls pool.Split. Grounded in the teacher's SearchService
// (engine/searchservice.go): one struct owning the transposition
// table, history table and time manager, with a Search entry point
// iterative deepening drives.
type Engine struct {
	Pool    *pool.ThreadPool
	TT      *TranspositionTable
	History *historyTable

	minSplitDepth int

	mu   sync.Mutex
	ctxs map[int]*workerContext

	tm *TimeManager

	rootPosition common.Position
	rootMoves    []common.Move
	progress     func(common.SearchInfo)

	bestMove common.Move
}

type workerContext struct {
	stack []stackFrame
}

// NewEngine wires a fresh Engine to an as-yet-unstarted pool. cfg's
// split-gating knobs are duplicated here rather than read back off the
// pool, because deciding whether a node is worth splitting is the
// search collaborator's call, not the pool's.
func NewEngine(p *pool.ThreadPool, ttSizeMB int, cfg pool.PoolConfig) *Engine {
	return &Engine{
		Pool:          p,
		TT:            NewTranspositionTable(ttSizeMB),
		History:       newHistoryTable(),
		minSplitDepth: cfg.MinSplitDepth,
		ctxs:          make(map[int]*workerContext),
	}
}

func (e *Engine) workerContextFor(w *pool.Worker) *workerContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.ctxs[w.Index()]
	if !ok {
		ctx = &workerContext{stack: newStack()}
		e.ctxs[w.Index()] = ctx
	}
	return ctx
}

// Run implements pool.Searcher. It is called on a Worker's goroutine
// whenever the pool wakes it with work assigned, either at the root
// (w.ActiveSplit() == nil) or at a split point it just joined.
func (e *Engine) Run(w *pool.Worker) {
	defer func() {
		if r := recover(); r != nil {
			if r != errSearchTimeout {
				panic(r)
			}
		}
	}()

	ctx := e.workerContextFor(w)
	if sp := w.ActiveSplit(); sp != nil {
		e.searchSplitPoint(w, ctx, sp)
		return
	}
	e.searchRoot(w, ctx)
}

// Search runs iterative deepening on positions[len-1] and reports
// progress through params.Progress, grounded in the teacher's
// IterateSearch. It blocks until the search finishes or ctx is
// cancelled, then returns the move it would play.
func (e *Engine) Search(ctx context.Context, params common.SearchParams) common.Move {
	pos := params.Positions[len(params.Positions)-1]
	e.rootPosition = pos
	e.rootMoves = genRootMoves(&pos)
	e.progress = params.Progress
	e.bestMove = common.MoveEmpty

	think, infinite := computeThinkTime(params.Limits)
	e.tm = NewTimeManager(ctx, think, infinite)
	e.Pool.SetTimeCheck(func() { e.tm.PollDeadline() })

	e.Pool.StartThinking()
	e.Pool.WaitForThinkFinished()

	return e.bestMove
}

// Stop cancels the in-progress search early, grounded in the
// teacher's CancellationToken.Cancel.
func (e *Engine) Stop() {
	if e.tm != nil {
		e.tm.Stop()
	}
}

// computeThinkTime mirrors the teacher's ComputeThinkTime at a much
// smaller scale: infinite (ponder/analyze), a fixed move-time budget,
// or a time-control-derived budget, in that priority order.
func computeThinkTime(l common.LimitsType) (think time.Duration, infinite bool) {
	if l.Infinite || l.Ponder {
		return 0, true
	}
	if l.MoveTime > 0 {
		return time.Duration(l.MoveTime) * time.Millisecond, false
	}
	remaining := l.WhiteTime
	if remaining <= 0 {
		remaining = l.BlackTime
	}
	if remaining <= 0 {
		return 5 * time.Second, false
	}
	movesToGo := l.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}
	budget := remaining/movesToGo + l.WhiteIncrement
	if budget <= 0 {
		budget = 100
	}
	return time.Duration(budget) * time.Millisecond, false
}

func genRootMoves(pos *common.Position) []common.Move {
	moves := common.GenerateLegalMoves(pos)
	sort.Slice(moves, func(i, j int) bool {
		return moves[i] < moves[j]
	})
	return moves
}

func (e *Engine) searchRoot(w *pool.Worker, ctx *workerContext) {
	ss := ctx.stack
	const maxDepth = 32

	for depth := 1; depth <= maxDepth; depth++ {
		if e.tm.Done() {
			break
		}

		alpha, beta := -valueInfinite, valueInfinite
		var bestMove common.Move
		bestValue := -valueInfinite

		func() {
			defer func() {
				if r := recover(); r != nil {
					if r != errSearchTimeout {
						panic(r)
					}
				}
			}()

			mp := newMovePicker(append([]common.Move(nil), e.rootMoves...), e.bestMove, ss[0].killers, e.History, e.rootPosition.WhiteMove)
			for {
				move, ok := mp.Next()
				if !ok {
					break
				}
				var child common.Position
				if !e.rootPosition.MakeMove(move, &child) {
					continue
				}
				e.tm.IncNodes()

				value := -e.alphaBeta(w, ctx, &child, ss, 1, depth-1, -beta, -alpha, pool.NodeTypePV)
				if value > bestValue {
					bestValue = value
					bestMove = move
					if value > alpha {
						alpha = value
					}
				}
			}
		}()

		if e.tm.Done() {
			break
		}
		if bestMove == common.MoveEmpty {
			break
		}

		e.bestMove = bestMove
		// Reorder so the best move from this iteration is tried first
		// next iteration, the cheapest possible aspiration-free move
		// ordering improvement across iterative-deepening passes.
		e.promoteRootMove(bestMove)

		if e.progress != nil {
			e.progress(common.SearchInfo{
				Score:    common.UciScore{Centipawns: bestValue},
				Depth:    depth,
				Nodes:    e.tm.Nodes(),
				MainLine: []common.Move{bestMove},
			})
		}
	}
}

func (e *Engine) promoteRootMove(move common.Move) {
	for i, m := range e.rootMoves {
		if m == move {
			copy(e.rootMoves[1:i+1], e.rootMoves[:i])
			e.rootMoves[0] = move
			return
		}
	}
}

const valueInfinite = 1 << 20
const valueMate = valueInfinite - maxPly
