package pool

import (
	"fmt"
	"sync"
)

// Worker is one participant in the pool: a long-lived goroutine that
// either sits parked on its condvar or runs the search collaborator at
// its ActiveSplit. Workers never touch each other's fields directly;
// every cross-Worker access goes through the owning SplitPoint's mutex
// or through the accessors below.
type Worker struct {
	pool  *ThreadPool
	index int

	mu   sync.Mutex
	cond sync.Cond

	searching bool
	exit      bool

	splitStack     [MaxSplitPointsPerWorker]SplitPoint
	splitStackSize int
	activeSplit    *SplitPoint

	done chan struct{}
}

func newWorker(p *ThreadPool, index int) *Worker {
	w := &Worker{pool: p, index: index, done: make(chan struct{})}
	w.cond.L = &w.mu
	return w
}

// Index returns this Worker's position in the pool, the bit it occupies
// in every SlavesMask it participates in.
func (w *Worker) Index() int { return w.index }

// Searching reports whether the Worker currently has work assigned.
func (w *Worker) Searching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.searching
}

// ActiveSplit returns the split point this Worker is currently working
// on behalf of, or nil if it is working at the root.
func (w *Worker) ActiveSplit() *SplitPoint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeSplit
}

func (w *Worker) setActiveSplit(sp *SplitPoint) {
	w.mu.Lock()
	w.activeSplit = sp
	w.mu.Unlock()
}

// CutoffOccurred walks this Worker's split stack from its active split
// point up to the root, reporting true as soon as any ancestor has been
// cut off. The search collaborator polls this at move-loop boundaries;
// it is the pool's only pull-based cancellation signal.
func (w *Worker) CutoffOccurred() bool {
	return cutoffOccurred(w.ActiveSplit())
}

// notify wakes the Worker if it is parked. Called with the caller not
// holding w.mu.
func (w *Worker) notify() {
	w.mu.Lock()
	w.cond.Signal()
	w.mu.Unlock()
}

// startSearching marks work assigned and wakes the Worker. Must be
// called while the caller holds the owning SplitPoint's (and usually
// the pool's) lock, per the pool-then-splitpoint-then-worker ordering.
func (w *Worker) startSearching(sp *SplitPoint) {
	w.mu.Lock()
	w.activeSplit = sp
	w.searching = true
	w.mu.Unlock()
	w.notify()
}

// waitUntil blocks until pred reports true or the Worker has been told
// to exit, reporting which one woke it. pred is evaluated with w.mu
// held, so it may read Worker fields directly. Callers must not hold
// w.mu themselves.
func (w *Worker) waitUntil(pred func() bool) (exit bool) {
	w.mu.Lock()
	for !pred() && !w.exit {
		w.cond.Wait()
	}
	exit = w.exit
	w.mu.Unlock()
	return exit
}

// idleLoop is the re-entrant core shared by a Worker's top-level park
// loop and by a master's nested wait inside Split. When returnOnDrain
// is false it runs forever, parking between tasks, until exit is set.
// When true (the master waiting inside its own split) it runs exactly
// one wake-work-clear cycle and returns, because the search
// collaborator's Run call at the split point returns only once the
// split has nothing left for the master to do; idleLoop then clears
// the master's searching flag itself.
func (w *Worker) idleLoop(returnOnDrain bool) {
	for {
		if w.waitUntil(func() bool { return w.searching }) {
			return
		}

		w.pool.searcher.Run(w)

		w.mu.Lock()
		w.searching = false
		w.mu.Unlock()

		if returnOnDrain {
			return
		}
	}
}

// run is the goroutine entry point for an ordinary (non-main) Worker.
func (w *Worker) run() {
	defer w.pool.wg.Done()
	defer close(w.done)
	w.idleLoop(false)
}

func (w *Worker) pushSplitPoint() *SplitPoint {
	if w.splitStackSize >= MaxSplitPointsPerWorker {
		panic(fmt.Sprintf("worker %d: split stack exhausted", w.index))
	}
	sp := &w.splitStack[w.splitStackSize]
	sp.Parent = w.activeSplit
	sp.masterWorker = w
	w.splitStackSize++
	return sp
}

func (w *Worker) popSplitPoint() {
	if w.splitStackSize == 0 {
		panic(fmt.Sprintf("worker %d: split stack underflow", w.index))
	}
	w.splitStackSize--
}
