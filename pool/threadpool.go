package pool

import (
	"fmt"
	"sync"

	"github.com/vchizhov/splitpool/common"
	"golang.org/x/sync/errgroup"
)

// Searcher is the external collaborator the pool drives. Run executes
// whatever work is assigned to w — either the root search (w.ActiveSplit
// == nil) or the continuation of a split point (w.ActiveSplit != nil) —
// and must clear nothing itself beyond what the split point's fields
// say; the pool clears Worker.searching once Run returns.
type Searcher interface {
	Run(w *Worker)
}

// PoolConfig mirrors the handful of UCI options read_uci_options()
// feeds into the original pool: how many Workers to run, and the two
// knobs that gate when Split is worth the overhead of recruiting
// slaves at all.
type PoolConfig struct {
	Workers           int
	MinSplitDepth     int
	MaxSlavesPerSplit int
}

// ThreadPool owns the Worker fleet, the dedicated TimerWorker, and the
// locking that arbitrates Split and shutdown. It never runs search
// logic itself; every actual position evaluation happens inside a
// Searcher.Run call made from a Worker's goroutine.
type ThreadPool struct {
	mu   sync.Mutex
	cond sync.Cond

	workers []*Worker
	timer   *TimerWorker

	minSplitDepth     int
	maxSlavesPerSplit int
	thinking          bool

	searcher Searcher
	onTick   func()

	wg sync.WaitGroup
}

// New creates a pool with no Workers running. Call ApplyConfig to size
// it before use.
func New(searcher Searcher) *ThreadPool {
	p := &ThreadPool{searcher: searcher}
	p.cond.L = &p.mu
	p.timer = newTimerWorker()
	return p
}

// SetSearcher installs the collaborator Workers call into. Needed
// because the collaborator usually needs a *ThreadPool to construct
// itself (to call Split), so pool.New(nil) followed by SetSearcher
// breaks the chicken-and-egg construction order. Must be called before
// Init.
func (p *ThreadPool) SetSearcher(s Searcher) {
	p.mu.Lock()
	p.searcher = s
	p.mu.Unlock()
}

// timerIntervalMsec is how often the TimerWorker invokes the search
// collaborator's deadline check, mirroring the teacher's own
// timemanagement tick period closely enough to catch a hard timeout
// within a fraction of a second of it passing.
const timerIntervalMsec = 5

// Init starts the timer worker and applies the initial configuration.
// Mirrors ThreadPool::init(), which starts with a single Worker and the
// timer before anything else runs.
func (p *ThreadPool) Init(cfg PoolConfig) error {
	p.timer.start(p.checkTime)
	p.timer.SetInterval(timerIntervalMsec)
	return p.ApplyConfig(cfg)
}

// checkTime is the TimerWorker's tick callback: it calls the hook set
// via SetTimeCheck, if any, and does nothing else. The pool itself has
// no notion of time controls — that lives in the search collaborator —
// so this only has a hook to call out to.
func (p *ThreadPool) checkTime() {
	p.mu.Lock()
	fn := p.onTick
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ApplyConfig grows or shrinks the Worker fleet to cfg.Workers and
// updates the split-gating knobs. Mirrors read_uci_options(): workers
// are started or stopped one at a time, and workers[0] is always the
// main worker.
func (p *ThreadPool) ApplyConfig(cfg PoolConfig) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("pool: Workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Workers > MaxWorkers {
		return fmt.Errorf("pool: Workers must be at most %d, got %d", MaxWorkers, cfg.Workers)
	}

	p.mu.Lock()
	p.minSplitDepth = cfg.MinSplitDepth
	p.maxSlavesPerSplit = cfg.MaxSlavesPerSplit
	current := len(p.workers)
	p.mu.Unlock()

	if cfg.Workers > current {
		for i := current; i < cfg.Workers; i++ {
			w := newWorker(p, i)
			p.mu.Lock()
			p.workers = append(p.workers, w)
			p.mu.Unlock()
			p.wg.Add(1)
			if i == 0 {
				go w.runMain()
			} else {
				go w.run()
			}
		}
		return nil
	}

	if cfg.Workers < current {
		doomed := p.workers[cfg.Workers:]
		p.mu.Lock()
		p.workers = p.workers[:cfg.Workers]
		p.mu.Unlock()
		for _, w := range doomed {
			w.mu.Lock()
			w.exit = true
			w.mu.Unlock()
			w.notify()
		}
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
		for _, w := range doomed {
			waitWorkerExit(w)
		}
	}
	return nil
}

// waitWorkerExit blocks until a retired Worker's goroutine has actually
// returned, so its slot is not reused by a later ApplyConfig grow while
// it might still be touching shared state.
func waitWorkerExit(w *Worker) {
	<-w.done
}

// SetTimeCheck installs the callback the TimerWorker invokes on each
// tick. Set once by the search collaborator at startup.
func (p *ThreadPool) SetTimeCheck(fn func()) {
	p.mu.Lock()
	p.onTick = fn
	p.mu.Unlock()
}

// Exit stops the timer first — a live tick reads Worker state that must
// not be torn down underneath it — then fans the remaining Workers'
// shutdown out with errgroup so teardown latency is the slowest single
// Worker, not their sum.
func (p *ThreadPool) Exit() error {
	p.timer.Stop()

	p.mu.Lock()
	workers := append([]*Worker(nil), p.workers...)
	p.mu.Unlock()

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.mu.Lock()
			w.exit = true
			w.mu.Unlock()
			w.notify()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Main returns the pool's designated main worker (workers[0]).
func (p *ThreadPool) Main() *Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers[0]
}

// Workers returns the pool's Worker fleet. Callers must not mutate the
// returned slice.
func (p *ThreadPool) Workers() []*Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// StartThinking wakes the main worker to begin a root search. It blocks
// until the previous search, if any, has finished.
func (p *ThreadPool) StartThinking() {
	p.WaitForThinkFinished()
	p.mu.Lock()
	p.thinking = true
	p.cond.Broadcast()
	p.mu.Unlock()
	main := p.Main()
	main.notify()
}

// WaitForThinkFinished blocks until the main worker's current root
// search, if any, has cleared its thinking flag.
func (p *ThreadPool) WaitForThinkFinished() {
	p.mu.Lock()
	for p.thinking {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// SlaveAvailable reports whether at least one other Worker could be
// recruited into a split master started right now, without actually
// creating one. The search collaborator consults this before paying
// the overhead of a Split call at all, mirroring the original's
// Threads.slaveAvailable() precheck at the call site in search().
func (p *ThreadPool) SlaveAvailable(master *Worker) bool {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()

	for _, w := range workers {
		if w == master {
			continue
		}
		if isAvailableTo(w, master) {
			return true
		}
	}
	return false
}

// isAvailableTo implements the helpful-master recruitment predicate:
// a Worker is available to become master's slave iff it is not
// currently searching, and either it holds no split points of its own
// or master already participates in its deepest split point. The
// second clause is what lets a thread help along its own ancestry
// instead of wandering off into unrelated work.
func isAvailableTo(candidate, master *Worker) bool {
	candidate.mu.Lock()
	searching := candidate.searching
	size := candidate.splitStackSize
	var deepest *SplitPoint
	if size > 0 {
		deepest = &candidate.splitStack[size-1]
	}
	candidate.mu.Unlock()

	if searching {
		return false
	}
	if deepest == nil {
		return true
	}
	deepest.Lock()
	ok := deepest.SlavesMask&(uint64(1)<<uint(master.index)) != 0
	deepest.Unlock()
	return ok
}

// Split recruits available Workers to help search the moves remaining
// in req, runs the master itself through the search collaborator at
// the new split point, and returns the split's final bestValue and
// bestMove once every slave has finished. fake mirrors the original's
// split<Fake> template parameter: when true, Split still creates and
// enters the split point (so timing/statistics behave identically)
// even if recruitment finds zero slaves, which a non-fake split would
// simply decline by searching the remaining moves serially instead.
// entered reports whether the split point was actually entered (slaves
// were recruited, or fake forced it); callers must check it, since a
// declined split leaves req's move picker completely untouched.
func (p *ThreadPool) Split(master *Worker, req SplitRequest, fake bool) (bestValue int, bestMove common.Move, entered bool) {
	if req.Alpha >= req.Beta {
		panic("pool: Split requires Alpha < Beta")
	}

	// Silent degradation: a split stack already at MaxSplitPointsPerWorker
	// is a legal, expected condition at deep recursion, not a bug — decline
	// by returning the caller's own best_value/best_move unchanged, before
	// touching any lock.
	if master.splitStackSize >= MaxSplitPointsPerWorker {
		return req.BestValue, req.BestMove, false
	}

	p.mu.Lock()

	sp := master.pushSplitPoint()

	sp.Lock()
	sp.SlavesMask = uint64(1) << uint(master.index)
	sp.Position = req.Position
	sp.Stack = req.Stack
	sp.MovePicker = req.MovePicker
	sp.Ply = req.Ply
	sp.Alpha = req.Alpha
	sp.Beta = req.Beta
	sp.BestValue = req.BestValue
	sp.BestMove = req.BestMove
	sp.Depth = req.Depth
	sp.ThreatMove = req.ThreatMove
	sp.MoveCount = req.MoveCount
	sp.NodeType = req.NodeType
	sp.Cutoff = false
	sp.Unlock()

	master.setActiveSplit(sp)

	// isAvailableTo locks the candidate's own deepest split point, a
	// different SplitPoint than sp. No Worker may ever hold two
	// SplitPoint mutexes at once, so sp.Lock is taken only around each
	// individual recruitment below (mask update and startSearching),
	// never across the availability probe itself.
	slaves := 0
	for _, w := range p.workers {
		if w == master {
			continue
		}
		if slaves >= p.maxSlavesPerSplit {
			break
		}
		if isAvailableTo(w, master) {
			sp.Lock()
			sp.SlavesMask |= uint64(1) << uint(w.index)
			w.startSearching(sp)
			sp.Unlock()
			slaves++
		}
	}

	entered = slaves > 0 || fake
	if entered {
		p.mu.Unlock()

		master.idleLoop(true)

		if master.Searching() {
			panic("pool: master returned from Split still marked searching")
		}

		p.mu.Lock()

		// idleLoop cleared master.searching on its way out; the master is
		// still busy with the enclosing search, so restore it before any
		// other Worker's isAvailableTo check can mistake it for idle and
		// recruit it into an unrelated split.
		master.mu.Lock()
		master.searching = true
		master.mu.Unlock()
	}

	master.popSplitPoint()
	master.setActiveSplit(sp.Parent)

	sp.Lock()
	bestValue = sp.BestValue
	bestMove = sp.BestMove
	sp.Unlock()

	p.mu.Unlock()
	return bestValue, bestMove, entered
}
