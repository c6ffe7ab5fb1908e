package pool

// The pool tracks "thinking" itself, guarded by its own mutex and
// condvar, because external callers (StartThinking,
// WaitForThinkFinished) need to wait on it without reaching into a
// specific Worker's lock.

func (w *Worker) isExiting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exit
}

// runMain is the goroutine entry point for the pool's main worker. It
// parks on the pool condvar whenever it is not thinking and not
// exiting, runs one search when woken, and clears thinking on return.
// Unlike an ordinary Worker its top-level park loop is not idleLoop
// (it enters idleLoop(true) only as a split master inside Split): its
// wake predicate lives on the pool, not on itself, since StartThinking
// and WaitForThinkFinished are pool-level calls.
func (w *Worker) runMain() {
	defer w.pool.wg.Done()
	defer close(w.done)
	p := w.pool
	for {
		p.mu.Lock()
		for !p.thinking && !w.isExiting() {
			p.cond.Wait()
		}
		exit := w.isExiting()
		p.mu.Unlock()
		if exit {
			return
		}

		w.mu.Lock()
		w.searching = true
		w.mu.Unlock()

		p.searcher.Run(w)

		w.mu.Lock()
		w.searching = false
		w.mu.Unlock()

		// Notify only on the true->false edge: WaitForThinkFinished is
		// the only waiter, and it only ever waits for this transition,
		// so signalling here is enough. The original calls notify_one()
		// unconditionally on every idle_loop pass; see DESIGN.md for why
		// this implementation narrows it to the edge instead.
		p.mu.Lock()
		p.thinking = false
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}
