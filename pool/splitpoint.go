package pool

import (
	"sync"

	"github.com/vchizhov/splitpool/common"
)

// SplitPoint is the shared state one Split call creates so a master
// Worker and its slaves can cooperate on the remaining moves of a single
// search node. The fields from SlavesMask through Cutoff are written
// only while holding Mutex. Parent and the master Worker are set by
// pushSplitPoint under the pool's lock instead, and Split and the search
// collaborator read Parent, Ply and Stack without Mutex, since none of
// them changes while the split point is open.
type SplitPoint struct {
	sync.Mutex

	Parent *SplitPoint

	// SlavesMask has bit i set while workers[i] is still participating,
	// including the master's own bit.
	SlavesMask uint64

	Position   *common.Position
	Stack      any // the master's live search-stack frame; shape owned by the collaborator
	MovePicker any // shared move-generation cursor; shape owned by the collaborator
	Ply        int

	Alpha      int
	Beta       int
	BestValue  int
	BestMove   common.Move
	Depth      int
	ThreatMove common.Move
	MoveCount  int
	NodeType   NodeType

	Cutoff bool

	masterWorker *Worker

	// slaveDone is signalled whenever a participant clears its own bit
	// from SlavesMask. The master's search collaborator, after
	// exhausting the shared move picker itself, waits on it until the
	// split has fully drained instead of returning while slaves are
	// still mid-evaluation of a move they had already pulled.
	slaveDone sync.Cond
}

// MasterWorker returns the Worker that created this split point.
func (sp *SplitPoint) MasterWorker() *Worker {
	return sp.masterWorker
}

func (sp *SplitPoint) ensureCond() {
	if sp.slaveDone.L == nil {
		sp.slaveDone.L = &sp.Mutex
	}
}

// ClearParticipant drops index's bit from SlavesMask and wakes anyone
// waiting on the split to drain. The search collaborator calls this
// once a participant (master or slave) finds the shared move picker
// exhausted for it.
func (sp *SplitPoint) ClearParticipant(index int) {
	sp.Lock()
	sp.ensureCond()
	sp.SlavesMask &^= uint64(1) << uint(index)
	sp.slaveDone.Broadcast()
	sp.Unlock()
}

// WaitDrained blocks the master until every other participant has
// cleared its bit from SlavesMask. Only the master calls this: slaves
// return as soon as they clear their own bit, since nothing downstream
// depends on them individually finishing in order.
func (sp *SplitPoint) WaitDrained(masterIndex int) {
	sp.Lock()
	sp.ensureCond()
	mine := uint64(1) << uint(masterIndex)
	for sp.SlavesMask&^mine != 0 {
		sp.slaveDone.Wait()
	}
	sp.Unlock()
}

// cutoffOccurred reports whether this split point, or any ancestor of
// it, has been cut off. Called with sp already unlocked by the caller;
// it takes and releases each split point's own lock as it walks up.
func cutoffOccurred(sp *SplitPoint) bool {
	for ; sp != nil; sp = sp.Parent {
		sp.Lock()
		c := sp.Cutoff
		sp.Unlock()
		if c {
			return true
		}
	}
	return false
}
