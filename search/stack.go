package search

import "github.com/vchizhov/splitpool/common"

// maxPly bounds the search stack. 1<<7 plies is far beyond anything
// this engine's depths reach; the headroom matters only so quiescence
// extensions and check extensions near the leaves never index past it.
const maxPly = 128

// stackFrame is the per-ply scratch state a Worker keeps for its own
// line of search, mirroring the original's Stack array. Each Worker
// owns a full stack of its own; a SplitPoint only ever exposes a
// snapshot of the master's frames up to the split ply for a slave to
// copy in before it starts writing its own.
type stackFrame struct {
	ply          int
	pv           []common.Move
	killers      [2]common.Move
	currentMove  common.Move
	skipNullMove bool
}

func newStack() []stackFrame {
	s := make([]stackFrame, maxPly+4)
	for i := range s {
		s[i].ply = i
	}
	return s
}
