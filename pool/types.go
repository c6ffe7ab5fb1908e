// Package pool implements the parallel work-distribution core of the
// engine: a fixed fleet of Workers cooperating through SplitPoints under
// the Young Brothers Wait Concept (YBWC). It knows nothing about chess —
// move generation, evaluation and the alpha-beta algorithm itself are
// supplied by a Searcher from the search package.
package pool

import (
	"github.com/vchizhov/splitpool/common"
)

// MaxSplitPointsPerWorker bounds how many nested splits a single Worker
// may have open as master at once. A Split beyond this is declined.
const MaxSplitPointsPerWorker = 8

// MaxWorkers is the width of the slavesMask bitset. Raise it (and widen
// the mask type) if a configuration ever needs more workers; current
// tuning ceilings never approach it.
const MaxWorkers = 64

// NodeType mirrors the node classification the search collaborator
// assigns a split point (PV node, expected cut node, or all node). The
// pool never inspects it; it is passed through for the collaborator's
// own move-ordering decisions.
type NodeType int

const (
	NodeTypePV NodeType = iota
	NodeTypeCut
	NodeTypeAll
)

// SplitRequest groups the positional arguments the original split()
// took, per the "parameter-heavy split signature" note: a struct keeps
// call sites readable without changing the protocol.
type SplitRequest struct {
	Position   *common.Position
	Stack      any // the master's live search-stack frame; opaque to pool
	Ply        int
	Alpha      int
	Beta       int
	BestValue  int
	BestMove   common.Move
	Depth      int
	ThreatMove common.Move
	MoveCount  int
	MovePicker any // shared move-generation cursor; opaque to pool
	NodeType   NodeType
}
