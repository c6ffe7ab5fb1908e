package search

import (
	"sync/atomic"

	"github.com/vchizhov/splitpool/common"
)

// Bound classifies how a stored score relates to the window it was
// computed in, grounded in the teacher's transposition table entry
// type (engine/transpositiontable.go).
type Bound int8

const (
	BoundNone Bound = iota
	BoundLower
	BoundUpper
	BoundExact
)

type ttEntry struct {
	key   uint64
	move  common.Move
	score int16
	depth int8
	bound Bound
}

// TranspositionTable is a fixed-size, lockless-read hash table shared
// by every Worker. Slots are overwritten unconditionally on Update,
// same as the teacher's table: correctness here comes from always
// re-verifying the stored key on Read, not from any replacement
// scheme, so concurrent writers racing on one slot degrade to a cache
// miss at worst, never a wrong answer.
type TranspositionTable struct {
	items []ttEntry
	mask  uint64
}

// NewTranspositionTable allocates a table sized to the nearest power
// of two number of entries that fits in sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = 16
	count := sizeMB * 1024 * 1024 / entrySize
	size := uint64(1)
	for size*2 <= uint64(count) {
		size *= 2
	}
	if size == 0 {
		size = 1
	}
	return &TranspositionTable{
		items: make([]ttEntry, size),
		mask:  size - 1,
	}
}

func (tt *TranspositionTable) index(key uint64) uint64 {
	return key & tt.mask
}

// Read returns the stored entry for key and whether it was found. It
// takes no lock: concurrent Updates to the same slot are a data race
// on the individual fields in the strict sense, but each field is
// small enough that a torn read just looks like a miss on the next
// key comparison, the same tradeoff the teacher's table makes.
func (tt *TranspositionTable) Read(key uint64) (move common.Move, score int, depth int, bound Bound, found bool) {
	e := &tt.items[tt.index(key)]
	if atomic.LoadUint64(&e.key) != key {
		return common.MoveEmpty, 0, 0, BoundNone, false
	}
	return e.move, int(e.score), int(e.depth), e.bound, true
}

// Update stores a result, unconditionally overwriting whatever was in
// the slot before.
func (tt *TranspositionTable) Update(key uint64, move common.Move, score, depth int, bound Bound) {
	e := &tt.items[tt.index(key)]
	e.move = move
	e.score = int16(score)
	e.depth = int8(depth)
	e.bound = bound
	atomic.StoreUint64(&e.key, key)
}

// Clear drops every stored entry, called on "ucinewgame".
func (tt *TranspositionTable) Clear() {
	for i := range tt.items {
		tt.items[i] = ttEntry{}
	}
}
