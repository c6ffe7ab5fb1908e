package search

import "testing"

func TestTranspositionTableRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0x1234567890ABCDEF

	if _, _, _, _, found := tt.Read(key); found {
		t.Fatal("expected empty table to miss")
	}

	tt.Update(key, 7, 42, 12, BoundExact)
	move, score, depth, bound, found := tt.Read(key)
	if !found {
		t.Fatal("expected hit after Update")
	}
	if move != 7 || score != 42 || depth != 12 || bound != BoundExact {
		t.Fatalf("got (%v, %d, %d, %v)", move, score, depth, bound)
	}
}

func TestTranspositionTableMissOnKeyCollisionSlot(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Update(1, 1, 1, 1, BoundLower)
	// Same slot, different key (mask is power-of-two sized so key+size
	// collides on index but differs as a key).
	other := uint64(1) + uint64(len(tt.items))
	if _, _, _, _, found := tt.Read(other); found {
		t.Fatal("expected miss for a different key mapping to the same slot")
	}
}

func TestTranspositionTableClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Update(5, 1, 1, 1, BoundUpper)
	tt.Clear()
	if _, _, _, _, found := tt.Read(5); found {
		t.Fatal("expected Clear to drop all entries")
	}
}
