package search

import (
	"context"
	"testing"
	"time"

	"github.com/vchizhov/splitpool/common"
	"github.com/vchizhov/splitpool/pool"
)

func newTestEngine(t *testing.T, workers int) (*Engine, *pool.ThreadPool) {
	t.Helper()
	cfg := pool.PoolConfig{Workers: workers, MinSplitDepth: 2, MaxSlavesPerSplit: workers}
	p := pool.New(nil)
	e := NewEngine(p, 1, cfg)
	p.SetSearcher(e)
	if err := p.Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { p.Exit() })
	return e, p
}

func TestEngineSearchReturnsLegalMove(t *testing.T) {
	for _, workers := range []int{1, 4} {
		e, _ := newTestEngine(t, workers)
		pos, err := common.NewPositionFromFEN(common.InitialPositionFen)
		if err != nil {
			t.Fatalf("NewPositionFromFEN: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		move := e.Search(ctx, common.SearchParams{
			Positions: []common.Position{pos},
			Limits:    common.LimitsType{MoveTime: 200},
		})

		legal := common.GenerateLegalMoves(&pos)
		found := false
		for _, m := range legal {
			if m == move {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("workers=%d: Search returned %v, not among legal moves %v", workers, move, legal)
		}
	}
}

func TestEngineStopEndsSearchEarly(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	pos, err := common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}

	ctx := context.Background()
	done := make(chan common.Move, 1)
	go func() {
		done <- e.Search(ctx, common.SearchParams{
			Positions: []common.Position{pos},
			Limits:    common.LimitsType{Infinite: true},
		})
	}()

	time.Sleep(50 * time.Millisecond)
	e.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not end the search")
	}
}
