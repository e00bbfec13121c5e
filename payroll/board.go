package payroll

import (
	"context"
	"sync"

	"github.com/warp/salary-engine/generic"
)

// Ticket identifies the period selection that started a load.
type Ticket struct {
	generation uint64
	Period     generic.PayPeriod
}

// Board holds the currently selected period of one scope and the snapshot
// shown for it. Selecting a new period invalidates every ticket issued
// before it, so a load that finishes late is dropped instead of being
// merged into the newer view.
type Board struct {
	mu         sync.Mutex
	generation uint64
	request    LoadRequest
	snapshot   *Snapshot
	selected   bool
}

func NewBoard() *Board {
	return &Board{}
}

// Select makes req the current selection and clears the shown snapshot.
func (b *Board) Select(req LoadRequest) Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	b.request = req
	b.snapshot = nil
	b.selected = true
	return Ticket{generation: b.generation, Period: req.Period}
}

// Apply stores snap if t is still current. It reports whether it did.
func (b *Board) Apply(t Ticket, snap Snapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.generation != b.generation {
		return false
	}
	b.snapshot = &snap
	return true
}

// Current returns the selected request and its snapshot, if loaded.
func (b *Board) Current() (LoadRequest, *Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.request, b.snapshot, b.selected
}

// Refresh selects req, loads it and applies the result unless another
// selection happened meanwhile.
func (b *Board) Refresh(ctx context.Context, agg *Aggregator, req LoadRequest) (Snapshot, bool, error) {
	t := b.Select(req)
	snap, err := agg.Load(ctx, req)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, b.Apply(t, snap), nil
}

// Boards keeps one Board per scope.
type Boards struct {
	mu     sync.Mutex
	boards map[generic.Scope]*Board
}

func NewBoards() *Boards {
	return &Boards{boards: make(map[generic.Scope]*Board)}
}

func (bs *Boards) For(scope generic.Scope) *Board {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	b, ok := bs.boards[scope]
	if !ok {
		b = NewBoard()
		bs.boards[scope] = b
	}
	return b
}
