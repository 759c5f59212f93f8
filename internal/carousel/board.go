package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/corpweb/sitedesk/internal/contentapi"
)

const DefaultPageSize = 10

var (
	ErrReorder    = errors.New("failed to update display order")
	ErrNotVisible = errors.New("item is not on the current page")
	ErrClosed     = errors.New("carousel screen was closed")
)

// Store is what the board needs from the content API.
type Store interface {
	List(ctx context.Context) ([]contentapi.CarouselItem, error)
	SaveOrder(ctx context.Context, entries []contentapi.OrderEntry) error
}

// Outcome says what a drag did to the board.
type Outcome int

const (
	// Unchanged: the drop was a no-op and nothing was sent.
	Unchanged Outcome = iota
	// Saved: the new order was applied and the API accepted it.
	Saved
	// Reconciled: the API rejected the order and the board was reloaded.
	Reconciled
	// Discarded: the board was closed before the result came back.
	Discarded
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Saved:
		return "saved"
	case Reconciled:
		return "reconciled"
	case Discarded:
		return "discarded"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Page is the slice of the board the table shows.
type Page struct {
	Items   []contentapi.CarouselItem
	Number  int
	Pages   int
	PerPage int
	// Start and End are the 1-based positions of the first and last row
	// shown; both are 0 when the board is empty.
	Start int
	End   int
	Total int
}

// Board is the carousel screen's local state: the full ordered list as
// last seen from the API and the page the operator is looking at.
//
// Only the current page can be reordered. A drag is applied to the board
// before the API call returns; when the call fails the board is replaced
// with a fresh listing rather than patched.
type Board struct {
	store   Store
	perPage int

	mu      sync.Mutex
	items   []contentapi.CarouselItem
	page    int
	closed  bool
	touched time.Time
}

func NewBoard(store Store, perPage int) *Board {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &Board{store: store, perPage: perPage, page: 1, touched: time.Now()}
}

// Load replaces the board with the API's current listing. On failure the
// board is emptied.
func (b *Board) Load(ctx context.Context) error {
	items, err := b.store.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.touched = time.Now()
	if b.closed {
		return ErrClosed
	}
	if err != nil {
		b.items = nil
		b.page = 1
		return fmt.Errorf("load carousel items: %w", err)
	}
	b.items = slices.Clone(items)
	b.clampPage()
	return nil
}

// Items returns a copy of the whole ordered list.
func (b *Board) Items() []contentapi.CarouselItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// GoTo moves to page n, clamped to the available pages.
func (b *Board) GoTo(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = n
	b.clampPage()
	b.touched = time.Now()
}

func (b *Board) Page() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end := b.bounds()
	p := Page{
		Items:   slices.Clone(b.items[start:end]),
		Number:  b.page,
		Pages:   b.pages(),
		PerPage: b.perPage,
		Total:   len(b.items),
	}
	if end > start {
		p.Start = start + 1
		p.End = end
	}
	return p
}

// DragEnd handles the end of a drag of active onto over. Dropping outside
// any row (over empty) or onto itself changes nothing. Both rows must be
// on the current page.
//
// The moved page is renumbered by absolute position, applied to the board,
// and then sent as one batch covering every visible row. If the API
// rejects it the board is reloaded from the API and the error returned
// wraps ErrReorder.
func (b *Board) DragEnd(ctx context.Context, active, over contentapi.ID) (Outcome, error) {
	if over == "" || active == over {
		return Unchanged, nil
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Discarded, ErrClosed
	}
	b.touched = time.Now()
	start, end := b.bounds()
	visible := b.items[start:end]
	from, to := indexOf(visible, active), indexOf(visible, over)
	if from < 0 || to < 0 {
		b.mu.Unlock()
		return Unchanged, fmt.Errorf("drag %s onto %s: %w", active, over, ErrNotVisible)
	}

	moved := Renumber(Move(visible, from, to), start)
	b.items = slices.Concat(b.items[:start], moved, b.items[end:])
	entries := Entries(moved)
	b.mu.Unlock()

	err := b.store.SaveOrder(ctx, entries)
	if err == nil {
		slog.Info("carousel reordered", "moved", active, "onto", over, "rows", len(entries))
		return Saved, nil
	}

	slog.Error("failed to update display order, reloading", "error", err)
	return b.reconcile(ctx, fmt.Errorf("%w: %w", ErrReorder, err))
}

func (b *Board) reconcile(ctx context.Context, cause error) (Outcome, error) {
	fresh, err := b.store.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Discarded, cause
	}
	if err != nil {
		b.items = nil
		b.page = 1
		return Reconciled, errors.Join(cause, fmt.Errorf("reload carousel items: %w", err))
	}
	b.items = slices.Clone(fresh)
	b.clampPage()
	return Reconciled, cause
}

// Close marks the board as gone; results of calls still in flight are
// dropped instead of being applied.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *Board) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Board) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched
}

// bounds returns the [start, end) range of the current page. Callers hold mu.
func (b *Board) bounds() (int, int) {
	start := (b.page - 1) * b.perPage
	if start > len(b.items) {
		start = len(b.items)
	}
	end := min(start+b.perPage, len(b.items))
	return start, end
}

func (b *Board) pages() int {
	return (len(b.items) + b.perPage - 1) / b.perPage
}

func (b *Board) clampPage() {
	b.page = max(1, min(b.page, b.pages()))
}
