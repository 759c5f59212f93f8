package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore serves a fixed listing and records every SaveOrder together
// with what the board showed at the moment the call was made.
type fakeStore struct {
	mu         sync.Mutex
	listing    []contentapi.CarouselItem
	listErr    error
	saveErr    error
	saves      [][]contentapi.OrderEntry
	lists      int
	board      *Board
	seenAtCall []contentapi.CarouselItem
	onSave     func()
}

func (s *fakeStore) List(ctx context.Context) ([]contentapi.CarouselItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]contentapi.CarouselItem(nil), s.listing...), nil
}

func (s *fakeStore) SaveOrder(ctx context.Context, entries []contentapi.OrderEntry) error {
	s.mu.Lock()
	s.saves = append(s.saves, entries)
	board, onSave := s.board, s.onSave
	s.mu.Unlock()

	if board != nil {
		s.seenAtCall = board.Items()
	}
	if onSave != nil {
		onSave()
	}
	return s.saveErr
}

func items(names ...string) []contentapi.CarouselItem {
	out := make([]contentapi.CarouselItem, len(names))
	for i, n := range names {
		out[i] = contentapi.CarouselItem{ID: contentapi.ID(n), Title: n, DisplayOrder: i + 1}
	}
	return out
}

func fakeItems(f *gofakeit.Faker, n int) []contentapi.CarouselItem {
	out := make([]contentapi.CarouselItem, n)
	for i := range out {
		out[i] = contentapi.CarouselItem{
			ID:           contentapi.ID(fmt.Sprint(100 + i)),
			Title:        f.Company(),
			Text:         f.BuzzWord(),
			TextBtn:      f.Word(),
			Link:         f.URL(),
			Image:        f.URL(),
			DisplayOrder: i + 1,
		}
	}
	return out
}

func ids(items []contentapi.CarouselItem) []contentapi.ID {
	out := make([]contentapi.ID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func loadedBoard(t *testing.T, store *fakeStore, perPage int) *Board {
	t.Helper()
	b := NewBoard(store, perPage)
	require.NoError(t, b.Load(context.Background()))
	store.board = b
	return b
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []contentapi.ID
	}{
		{"first to last", 0, 2, []contentapi.ID{"B", "C", "A"}},
		{"last to first", 2, 0, []contentapi.ID{"C", "A", "B"}},
		{"middle down", 1, 2, []contentapi.ID{"A", "C", "B"}},
		{"same place", 1, 1, []contentapi.ID{"A", "B", "C"}},
		{"out of range", 0, 5, []contentapi.ID{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := items("A", "B", "C")
			got := Move(in, tt.from, tt.to)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Move(%d, %d) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
			}
			assert.Equal(t, []contentapi.ID{"A", "B", "C"}, ids(in), "input must not be modified")
		})
	}
}

func TestDragEnd_MoveFirstAfterLast(t *testing.T) {
	store := &fakeStore{listing: items("A", "B", "C")}
	b := loadedBoard(t, store, DefaultPageSize)

	outcome, err := b.DragEnd(context.Background(), "A", "C")
	require.NoError(t, err)
	assert.Equal(t, Saved, outcome)

	want := []contentapi.CarouselItem{
		{ID: "B", Title: "B", DisplayOrder: 1},
		{ID: "C", Title: "C", DisplayOrder: 2},
		{ID: "A", Title: "A", DisplayOrder: 3},
	}
	if diff := cmp.Diff(want, b.Items()); diff != "" {
		t.Errorf("board mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, store.saves, 1)
	assert.Equal(t, []contentapi.OrderEntry{
		{ID: "B", DisplayOrder: 1},
		{ID: "C", DisplayOrder: 2},
		{ID: "A", DisplayOrder: 3},
	}, store.saves[0])
}

func TestDragEnd_AppliesBeforeTheCallReturns(t *testing.T) {
	store := &fakeStore{listing: items("A", "B", "C")}
	b := loadedBoard(t, store, DefaultPageSize)

	_, err := b.DragEnd(context.Background(), "C", "A")
	require.NoError(t, err)
	assert.Equal(t, []contentapi.ID{"C", "A", "B"}, ids(store.seenAtCall))
}

func TestDragEnd_NoOps(t *testing.T) {
	tests := []struct {
		name         string
		active, over contentapi.ID
	}{
		{"dropped outside", "A", ""},
		{"dropped on itself", "B", "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{listing: items("A", "B", "C")}
			b := loadedBoard(t, store, DefaultPageSize)
			before := b.Items()

			outcome, err := b.DragEnd(context.Background(), tt.active, tt.over)
			require.NoError(t, err)
			assert.Equal(t, Unchanged, outcome)
			assert.Equal(t, before, b.Items())
			assert.Empty(t, store.saves)
		})
	}
}

func TestDragEnd_AllMovesYieldContiguousOrder(t *testing.T) {
	f := gofakeit.New(42)
	for n := 1; n <= 6; n++ {
		base := fakeItems(f, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				store := &fakeStore{listing: base}
				b := loadedBoard(t, store, DefaultPageSize)

				_, err := b.DragEnd(context.Background(), base[i].ID, base[j].ID)
				require.NoError(t, err)

				got := b.Items()
				want := Move(base, i, j)
				require.Equal(t, ids(want), ids(got), "n=%d move %d->%d", n, i, j)

				seen := map[int]bool{}
				for k, it := range got {
					assert.Equal(t, k+1, it.DisplayOrder, "n=%d move %d->%d row %d", n, i, j, k)
					assert.False(t, seen[it.DisplayOrder], "duplicate display order %d", it.DisplayOrder)
					seen[it.DisplayOrder] = true
				}

				if i == j {
					assert.Empty(t, store.saves)
				} else {
					require.Len(t, store.saves, 1)
					assert.Len(t, store.saves[0], n)
				}
			}
		}
	}
}

func TestDragEnd_FailureReconcilesWithServer(t *testing.T) {
	server := items("A", "B", "C")
	store := &fakeStore{listing: server, saveErr: errors.New("502 bad gateway")}
	b := loadedBoard(t, store, DefaultPageSize)

	// someone else added D between load and drag
	store.listing = items("A", "B", "C", "D")

	outcome, err := b.DragEnd(context.Background(), "A", "C")
	assert.ErrorIs(t, err, ErrReorder)
	assert.Equal(t, Reconciled, outcome)
	assert.Equal(t, []contentapi.ID{"B", "C", "A"}, ids(store.seenAtCall), "optimistic order was shown first")
	assert.Equal(t, store.listing, b.Items(), "final list is the fresh listing, not the optimistic one")
	assert.Equal(t, 2, store.lists)
}

func TestDragEnd_FailureAndReloadFailureEmptiesBoard(t *testing.T) {
	store := &fakeStore{listing: items("A", "B"), saveErr: errors.New("timeout")}
	b := loadedBoard(t, store, DefaultPageSize)
	store.listErr = errors.New("connection refused")

	outcome, err := b.DragEnd(context.Background(), "B", "A")
	assert.Equal(t, Reconciled, outcome)
	assert.ErrorIs(t, err, ErrReorder)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, b.Items())
}

func TestDragEnd_OnlyCurrentPage(t *testing.T) {
	f := gofakeit.New(7)
	all := fakeItems(f, 25)
	store := &fakeStore{listing: all}
	b := loadedBoard(t, store, 10)

	// page 1 row dragged onto a page 2 row is refused
	outcome, err := b.DragEnd(context.Background(), all[0].ID, all[12].ID)
	assert.ErrorIs(t, err, ErrNotVisible)
	assert.Equal(t, Unchanged, outcome)
	assert.Empty(t, store.saves)

	b.GoTo(2)
	page := b.Page()
	assert.Equal(t, 11, page.Start)
	assert.Equal(t, 20, page.End)

	_, err = b.DragEnd(context.Background(), all[10].ID, all[19].ID)
	require.NoError(t, err)

	require.Len(t, store.saves, 1)
	batch := store.saves[0]
	assert.Len(t, batch, 10, "batch covers the visible page only")
	for k, e := range batch {
		assert.Equal(t, 11+k, e.DisplayOrder)
	}

	got := b.Items()
	assert.Equal(t, ids(all[:10]), ids(got[:10]), "page 1 untouched")
	assert.Equal(t, ids(all[20:]), ids(got[20:]), "page 3 untouched")
	assert.Equal(t, all[10].ID, got[19].ID)
}

func TestPage_Clamps(t *testing.T) {
	f := gofakeit.New(3)
	b := loadedBoard(t, &fakeStore{listing: fakeItems(f, 12)}, 5)

	b.GoTo(9)
	p := b.Page()
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.Pages)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 11, p.Start)
	assert.Equal(t, 12, p.End)

	b.GoTo(-1)
	assert.Equal(t, 1, b.Page().Number)

	empty := loadedBoard(t, &fakeStore{}, 5)
	p = empty.Page()
	assert.Equal(t, 1, p.Number)
	assert.Zero(t, p.Start)
	assert.Empty(t, p.Items)
}

func TestLoad_FailureEmpties(t *testing.T) {
	store := &fakeStore{listing: items("A")}
	b := loadedBoard(t, store, 5)
	store.listErr = errors.New("down")

	assert.Error(t, b.Load(context.Background()))
	assert.Empty(t, b.Items())
}

func TestDragEnd_ClosedWhileInFlightIsDiscarded(t *testing.T) {
	store := &fakeStore{listing: items("A", "B", "C"), saveErr: errors.New("502")}
	b := loadedBoard(t, store, DefaultPageSize)
	// the operator navigates away while the request is in flight
	store.onSave = b.Close

	outcome, err := b.DragEnd(context.Background(), "A", "B")
	assert.Equal(t, Discarded, outcome)
	assert.ErrorIs(t, err, ErrReorder)

	outcome, err = b.DragEnd(context.Background(), "B", "C")
	assert.Equal(t, Discarded, outcome)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRegistry_OpenReplacesAndCloses(t *testing.T) {
	reg := NewRegistry(&fakeStore{}, 10, 0)

	first := reg.Open("s1")
	second := reg.Open("s1")
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())

	got, ok := reg.Get("s1")
	require.True(t, ok)
	assert.Same(t, second, got)

	reg.Open("s2")
	assert.Equal(t, 2, reg.Len())

	reg.Close("s1")
	_, ok = reg.Get("s1")
	assert.False(t, ok)
	assert.True(t, second.Closed())
}

func TestRegistry_EvictsIdleBoards(t *testing.T) {
	reg := NewRegistry(&fakeStore{}, 10, 0)
	stale := reg.Open("old")

	later := stale.idleSince().Add(31 * time.Minute)
	reg.now = func() time.Time { return later }
	reg.Open("new")

	_, ok := reg.Get("old")
	assert.False(t, ok)
	assert.True(t, stale.Closed())
}
