package handlers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/contentapi"
)

// memStore is an in-memory content API endpoint.
type memStore[T record] struct {
	mu      sync.Mutex
	items   []T
	withID  func(T, contentapi.ID) T
	nextID  int
	listErr error
	saveErr error

	created []T
	updated []T
	deleted []contentapi.ID
}

func newMemStore[T record](withID func(T, contentapi.ID) T, items ...T) *memStore[T] {
	return &memStore[T]{items: items, withID: withID, nextID: 100}
}

func (s *memStore[T]) List(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return slices.Clone(s.items), nil
}

func (s *memStore[T]) Create(_ context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return rec, s.saveErr
	}
	s.nextID++
	rec = s.withID(rec, contentapi.ID(fmt.Sprint(s.nextID)))
	s.items = append(s.items, rec)
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *memStore[T]) Update(_ context.Context, id contentapi.ID, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return rec, s.saveErr
	}
	rec = s.withID(rec, id)
	for i, it := range s.items {
		if it.RecordID() == id {
			s.items[i] = rec
		}
	}
	s.updated = append(s.updated, rec)
	return rec, nil
}

func (s *memStore[T]) Delete(_ context.Context, id contentapi.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items = slices.DeleteFunc(s.items, func(it T) bool { return it.RecordID() == id })
	s.deleted = append(s.deleted, id)
	return nil
}

type productStore struct {
	*memStore[contentapi.Product]
	featured map[contentapi.ID]bool
}

func newProductStore(items ...contentapi.Product) *productStore {
	return &productStore{
		memStore: newMemStore(func(p contentapi.Product, id contentapi.ID) contentapi.Product { p.ID = id; return p }, items...),
		featured: map[contentapi.ID]bool{},
	}
}

func (s *productStore) SetFeatured(_ context.Context, id contentapi.ID, featured bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.featured[id] = featured
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Featured = contentapi.Flag(featured)
		}
	}
	return nil
}

type carouselStore struct {
	*memStore[contentapi.CarouselItem]
	orderErr error
	orders   [][]contentapi.OrderEntry
}

func newCarouselStore(n int) *carouselStore {
	items := make([]contentapi.CarouselItem, n)
	for i := range items {
		items[i] = contentapi.CarouselItem{
			ID:           contentapi.ID(fmt.Sprint(i + 1)),
			Title:        fmt.Sprintf("Slide %d", i+1),
			DisplayOrder: i + 1,
		}
	}
	return &carouselStore{
		memStore: newMemStore(func(it contentapi.CarouselItem, id contentapi.ID) contentapi.CarouselItem { it.ID = id; return it }, items...),
	}
}

func (s *carouselStore) SaveOrder(_ context.Context, entries []contentapi.OrderEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, entries)
	if s.orderErr != nil {
		return s.orderErr
	}
	for _, e := range entries {
		for i := range s.items {
			if s.items[i].ID == e.ID {
				s.items[i].DisplayOrder = e.DisplayOrder
			}
		}
	}
	slices.SortStableFunc(s.items, func(a, b contentapi.CarouselItem) int { return a.DisplayOrder - b.DisplayOrder })
	return nil
}

type galleryStoreFake struct {
	*memStore[contentapi.Story]
	images  map[contentapi.ID][]contentapi.GalleryImage
	added   []contentapi.GalleryImage
	removed []contentapi.ID
	addErr  error
}

func newGalleryStoreFake(galleries ...contentapi.Story) *galleryStoreFake {
	return &galleryStoreFake{
		memStore: newMemStore(func(s contentapi.Story, id contentapi.ID) contentapi.Story { s.ID = id; return s }, galleries...),
		images:   map[contentapi.ID][]contentapi.GalleryImage{},
	}
}

func (s *galleryStoreFake) Images(_ context.Context, id contentapi.ID) ([]contentapi.GalleryImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.images[id]), nil
}

func (s *galleryStoreFake) AddImage(_ context.Context, img contentapi.GalleryImage) (contentapi.GalleryImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return img, s.addErr
	}
	img.ID = contentapi.ID(fmt.Sprintf("img-%d", len(s.added)+1))
	s.added = append(s.added, img)
	s.images[img.GalleryID] = append(s.images[img.GalleryID], img)
	return img, nil
}

func (s *galleryStoreFake) DeleteImage(_ context.Context, id contentapi.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
	return nil
}

// recorderFake collects activity entries.
type recorderFake struct {
	mu      sync.Mutex
	entries []activityEntry
}

type activityEntry struct {
	Screen, Action, RecordID string
}

func (r *recorderFake) Record(_ context.Context, e activity.Entry) (activity.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, activityEntry{Screen: e.Screen, Action: e.Action, RecordID: e.RecordID})
	return e, nil
}

func (r *recorderFake) all() []activityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}
