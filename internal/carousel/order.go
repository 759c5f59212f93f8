// Package carousel keeps the home page carousel in the order the operator
// drags it into.
package carousel

import (
	"github.com/corpweb/sitedesk/internal/contentapi"
)

// Move returns a copy of items with the element at from removed and
// reinserted at to. It is a list move, not a swap.
func Move(items []contentapi.CarouselItem, from, to int) []contentapi.CarouselItem {
	out := make([]contentapi.CarouselItem, 0, len(items))
	out = append(out, items...)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

// Renumber returns a copy of items whose display_order is base plus the
// 1-based position in the slice.
func Renumber(items []contentapi.CarouselItem, base int) []contentapi.CarouselItem {
	out := make([]contentapi.CarouselItem, len(items))
	for i, it := range items {
		it.DisplayOrder = base + i + 1
		out[i] = it
	}
	return out
}

// Entries is the batched reorder payload for items.
func Entries(items []contentapi.CarouselItem) []contentapi.OrderEntry {
	out := make([]contentapi.OrderEntry, len(items))
	for i, it := range items {
		out[i] = contentapi.OrderEntry{ID: it.ID, DisplayOrder: it.DisplayOrder}
	}
	return out
}

func indexOf(items []contentapi.CarouselItem, id contentapi.ID) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
