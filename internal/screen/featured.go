package screen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corpweb/sitedesk/internal/contentapi"
)

// MaxFeatured is how many products the public site can feature at once.
const MaxFeatured = 5

type FeatureSetter interface {
	SetFeatured(ctx context.Context, id contentapi.ID, featured bool) error
}

// ToggleFeatured flips the featured flag of the product with the given id.
// Featuring a product while MaxFeatured are already featured asks the
// operator first, since the API then unfeatures the oldest one; declining
// returns ErrDeclined without calling the API. It returns the new state.
func ToggleFeatured(ctx context.Context, products []contentapi.Product, id contentapi.ID, api FeatureSetter, confirm Confirmer) (bool, error) {
	target, ok := Find(products, id)
	if !ok {
		return false, fmt.Errorf("product %s: %w", id, contentapi.ErrNotFound)
	}

	next := !bool(target.Featured)
	if next && FeaturedCount(products) >= MaxFeatured {
		prompt := fmt.Sprintf("Only %d products can be featured at a time. The oldest featured product will be unfeatured. Continue?", MaxFeatured)
		if !confirm.Confirm(prompt) {
			return bool(target.Featured), ErrDeclined
		}
	}

	if err := api.SetFeatured(ctx, id, next); err != nil {
		slog.Error("failed to update featured status", "product_id", id, "error", err)
		return bool(target.Featured), fmt.Errorf("update featured status: %w", err)
	}
	return next, nil
}

func FeaturedCount(products []contentapi.Product) int {
	n := 0
	for _, p := range products {
		if p.Featured {
			n++
		}
	}
	return n
}
