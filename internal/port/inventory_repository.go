package port

import (
	"context"

	"tailordesk/internal/core/domain"
)

type InventoryRepository interface {
	// List returns all stocked materials alphabetically.
	List(ctx context.Context) ([]domain.InventoryItem, error)

	// Find returns the first material containing the query as a
	// case-insensitive substring, by alphabetical material order, or nil
	// when nothing matches.
	Find(ctx context.Context, query string) (*domain.InventoryItem, error)

	// AddStock upserts a material, adding quantity to any existing stock,
	// and returns the new running total.
	AddStock(ctx context.Context, material string, quantity float64, unit string) (domain.InventoryItem, error)
}
