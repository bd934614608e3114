package repository

import (
	"context"

	"ebay-manager/internal/domain/entity"
)

type ListingRepository interface {
	// FindByItemID looks a listing up on the marketplace. Returns nil when
	// the marketplace does not know the item.
	FindByItemID(ctx context.Context, itemID string) (*entity.Listing, error)
}
