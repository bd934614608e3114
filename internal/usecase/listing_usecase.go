package usecase

import (
	"context"

	"go.uber.org/zap"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/domain/repository"
)

type ListingUsecase interface {
	// GetListing looks up one marketplace listing. Returns nil when the
	// marketplace does not know the item.
	GetListing(ctx context.Context, itemID string) (*entity.Listing, error)
}

type listingUsecase struct {
	repo   repository.ListingRepository
	logger *zap.Logger
}

func NewListingUsecase(repo repository.ListingRepository, logger *zap.Logger) ListingUsecase {
	return &listingUsecase{
		repo:   repo,
		logger: logger,
	}
}

func (u *listingUsecase) GetListing(ctx context.Context, itemID string) (*entity.Listing, error) {
	u.logger.Info("Looking up listing", zap.String("item_id", itemID))

	listing, err := u.repo.FindByItemID(ctx, itemID)
	if err != nil {
		u.logger.Error("Failed to look up listing", zap.Error(err))
		return nil, err
	}

	return listing, nil
}
