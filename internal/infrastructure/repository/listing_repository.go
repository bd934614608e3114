package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/domain/repository"
	"ebay-manager/internal/infrastructure/httpclient"
)

// browseItem is the wire shape of a Browse API item. Optional fields are
// normalized into entity.Listing with explicit defaults rather than read ad
// hoc at call sites.
type browseItem struct {
	ItemID       string `json:"itemId"`
	Title        string `json:"title"`
	Condition    string `json:"condition"`
	CategoryPath string `json:"categoryPath"`
	ItemWebURL   string `json:"itemWebUrl"`
	Description  string `json:"description"`
	CreationDate string `json:"itemCreationDate"`
	Price        struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
	EstimatedAvailabilities []struct {
		EstimatedAvailableQuantity int `json:"estimatedAvailableQuantity"`
	} `json:"estimatedAvailabilities"`
	Image struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	AdditionalImages []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"additionalImages"`
	Seller struct {
		Username      string `json:"username"`
		FeedbackScore int    `json:"feedbackScore"`
	} `json:"seller"`
	ItemLocation struct {
		City string `json:"city"`
	} `json:"itemLocation"`
	ShippingOptions []struct {
		ShippingServiceCode string `json:"shippingServiceCode"`
		ShippingCost        struct {
			Value string `json:"value"`
		} `json:"shippingCost"`
	} `json:"shippingOptions"`
}

type listingRepository struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewListingRepository(client httpclient.HTTPClient, logger *zap.Logger) repository.ListingRepository {
	return &listingRepository{
		client: client,
		logger: logger,
	}
}

func (r *listingRepository) FindByItemID(ctx context.Context, itemID string) (*entity.Listing, error) {
	path := "/buy/browse/v1/item/" + url.PathEscape(itemID)

	var item browseItem
	if err := r.client.Get(ctx, path, &item); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			r.logger.Warn("Listing not found", zap.String("item_id", itemID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", itemID, err)
	}

	return normalizeListing(&item), nil
}

func normalizeListing(item *browseItem) *entity.Listing {
	listing := &entity.Listing{
		ID:          item.ItemID,
		Title:       item.Title,
		Price:       parseAmount(item.Price.Value),
		Currency:    item.Price.Currency,
		Quantity:    1,
		Status:      "ENDED",
		Category:    "Unknown",
		Condition:   "Unknown",
		Description: item.Description,
		Location:    "Unknown",
		Created:     item.CreationDate,
		Seller: entity.ListingSeller{
			Username: "Unknown",
		},
		Shipping: entity.ListingShipping{
			Method: "Standard",
		},
	}

	if item.ItemWebURL != "" {
		listing.Status = "ACTIVE"
	}
	if item.CategoryPath != "" {
		listing.Category = item.CategoryPath
	}
	if item.Condition != "" {
		listing.Condition = item.Condition
	}
	if len(item.EstimatedAvailabilities) > 0 {
		listing.Quantity = item.EstimatedAvailabilities[0].EstimatedAvailableQuantity
	}
	if item.Seller.Username != "" {
		listing.Seller.Username = item.Seller.Username
	}
	listing.Seller.FeedbackScore = item.Seller.FeedbackScore
	if item.ItemLocation.City != "" {
		listing.Location = item.ItemLocation.City
	}
	if len(item.ShippingOptions) > 0 {
		opt := item.ShippingOptions[0]
		listing.Shipping.Cost = parseAmount(opt.ShippingCost.Value)
		if opt.ShippingServiceCode != "" {
			listing.Shipping.Method = opt.ShippingServiceCode
		}
	}

	images := make([]string, 0, 1+len(item.AdditionalImages))
	if item.Image.ImageURL != "" {
		images = append(images, item.Image.ImageURL)
	}
	for _, img := range item.AdditionalImages {
		if img.ImageURL != "" {
			images = append(images, img.ImageURL)
		}
	}
	listing.Images = images

	return listing
}

// parseAmount converts the Browse API's string money values; malformed or
// absent values default to zero.
func parseAmount(value string) float64 {
	if value == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return amount
}
