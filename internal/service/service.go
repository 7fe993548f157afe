package service

import (
	"context"

	"productpage/internal/model"
)

// ProductService defines operations for the product page.
type ProductService interface {
	// GetProduct retrieves the raw product record by ID.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// GetView retrieves the product and normalizes it for display.
	GetView(ctx context.Context, id string) (*model.ProductView, error)
}

// ProductFetcher loads product records, typically through the query cache.
type ProductFetcher interface {
	Product(ctx context.Context, id string) (*model.Product, error)
}
