// Package store provides an interface for primary product storage operations.
package store

import (
	"context"
)

// Field names of the primary store record.
const (
	FieldName        = "ProductName"
	FieldCategory    = "ProductCategory"
	FieldPrice       = "Price"
	FieldQuantity    = "AvailableQuantity"
	FieldDescription = "ProductDescription"
)

// ProductStore is an interface for primary product storage operations.
// It is the single source of truth for product data.
// Implementations return ErrStoreUnavailable when the underlying store cannot be reached
// and never return an error for a missing product.
type ProductStore interface {
	// Insert stores a new product and returns its store-assigned ID.
	Insert(ctx context.Context, p Product) (string, error)

	// FindAll returns all products in store order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its ID.
	// Returns nil without error if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// UpdateByID replaces the stored fields of a product.
	// A missing product is reported as an UpdateResult that did not match.
	UpdateByID(ctx context.Context, id string, p Product) (UpdateResult, error)

	// DeleteByID removes a product by its ID.
	// Returns true if a document was deleted.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// CountAll returns the number of stored products.
	CountAll(ctx context.Context) (int64, error)

	// MostFrequent returns the most frequent value of the given field.
	// The boolean is false if the collection is empty.
	MostFrequent(ctx context.Context, field string) (string, bool, error)

	// Average returns the average of the given numeric field.
	// The boolean is false if the collection is empty.
	Average(ctx context.Context, field string) (float64, bool, error)
}

// UpdateResult reports whether an update found the product and whether it changed any value.
type UpdateResult struct {
	Matched  bool
	Modified bool
}
