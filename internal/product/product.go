// Package product defines the catalog entity and its conversions between the
// external request shape, the primary store record, the search shadow and the API response.
package product

import (
	"strings"

	"github.com/abgdnv/productcatalog/internal/money"
	"github.com/abgdnv/productcatalog/internal/search"
	"github.com/abgdnv/productcatalog/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. ID is empty until the product is first saved.
type Product struct {
	ID          string
	Name        string
	Category    string
	PriceCents  int64
	Quantity    string
	Description string
}

// Requestable is implemented by values that can be written to both stores.
type Requestable interface {
	ToStoreRecord() store.Product
	ToSearchDocument() search.Document
}

var _ Requestable = (*Product)(nil)

// Response is the API representation of a product.
type Response struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    string  `json:"quantity"`
	Description string  `json:"description"`
}

// FromStoreRecord maps a primary store record to a Product without validation.
func FromStoreRecord(r store.Product) *Product {
	p := &Product{
		Name:        r.Name,
		Category:    r.Category,
		PriceCents:  r.Price,
		Quantity:    string(r.Quantity),
		Description: r.Description,
	}
	if !r.ID.IsZero() {
		p.ID = r.ID.Hex()
	}
	return p
}

// ToStoreRecord returns the primary store shape of the product.
func (p *Product) ToStoreRecord() store.Product {
	r := store.Product{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.PriceCents,
		Quantity:    store.Quantity(p.Quantity),
		Description: p.Description,
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		r.ID = oid
	}
	return r
}

// ToSearchDocument returns the shadow document of the product.
func (p *Product) ToSearchDocument() search.Document {
	return search.Document{
		Description: p.Description,
		WordCount:   WordCount(p.Description),
	}
}

// ToResponse returns the API representation with the price in major units.
func (p *Product) ToResponse() Response {
	return Response{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       money.Float(p.PriceCents),
		Quantity:    p.Quantity,
		Description: p.Description,
	}
}

// WordCount returns the number of whitespace separated tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
