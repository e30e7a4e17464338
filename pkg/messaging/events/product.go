package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productcatalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

// ProductEvent is published after a product changed in the primary store.
type ProductEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ID         uuid.UUID              `json:"event_id"`
	ProductID  string                 `json:"product_id"`
	Name       string                 `json:"name,omitempty"`
	Category   string                 `json:"category,omitempty"`
	PriceCents int64                  `json:"price_cents,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	subject    string
}

func newProductEvent(subject, productID string) ProductEvent {
	return ProductEvent{
		ID:         uuid.New(),
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
		subject:    subject,
	}
}

// NewProductCreated returns the event for a newly created product.
func NewProductCreated(productID, name, category string, priceCents int64) ProductEvent {
	e := newProductEvent(messaging.ProductsCreatedSubject, productID)
	e.Name, e.Category, e.PriceCents = name, category, priceCents
	return e
}

// NewProductUpdated returns the event for a modified product.
func NewProductUpdated(productID, name, category string, priceCents int64) ProductEvent {
	e := newProductEvent(messaging.ProductsUpdatedSubject, productID)
	e.Name, e.Category, e.PriceCents = name, category, priceCents
	return e
}

// NewProductDeleted returns the event for a removed product.
func NewProductDeleted(productID string) ProductEvent {
	return newProductEvent(messaging.ProductsDeletedSubject, productID)
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) EventID() string {
	return e.ID.String()
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
