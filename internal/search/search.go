// Package search provides the search index gateway holding product shadow documents.
package search

import (
	"context"
)

// Field names of the shadow document.
const (
	FieldDescription = "description"
	FieldWordCount   = "word_count"
)

// Document is the shadow of a product in the search index.
// It is derived from the primary record and never authoritative.
type Document struct {
	Description string `json:"description"`
	WordCount   int    `json:"word_count"`
}

// ProductIndex abstracts the search engine. Documents are keyed by product ID.
// Implementations return ErrIndexUnavailable when the engine cannot be reached.
type ProductIndex interface {
	// Upsert creates or replaces the shadow document of a product.
	Upsert(ctx context.Context, id string, doc Document) error

	// DeleteByID removes a shadow document.
	// Returns false without error if the document does not exist.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Match runs a full-text match query on field and returns the IDs of the
	// matching documents in relevance order.
	Match(ctx context.Context, field, text string) ([]string, error)

	// Average returns the average of a numeric field.
	// The boolean is false if the index holds no documents.
	Average(ctx context.Context, field string) (float64, bool, error)
}
