// Package docstore abstracts the document database holding entity records
// and token records. Every collection is a flat set of JSON-like documents
// keyed by an opaque ID; there are no cross-collection transactions.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("docstore: not found")

// Collection names used by the service.
const (
	Developers = "developers"
	Projects   = "projects"
	Towers     = "towers"
	Series     = "series"
	Amenities  = "amenities"
	Tokens     = "tokens"
	OTPs       = "otps"
)

// Document is a single record returned by List.
type Document struct {
	ID     string
	dataTo func(dst any) error
}

// DataTo decodes the document body into dst.
func (d Document) DataTo(dst any) error {
	if d.dataTo == nil {
		return errors.New("docstore: empty document")
	}
	return d.dataTo(dst)
}

// Store describes persistence operations against one document database.
// A single document write is atomic; nothing spans documents.
type Store interface {
	// Add stores data under a freshly minted ID and returns it.
	Add(ctx context.Context, collection string, data any) (string, error)
	// Get decodes the document with the given ID into dst, or ErrNotFound.
	Get(ctx context.Context, collection, id string, dst any) error
	// List returns every document in the collection, unpaginated.
	List(ctx context.Context, collection string) ([]Document, error)
	// Set writes data under an explicit ID, replacing any prior body.
	Set(ctx context.Context, collection, id string, data any) error
	// Delete removes the document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, collection, id string) error
	// Count reports the number of documents in the collection.
	Count(ctx context.Context, collection string) (int, error)
}
