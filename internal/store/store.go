// Package store defines the document store contract shared by every
// component. Collections are schemaless; identity is a store-assigned
// opaque string.
package store

import "context"

// Collection names used by the backend.
const (
	CollectionService     = "service"
	CollectionProject     = "project"
	CollectionInteraction = "interaction"
	CollectionMessage     = "message"
)

// Document is a stored record with its assigned identifier.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// GetString returns a string field, or "" when absent or not a string.
func (d Document) GetString(field string) string {
	if v, ok := d.Fields[field].(string); ok {
		return v
	}
	return ""
}

// GroupCount is one bucket of a grouping query: the group key values
// (empty string for an absent field) and the bucket size.
type GroupCount struct {
	Keys  map[string]string
	Count int64
}

// Store is the document store boundary. Implementations must be safe for
// concurrent use.
type Store interface {
	// InsertOne stores a single document and returns its assigned id.
	InsertOne(ctx context.Context, collection string, doc map[string]interface{}) (string, error)

	// Find returns all documents matching the equality filter (nil matches
	// everything), sorted ascending by sortField when non-empty. Order is
	// otherwise the store's natural order.
	Find(ctx context.Context, collection string, filter map[string]interface{}, sortField string) ([]Document, error)

	// Count returns the number of documents matching the equality filter.
	Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error)

	// AggregateCounts buckets the matching documents by the tuple of
	// groupFields values and counts membership. Documents missing a group
	// field land in a bucket keyed by the empty string for that field.
	// Bucket order is unspecified.
	AggregateCounts(ctx context.Context, collection string, groupFields []string, filter map[string]interface{}) ([]GroupCount, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Collections lists the known collection names, for diagnostics.
	Collections(ctx context.Context) ([]string, error)
}
