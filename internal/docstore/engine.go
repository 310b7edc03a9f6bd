package docstore

import "context"

// Engine is the storage backend behind a Collection. Implementations provide
// single-document atomicity and enforce declared unique indexes.
//
// Errors: sentinel.ErrNotFound when a single-document operation matched nothing,
// sentinel.ErrAlreadyUsed on a unique index violation. Anything else is an
// infrastructure failure and is returned wrapped.
type Engine interface {
	// EnsureUnique declares a unique index on a top-level scalar field.
	EnsureUnique(ctx context.Context, collection, field string) error
	Insert(ctx context.Context, collection string, doc Document) error
	Find(ctx context.Context, collection string, f Filter, opts FindOptions) ([]Document, error)
	// UpdateOne merges set into the first match and increments _v.
	UpdateOne(ctx context.Context, collection string, f Filter, set Fields) error
	// ReplaceOne swaps the first match for doc, keeping the stored _id and dateCreated
	// and incrementing the stored _v.
	ReplaceOne(ctx context.Context, collection string, f Filter, doc Document) error
	DeleteOne(ctx context.Context, collection string, f Filter) error
	DeleteMany(ctx context.Context, collection string, f Filter) (int64, error)
}

// FindOptions controls ordering and size of a Find result.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int
}

// ReadOption configures ReadMany.
type ReadOption func(*FindOptions)

// SortBy orders results by a top-level scalar field.
func SortBy(field string, desc bool) ReadOption {
	return func(o *FindOptions) {
		o.SortField = field
		o.SortDesc = desc
	}
}

// Limit caps the number of results. Zero means unlimited.
func Limit(n int) ReadOption {
	return func(o *FindOptions) {
		if n > 0 {
			o.Limit = n
		}
	}
}
