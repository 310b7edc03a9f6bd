package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studyhub/pkg/platform/sentinel"
	"studyhub/pkg/requestcontext"
)

var operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "studyhub_docstore_operation_duration_seconds",
	Help:    "Latency of document collection operations",
	Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
}, []string{"collection", "operation"})

var tracer = otel.Tracer("studyhub/internal/docstore")

// Collection is a typed view over one named collection. T is a document struct
// embedding BaseDoc with an `_id` field of its own ID type.
type Collection[T any] struct {
	name   string
	engine Engine
}

// Option configures a Collection at construction.
type Option func(*options)

type options struct {
	unique []string
}

// Unique declares a unique index on a top-level scalar field.
func Unique(field string) Option {
	return func(o *options) {
		o.unique = append(o.unique, field)
	}
}

// NewCollection binds T to a collection name and ensures its unique indexes exist.
func NewCollection[T any](ctx context.Context, engine Engine, name string, opts ...Option) (*Collection[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	for _, field := range o.unique {
		if err := engine.EnsureUnique(ctx, name, field); err != nil {
			return nil, err
		}
	}
	return &Collection[T]{name: name, engine: engine}, nil
}

func (c *Collection[T]) Name() string { return c.name }

// CreateOne inserts doc with a fresh _id, both timestamps set to the request time
// and _v = 1. doc is updated in place with the stored bookkeeping.
func (c *Collection[T]) CreateOne(ctx context.Context, doc *T) (id uuid.UUID, err error) {
	ctx, finish := c.begin(ctx, "create_one")
	defer func() { finish(err) }()

	raw, err := toDocument(doc)
	if err != nil {
		return uuid.Nil, err
	}
	id = uuid.New()
	now := NewTimestamp(requestcontext.Now(ctx))
	stamp, err := toDocument(BaseDoc{DateCreated: now, DateUpdated: now, Version: 1})
	if err != nil {
		return uuid.Nil, err
	}
	for k, v := range stamp {
		raw[k] = v
	}
	raw[FieldID] = id.String()

	if err := c.engine.Insert(ctx, c.name, raw); err != nil {
		return uuid.Nil, err
	}
	stored, err := fromDocument[T](raw)
	if err != nil {
		return uuid.Nil, err
	}
	*doc = *stored
	return id, nil
}

// ReadOne returns the first match, or sentinel.ErrNotFound.
func (c *Collection[T]) ReadOne(ctx context.Context, f Filter) (_ *T, err error) {
	ctx, finish := c.begin(ctx, "read_one", attribute.String("filter", f.String()))
	defer func() { finish(err) }()

	docs, err := c.engine.Find(ctx, c.name, f, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return fromDocument[T](docs[0])
}

// ReadMany returns every match. An empty result is not an error.
func (c *Collection[T]) ReadMany(ctx context.Context, f Filter, opts ...ReadOption) (_ []T, err error) {
	ctx, finish := c.begin(ctx, "read_many", attribute.String("filter", f.String()))
	defer func() { finish(err) }()

	var fo FindOptions
	for _, opt := range opts {
		opt(&fo)
	}
	docs, err := c.engine.Find(ctx, c.name, f, fo)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDocument[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// UpdateOne applies a partial update to the first match and stamps dateUpdated.
// Bookkeeping fields in set are ignored.
func (c *Collection[T]) UpdateOne(ctx context.Context, f Filter, set Fields) (err error) {
	ctx, finish := c.begin(ctx, "update_one", attribute.String("filter", f.String()))
	defer func() { finish(err) }()

	patch := make(Fields, len(set)+1)
	for k, v := range set {
		switch k {
		case FieldID, FieldVersion, FieldDateCreated:
			continue
		}
		patch[k] = v
	}
	patch[FieldDateUpdated] = NewTimestamp(requestcontext.Now(ctx))
	return c.engine.UpdateOne(ctx, c.name, f, patch)
}

// ReplaceOne swaps the first match for doc, keeping the stored _id and dateCreated.
func (c *Collection[T]) ReplaceOne(ctx context.Context, f Filter, doc *T) (err error) {
	ctx, finish := c.begin(ctx, "replace_one", attribute.String("filter", f.String()))
	defer func() { finish(err) }()

	raw, err := c.prepareReplace(ctx, doc)
	if err != nil {
		return err
	}
	return c.engine.ReplaceOne(ctx, c.name, f, raw)
}

// ReplaceIfVersion replaces doc only while the stored _v still equals doc's _v.
// It returns sentinel.ErrConflict when another writer got there first and
// sentinel.ErrNotFound when the document is gone.
func (c *Collection[T]) ReplaceIfVersion(ctx context.Context, doc *T) (err error) {
	ctx, finish := c.begin(ctx, "replace_if_version")
	defer func() { finish(err) }()

	raw, err := c.prepareReplace(ctx, doc)
	if err != nil {
		return err
	}
	id, _ := raw[FieldID].(string)
	if id == "" {
		return fmt.Errorf("replace in %s: document has no %s", c.name, FieldID)
	}
	version := versionOf(raw)
	err = c.engine.ReplaceOne(ctx, c.name, And(Eq(FieldID, id), Eq(FieldVersion, version)), raw)
	if !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	docs, findErr := c.engine.Find(ctx, c.name, Eq(FieldID, id), FindOptions{Limit: 1})
	if findErr != nil {
		return findErr
	}
	if len(docs) > 0 {
		return sentinel.ErrConflict
	}
	return sentinel.ErrNotFound
}

// DeleteOne removes the first match, or returns sentinel.ErrNotFound.
func (c *Collection[T]) DeleteOne(ctx context.Context, f Filter) (err error) {
	ctx, finish := c.begin(ctx, "delete_one", attribute.String("filter", f.String()))
	defer func() { finish(err) }()
	return c.engine.DeleteOne(ctx, c.name, f)
}

// DeleteMany removes every match and reports how many went.
func (c *Collection[T]) DeleteMany(ctx context.Context, f Filter) (n int64, err error) {
	ctx, finish := c.begin(ctx, "delete_many", attribute.String("filter", f.String()))
	defer func() { finish(err) }()
	return c.engine.DeleteMany(ctx, c.name, f)
}

func (c *Collection[T]) prepareReplace(ctx context.Context, doc *T) (Document, error) {
	raw, err := toDocument(doc)
	if err != nil {
		return nil, err
	}
	raw[FieldDateUpdated] = NewTimestamp(requestcontext.Now(ctx)).UTC().Format(timestampLayout)
	return raw, nil
}

// begin opens a span and returns a finisher that records latency and outcome.
// Not-found and conflict outcomes are expected answers, not span errors.
func (c *Collection[T]) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs, attribute.String("docstore.collection", c.name))
	ctx, span := tracer.Start(ctx, "docstore."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		operationDuration.WithLabelValues(c.name, op).Observe(time.Since(start).Seconds())
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) && !errors.Is(err, sentinel.ErrConflict) &&
			!errors.Is(err, sentinel.ErrAlreadyUsed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
