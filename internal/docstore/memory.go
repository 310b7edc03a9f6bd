package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"studyhub/pkg/platform/sentinel"
)

// MemoryEngine keeps documents in process memory. Every document is stored as a
// decoded JSON object so reads never alias caller memory.
type MemoryEngine struct {
	mu          sync.RWMutex
	collections map[string][]Document
	unique      map[string][]string
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		collections: make(map[string][]Document),
		unique:      make(map[string][]string),
	}
}

func (e *MemoryEngine) EnsureUnique(_ context.Context, collection, field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.unique[collection] {
		if f == field {
			return nil
		}
	}
	e.unique[collection] = append(e.unique[collection], field)
	return nil
}

func (e *MemoryEngine) Insert(_ context.Context, collection string, doc Document) error {
	stored, err := clone(doc)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.violatesUnique(collection, stored, -1) {
		return sentinel.ErrAlreadyUsed
	}
	e.collections[collection] = append(e.collections[collection], stored)
	return nil
}

func (e *MemoryEngine) Find(_ context.Context, collection string, f Filter, opts FindOptions) ([]Document, error) {
	nf, err := f.normalized()
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	var out []Document
	for _, doc := range e.collections[collection] {
		if nf.matches(doc) {
			c, err := clone(doc)
			if err != nil {
				e.mu.RUnlock()
				return nil, err
			}
			out = append(out, c)
		}
	}
	e.mu.RUnlock()

	if opts.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i][opts.SortField], out[j][opts.SortField]
			if opts.SortDesc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (e *MemoryEngine) UpdateOne(_ context.Context, collection string, f Filter, set Fields) error {
	nf, err := f.normalized()
	if err != nil {
		return err
	}
	patch, err := clone(set)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(collection, nf)
	if idx < 0 {
		return sentinel.ErrNotFound
	}
	current := e.collections[collection][idx]
	next := make(Document, len(current)+len(patch))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range patch {
		next[k] = v
	}
	next[FieldID] = current[FieldID]
	next[FieldVersion] = float64(versionOf(current) + 1)
	if e.violatesUnique(collection, next, idx) {
		return sentinel.ErrAlreadyUsed
	}
	e.collections[collection][idx] = next
	return nil
}

func (e *MemoryEngine) ReplaceOne(_ context.Context, collection string, f Filter, doc Document) error {
	nf, err := f.normalized()
	if err != nil {
		return err
	}
	next, err := clone(doc)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(collection, nf)
	if idx < 0 {
		return sentinel.ErrNotFound
	}
	current := e.collections[collection][idx]
	next[FieldID] = current[FieldID]
	next[FieldDateCreated] = current[FieldDateCreated]
	next[FieldVersion] = float64(versionOf(current) + 1)
	if e.violatesUnique(collection, next, idx) {
		return sentinel.ErrAlreadyUsed
	}
	e.collections[collection][idx] = next
	return nil
}

func (e *MemoryEngine) DeleteOne(_ context.Context, collection string, f Filter) error {
	nf, err := f.normalized()
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(collection, nf)
	if idx < 0 {
		return sentinel.ErrNotFound
	}
	docs := e.collections[collection]
	e.collections[collection] = append(docs[:idx:idx], docs[idx+1:]...)
	return nil
}

func (e *MemoryEngine) DeleteMany(_ context.Context, collection string, f Filter) (int64, error) {
	nf, err := f.normalized()
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	docs := e.collections[collection]
	kept := make([]Document, 0, len(docs))
	var removed int64
	for _, doc := range docs {
		if nf.matches(doc) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	e.collections[collection] = kept
	return removed, nil
}

func (e *MemoryEngine) indexOf(collection string, f Filter) int {
	for i, doc := range e.collections[collection] {
		if f.matches(doc) {
			return i
		}
	}
	return -1
}

// violatesUnique reports whether doc collides with another document on any unique
// field. skip is the position of the document being rewritten, or -1 on insert.
// Absent and null values never collide. Callers hold e.mu.
func (e *MemoryEngine) violatesUnique(collection string, doc Document, skip int) bool {
	for _, field := range e.unique[collection] {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for i, other := range e.collections[collection] {
			if i == skip {
				continue
			}
			if reflect.DeepEqual(other[field], v) {
				return true
			}
		}
	}
	return false
}

func clone(doc Document) (Document, error) {
	out, err := toDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}
	return out, nil
}

// lessValue orders decoded JSON scalars. Missing values sort first; mixed types
// fall back to their formatted text.
func lessValue(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b != nil
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	}
	if b == nil {
		return false
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
