// Package docstore is a typed document collection over a pluggable engine.
//
// Documents are JSON objects. The engine owns the reserved fields _id, dateCreated,
// dateUpdated and _v; concepts embed BaseDoc and declare their own typed _id field.
// The store offers single-document atomicity only: there are no transactions and no
// foreign keys, so cross-document rules live in the concepts built on top.
package docstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reserved document fields.
const (
	FieldID          = "_id"
	FieldDateCreated = "dateCreated"
	FieldDateUpdated = "dateUpdated"
	FieldVersion     = "_v"
)

// Document is the engine-level representation: a decoded JSON object.
type Document = map[string]any

// Fields is a partial set of top-level fields applied by UpdateOne.
type Fields = map[string]any

// BaseDoc carries the bookkeeping every stored document has.
type BaseDoc struct {
	DateCreated Timestamp `json:"dateCreated"`
	DateUpdated Timestamp `json:"dateUpdated"`
	Version     int64     `json:"_v"`
}

// timestampLayout is fixed width so stored timestamps sort lexicographically.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp is a UTC instant with microsecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the stored precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.UTC().Format(timestampLayout))
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		// Accept RFC 3339 so documents written by other tools still load.
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	}
	ts.Time = t.UTC()
	return nil
}

func toDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

func fromDocument[T any](doc Document) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

// normalize runs v through JSON so filter values compare equal to stored values
// (typed IDs become strings, ints become float64).
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode filter value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode filter value: %w", err)
	}
	return out, nil
}

func versionOf(doc Document) int64 {
	switch v := doc[FieldVersion].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
