package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"studyhub/pkg/platform/sentinel"
)

// pqUniqueViolation is the SQLSTATE Postgres reports for unique index violations.
const pqUniqueViolation = "23505"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresEngine stores every collection in one JSONB table. Equality and array
// membership filters compile to containment (@>) so the GIN index serves them.
type PostgresEngine struct {
	db *sql.DB
}

func NewPostgresEngine(db *sql.DB) *PostgresEngine {
	return &PostgresEngine{db: db}
}

// EnsureUnique creates a partial unique expression index for one collection field.
// Documents without the field never collide.
func (e *PostgresEngine) EnsureUnique(ctx context.Context, collection, field string) error {
	if !identPattern.MatchString(collection) || !identPattern.MatchString(field) {
		return fmt.Errorf("ensure unique index: invalid identifier %q.%q", collection, field)
	}
	stmt := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS documents_%s_%s_key ON documents ((data->>'%s')) WHERE collection = '%s'`,
		strings.ToLower(collection), strings.ToLower(field), field, collection,
	)
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

func (e *PostgresEngine) Insert(ctx context.Context, collection string, doc Document) error {
	id, _ := doc[FieldID].(string)
	if id == "" {
		return fmt.Errorf("insert into %s: document has no %s", collection, FieldID)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	_, err = e.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(payload),
	)
	if err != nil {
		return translate(fmt.Sprintf("insert into %s", collection), err)
	}
	return nil
}

func (e *PostgresEngine) Find(ctx context.Context, collection string, f Filter, opts FindOptions) ([]Document, error) {
	args := []any{collection}
	where, err := compile(f, &args)
	if err != nil {
		return nil, err
	}

	var q strings.Builder
	q.WriteString(`SELECT data FROM documents WHERE collection = $1 AND `)
	q.WriteString(where)
	if opts.SortField != "" {
		args = append(args, opts.SortField)
		q.WriteString(` ORDER BY data->($` + strconv.Itoa(len(args)) + `::text)`)
		if opts.SortDesc {
			q.WriteString(` DESC`)
		}
		q.WriteString(`, created_at`)
	} else {
		q.WriteString(` ORDER BY created_at`)
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}

	rows, err := e.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	return out, nil
}

func (e *PostgresEngine) UpdateOne(ctx context.Context, collection string, f Filter, set Fields) error {
	patch := make(Fields, len(set))
	for k, v := range set {
		if k == FieldID || k == FieldVersion {
			continue
		}
		patch[k] = v
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return e.rewriteOne(ctx, collection, f,
		`data || $2::jsonb || jsonb_build_object('_v', COALESCE((data->>'_v')::bigint, 0) + 1)`,
		string(payload))
}

func (e *PostgresEngine) ReplaceOne(ctx context.Context, collection string, f Filter, doc Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("replace in %s: %w", collection, err)
	}
	return e.rewriteOne(ctx, collection, f,
		`$2::jsonb || jsonb_build_object('_id', data->'_id', 'dateCreated', data->'dateCreated', '_v', COALESCE((data->>'_v')::bigint, 0) + 1)`,
		string(payload))
}

// rewriteOne updates the oldest matching document. The filter is repeated on the
// outer statement so a concurrent writer that changes the row between the
// subselect and the update makes the update miss instead of clobbering.
func (e *PostgresEngine) rewriteOne(ctx context.Context, collection string, f Filter, expr, payload string) error {
	args := []any{collection, payload}
	where, err := compile(f, &args)
	if err != nil {
		return err
	}
	q := `UPDATE documents SET data = ` + expr +
		` WHERE collection = $1 AND ` + where +
		` AND id = (SELECT id FROM documents WHERE collection = $1 AND ` + where + ` ORDER BY created_at LIMIT 1)`
	res, err := e.db.ExecContext(ctx, q, args...)
	if err != nil {
		return translate(fmt.Sprintf("update %s", collection), err)
	}
	return oneAffected(res, collection)
}

func (e *PostgresEngine) DeleteOne(ctx context.Context, collection string, f Filter) error {
	args := []any{collection}
	where, err := compile(f, &args)
	if err != nil {
		return err
	}
	q := `DELETE FROM documents WHERE collection = $1 AND ` + where +
		` AND id = (SELECT id FROM documents WHERE collection = $1 AND ` + where + ` ORDER BY created_at LIMIT 1)`
	res, err := e.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return oneAffected(res, collection)
}

func (e *PostgresEngine) DeleteMany(ctx context.Context, collection string, f Filter) (int64, error) {
	args := []any{collection}
	where, err := compile(f, &args)
	if err != nil {
		return 0, err
	}
	res, err := e.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return n, nil
}

func oneAffected(res sql.Result, collection string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", collection, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// translate maps unique violations to sentinel.ErrAlreadyUsed and wraps everything else.
func translate(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// compile renders f as a boolean SQL expression, appending its parameters to args.
func compile(f Filter, args *[]any) (string, error) {
	switch f.op {
	case opAll:
		return "TRUE", nil
	case opEq, opContains:
		var probe any = f.value
		if f.op == opContains {
			probe = []any{f.value}
		}
		raw, err := json.Marshal(map[string]any{f.field: probe})
		if err != nil {
			return "", fmt.Errorf("encode filter %s: %w", f, err)
		}
		*args = append(*args, string(raw))
		return "data @> $" + strconv.Itoa(len(*args)) + "::jsonb", nil
	case opOr, opAnd:
		if len(f.children) == 0 {
			if f.op == opOr {
				return "FALSE", nil
			}
			return "TRUE", nil
		}
		parts := make([]string, 0, len(f.children))
		for _, c := range f.children {
			p, err := compile(c, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		sep := " OR "
		if f.op == opAnd {
			sep = " AND "
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	}
	return "", fmt.Errorf("unsupported filter %s", f)
}
