package docstore

import (
	"fmt"
	"reflect"
	"strings"
)

type filterOp int

const (
	opAll filterOp = iota
	opEq
	opContains
	opOr
	opAnd
)

// Filter selects documents. Build filters with Eq, Contains, In, Or, And and All.
type Filter struct {
	op       filterOp
	field    string
	value    any
	children []Filter
}

// All matches every document.
func All() Filter { return Filter{op: opAll} }

// Eq matches documents whose scalar field equals v.
func Eq(field string, v any) Filter {
	return Filter{op: opEq, field: field, value: v}
}

// Contains matches documents whose array field holds v.
func Contains(field string, v any) Filter {
	return Filter{op: opContains, field: field, value: v}
}

// In matches documents whose scalar field equals any of vs. An empty In matches nothing.
func In[V any](field string, vs ...V) Filter {
	children := make([]Filter, 0, len(vs))
	for _, v := range vs {
		children = append(children, Eq(field, v))
	}
	return Filter{op: opOr, children: children}
}

// Or matches documents matched by any child. An empty Or matches nothing.
func Or(filters ...Filter) Filter {
	return Filter{op: opOr, children: filters}
}

// And matches documents matched by every child.
func And(filters ...Filter) Filter {
	return Filter{op: opAnd, children: filters}
}

func (f Filter) String() string {
	switch f.op {
	case opEq:
		return fmt.Sprintf("%s=%v", f.field, f.value)
	case opContains:
		return fmt.Sprintf("%s has %v", f.field, f.value)
	case opOr, opAnd:
		parts := make([]string, len(f.children))
		for i, c := range f.children {
			parts[i] = c.String()
		}
		sep := " or "
		if f.op == opAnd {
			sep = " and "
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "all"
	}
}

// normalized returns a copy with every value passed through JSON.
func (f Filter) normalized() (Filter, error) {
	out := Filter{op: f.op, field: f.field}
	if f.op == opEq || f.op == opContains {
		v, err := normalize(f.value)
		if err != nil {
			return Filter{}, err
		}
		out.value = v
	}
	if len(f.children) > 0 {
		out.children = make([]Filter, len(f.children))
		for i, c := range f.children {
			nc, err := c.normalized()
			if err != nil {
				return Filter{}, err
			}
			out.children[i] = nc
		}
	}
	return out, nil
}

// matches evaluates a normalized filter against a decoded document.
func (f Filter) matches(doc Document) bool {
	switch f.op {
	case opAll:
		return true
	case opEq:
		v, ok := doc[f.field]
		return ok && reflect.DeepEqual(v, f.value)
	case opContains:
		arr, ok := doc[f.field].([]any)
		if !ok {
			return false
		}
		for _, el := range arr {
			if reflect.DeepEqual(el, f.value) {
				return true
			}
		}
		return false
	case opOr:
		for _, c := range f.children {
			if c.matches(doc) {
				return true
			}
		}
		return false
	case opAnd:
		for _, c := range f.children {
			if !c.matches(doc) {
				return false
			}
		}
		return true
	}
	return false
}
