// Package value defines the closed, immutable variant type shared by the
// whole evaluator. A Value carries a typed payload and the origin of the
// construct that produced it; the origin never participates in equality.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/origin"
)

// Kind enumerates the closed set of payload variants.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindString
	KindList
	KindSnapshot
)

// String names the kind the way diagnostics spell it.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSnapshot:
		return "scope"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable tagged variant. The zero Value is the null value
// with no origin, used as the "unset" placeholder.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	list []Value
	snap map[string]Value
	org  origin.Node
}

// Null returns the explicit null value.
func Null(org origin.Node) Value {
	return Value{kind: KindNull, org: org}
}

// Bool wraps a boolean payload.
func Bool(b bool, org origin.Node) Value {
	return Value{kind: KindBool, b: b, org: org}
}

// Int wraps an integer payload.
func Int(i int64, org origin.Node) Value {
	return Value{kind: KindInt, i: i, org: org}
}

// String wraps a string payload.
func String(s string, org origin.Node) Value {
	return Value{kind: KindString, s: s, org: org}
}

// List wraps an ordered list of values. The slice is not copied; callers
// must not mutate it afterwards.
func List(items []Value, org origin.Node) Value {
	return Value{kind: KindList, list: items, org: org}
}

// Snapshot wraps a scope snapshot, a name-to-value mapping detached from
// any live scope. The map is not copied; callers must not mutate it
// afterwards.
func Snapshot(fields map[string]Value, org origin.Node) Value {
	return Value{kind: KindSnapshot, snap: fields, org: org}
}

// Kind reports the variant tag. Total for every Value.
func (v Value) Kind() Kind { return v.kind }

// Origin reports the node that produced this value; may be nil for
// system-seeded values.
func (v Value) Origin() origin.Node { return v.org }

// WithOrigin returns the same payload re-anchored at org. Assignment
// carries the new origin this way.
func (v Value) WithOrigin(org origin.Node) Value {
	v.org = org
	return v
}

// BoolValue returns the boolean payload. Callers check the kind first;
// any other variant yields the zero value.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the integer payload.
func (v Value) IntValue() int64 { return v.i }

// StringValue returns the string payload.
func (v Value) StringValue() string { return v.s }

// ListValue returns the list payload. Callers must not mutate it.
func (v Value) ListValue() []Value { return v.list }

// SnapshotValue returns the snapshot payload. Callers must not mutate it.
func (v Value) SnapshotValue() map[string]Value { return v.snap }

// CheckKind verifies the variant tag and reports a type mismatch anchored
// at the value's origin otherwise. This is how the evaluator turns a bad
// dereference into a user-actionable diagnostic.
func (v Value) CheckKind(want Kind) *diag.Error {
	if v.kind == want {
		return nil
	}
	return diag.New(v.org, diag.TypeMismatchTitle,
		fmt.Sprintf("Expected a %s but got a %s.", want, v.kind))
}

// Equal reports structural equality over the payload. Origins are
// deliberately ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindSnapshot:
		if len(v.snap) != len(o.snap) {
			return false
		}
		for name, val := range v.snap {
			other, ok := o.snap[name]
			if !ok || !val.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Describe renders the value as a source-shaped literal, used by the
// argument listing and the emitted manifest.
func (v Value) Describe() string {
	switch v.kind {
	case KindNull:
		return "<unset>"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Describe()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindSnapshot:
		names := make([]string, 0, len(v.snap))
		for name := range v.snap {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + " = " + v.snap[name].Describe()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}
