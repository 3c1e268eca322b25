package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Value is a single cell of a normalized record: a scalar (string, number,
// bool, null) or an array of scalars. The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   float64
	flag  bool
	items []Value
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number builds a numeric value. NaN and the infinities have no JSON
// number form, they become their Extended JSON spelling as a string.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return String(nonFinite(f))
	}
	return Value{kind: KindNumber, num: f}
}

func nonFinite(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return "NaN"
	}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Array builds an array value. Items that are arrays themselves are
// serialized to strings so the array stays flat.
func Array(items ...Value) Value {
	flat := make([]Value, len(items))
	for i, item := range items {
		if item.kind == KindArray {
			item = String(serialize(item.Raw()))
		}
		flat[i] = item
	}
	return Value{kind: KindArray, items: flat}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) Items() []Value {
	return v.items
}

// Text is the plain stringification used for searching and exporting.
// Arrays are comma-joined, null is the empty string.
func (v Value) Text() string {
	return v.join(",")
}

// Display is like Text but separates array items with ", " as the grid
// shows them.
func (v Value) Display() string {
	return v.join(", ")
}

func (v Value) join(sep string) string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Text()
		}
		return strings.Join(parts, sep)
	default:
		return ""
	}
}

// Raw returns the plain Go representation: nil, string, float64, bool or
// []any.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindArray:
		raw := make([]any, len(v.items))
		for i, item := range v.items {
			raw[i] = item.Raw()
		}
		return raw
	default:
		return nil
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return json.Marshal(nonFinite(v.num))
	}
	return json.Marshal(v.Raw())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = NormalizeValue(raw)
	return nil
}

// Record is a flat, normalized row. Column order is irrelevant.
type Record map[string]Value

// Get returns the value of a column, null when absent.
func (r Record) Get(column string) Value {
	return r[column]
}

// ID returns the identity value (`_id`, falling back to `id`).
func (r Record) ID() Value {
	if v, ok := r["_id"]; ok && !v.IsNull() {
		return v
	}
	return r["id"]
}

func (r Record) Raw() map[string]any {
	raw := make(map[string]any, len(r))
	for k, v := range r {
		raw[k] = v.Raw()
	}
	return raw
}

func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
