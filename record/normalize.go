package record

import (
	stdjson "encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize flattens a raw document into a Record. Extended JSON wrappers
// ({"$oid": ...}, {"$numberInt": ...}, {"$numberLong": ...}, {"$date": ...})
// are unwrapped, any other nested object becomes its JSON text. Normalizing
// an already normalized record returns an equal record.
func Normalize(raw map[string]any) Record {
	r := make(Record, len(raw))
	for k, v := range raw {
		r[k] = NormalizeValue(v)
	}
	return r
}

// NormalizeValue converts a single raw value. Scalars pass through with
// their kind preserved.
func NormalizeValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case stdjson.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case primitive.ObjectID:
		return String(t.Hex())
	case primitive.DateTime:
		return String(formatTime(t.Time()))
	case time.Time:
		return String(formatTime(t))
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case primitive.Timestamp:
		return Number(float64(t.T))
	case []any:
		return normalizeArray(t)
	case primitive.A:
		return normalizeArray(t)
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Array(items...)
	case map[string]any:
		return normalizeObject(t)
	case primitive.M:
		return normalizeObject(t)
	case primitive.D:
		return normalizeObject(documentToMap(t))
	default:
		return String(serialize(v))
	}
}

// Batch turns a backend response into records. An array yields one record
// per object element, a single object yields a one-element batch and
// anything else an empty batch.
func Batch(data any) []Record {
	switch t := data.(type) {
	case []Record:
		return t
	case []map[string]any:
		batch := make([]Record, 0, len(t))
		for _, item := range t {
			batch = append(batch, Normalize(item))
		}
		return batch
	case []any:
		batch := make([]Record, 0, len(t))
		for _, item := range t {
			if m, ok := asObject(item); ok {
				batch = append(batch, Normalize(m))
			}
		}
		return batch
	default:
		if m, ok := asObject(data); ok {
			return []Record{Normalize(m)}
		}
		return []Record{}
	}
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case primitive.M:
		return t, true
	case primitive.D:
		return documentToMap(t), true
	case Record:
		raw := make(map[string]any, len(t))
		for k, v := range t {
			raw[k] = v
		}
		return raw, true
	}
	return nil, false
}

func normalizeArray(items []any) Value {
	values := make([]Value, len(items))
	for i, item := range items {
		values[i] = NormalizeValue(item)
	}
	return Array(values...)
}

func normalizeObject(m map[string]any) Value {
	if v, ok := unwrap(m); ok {
		return v
	}
	return String(serialize(plain(m)))
}

// unwrap decodes a single-key extended JSON wrapper through the bson
// extended JSON parser.
func unwrap(m map[string]any) (Value, bool) {
	if len(m) != 1 {
		return Value{}, false
	}
	var key string
	var inner any
	for k, v := range m {
		key, inner = k, v
	}
	if !strings.HasPrefix(key, "$") {
		return Value{}, false
	}

	data, err := json.Marshal(map[string]any{"v": m})
	if err == nil {
		doc := bson.M{}
		err = bson.UnmarshalExtJSON(data, false, &doc)
		if err == nil {
			switch decoded := doc["v"].(type) {
			case primitive.M, primitive.D, map[string]any:
				return Value{}, false
			default:
				return NormalizeValue(decoded), true
			}
		}
	}

	// Lenient fallback for wrappers the parser refuses (e.g. a non-hex $oid).
	s, isString := inner.(string)
	if !isString {
		return Value{}, false
	}
	switch key {
	case "$oid", "$date":
		return String(s), true
	case "$numberInt", "$numberLong", "$numberDouble", "$numberDecimal":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	}
	return Value{}, false
}

// plain rewrites a nested structure with every scalar normalized, so
// serialized objects do not leak driver types or extended JSON wrappers.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if u, ok := unwrap(t); ok {
			return u.Raw()
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case primitive.M:
		return plain(map[string]any(t))
	case primitive.D:
		return plain(documentToMap(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	case primitive.A:
		return plain([]any(t))
	default:
		return NormalizeValue(v).Raw()
	}
}

func documentToMap(d primitive.D) map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

func serialize(v any) string {
	data, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
