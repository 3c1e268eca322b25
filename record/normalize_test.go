package record

import (
	stdjson "encoding/json"
	"math"
	"testing"
	"time"

	"github.com/fulldump/biff"
	"github.com/go-json-experiment/json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize_Wrappers(t *testing.T) {

	raw := map[string]any{
		"_id":      map[string]any{"$oid": "64b7f0c2a1b2c3d4e5f60718"},
		"stock":    map[string]any{"$numberInt": "50"},
		"sold":     map[string]any{"$numberLong": "1234567890"},
		"price":    map[string]any{"$numberDouble": "99.99"},
		"created":  map[string]any{"$date": "2025-07-01T00:00:00Z"},
		"name":     "Air Max",
		"tags":     []any{"running", "men"},
		"nothing":  nil,
		"featured": true,
	}

	r := Normalize(raw)

	biff.AssertEqual(r["_id"], String("64b7f0c2a1b2c3d4e5f60718"))
	biff.AssertEqual(r["stock"], Number(50))
	biff.AssertEqual(r["sold"], Number(1234567890))
	biff.AssertEqual(r["price"], Number(99.99))
	biff.AssertEqual(r["created"], String("2025-07-01T00:00:00Z"))
	biff.AssertEqual(r["name"], String("Air Max"))
	biff.AssertEqual(r["tags"], Array(String("running"), String("men")))
	biff.AssertTrue(r["nothing"].IsNull())
	biff.AssertEqual(r["featured"], Bool(true))
}

func TestNormalize_UnknownObjectIsSerialized(t *testing.T) {

	r := Normalize(map[string]any{
		"address": map[string]any{
			"street": "Elm Street 11",
			"zip":    1234,
			"owner":  map[string]any{"$oid": "64b7f0c2a1b2c3d4e5f60718"},
		},
	})

	biff.AssertEqual(r["address"].Kind(), KindString)
	biff.AssertEqual(r["address"].Text(), `{"owner":"64b7f0c2a1b2c3d4e5f60718","street":"Elm Street 11","zip":1234}`)
}

func TestNormalize_NestedInsideArray(t *testing.T) {

	r := Normalize(map[string]any{
		"items": []any{
			map[string]any{"$oid": "64b7f0c2a1b2c3d4e5f60718"},
			map[string]any{"size": "M"},
			[]any{1, 2},
		},
	})

	items := r["items"].Items()
	biff.AssertEqual(len(items), 3)
	biff.AssertEqual(items[0], String("64b7f0c2a1b2c3d4e5f60718"))
	biff.AssertEqual(items[1], String(`{"size":"M"}`))
	biff.AssertEqual(items[2], String(`[1,2]`))
}

func TestNormalize_DriverTypes(t *testing.T) {

	oid := primitive.NewObjectID()
	when := time.Date(2025, 7, 10, 12, 30, 0, 0, time.UTC)

	r := Normalize(map[string]any{
		"_id":      oid,
		"quantity": int32(5),
		"total":    int64(600),
		"date":     primitive.NewDateTimeFromTime(when),
		"meta":     primitive.M{"a": "b"},
		"sizes":    primitive.A{"S", "M"},
		"n":        stdjson.Number("12.5"),
	})

	biff.AssertEqual(r["_id"], String(oid.Hex()))
	biff.AssertEqual(r["quantity"], Number(5))
	biff.AssertEqual(r["total"], Number(600))
	biff.AssertEqual(r["date"], String("2025-07-10T12:30:00Z"))
	biff.AssertEqual(r["meta"], String(`{"a":"b"}`))
	biff.AssertEqual(r["sizes"], Array(String("S"), String("M")))
	biff.AssertEqual(r["n"], Number(12.5))
}

func TestNormalize_Idempotent(t *testing.T) {

	biff.Alternative("Normalize Idempotent", func(a *biff.A) {
		first := Normalize(map[string]any{
			"_id":     map[string]any{"$oid": "64b7f0c2a1b2c3d4e5f60718"},
			"price":   map[string]any{"$numberInt": "10"},
			"address": map[string]any{"city": "Madrid"},
			"tags":    []any{"a", map[string]any{"b": 1}},
			"empty":   nil,
		})

		a.Alternative("Normalize raw form", func(a *biff.A) {
			second := Normalize(first.Raw())
			biff.AssertTrue(first.Equal(second))
		})

		a.Alternative("Normalize values", func(a *biff.A) {
			asValues := map[string]any{}
			for k, v := range first {
				asValues[k] = v
			}
			second := Normalize(asValues)
			biff.AssertEqual(second, first)
		})
	})
}

func TestNormalize_LenientObjectID(t *testing.T) {

	r := Normalize(map[string]any{
		"_id": map[string]any{"$oid": "not-an-object-id"},
	})

	biff.AssertEqual(r["_id"], String("not-an-object-id"))
}

func TestNormalizeValue_ScalarsPassThrough(t *testing.T) {

	biff.AssertEqual(NormalizeValue("x"), String("x"))
	biff.AssertEqual(NormalizeValue(3), Number(3))
	biff.AssertEqual(NormalizeValue(false), Bool(false))
	biff.AssertEqual(NormalizeValue(nil), Null())
}

func TestBatch(t *testing.T) {

	biff.Alternative("Batch", func(a *biff.A) {
		a.Alternative("Array", func(a *biff.A) {
			batch := Batch([]any{
				map[string]any{"_id": "1"},
				"garbage",
				map[string]any{"_id": "2"},
			})
			biff.AssertEqual(len(batch), 2)
			biff.AssertEqual(batch[1]["_id"], String("2"))
		})

		a.Alternative("Single object", func(a *biff.A) {
			batch := Batch(map[string]any{"_id": "1"})
			biff.AssertEqual(len(batch), 1)
		})

		a.Alternative("Nothing", func(a *biff.A) {
			biff.AssertEqual(len(Batch(nil)), 0)
			biff.AssertEqual(len(Batch("text")), 0)
		})
	})
}

func TestValue_Text(t *testing.T) {

	biff.AssertEqual(Number(99.99).Text(), "99.99")
	biff.AssertEqual(Number(5).Text(), "5")
	biff.AssertEqual(Null().Text(), "")
	biff.AssertEqual(Array(String("a"), Number(1)).Text(), "a,1")
	biff.AssertEqual(Array(String("a"), Number(1)).Display(), "a, 1")
}

func TestValue_JSON(t *testing.T) {

	data, err := stdjson.Marshal(Record{
		"name":  String("Nike"),
		"price": Number(10),
		"tags":  Array(String("a")),
		"none":  Null(),
	})
	biff.AssertNil(err)
	biff.AssertEqual(string(data), `{"name":"Nike","none":null,"price":10,"tags":["a"]}`)
}

func TestNormalize_NonFiniteNumbers(t *testing.T) {

	r := Normalize(map[string]any{
		"nan":      map[string]any{"$numberDouble": "NaN"},
		"inf":      map[string]any{"$numberDouble": "Infinity"},
		"neg":      map[string]any{"$numberDouble": "-Infinity"},
		"computed": math.Inf(1),
	})

	biff.AssertEqual(r["nan"], String("NaN"))
	biff.AssertEqual(r["inf"], String("Infinity"))
	biff.AssertEqual(r["neg"], String("-Infinity"))
	biff.AssertEqual(r["computed"], String("Infinity"))

	data, err := stdjson.Marshal(r)
	biff.AssertNil(err)
	biff.AssertEqual(string(data), `{"computed":"Infinity","inf":"Infinity","nan":"NaN","neg":"-Infinity"}`)

	data, err = json.Marshal(Record{"price": Value{kind: KindNumber, num: math.NaN()}})
	biff.AssertNil(err)
	biff.AssertEqual(string(data), `{"price":"NaN"}`)
}
