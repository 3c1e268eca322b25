package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/gridadmin/record"
)

// Condition is a per column predicate: a substring (Contains) or an
// inclusive range where either bound may be blank.
type Condition struct {
	Contains string `json:"contains,omitempty"`
	Min      string `json:"min,omitempty"`
	Max      string `json:"max,omitempty"`
}

func (c Condition) Empty() bool {
	return strings.TrimSpace(c.Contains) == "" &&
		strings.TrimSpace(c.Min) == "" &&
		strings.TrimSpace(c.Max) == ""
}

func (c Condition) IsRange() bool {
	return strings.TrimSpace(c.Min) != "" || strings.TrimSpace(c.Max) != ""
}

type Conditions map[string]Condition

// Active drops empty conditions.
func (c Conditions) Active() Conditions {
	active := Conditions{}
	for col, cond := range c {
		if !cond.Empty() {
			active[col] = cond
		}
	}
	return active
}

// Apply keeps, in order, the records that match the free text query over the
// visible columns and every active condition. kinds may be nil, then they are
// detected from records.
func Apply(records []record.Record, visible []string, text string, conditions Conditions, kinds Kinds) []record.Record {

	query := strings.ToLower(strings.TrimSpace(text))
	active := conditions.Active()
	if query == "" && len(active) == 0 {
		return records
	}

	if kinds == nil && len(active) > 0 {
		kinds = DetectKinds(records, columnsOf(active))
	}

	compiled := make([]compiledCondition, 0, len(active))
	for col, cond := range active {
		compiled = append(compiled, compile(col, cond, kinds.Of(col)))
	}

	result := []record.Record{}
	for _, r := range records {
		if query != "" && !matchesText(r, visible, query) {
			continue
		}
		if !matchesAll(r, compiled) {
			continue
		}
		result = append(result, r)
	}
	return result
}

func columnsOf(c Conditions) []string {
	cols := make([]string, 0, len(c))
	for col := range c {
		cols = append(cols, col)
	}
	return cols
}

func matchesText(r record.Record, visible []string, query string) bool {
	for _, col := range visible {
		v := r.Get(col)
		if v.IsNull() {
			continue
		}
		if strings.Contains(strings.ToLower(v.Text()), query) {
			return true
		}
	}
	return false
}

func matchesAll(r record.Record, conditions []compiledCondition) bool {
	for _, c := range conditions {
		if !c.match(r.Get(c.column)) {
			return false
		}
	}
	return true
}

type compiledCondition struct {
	column   string
	kind     Kind
	contains string
	isRange  bool
	min, max *float64
	// invalid bounds can never be satisfied
	invalid bool
}

func compile(column string, cond Condition, kind Kind) compiledCondition {
	c := compiledCondition{
		column:   column,
		kind:     kind,
		contains: strings.ToLower(strings.TrimSpace(cond.Contains)),
		isRange:  cond.IsRange(),
	}
	if !c.isRange {
		return c
	}
	if kind != KindDate {
		c.kind = KindNumber
	}

	var ok bool
	if c.min, ok = bound(cond.Min, c.kind, false); !ok {
		c.invalid = true
	}
	if c.max, ok = bound(cond.Max, c.kind, true); !ok {
		c.invalid = true
	}
	return c
}

// bound coerces a textual bound. A blank bound is nil. Date-only upper
// bounds cover the whole day.
func bound(s string, kind Kind, upper bool) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if kind == KindDate {
		t, dayOnly, err := ParseDate(s)
		if err != nil {
			return nil, false
		}
		if upper && dayOnly {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		f := float64(t.UnixMilli())
		return &f, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func (c compiledCondition) match(v record.Value) bool {

	if v.IsNull() || c.invalid {
		return false
	}

	if c.contains != "" && !strings.Contains(strings.ToLower(v.Text()), c.contains) {
		return false
	}

	if !c.isRange {
		return true
	}

	var x float64
	var ok bool
	if c.kind == KindDate {
		x, ok = toMillis(v)
	} else {
		x, ok = toNumber(v)
	}
	if !ok {
		return false
	}

	if c.min != nil && !compare(x, "$ge", *c.min) {
		return false
	}
	if c.max != nil && !compare(x, "$le", *c.max) {
		return false
	}
	return true
}

func compare(x float64, operator string, limit float64) bool {
	match, err := connor.Match(
		map[string]interface{}{"v": map[string]interface{}{operator: limit}},
		map[string]interface{}{"v": x},
	)
	return err == nil && match
}
