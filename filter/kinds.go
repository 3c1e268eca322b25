package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/fulldump/gridadmin/record"
)

type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Kinds maps a column to the type its range conditions are compared as.
type Kinds map[string]Kind

func (k Kinds) Of(column string) Kind {
	if kind, ok := k[column]; ok {
		return kind
	}
	return KindText
}

// Override returns a copy of k where every known kind in overrides wins.
func (k Kinds) Override(overrides map[string]Kind) Kinds {
	result := make(Kinds, len(k)+len(overrides))
	for col, kind := range k {
		result[col] = kind
	}
	for col, kind := range overrides {
		switch kind {
		case KindText, KindNumber, KindDate:
			result[col] = kind
		}
	}
	return result
}

// DetectKinds inspects a batch: a column is a number when every non-null
// value is numeric, a date when every non-null value is an ISO date and
// text otherwise. Columns without any value are text.
func DetectKinds(batch []record.Record, columns []string) Kinds {
	kinds := make(Kinds, len(columns))
	for _, col := range columns {
		kinds[col] = detect(batch, col)
	}
	return kinds
}

func detect(batch []record.Record, column string) Kind {
	seen := false
	numbers := true
	dates := true
	for _, r := range batch {
		v := r.Get(column)
		if v.IsNull() {
			continue
		}
		seen = true
		if _, ok := v.Num(); !ok {
			numbers = false
		}
		s, ok := v.Str()
		if !ok {
			dates = false
		} else if _, _, err := ParseDate(s); err != nil {
			dates = false
		}
		if !numbers && !dates {
			return KindText
		}
	}
	switch {
	case !seen:
		return KindText
	case numbers:
		return KindNumber
	case dates:
		return KindDate
	}
	return KindText
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

const dateOnly = "2006-01-02"

// ParseDate parses an ISO 8601 date or date-time. dayOnly reports whether
// the input carried no time of day.
func ParseDate(s string) (t time.Time, dayOnly bool, err error) {
	s = strings.TrimSpace(s)
	t, err = time.Parse(dateOnly, s)
	if err == nil {
		return t, true, nil
	}
	for _, layout := range dateLayouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, err
}

func toNumber(v record.Value) (float64, bool) {
	if f, ok := v.Num(); ok {
		return f, true
	}
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func toMillis(v record.Value) (float64, bool) {
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	t, _, err := ParseDate(s)
	if err != nil {
		return 0, false
	}
	return float64(t.UnixMilli()), true
}
