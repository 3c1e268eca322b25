package grid

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/relation"
	"github.com/fulldump/gridadmin/utils"
)

const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

type Field struct {
	Name    string            `json:"name"`
	Kind    catalog.FieldKind `json:"kind"`
	Related string            `json:"related,omitempty"`
	Value   record.Value      `json:"value"`
	Options []relation.Option `json:"options,omitempty"`
}

type Form struct {
	Collection string  `json:"collection"`
	Title      string  `json:"title"`
	Mode       string  `json:"mode"`
	ID         string  `json:"id,omitempty"`
	Fields     []Field `json:"fields"`
}

// activeDescriptor returns the active collection and, when it is what the
// grid shows, its batch.
func (e *Engine) activeDescriptor() (*catalog.Descriptor, []record.Record, error) {
	e.mutex.Lock()
	active, current, batch := e.active, e.current, e.batch
	e.mutex.Unlock()

	if active == "" {
		return nil, nil, ErrNoActiveCollection
	}
	d, err := e.catalog.Collection(active)
	if err != nil {
		return nil, nil, err
	}
	if current != d {
		batch = nil
	}
	return d, batch, nil
}

// Form describes the create form (empty id) or the edit form of a record
// of the active collection. Fields are the catalog presets followed by any
// other column of a sample record.
func (e *Engine) Form(ctx context.Context, id string) (Form, error) {

	d, batch, err := e.activeDescriptor()
	if err != nil {
		return Form{}, err
	}

	form := Form{
		Collection: d.Name,
		Title:      "New " + singular(d.Title),
		Mode:       ModeCreate,
		Fields:     []Field{},
	}

	var sample record.Record
	if id == "" {
		if len(batch) > 0 {
			sample = batch[0]
		}
	} else {
		form.Mode = ModeEdit
		form.ID = id
		form.Title = "Edit " + singular(d.Title)
		sample = findByID(batch, id)
		if sample == nil {
			sample, err = e.source.Get(ctx, d.Endpoint, id)
			if err != nil {
				return Form{}, fmt.Errorf("get '%s': %w", id, err)
			}
		}
	}

	for _, col := range formColumns(d, sample) {
		field := Field{
			Name: col,
			Kind: fieldKind(d, col, sample),
		}
		if form.Mode == ModeEdit {
			field.Value = sample.Get(col)
		}
		if field.Kind == catalog.FieldReference {
			field.Related, _ = d.FormRelated(col)
			field.Options = e.resolver.Resolve(ctx, field.Related)
		}
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}

func formColumns(d *catalog.Descriptor, sample record.Record) []string {
	cols := d.FormPreset()
	rest := map[string]record.Value{}
	for col, v := range sample {
		rest[col] = v
	}
	delete(rest, "_id")
	delete(rest, "id")
	for _, col := range cols {
		delete(rest, col)
	}
	return append(cols, utils.GetKeys(rest)...)
}

func fieldKind(d *catalog.Descriptor, col string, sample record.Record) catalog.FieldKind {
	kind := d.FieldKind(col)
	if kind != catalog.FieldText {
		return kind
	}
	if _, ok := d.FormRelated(col); ok {
		return catalog.FieldReference
	}
	if _, ok := sample.Get(col).Num(); ok {
		return catalog.FieldNumber
	}
	return kind
}

func findByID(batch []record.Record, id string) record.Record {
	for _, r := range batch {
		if r.ID().Text() == id {
			return r
		}
	}
	return nil
}

func singular(title string) string {
	return strings.TrimSuffix(title, "s")
}

// coerce converts the number fields of a payload. Blank or missing values
// become 0 and text that is not a number becomes null.
func coerce(d *catalog.Descriptor, payload map[string]any, sample record.Record) map[string]any {
	out := make(map[string]any, len(payload))
	for col, v := range payload {
		if fieldKind(d, col, sample) == catalog.FieldNumber {
			out[col] = coerceNumber(v)
			continue
		}
		out[col] = v
	}
	return out
}

func coerceNumber(v any) any {
	value := record.NormalizeValue(v)
	switch value.Kind() {
	case record.KindNull:
		return float64(0)
	case record.KindNumber:
		f, _ := value.Num()
		return f
	case record.KindBool:
		if value.Text() == "true" {
			return float64(1)
		}
		return float64(0)
	case record.KindString:
		s := strings.TrimSpace(value.Text())
		if s == "" {
			return float64(0)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f
	}
	return nil
}
