package catalog

import (
	"strings"

	"github.com/fulldump/gridadmin/filter"
)

type Kind string

const (
	KindCollection Kind = "collection"
	KindReport     Kind = "report"
)

type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldNumber    FieldKind = "number"
	FieldDate      FieldKind = "date"
	FieldTextarea  FieldKind = "textarea"
	FieldPassword  FieldKind = "password"
	FieldReference FieldKind = "reference"
)

// Descriptor declares a collection or a report.
type Descriptor struct {
	Name        string               `yaml:"name" json:"name"`
	Title       string               `yaml:"title" json:"title"`
	Subtitle    string               `yaml:"subtitle" json:"subtitle,omitempty"`
	Endpoint    string               `yaml:"endpoint" json:"endpoint"`
	Kind        Kind                 `yaml:"kind" json:"kind"`
	ForeignKeys map[string]string    `yaml:"foreign_keys" json:"foreign_keys"`
	Preferred   []string             `yaml:"preferred" json:"preferred"`
	Fields      map[string]FieldKind `yaml:"fields" json:"fields"`
}

// VisibilityKey is the key the visible columns of this descriptor are
// persisted under.
func (d *Descriptor) VisibilityKey() string {
	if d.Kind == KindReport {
		return "reports/" + d.Name
	}
	return d.Name
}

// Related returns the declared related collection of a foreign key column.
func (d *Descriptor) Related(column string) (string, bool) {
	related, ok := d.ForeignKeys[column]
	return related, ok
}

// FormRelated is like Related but infers `<column minus _id>s` for any
// other `*_id` column, as edit forms do.
func (d *Descriptor) FormRelated(column string) (string, bool) {
	if related, ok := d.Related(column); ok {
		return related, true
	}
	if column == "_id" || !strings.HasSuffix(column, "_id") {
		return "", false
	}
	return strings.TrimSuffix(column, "_id") + "s", true
}

// FieldKind returns the declared kind of a column. Foreign keys are
// references, anything undeclared is text.
func (d *Descriptor) FieldKind(column string) FieldKind {
	if fk, ok := d.Fields[column]; ok {
		return fk
	}
	if _, ok := d.ForeignKeys[column]; ok {
		return FieldReference
	}
	return FieldText
}

// FormPreset lists the columns always offered by the create form.
func (d *Descriptor) FormPreset() []string {
	preset := make([]string, 0, len(d.Preferred))
	for _, col := range d.Preferred {
		if col == "_id" {
			continue
		}
		preset = append(preset, col)
	}
	return preset
}

// FilterKinds are the declared column kinds that override detection when
// comparing range conditions.
func (d *Descriptor) FilterKinds() map[string]filter.Kind {
	kinds := map[string]filter.Kind{}
	for col, fk := range d.Fields {
		switch fk {
		case FieldNumber:
			kinds[col] = filter.KindNumber
		case FieldDate:
			kinds[col] = filter.KindDate
		case FieldText, FieldTextarea, FieldPassword:
			kinds[col] = filter.KindText
		}
	}
	return kinds
}
