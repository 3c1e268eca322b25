package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fulldump/gridadmin/pagination"
)

//go:embed default.yaml
var defaultCatalog []byte

var ErrUnknownCollection = errors.New("unknown collection")
var ErrUnknownReport = errors.New("unknown report")
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the declarative set of collections and reports the admin
// serves. It is loaded once and never modified.
type Catalog struct {
	LabelFields     []string      `yaml:"label_fields" json:"label_fields"`
	PageSizes       []int         `yaml:"page_sizes" json:"page_sizes"`
	DefaultPageSize int           `yaml:"default_page_size" json:"default_page_size"`
	Collections     []*Descriptor `yaml:"collections" json:"collections"`
	Reports         []*Descriptor `yaml:"reports" json:"reports"`

	collections map[string]*Descriptor
	reports     map[string]*Descriptor
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic("embedded catalog: " + err.Error())
	}
	return c
}

// Load reads a catalog file, the embedded one when filename is empty.
func Load(filename string) (*Catalog, error) {
	if filename == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read catalog '%s': %w", filename, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {

	c := &Catalog{}
	err := yaml.Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, err.Error())
	}

	err = c.index()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {

	if len(c.PageSizes) == 0 {
		c.PageSizes = pagination.PageSizes
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = pagination.DefaultPageSize
	}

	c.collections = map[string]*Descriptor{}
	for _, d := range c.Collections {
		if err := d.complete(KindCollection); err != nil {
			return err
		}
		if _, exists := c.collections[d.Name]; exists {
			return fmt.Errorf("%w: duplicated collection '%s'", ErrInvalidCatalog, d.Name)
		}
		c.collections[d.Name] = d
	}

	c.reports = map[string]*Descriptor{}
	for _, d := range c.Reports {
		if err := d.complete(KindReport); err != nil {
			return err
		}
		if _, exists := c.reports[d.Name]; exists {
			return fmt.Errorf("%w: duplicated report '%s'", ErrInvalidCatalog, d.Name)
		}
		c.reports[d.Name] = d
	}

	for _, d := range append(append([]*Descriptor{}, c.Collections...), c.Reports...) {
		for col, related := range d.ForeignKeys {
			if _, ok := c.collections[related]; !ok {
				return fmt.Errorf("%w: '%s.%s' references unknown collection '%s'", ErrInvalidCatalog, d.Name, col, related)
			}
		}
	}

	return nil
}

func (c *Catalog) Collection(name string) (*Descriptor, error) {
	d, ok := c.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCollection, name)
	}
	return d, nil
}

func (c *Catalog) Report(name string) (*Descriptor, error) {
	d, ok := c.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownReport, name)
	}
	return d, nil
}

// ValidPageSize returns size when the catalog offers it.
func (c *Catalog) ValidPageSize(size int) int {
	return pagination.ValidPageSize(size, c.PageSizes, c.DefaultPageSize)
}

func (d *Descriptor) complete(kind Kind) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: %s without name", ErrInvalidCatalog, kind)
	}
	if d.Kind == "" {
		d.Kind = kind
	}
	if d.Kind != kind {
		return fmt.Errorf("%w: '%s' declared as %s", ErrInvalidCatalog, d.Name, d.Kind)
	}
	if d.Title == "" {
		d.Title = d.Name
	}
	if d.Endpoint == "" {
		d.Endpoint = d.Name
		if kind == KindReport {
			d.Endpoint = "reports/" + d.Name
		}
	}
	if d.ForeignKeys == nil {
		d.ForeignKeys = map[string]string{}
	}
	if d.Fields == nil {
		d.Fields = map[string]FieldKind{}
	}
	for col, fk := range d.Fields {
		switch fk {
		case FieldText, FieldNumber, FieldDate, FieldTextarea, FieldPassword, FieldReference:
		default:
			return fmt.Errorf("%w: field '%s.%s' has unknown kind '%s'", ErrInvalidCatalog, d.Name, col, fk)
		}
	}
	return nil
}
