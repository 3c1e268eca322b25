package grid

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/filter"
	"github.com/fulldump/gridadmin/pagination"
	"github.com/fulldump/gridadmin/record"
)

type Cell struct {
	Column  string       `json:"column"`
	Value   record.Value `json:"value"`
	Display string       `json:"display"`
}

type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

type Page struct {
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	PageSizes  []int               `json:"page_sizes"`
	TotalItems int                 `json:"total_items"`
	TotalPages int                 `json:"total_pages"`
	From       int                 `json:"from"`
	To         int                 `json:"to"`
	Info       string              `json:"info"`
	Window     []pagination.Button `json:"window"`
}

// View is everything needed to render the grid.
type View struct {
	Active      string            `json:"active"`
	Name        string            `json:"name"`
	Kind        catalog.Kind      `json:"kind"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	Loaded      bool              `json:"loaded"`
	Columns     []string          `json:"columns"`
	Visible     []string          `json:"visible"`
	ForeignKeys map[string]string `json:"foreign_keys"`
	Kinds       filter.Kinds      `json:"kinds"`
	Search      string            `json:"search"`
	Conditions  filter.Conditions `json:"conditions"`
	Rows        []Row             `json:"rows"`
	Page        Page              `json:"page"`
}

// snapshot is a consistent copy of the engine state.
type snapshot struct {
	active     string
	current    *catalog.Descriptor
	loaded     bool
	batch      []record.Record
	columns    []string
	visible    []string
	kinds      filter.Kinds
	search     string
	conditions filter.Conditions
	page       pagination.State
}

func (e *Engine) snapshot() snapshot {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return snapshot{
		active:     e.active,
		current:    e.current,
		loaded:     e.loaded,
		batch:      e.batch,
		columns:    append([]string{}, e.columns...),
		visible:    append([]string{}, e.visible...),
		kinds:      e.kinds,
		search:     e.search,
		conditions: e.conditions,
		page:       e.page,
	}
}

func (s snapshot) filtered() []record.Record {
	return filter.Apply(s.batch, s.visible, s.search, s.conditions, s.kinds)
}

// View renders the current page. Foreign keys of visible columns are
// displayed with their related labels.
func (e *Engine) View(ctx context.Context) View {

	s := e.snapshot()
	result := pagination.Paginate(s.filtered(), s.page)

	e.mutex.Lock()
	if e.page == s.page {
		e.page.CurrentPage = result.Page
	}
	e.mutex.Unlock()

	v := View{
		Active:      s.active,
		Loaded:      s.loaded,
		Columns:     s.columns,
		Visible:     s.visible,
		ForeignKeys: map[string]string{},
		Kinds:       s.kinds,
		Search:      s.search,
		Conditions:  s.conditions,
		Rows:        make([]Row, 0, len(result.Items)),
		Page: Page{
			Page:       result.Page,
			PageSize:   result.PageSize,
			PageSizes:  e.catalog.PageSizes,
			TotalItems: result.TotalItems,
			TotalPages: result.TotalPages,
			From:       result.From,
			To:         result.To,
			Info:       fmt.Sprintf("%d-%d of %d", result.From, result.To, result.TotalItems),
			Window:     pagination.Window(result.Page, result.TotalPages, pagination.WindowSize),
		},
	}

	if s.current != nil {
		v.Name = s.current.Name
		v.Kind = s.current.Kind
		v.Title = s.current.Title
		v.Subtitle = s.current.Subtitle
		for _, col := range s.visible {
			if related, ok := s.current.Related(col); ok {
				v.ForeignKeys[col] = related
			}
		}
	}

	for _, r := range result.Items {
		row := Row{
			ID:    r.ID().Text(),
			Cells: make([]Cell, len(s.visible)),
		}
		for i, col := range s.visible {
			value := r.Get(col)
			row.Cells[i] = Cell{
				Column:  col,
				Value:   value,
				Display: e.display(ctx, v.ForeignKeys[col], value),
			}
		}
		v.Rows = append(v.Rows, row)
	}

	return v
}

func (e *Engine) display(ctx context.Context, related string, value record.Value) string {
	if related == "" || value.IsNull() {
		return value.Display()
	}
	if value.Kind() != record.KindArray {
		return e.resolver.Label(ctx, related, value.Text())
	}
	labels := make([]string, len(value.Items()))
	for i, item := range value.Items() {
		labels[i] = e.resolver.Label(ctx, related, item.Text())
	}
	return strings.Join(labels, ", ")
}
