package grid

import (
	"github.com/fulldump/gridadmin/csvexport"
)

type Export struct {
	Filename string
	Content  string
	Rows     int
}

// ExportCSV serializes the visible columns of every record that passes the
// current search and filters, not just the current page.
func (e *Engine) ExportCSV() (Export, error) {
	s := e.snapshot()
	if s.current == nil {
		return Export{}, ErrNothingLoaded
	}
	rows := s.filtered()
	return Export{
		Filename: csvexport.Filename(s.current.Name),
		Content:  csvexport.ToCSV(s.visible, rows),
		Rows:     len(rows),
	}, nil
}
