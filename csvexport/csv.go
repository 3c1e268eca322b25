package csvexport

import (
	"strings"

	"github.com/fulldump/gridadmin/record"
)

var newlines = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// ToCSV renders the header and one row per record. Every cell is quoted,
// embedded quotes are doubled and line breaks become spaces. Rows are
// separated by "\n" without a trailing newline.
func ToCSV(visible []string, records []record.Record) string {

	b := &strings.Builder{}

	writeRow(b, visible)
	cells := make([]string, len(visible))
	for _, r := range records {
		b.WriteByte('\n')
		for i, col := range visible {
			cells[i] = r.Get(col).Text()
		}
		writeRow(b, cells)
	}

	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(cell))
	}
}

func Quote(cell string) string {
	cell = newlines.Replace(cell)
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Filename is the download name of an export.
func Filename(name string) string {
	return name + ".csv"
}
