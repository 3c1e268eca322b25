package csvexport

import (
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/gridadmin/record"
)

func TestToCSV(t *testing.T) {

	biff.Alternative("ToCSV", func(a *biff.A) {
		a.Alternative("Simple", func(a *biff.A) {
			out := ToCSV([]string{"_id", "name", "country"}, []record.Record{
				{"_id": record.String("1"), "name": record.String("Nike"), "country": record.String("US"), "founded": record.Number(1964)},
			})
			biff.AssertEqual(out, "\"_id\",\"name\",\"country\"\n\"1\",\"Nike\",\"US\"")
		})

		a.Alternative("Escaping", func(a *biff.A) {
			out := ToCSV([]string{"comment", "tags", "missing"}, []record.Record{
				{"comment": record.String("say \"hi\"\nnow"), "tags": record.Array(record.String("a"), record.Number(2))},
			})
			biff.AssertEqual(out, "\"comment\",\"tags\",\"missing\"\n\"say \"\"hi\"\" now\",\"a,2\",\"\"")
		})

		a.Alternative("Only header", func(a *biff.A) {
			biff.AssertEqual(ToCSV([]string{"_id"}, nil), `"_id"`)
		})

		a.Alternative("Filename", func(a *biff.A) {
			biff.AssertEqual(Filename("brands"), "brands.csv")
		})
	})
}
