package apigridv1

import (
	"context"
	"io"
	"net/http"
	"strconv"
)

// export downloads the filtered rows of the grid as CSV.
func export(ctx context.Context, w http.ResponseWriter) error {

	result, err := getEngine(ctx).ExportCSV()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("X-Rows", strconv.Itoa(result.Rows))
	_, err = io.WriteString(w, result.Content)
	return err
}
