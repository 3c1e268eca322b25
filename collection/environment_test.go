package collection

import (
	"os"
	"path/filepath"
)

// Environment runs f with the path of a fresh command log inside a
// throwaway directory.
func Environment(f func(filename string)) {
	dir, err := os.MkdirTemp("", "gridadmin-collection-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	f(filepath.Join(dir, "brands.jsonl"))
}
