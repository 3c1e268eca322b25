package collection

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestRaceInsertTraverse(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "race_test_collection.jsonl")

	c, err := OpenCollection(filename, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var wg sync.WaitGroup
	wg.Add(3)

	start := time.Now()
	duration := 500 * time.Millisecond

	// Writer
	go func() {
		defer wg.Done()
		i := 0
		for time.Since(start) < duration {
			_, err := c.Insert(map[string]any{"v": i})
			if err != nil {
				t.Error(err)
				return
			}
			i++
		}
	}()

	// Patcher
	go func() {
		defer wg.Done()
		for time.Since(start) < duration {
			c.Traverse(func(item map[string]any) bool {
				c.Patch(item["_id"].(string), map[string]any{"seen": true})
				return false
			})
		}
	}()

	// Reader
	go func() {
		defer wg.Done()
		for time.Since(start) < duration {
			c.Traverse(func(item map[string]any) bool {
				return true
			})
		}
	}()

	wg.Wait()
}
