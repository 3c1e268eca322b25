package collection

import (
	"os"
	"strings"
	"sync"
	"testing"

	. "github.com/fulldump/biff"
	"github.com/go-json-experiment/json"
)

func readCommands(filename string) []*Command {
	data, _ := os.ReadFile(filename)
	commands := []*Command{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		command := &Command{}
		json.Unmarshal([]byte(line), command)
		commands = append(commands, command)
	}
	return commands
}

func TestInsert(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		// Run
		row, err := c.Insert(map[string]interface{}{
			"_id":   "1",
			"hello": "world",
		})
		AssertNil(err)
		AssertEqual(row.ID, "1")

		// Check
		commands := readCommands(filename)
		AssertEqual(len(commands), 1)
		AssertEqual(commands[0].Name, CommandInsert)
		AssertEqual(string(commands[0].Payload), `{"_id":"1","hello":"world"}`)
	})
}

func TestInsert_GeneratesObjectID(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		row, err := c.Insert(map[string]interface{}{"name": "Nike"})
		AssertNil(err)
		AssertEqual(len(row.ID), 24)

		item, err := c.FindByID(row.ID)
		AssertNil(err)
		AssertEqual(item["_id"], row.ID)
	})
}

func TestInsert_DuplicatedID(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		_, err := c.Insert(map[string]interface{}{"_id": "1"})
		AssertNil(err)

		_, err = c.Insert(map[string]interface{}{"_id": "1"})
		AssertNotNil(err)
		AssertEqual(c.Len(), 1)
	})
}

func TestCollection_Insert_Concurrency(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		n := 100

		wg := &sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Insert(map[string]interface{}{"hello": "world"})
			}()
		}

		wg.Wait()

		AssertEqual(len(c.Rows), n)
		AssertEqual(len(readCommands(filename)), n)
	})
}

func TestReplay(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		os.WriteFile(filename, []byte(strings.Join([]string{
			`{"name":"insert","uuid":"ec59a0e6-8fcb-4c1c-91e5-3dd7df6a0b80","timestamp":1648937091073939741,"payload":{"_id":"1","name":"Fulanez"}}`,
			`{"name":"insert","uuid":"ec59a0e6-8fcb-4c1c-91e5-3dd7df6a0b81","timestamp":1648937091073939742,"payload":{"_id":"2","name":"Menganez"}}`,
			`{"name":"patch","uuid":"ec59a0e6-8fcb-4c1c-91e5-3dd7df6a0b82","timestamp":1648937091073939743,"payload":{"id":"1","diff":{"name":"Fulano"}}}`,
			`{"name":"remove","uuid":"ec59a0e6-8fcb-4c1c-91e5-3dd7df6a0b83","timestamp":1648937091073939744,"payload":{"id":"2"}}`,
			`{"name":"remove","uuid":"ec59a0e6-8fcb-4c1c-91e5-3dd7df6a0b84","timestamp":1648937091073939745,"payload":{"id":"ghost"}}`,
		}, "\n")), 0666)

		// Run
		c, err := OpenCollection(filename, nil)
		AssertNil(err)
		defer c.Close()

		// Check
		items := []map[string]interface{}{}
		c.Traverse(func(item map[string]interface{}) bool {
			items = append(items, item)
			return true
		})
		AssertEqualJson(items, []map[string]interface{}{
			{"_id": "1", "name": "Fulano"},
		})
	})
}

func TestPatch(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		c.Insert(map[string]interface{}{"_id": "1", "name": "Nike", "country": "US"})

		err := c.Patch("1", map[string]interface{}{"_id": "hijack", "country": "USA", "founded": 1964})
		AssertNil(err)

		err = c.Patch("ghost", map[string]interface{}{"a": 1})
		AssertNotNil(err)
		c.Close()

		reopened, err := OpenCollection(filename, nil)
		AssertNil(err)
		defer reopened.Close()

		item, err := reopened.FindByID("1")
		AssertNil(err)
		AssertEqualJson(item, map[string]interface{}{"_id": "1", "name": "Nike", "country": "USA", "founded": 1964})
	})
}

func TestRemove(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		c.Insert(map[string]interface{}{"_id": "1"})
		c.Insert(map[string]interface{}{"_id": "2"})
		c.Insert(map[string]interface{}{"_id": "3"})

		AssertNil(c.Remove("2"))
		AssertNotNil(c.Remove("2"))

		ids := []interface{}{}
		c.Traverse(func(item map[string]interface{}) bool {
			ids = append(ids, item["_id"])
			return true
		})
		AssertEqual(ids, []interface{}{"1", "3"})
		AssertEqual(c.Rows[1].I, 1)

		c.Close()
		_, err := c.Insert(map[string]interface{}{"_id": "4"})
		AssertEqual(err, ErrClosed)
	})
}

func TestDrop(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection(filename, nil)
		c.Insert(map[string]interface{}{"_id": "1"})

		AssertNil(c.Drop())

		_, err := os.Stat(filename)
		AssertTrue(os.IsNotExist(err))
	})
}
