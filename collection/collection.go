package collection

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/utils"
)

var ErrClosed = errors.New("collection is closed")
var ErrRowNotFound = errors.New("row not found")

// Collection keeps every row in memory and appends each change to a
// command log file.
type Collection struct {
	filename  string // Just informative...
	file      *os.File
	fileMutex *sync.Mutex
	Rows      []*Row
	rowsMutex *sync.RWMutex
	Index     *Index
	logger    *zap.Logger
}

type Row struct {
	I       int // position in Rows
	ID      string
	Payload map[string]any
}

func OpenCollection(filename string, logger *zap.Logger) (*Collection, error) {

	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}
	defer f.Close()

	collection := &Collection{
		filename:  filename,
		fileMutex: &sync.Mutex{},
		Rows:      []*Row{},
		rowsMutex: &sync.RWMutex{},
		Index:     NewIndex(),
		logger:    logger,
	}

	decoder := jsontext.NewDecoder(f)
	for {
		command := &Command{}
		err := json.UnmarshalDecode(decoder, command)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode command: %w", err)
		}

		err = collection.replay(command)
		if err != nil {
			logger.Warn("replay command",
				zap.String("file", filename),
				zap.String("command", command.Name),
				zap.String("uuid", command.Uuid),
				zap.Error(err))
		}
	}

	// Open file for append only
	collection.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	return collection, nil
}

func (c *Collection) replay(command *Command) error {
	switch command.Name {
	case CommandInsert:
		item := map[string]any{}
		err := json.Unmarshal(command.Payload, &item)
		if err != nil {
			return err
		}
		_, err = c.addRow(item)
		return err
	case CommandPatch:
		params := patchPayload{}
		err := json.Unmarshal(command.Payload, &params)
		if err != nil {
			return err
		}
		row, ok := c.Index.Get(params.ID)
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrRowNotFound, params.ID)
		}
		c.patchRow(row, params.Diff)
		return nil
	case CommandRemove:
		params := removePayload{}
		err := json.Unmarshal(command.Payload, &params)
		if err != nil {
			return err
		}
		row, ok := c.Index.Get(params.ID)
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrRowNotFound, params.ID)
		}
		return c.removeRow(row)
	}
	return fmt.Errorf("unknown command '%s'", command.Name)
}

// identity returns the `_id` of item as text, assigning a new ObjectID hex
// when it has none.
func identity(item map[string]any) string {
	id := record.NormalizeValue(item["_id"])
	if id.IsNull() || id.Text() == "" {
		hex := primitive.NewObjectID().Hex()
		item["_id"] = hex
		return hex
	}
	item["_id"] = id.Raw()
	return id.Text()
}

func (c *Collection) addRow(item map[string]any) (*Row, error) {

	row := &Row{
		ID:      identity(item),
		Payload: item,
	}

	err := c.Index.Add(row)
	if err != nil {
		return nil, err
	}

	c.rowsMutex.Lock()
	row.I = len(c.Rows)
	c.Rows = append(c.Rows, row)
	c.rowsMutex.Unlock()

	return row, nil
}

func (c *Collection) persist(name string, payload any) error {

	data, err := json.Marshal(payload, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   data,
	}

	line, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}

	c.fileMutex.Lock()
	defer c.fileMutex.Unlock()
	if c.file == nil {
		return ErrClosed
	}
	_, err = c.file.Write(append(line, '\n'))
	if err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

func (c *Collection) isClosed() bool {
	c.fileMutex.Lock()
	defer c.fileMutex.Unlock()
	return c.file == nil
}

// Insert stores a deep copy of item, shaped the same way a replayed row is.
// A missing `_id` is generated.
func (c *Collection) Insert(item map[string]any) (*Row, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	copied := map[string]any{}
	err := utils.Remarshal(item, &copied)
	if err != nil {
		return nil, fmt.Errorf("copy item: %w", err)
	}

	row, err := c.addRow(copied)
	if err != nil {
		return nil, err
	}

	err = c.persist(CommandInsert, row.Payload)
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Traverse calls f with a copy of every row in insertion order, until f
// returns false.
func (c *Collection) Traverse(f func(item map[string]any) bool) {
	c.rowsMutex.RLock()
	rows := append([]*Row{}, c.Rows...)
	c.rowsMutex.RUnlock()

	for _, row := range rows {
		c.rowsMutex.RLock()
		item := clone(row.Payload)
		c.rowsMutex.RUnlock()
		if !f(item) {
			return
		}
	}
}

func (c *Collection) Len() int {
	c.rowsMutex.RLock()
	defer c.rowsMutex.RUnlock()
	return len(c.Rows)
}

func (c *Collection) FindByID(id string) (map[string]any, error) {
	row, ok := c.Index.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrRowNotFound, id)
	}
	c.rowsMutex.RLock()
	defer c.rowsMutex.RUnlock()
	return clone(row.Payload), nil
}

// Patch sets every key of diff on the row with the given id. `_id` can not
// be changed.
func (c *Collection) Patch(id string, diff map[string]any) error {
	if c.isClosed() {
		return ErrClosed
	}

	row, ok := c.Index.Get(id)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrRowNotFound, id)
	}

	copied := map[string]any{}
	err := utils.Remarshal(diff, &copied)
	if err != nil {
		return fmt.Errorf("copy diff: %w", err)
	}
	delete(copied, "_id")
	c.patchRow(row, copied)

	return c.persist(CommandPatch, patchPayload{ID: id, Diff: copied})
}

func (c *Collection) patchRow(row *Row, diff map[string]any) {
	c.rowsMutex.Lock()
	defer c.rowsMutex.Unlock()
	payload := clone(row.Payload)
	for k, v := range diff {
		if k == "_id" {
			continue
		}
		payload[k] = v
	}
	row.Payload = payload
}

func (c *Collection) Remove(id string) error {
	if c.isClosed() {
		return ErrClosed
	}

	row, ok := c.Index.Get(id)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrRowNotFound, id)
	}

	err := c.removeRow(row)
	if err != nil {
		return err
	}

	return c.persist(CommandRemove, removePayload{ID: id})
}

// removeRow keeps insertion order so listings stay stable.
func (c *Collection) removeRow(row *Row) error {
	c.rowsMutex.Lock()
	defer c.rowsMutex.Unlock()

	i := row.I
	if i >= len(c.Rows) || c.Rows[i] != row {
		return fmt.Errorf("row %d does not exist", i)
	}

	c.Index.Remove(row)
	copy(c.Rows[i:], c.Rows[i+1:])
	c.Rows[len(c.Rows)-1] = nil
	c.Rows = c.Rows[:len(c.Rows)-1]
	for j := i; j < len(c.Rows); j++ {
		c.Rows[j].I = j
	}
	return nil
}

func (c *Collection) Close() error {
	c.fileMutex.Lock()
	defer c.fileMutex.Unlock()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

func (c *Collection) Drop() error {
	err := c.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Remove(c.filename)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
