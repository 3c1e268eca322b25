package collection

import "github.com/go-json-experiment/json/jsontext"

const (
	CommandInsert = "insert"
	CommandPatch  = "patch"
	CommandRemove = "remove"
)

// Command is one line of the collection log. Replaying every command in
// order rebuilds the collection.
type Command struct {
	Name      string         `json:"name"`
	Uuid      string         `json:"uuid"`
	Timestamp int64          `json:"timestamp"`
	Payload   jsontext.Value `json:"payload"`
}

type patchPayload struct {
	ID   string         `json:"id"`
	Diff map[string]any `json:"diff"`
}

type removePayload struct {
	ID string `json:"id"`
}
