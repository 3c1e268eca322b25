package visibility

import (
	"github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/columns"
)

const KeyPrefix = "cs_cols_"

// Store keeps the visible column subset of every collection. It never fails:
// anything unusable in the storage falls back to the defaults.
type Store struct {
	storage Storage
	logger  *zap.Logger
}

func NewStore(storage Storage, logger *zap.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

func Key(collection string) string {
	return KeyPrefix + collection
}

// Load returns the persisted columns intersected with defaults, in defaults
// order. Missing, corrupted or stale values yield defaults.
func (s *Store) Load(collection string, defaults []string) []string {

	key := Key(collection)
	raw, found, err := s.storage.Get(key)
	if err != nil {
		s.logger.Warn("visibility storage read failed", zap.String("key", key), zap.Error(err))
		return clone(defaults)
	}
	if !found {
		return clone(defaults)
	}

	saved := []string{}
	err = json.Unmarshal([]byte(raw), &saved)
	if err != nil {
		s.logger.Debug("malformed visibility value", zap.String("key", key), zap.Error(err))
		return clone(defaults)
	}

	visible := columns.Intersect(defaults, saved)
	if len(visible) == 0 {
		s.logger.Debug("stale visibility value", zap.String("key", key))
		return clone(defaults)
	}

	return visible
}

func (s *Store) Save(collection string, cols []string) {

	key := Key(collection)
	if cols == nil {
		cols = []string{}
	}
	data, err := json.Marshal(cols)
	if err != nil {
		s.logger.Warn("encode visibility", zap.String("key", key), zap.Error(err))
		return
	}

	err = s.storage.Set(key, string(data))
	if err != nil {
		s.logger.Warn("visibility storage write failed", zap.String("key", key), zap.Error(err))
	}
}

func clone(cols []string) []string {
	return append([]string{}, cols...)
}
