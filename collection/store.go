package collection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

const logExtension = ".jsonl"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is the local backend: one command log per collection inside Dir.
// Collections are opened on first use.
type Store struct {
	Dir    string
	logger *zap.Logger

	mutex       sync.Mutex
	collections map[string]*Collection
}

func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Dir:         dir,
		logger:      logger,
		collections: map[string]*Collection{},
	}
}

// Load opens every collection already present in Dir.
func (s *Store) Load() error {

	err := os.MkdirAll(s.Dir, 0777)
	if err != nil {
		return fmt.Errorf("create dir '%s': %w", s.Dir, err)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("read dir '%s': %w", s.Dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), logExtension)
		_, err := s.collection(name)
		if err != nil {
			return err
		}
		s.logger.Info("collection loaded", zap.String("name", name))
	}

	return nil
}

func (s *Store) collection(name string) (*Collection, error) {

	if strings.HasPrefix(name, "reports/") {
		return nil, fmt.Errorf("%w: '%s'", source.ErrUnsupported, name)
	}
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid collection name '%s'", source.ErrUnsupported, name)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if c, ok := s.collections[name]; ok {
		return c, nil
	}

	c, err := OpenCollection(path.Join(s.Dir, name+logExtension), s.logger.With(zap.String("collection", name)))
	if err != nil {
		return nil, fmt.Errorf("open collection '%s': %w", name, err)
	}
	s.collections[name] = c
	return c, nil
}

func (s *Store) List(ctx context.Context, endpoint string) ([]record.Record, error) {
	c, err := s.collection(endpoint)
	if err != nil {
		return nil, err
	}
	batch := make([]record.Record, 0, c.Len())
	c.Traverse(func(item map[string]any) bool {
		batch = append(batch, record.Normalize(item))
		return ctx.Err() == nil
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *Store) Get(ctx context.Context, endpoint, id string) (record.Record, error) {
	c, err := s.collection(endpoint)
	if err != nil {
		return nil, err
	}
	item, err := c.FindByID(id)
	if err != nil {
		return nil, mapRowError(err)
	}
	return record.Normalize(item), nil
}

func (s *Store) Create(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	c, err := s.collection(endpoint)
	if err != nil {
		return "", err
	}
	row, err := c.Insert(payload)
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *Store) Update(ctx context.Context, endpoint, id string, payload map[string]any) error {
	c, err := s.collection(endpoint)
	if err != nil {
		return err
	}
	return mapRowError(c.Patch(id, payload))
}

func (s *Store) Delete(ctx context.Context, endpoint, id string) error {
	c, err := s.collection(endpoint)
	if err != nil {
		return err
	}
	return mapRowError(c.Remove(id))
}

// Close closes every open collection.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var errs []error
	for name, c := range s.collections {
		err := c.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close '%s': %w", name, err))
		}
	}
	s.collections = map[string]*Collection{}
	return errors.Join(errs...)
}

func mapRowError(err error) error {
	if errors.Is(err, ErrRowNotFound) {
		return fmt.Errorf("%w: %s", source.ErrNotFound, err.Error())
	}
	return err
}
