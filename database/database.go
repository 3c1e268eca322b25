package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/collection"
	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const (
	BackendLocal = "local"
	BackendMongo = "mongo"
	BackendRest  = "rest"
)

type Config struct {
	Backend       string
	Dir           string
	MongoUri      string
	MongoDatabase string
	RestBase      string
	// Seed fills empty collections with the sample data set.
	Seed bool
}

// Database owns the record backend selected by Config and exposes it as a
// source.Source while it is operating.
type Database struct {
	config *Config
	logger *zap.Logger

	statusMutex sync.RWMutex
	status      string

	backend source.Source
	closers []func() error
	exit    chan struct{}
	stop    sync.Once
}

func NewDatabase(config *Config, logger *zap.Logger) *Database {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Database{
		config: config,
		logger: logger,
		status: StatusOpening,
		exit:   make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.statusMutex.RLock()
	defer db.statusMutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.statusMutex.Lock()
	db.status = status
	db.statusMutex.Unlock()
}

// Load opens the configured backend and, when asked to, seeds it.
func (db *Database) Load() error {

	t0 := time.Now()
	backend := db.config.Backend
	if backend == "" {
		backend = BackendLocal
	}
	db.logger.Info("loading database", zap.String("backend", backend))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch backend {
	case BackendLocal:
		store := collection.NewStore(db.config.Dir, db.logger.Named("local"))
		err := store.Load()
		if err != nil {
			db.setStatus(StatusClosing)
			return err
		}
		db.backend = &LocalReports{Source: store}
		db.closers = append(db.closers, store.Close)
	case BackendMongo:
		m, err := OpenMongo(ctx, db.config.MongoUri, db.config.MongoDatabase, db.logger.Named("mongo"))
		if err != nil {
			db.setStatus(StatusClosing)
			return err
		}
		db.backend = m
		db.closers = append(db.closers, func() error {
			return m.Close(context.Background())
		})
	case BackendRest:
		if db.config.RestBase == "" {
			db.setStatus(StatusClosing)
			return fmt.Errorf("rest backend needs a base url")
		}
		db.backend = source.NewREST(db.config.RestBase)
	default:
		db.setStatus(StatusClosing)
		return fmt.Errorf("unknown backend '%s'", backend)
	}

	if db.config.Seed {
		err := Seed(ctx, db.backend, db.logger)
		if err != nil {
			db.logger.Warn("seed", zap.Error(err))
		}
	}

	db.setStatus(StatusOperating)
	db.logger.Info("database operating", zap.String("backend", backend), zap.Duration("took", time.Since(t0)))

	return nil
}

func (db *Database) Start() error {

	go func() {
		err := db.Load()
		if err != nil {
			db.logger.Error("load database", zap.Error(err))
		}
	}()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	var lastErr error
	db.stop.Do(func() {
		defer close(db.exit)

		db.setStatus(StatusClosing)

		for _, closer := range db.closers {
			err := closer()
			if err != nil {
				db.logger.Error("close backend", zap.Error(err))
				lastErr = err
			}
		}
	})

	return lastErr
}

func (db *Database) active() (source.Source, error) {
	if db.GetStatus() != StatusOperating {
		return nil, source.ErrUnavailable
	}
	return db.backend, nil
}

func (db *Database) List(ctx context.Context, endpoint string) ([]record.Record, error) {
	s, err := db.active()
	if err != nil {
		return nil, err
	}
	return s.List(ctx, strings.Trim(endpoint, "/"))
}

func (db *Database) Get(ctx context.Context, endpoint, id string) (record.Record, error) {
	s, err := db.active()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, strings.Trim(endpoint, "/"), id)
}

func (db *Database) Create(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	s, err := db.active()
	if err != nil {
		return "", err
	}
	return s.Create(ctx, strings.Trim(endpoint, "/"), payload)
}

func (db *Database) Update(ctx context.Context, endpoint, id string, payload map[string]any) error {
	s, err := db.active()
	if err != nil {
		return err
	}
	return s.Update(ctx, strings.Trim(endpoint, "/"), id, payload)
}

func (db *Database) Delete(ctx context.Context, endpoint, id string) error {
	s, err := db.active()
	if err != nil {
		return err
	}
	return s.Delete(ctx, strings.Trim(endpoint, "/"), id)
}
