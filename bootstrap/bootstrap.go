package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/api"
	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/configuration"
	"github.com/fulldump/gridadmin/database"
	"github.com/fulldump/gridadmin/service"
	"github.com/fulldump/gridadmin/visibility"
)

var VERSION = "dev"

// NewLogger builds the process logger and makes it the global one.
func NewLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	zap.ReplaceGlobals(logger)
	return logger
}

// Visibility opens the visible columns store: SQLite when a file is
// configured, memory otherwise. The returned close function is never nil.
func Visibility(filename string, logger *zap.Logger) (*visibility.Store, func() error, error) {
	if filename == "" {
		return visibility.NewStore(visibility.NewMemoryStorage(), logger), func() error { return nil }, nil
	}
	storage, err := visibility.OpenSQLite(filename)
	if err != nil {
		return nil, nil, err
	}
	return visibility.NewStore(storage, logger), storage.Close, nil
}

func Bootstrap(c *configuration.Configuration) (start, stop func(), err error) {

	logger := NewLogger(c.Verbose)

	cat, err := catalog.Load(c.Catalog)
	if err != nil {
		return nil, nil, err
	}
	if c.DefaultPageSize > 0 {
		cat.DefaultPageSize = cat.ValidPageSize(c.DefaultPageSize)
	}

	vis, closeVisibility, err := Visibility(c.VisibilityDb, logger.Named("visibility"))
	if err != nil {
		return nil, nil, err
	}

	db := database.NewDatabase(&database.Config{
		Backend:       c.Backend,
		Dir:           c.Dir,
		MongoUri:      c.MongoUri,
		MongoDatabase: c.MongoDatabase,
		RestBase:      c.RestBase,
		Seed:          c.Seed,
	}, logger.Named("database"))

	s := service.NewService(cat, db, vis, logger.Named("service"))

	b := api.Build(s, c.Statics, VERSION)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(logger.Named("access")),
		api.PrettyErrorInterceptor,
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic,
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		closeVisibility()
		return nil, nil, fmt.Errorf("listen '%s': %w", c.HttpAddr, err)
	}
	logger.Info("listening", zap.String("addr", c.HttpAddr))

	stopOnce := sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := server.Shutdown(ctx)
			if err != nil {
				logger.Error("shutdown http", zap.Error(err))
			}
			err = db.Stop()
			if err != nil {
				logger.Error("stop database", zap.Error(err))
			}
			err = closeVisibility()
			if err != nil {
				logger.Error("close visibility", zap.Error(err))
			}
			logger.Sync()
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Info("signal received", zap.String("signal", sig.String()))
		stop()
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				logger.Error("database", zap.Error(err))
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				logger.Error("http server", zap.Error(err))
			}
		}()

		wg.Wait()
	}

	return start, stop, nil
}
