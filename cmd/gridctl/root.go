package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/bootstrap"
	"github.com/fulldump/gridadmin/catalog"
	"github.com/fulldump/gridadmin/configuration"
	"github.com/fulldump/gridadmin/database"
	"github.com/fulldump/gridadmin/grid"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	infoColor   = color.New(color.Faint)
	errorColor  = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

// session is an engine over an operating database.
type session struct {
	engine *grid.Engine
	db     *database.Database
}

func (s *session) Close() error {
	return s.db.Stop()
}

func newRootCommand() *cobra.Command {

	c := configuration.Default()
	configuration.LoadEnv(&c)

	root := &cobra.Command{
		Use:           "gridctl",
		Short:         "Browse and export admin grid collections from the terminal",
		Version:       bootstrap.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.Backend, "backend", c.Backend, "record backend: local, mongo or rest")
	flags.StringVar(&c.Dir, "dir", c.Dir, "data directory of the local backend")
	flags.StringVar(&c.MongoUri, "mongo-uri", c.MongoUri, "MongoDB connection string")
	flags.StringVar(&c.MongoDatabase, "mongo-database", c.MongoDatabase, "MongoDB database name")
	flags.StringVar(&c.RestBase, "rest-base", c.RestBase, "base url of the rest backend")
	flags.StringVar(&c.Catalog, "catalog", c.Catalog, "catalog YAML file")
	flags.BoolVar(&c.Seed, "seed", c.Seed, "fill empty collections with the sample data set")
	flags.BoolVar(&c.Verbose, "verbose", c.Verbose, "development logging")

	open := func(ctx context.Context) (*session, error) {
		logger := zap.NewNop()
		if c.Verbose {
			logger = bootstrap.NewLogger(true)
		}

		cat, err := catalog.Load(c.Catalog)
		if err != nil {
			return nil, err
		}

		db := database.NewDatabase(&database.Config{
			Backend:       c.Backend,
			Dir:           c.Dir,
			MongoUri:      c.MongoUri,
			MongoDatabase: c.MongoDatabase,
			RestBase:      c.RestBase,
			Seed:          c.Seed,
		}, logger.Named("database"))
		err = db.Load()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		return &session{
			engine: grid.NewEngine(grid.Deps{
				Catalog: cat,
				Source:  db,
				Logger:  logger.Named("grid"),
			}),
			db: db,
		}, nil
	}

	root.AddCommand(
		newExportCommand(open),
		newShowCommand(open),
		newCountsCommand(open),
	)

	return root
}

type opener func(ctx context.Context) (*session, error)
