package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/internal/server"
	"github.com/rackworks/rackviz/pkg/cache"
	"github.com/rackworks/rackviz/pkg/pipeline"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	catalog  string
	storage  string // "memory" or "mongo"
	mongoURI string
	mongoDB  string
	redisURL string
	noCache  bool
}

// serveCommand creates the serve command for the preview server.
//
// Storage backends:
//   - memory (default): racks live for the lifetime of the process
//   - mongo: shared persistent storage, needs --mongo-uri
//
// With --redis-url, composed scenes and artifacts are cached in Redis
// so multiple server instances share one cache; otherwise the file
// cache is used.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		catalog: defaultCatalogDir,
		storage: "memory",
		mongoDB: appName,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.catalog, "catalog", opts.catalog, "device type catalog directory")
	cmd.Flags().StringVar(&opts.storage, "store", opts.storage, "rack storage backend: memory (default), mongo")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection URI (required for --store mongo)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the shared render cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cat, err := rack.LoadCatalogDir(opts.catalog)
	if err != nil {
		return err
	}
	c.Logger.Info("loaded catalog", "device_types", cat.Len(), "dir", opts.catalog)

	st, err := newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	cch, err := newServeCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(st, cat, runner, c.Logger)
	return srv.ListenAndServe(ctx, opts.addr)
}

// newStore selects the rack storage backend.
func newStore(ctx context.Context, opts *serveOpts) (store.RackStore, error) {
	switch opts.storage {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		if opts.mongoURI == "" {
			return nil, fmt.Errorf("--store mongo requires --mongo-uri")
		}
		return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	default:
		return nil, fmt.Errorf("unknown store: %q (must be 'memory' or 'mongo')", opts.storage)
	}
}

// newServeCache selects the render cache backend for the server.
func newServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		return cache.NewRedisCache(ctx, opts.redisURL)
	}
	return newCache(false)
}
