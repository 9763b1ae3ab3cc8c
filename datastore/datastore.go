package datastore

import (
	"context"
	"fmt"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
	"github.com/janelia-flyem/pgraph/storage/memgraph"

	_ "github.com/janelia-flyem/pgraph/storage/badger"
	_ "github.com/janelia-flyem/pgraph/storage/filestore"
)

// Version is the version of the graph datastore.
const Version = "0.9.0"

// Open returns the graph described by a configuration.  With an engine set, the
// graph is loaded from the configured store, which is saved and closed when the
// graph is shut down.  Logging is redirected per the [logging] table.
func Open(ctx context.Context, c *Config) (*memgraph.Graph, error) {
	if c == nil {
		return nil, fmt.Errorf("no datastore configuration given")
	}
	c.Logging.SetLogger()

	var options []memgraph.Option
	if c.Graph.DefaultIndices {
		options = append(options, memgraph.WithDefaultIndices())
	}
	if c.Graph.Engine == "" {
		return memgraph.New(options...), nil
	}
	store, created, err := storage.NewStore(c.StoreConfig())
	if err != nil {
		return nil, err
	}
	if created {
		pgraph.Infof("created new %s\n", store)
	}
	g, err := memgraph.Open(ctx, store, options...)
	if err != nil {
		store.Close()
		return nil, err
	}
	return g, nil
}
