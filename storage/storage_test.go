package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/blang/semver"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

type nullEngine struct{}

func (e nullEngine) GetName() string           { return "null-test" }
func (e nullEngine) GetDescription() string    { return "discards everything" }
func (e nullEngine) GetSemVer() semver.Version { return semver.MustParse("0.1.0") }
func (e nullEngine) String() string            { return "null-test 0.1.0" }

func (e nullEngine) NewStore(config pgraph.StoreConfig) (storage.Store, bool, error) {
	return nullStore{}, true, nil
}

type nullStore struct{}

func (s nullStore) String() string                                           { return "null" }
func (s nullStore) Load(ctx context.Context, g storage.IndexableGraph) error { return nil }
func (s nullStore) Save(ctx context.Context, g storage.IndexableGraph) error { return nil }
func (s nullStore) Equal(config pgraph.StoreConfig) bool                     { return config.Engine == "null-test" }
func (s nullStore) Close() error                                             { return nil }

func TestEngineRegistry(t *testing.T) {
	storage.RegisterEngine(nullEngine{})
	if !strings.Contains(storage.EnginesAvailable(), "null-test 0.1.0") {
		t.Errorf("Registered engine not listed: %s\n", storage.EnginesAvailable())
	}
	store, created, err := storage.NewStore(pgraph.StoreConfig{Config: pgraph.NewConfig(), Engine: "null-test"})
	if err != nil || !created {
		t.Fatalf("Unable to create store: %v\n", err)
	}
	if !store.Equal(pgraph.StoreConfig{Engine: "null-test"}) {
		t.Errorf("Store does not match its own config\n")
	}
	if _, err := storage.GetEngine("missing"); err == nil {
		t.Errorf("Expected error for unregistered engine\n")
	}
}

func TestDirection(t *testing.T) {
	if storage.Out.Opposite() != storage.In || storage.In.Opposite() != storage.Out || storage.Both.Opposite() != storage.Both {
		t.Errorf("Bad opposite directions\n")
	}
	if storage.In.String() != "IN" || storage.VertexKind.String() != "vertex" {
		t.Errorf("Bad names: %s %s\n", storage.In, storage.VertexKind)
	}
}
