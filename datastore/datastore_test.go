package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/janelia-flyem/pgraph/tests"
)

const testConfig = `
[graph]
engine = "%s"
default_indices = true

[store]
path = "data/graph"
compression = "zstd"
checksum = true
`

func writeConfig(t *testing.T, engine string) string {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.toml")
	contents := []byte(fmt.Sprintf(testConfig, engine))
	if err := os.WriteFile(filename, contents, 0644); err != nil {
		t.Fatalf("Couldn't write config: %v\n", err)
	}
	return filename
}

func TestLoadConfig(t *testing.T) {
	filename := writeConfig(t, "filestore")
	c, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("Error loading config: %v\n", err)
	}
	if c.Location() != filename {
		t.Errorf("Bad config location %q\n", c.Location())
	}
	if c.Graph.Engine != "filestore" || !c.Graph.DefaultIndices {
		t.Errorf("Bad [graph] table: %+v\n", c.Graph)
	}
	sc := c.StoreConfig()
	path, found, err := sc.GetString("path")
	if err != nil || !found {
		t.Fatalf("Store path not set: %v\n", err)
	}
	want := filepath.Join(filepath.Dir(filename), "data", "graph")
	if path != want {
		t.Errorf("Expected store path %q, got %q\n", want, path)
	}
	if name, _, _ := sc.GetString("compression"); name != "zstd" {
		t.Errorf("Expected zstd compression, got %q\n", name)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("Expected error with no config file\n")
	}
	filename := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(filename, []byte("[graph\nengine="), 0644); err != nil {
		t.Fatalf("Couldn't write config: %v\n", err)
	}
	if _, err := LoadConfig(filename); err == nil {
		t.Errorf("Expected error decoding bad TOML\n")
	}
}

func TestOpenMemoryOnly(t *testing.T) {
	g, err := Open(context.Background(), &Config{Graph: GraphConfig{DefaultIndices: true}})
	if err != nil {
		t.Fatalf("Error opening: %v\n", err)
	}
	if len(g.Indices()) != 2 {
		t.Errorf("Expected default indices, got %d indices\n", len(g.Indices()))
	}
	if _, err := Open(context.Background(), nil); err == nil {
		t.Errorf("Expected error opening without a config\n")
	}
}

func TestOpenPersists(t *testing.T) {
	for _, engine := range []string{"filestore", "badger"} {
		c, err := LoadConfig(writeConfig(t, engine))
		if err != nil {
			t.Fatalf("Error loading %s config: %v\n", engine, err)
		}
		ctx := context.Background()
		g, err := Open(ctx, c)
		if err != nil {
			t.Fatalf("Error opening %s graph: %v\n", engine, err)
		}
		if g.NumVertices() != 0 {
			t.Fatalf("New %s graph is not empty\n", engine)
		}
		if err := tests.BuildClassicGraph(g); err != nil {
			t.Fatalf("Error building graph: %v\n", err)
		}
		if err := g.Shutdown(ctx); err != nil {
			t.Fatalf("Error shutting down %s graph: %v\n", engine, err)
		}

		reopened, err := Open(ctx, c)
		if err != nil {
			t.Fatalf("Error reopening %s graph: %v\n", engine, err)
		}
		tests.AssertIsomorphic(t, tests.NewClassicGraph(t), reopened)
		if err := reopened.Shutdown(ctx); err != nil {
			t.Fatalf("Error shutting down reopened %s graph: %v\n", engine, err)
		}
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	c := &Config{Graph: GraphConfig{Engine: "nosuch"}}
	if _, err := Open(context.Background(), c); err == nil {
		t.Errorf("Expected error for unknown engine\n")
	}
}
