package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/janelia-flyem/pgraph/command"
	"github.com/janelia-flyem/pgraph/datastore"
	"github.com/janelia-flyem/pgraph/storage"
)

func TestSampleStatsConvert(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	config := "[graph]\nengine = \"filestore\"\n\n[store]\npath = \"graph\"\n"
	if err := os.WriteFile(configFile, []byte(config), 0644); err != nil {
		t.Fatalf("Couldn't write config: %v\n", err)
	}
	ctx := context.Background()
	setting := "config=" + configFile

	for _, args := range [][]string{
		{"sample", setting},
		{"stats", setting},
		{"convert", setting, "to=badger", "path=" + filepath.Join(dir, "converted"), "compression=zstd"},
	} {
		if err := DoCommand(ctx, command.Command(args)); err != nil {
			t.Fatalf("Error running %v: %v\n", args, err)
		}
	}

	c, err := datastore.LoadConfig(configFile)
	if err != nil {
		t.Fatalf("Error loading config: %v\n", err)
	}
	c.Graph.Engine = "badger"
	c.Store["path"] = filepath.Join(dir, "converted")
	g, err := readGraph(ctx, c)
	if err != nil {
		t.Fatalf("Error reading converted graph: %v\n", err)
	}
	if g.NumVertices() != 6 || g.NumEdges() != 6 {
		t.Errorf("Converted graph has %d vertices and %d edges\n", g.NumVertices(), g.NumEdges())
	}
	marko, found := g.Vertex("1")
	if !found {
		t.Fatalf("Converted graph lost vertex 1\n")
	}
	var names []string
	it := marko.Vertices(storage.Out, "knows")
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			t.Fatalf("Error iterating: %v\n", err)
		}
		name, _ := v.Property("name")
		names = append(names, fmt.Sprint(name))
	}
	if fmt.Sprint(names) != "[vadas josh]" {
		t.Errorf("Expected marko to know [vadas josh], got %v\n", names)
	}
}

func TestBadCommands(t *testing.T) {
	ctx := context.Background()
	for _, args := range [][]string{
		{"frobnicate"},
		{"stats"},
		{"convert", "config=/nonexistent/config.toml", "to=badger"},
	} {
		if err := DoCommand(ctx, command.Command(args)); err == nil {
			t.Errorf("Expected error from %v\n", args)
		}
	}
}
