package storage_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
	"github.com/janelia-flyem/pgraph/storage/memgraph"
	"github.com/janelia-flyem/pgraph/tests"
)

func indexedClassicGraph(t *testing.T) *memgraph.Graph {
	g := tests.NewClassicGraph(t)
	if _, err := g.CreateAutomaticIndex("names", storage.VertexKind, []string{"name"}); err != nil {
		t.Fatalf("Unable to create automatic index: %v\n", err)
	}
	if _, err := g.CreateAutomaticIndex("all-edges", storage.EdgeKind, nil); err != nil {
		t.Fatalf("Unable to create automatic index: %v\n", err)
	}
	manual, err := g.CreateManualIndex("favorites", storage.EdgeKind)
	if err != nil {
		t.Fatalf("Unable to create manual index: %v\n", err)
	}
	for _, id := range []string{"7", "10"} {
		e, _ := g.Edge(id)
		if err := manual.Put("rank", int64(len(id)), e); err != nil {
			t.Fatalf("Unable to put: %v\n", err)
		}
	}
	g.AddVertex("") // moves the id allocator
	return g
}

func TestMetadataRoundTrip(t *testing.T) {
	for _, compress := range []pgraph.Compression{pgraph.Uncompressed, pgraph.Snappy, pgraph.Zstd} {
		g := indexedClassicGraph(t)
		var buf bytes.Buffer
		if err := storage.WriteMetadata(&buf, g, compress, pgraph.CRC32); err != nil {
			t.Fatalf("Unable to write metadata with %s: %v\n", compress, err)
		}

		// elements first, then metadata
		restored := tests.NewClassicGraph(t)
		if _, err := restored.AddVertex("7"); err != nil {
			t.Fatalf("Unable to add vertex: %v\n", err)
		}
		if err := storage.ReadMetadata(&buf, restored); err != nil {
			t.Fatalf("Unable to read metadata with %s: %v\n", compress, err)
		}
		if restored.InstanceID() != g.InstanceID() {
			t.Errorf("Instance id not restored\n")
		}
		if restored.CurrentID() != g.CurrentID() {
			t.Errorf("Expected id counter %d, got %d\n", g.CurrentID(), restored.CurrentID())
		}
		names, found := restored.Index("names", storage.VertexKind)
		if !found {
			t.Fatalf("Automatic index not restored\n")
		}
		if keys := names.(storage.AutoIndex).AutoIndexKeys(); fmt.Sprint(keys) != "[name]" {
			t.Errorf("Expected keys [name], got %v\n", keys)
		}
		if n := names.Count("name", "josh"); n != 1 {
			t.Errorf("Automatic index not rebuilt from properties: %d\n", n)
		}
		all, _ := restored.Index("all-edges", storage.EdgeKind)
		if keys := all.(storage.AutoIndex).AutoIndexKeys(); keys != nil {
			t.Errorf("Expected index over every key, got %v\n", keys)
		}
		favorites, found := restored.Index("favorites", storage.EdgeKind)
		if !found || favorites.Type() != storage.ManualIndex {
			t.Fatalf("Manual index not restored\n")
		}
		if got := tests.IDs(t, favorites.Get("rank", int64(1))); fmt.Sprint(got) != "[7]" {
			t.Errorf("Expected [7] at rank 1, got %v\n", got)
		}
		if got := tests.IDs(t, favorites.Get("rank", int64(2))); fmt.Sprint(got) != "[10]" {
			t.Errorf("Expected [10] at rank 2, got %v\n", got)
		}
	}
}

func TestMetadataDanglingEntry(t *testing.T) {
	g := indexedClassicGraph(t)
	m, err := storage.ExtractMetadata(g)
	if err != nil {
		t.Fatalf("Unable to extract metadata: %v\n", err)
	}
	restored := memgraph.New()
	err = m.Restore(restored)
	if !errors.Is(err, pgraph.ErrDanglingReference) {
		t.Fatalf("Expected ErrDanglingReference, got %v\n", err)
	}
	var perr *pgraph.Error
	if !errors.As(err, &perr) || perr.ID != "7" {
		t.Errorf("Expected error to name the missing edge, got %v\n", err)
	}
}

func TestMetadataCorrupt(t *testing.T) {
	g := indexedClassicGraph(t)
	m, _ := storage.ExtractMetadata(g)
	s, err := storage.EncodeMetadata(m, pgraph.Uncompressed, pgraph.NoChecksum)
	if err != nil {
		t.Fatalf("Unable to encode: %v\n", err)
	}
	if _, err := storage.DecodeMetadata(s[:len(s)/2]); !errors.Is(err, pgraph.ErrMalformed) {
		t.Errorf("Expected ErrMalformed for truncated metadata, got %v\n", err)
	}
}
