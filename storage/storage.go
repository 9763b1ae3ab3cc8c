/*
	Package storage defines the capability interfaces that any graph backend must satisfy
	(Graph, IndexableGraph, Vertex, Edge, Index) and a registry of storage engines that
	persist a graph's full state.

	Each storage engine registers itself in its package init() and must implement

		NewStore(config pgraph.StoreConfig) (Store, created bool, err error)

	A Store saves and loads the elements, properties, adjacency and index metadata of
	any IndexableGraph.  Engines depend only on the interfaces in this package so that
	graph implementations and engines can be substituted independently.
*/
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blang/semver"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// Engine is a storage engine that can create Stores.
type Engine interface {
	GetName() string
	GetDescription() string
	GetSemVer() semver.Version
	fmt.Stringer

	// NewStore returns a store for the given configuration and whether it was newly created.
	NewStore(config pgraph.StoreConfig) (Store, bool, error)
}

// TestableEngine is an engine that can dispose of stores created for testing.
type TestableEngine interface {
	Engine
	Delete(config pgraph.StoreConfig) error
}

// Store persists the full state of a graph.
type Store interface {
	fmt.Stringer

	// Load adds the stored elements to g, then restores indices and id allocation.
	// Loading an empty store leaves g untouched.
	Load(ctx context.Context, g IndexableGraph) error

	// Save replaces the stored state with the current state of g.
	Save(ctx context.Context, g IndexableGraph) error

	// Equal returns true if this store matches the given store configuration.
	Equal(config pgraph.StoreConfig) bool

	Close() error
}

var (
	enginesMu sync.RWMutex
	engines   = make(map[string]Engine)
)

// RegisterEngine makes an engine available by name.
func RegisterEngine(e Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if _, found := engines[e.GetName()]; found {
		pgraph.Warningf("storage engine %q registered twice; keeping the latest\n", e.GetName())
	}
	engines[e.GetName()] = e
}

// GetEngine returns a registered engine.
func GetEngine(name string) (Engine, error) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	e, found := engines[name]
	if !found {
		return nil, fmt.Errorf("storage engine %q not available (have %s)", name, enginesAvailable())
	}
	return e, nil
}

// EnginesAvailable returns a description of the registered engines.
func EnginesAvailable() string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	return enginesAvailable()
}

func enginesAvailable() string {
	var names []string
	for _, e := range engines {
		names = append(names, e.String())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "; ")
}

// NewStore returns a store from the engine named in the configuration.
func NewStore(config pgraph.StoreConfig) (Store, bool, error) {
	e, err := GetEngine(config.Engine)
	if err != nil {
		return nil, false, err
	}
	return e.NewStore(config)
}
