package storage

import "github.com/janelia-flyem/pgraph/pgraph"

// IndexType is either manual or automatic.
type IndexType uint8

const (
	// ManualIndex membership is exactly what callers Put and have not Removed.
	ManualIndex IndexType = iota + 1

	// AutomaticIndex membership is derived from element properties.
	AutomaticIndex
)

func (t IndexType) String() string {
	switch t {
	case ManualIndex:
		return "manual"
	case AutomaticIndex:
		return "automatic"
	default:
		return "unknown"
	}
}

// IndexEntry is a single (key, value, element id) membership of an index.
type IndexEntry struct {
	Key   string
	Value pgraph.Value
	ID    string
}

// Index maps key -> value -> set of elements of a single kind.
type Index interface {
	Name() string
	Kind() ElementKind
	Type() IndexType

	// Put adds an element under key/value.  Automatic indices reject explicit puts.
	Put(key string, value pgraph.Value, e Element) error

	// Get returns the elements under key/value.  Values match by type as well as
	// by content after pgraph.NormalizeValue, so a Go int (Long) never finds an
	// element whose value was stored as int32 (Integer).
	Get(key string, value pgraph.Value) Iterator[Element]

	// Count returns the number of elements under key/value.
	Count(key string, value pgraph.Value) int64

	// Remove deletes an element from key/value.  Automatic indices reject explicit removes.
	Remove(key string, value pgraph.Value, e Element) error

	// Entries returns every membership sorted by key, value and id.
	Entries() []IndexEntry
}

// AutoIndex is an automatic index.
type AutoIndex interface {
	Index

	// AutoIndexKeys returns the indexed property keys or nil if every key is indexed.
	AutoIndexKeys() []string
}

// IndexableGraph is a Graph with an index manager.
type IndexableGraph interface {
	Graph

	// CreateManualIndex creates (or returns an existing manual) index of the given kind.
	CreateManualIndex(name string, kind ElementKind) (Index, error)

	// CreateAutomaticIndex creates an automatic index over the given keys or all keys if nil.
	// Elements already in the graph are indexed.
	CreateAutomaticIndex(name string, kind ElementKind, keys []string) (AutoIndex, error)

	// Index returns a named index of the given kind.
	Index(name string, kind ElementKind) (Index, bool)

	// Indices returns all indices sorted by name.
	Indices() []Index

	// DropIndex removes an index and all its entries.
	DropIndex(name string) error
}
