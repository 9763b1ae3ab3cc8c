package memgraph

import (
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// Keys that cannot be used as property keys.  Identity and label are fields of
// the element, but encoded forms would be ambiguous if these keys were allowed.
const (
	idKey    = "id"
	labelKey = "label"
)

func reservedKey(kind storage.ElementKind, key string) bool {
	switch key {
	case "", idKey:
		return true
	case labelKey:
		return kind == storage.EdgeKind
	}
	return false
}

// element holds identity and properties common to vertices and edges.
type element struct {
	id      string
	kind    storage.ElementKind
	props   properties
	graph   *Graph
	removed bool
}

func (e *element) ID() string {
	return e.id
}

func (e *element) Kind() storage.ElementKind {
	return e.kind
}

func (e *element) Property(key string) (pgraph.Value, bool) {
	return e.props.get(key)
}

func (e *element) PropertyKeys() []string {
	return e.props.sortedKeys()
}

// SetProperty stores the value and keeps automatic indices in step: the entry
// for the old value is retracted before the new one is inserted.
func (e *element) SetProperty(key string, value pgraph.Value) error {
	if reservedKey(e.kind, key) {
		return &pgraph.Error{Op: "SetProperty", Kind: pgraph.ErrReservedKey, Element: e.kind.String(), ID: e.id, Key: key}
	}
	if e.removed {
		return &pgraph.Error{Op: "SetProperty", Kind: pgraph.ErrNotFound, Element: e.kind.String(), ID: e.id, Key: key}
	}
	v, err := pgraph.NormalizeValue(value)
	if err != nil {
		return &pgraph.Error{Op: "SetProperty", Kind: pgraph.ErrUnsupportedPropertyType, Element: e.kind.String(), ID: e.id, Key: key, Err: err}
	}
	old, existed := e.props.set(key, v)
	e.graph.autoUpdate(e.kind, e.id, key, old, existed, v)
	return nil
}

func (e *element) RemoveProperty(key string) (pgraph.Value, error) {
	if reservedKey(e.kind, key) {
		return nil, &pgraph.Error{Op: "RemoveProperty", Kind: pgraph.ErrReservedKey, Element: e.kind.String(), ID: e.id, Key: key}
	}
	if e.removed {
		return nil, &pgraph.Error{Op: "RemoveProperty", Kind: pgraph.ErrNotFound, Element: e.kind.String(), ID: e.id, Key: key}
	}
	old, existed := e.props.remove(key)
	if existed {
		e.graph.autoRemove(e.kind, e.id, key, old)
	}
	return old, nil
}

// Removed returns true once the element has been removed from its graph.
func (e *element) Removed() bool {
	return e.removed
}
