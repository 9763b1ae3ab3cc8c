package memgraph

import (
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// snapshotIterator walks a snapshot of keys, resolving each one when reached and
// skipping keys whose element has been removed since the snapshot.
type snapshotIterator[K, T any] struct {
	keys    []K
	pos     int
	resolve func(key K) (T, bool)
	next    T
	ready   bool
}

func (it *snapshotIterator[K, T]) HasNext() bool {
	for !it.ready && it.pos < len(it.keys) {
		key := it.keys[it.pos]
		it.pos++
		if elem, found := it.resolve(key); found {
			it.next = elem
			it.ready = true
		}
	}
	return it.ready
}

func (it *snapshotIterator[K, T]) Next() (T, error) {
	var zero T
	if !it.HasNext() {
		return zero, pgraph.ErrNoSuchElement
	}
	elem := it.next
	it.next = zero
	it.ready = false
	return elem, nil
}

func newVertexIterator(g *Graph, ids []string) storage.Iterator[storage.Vertex] {
	return &snapshotIterator[string, storage.Vertex]{
		keys: ids,
		resolve: func(id string) (storage.Vertex, bool) {
			v, found := g.vertices[id]
			if !found {
				return nil, false
			}
			return v, true
		},
	}
}

type labelSet map[string]struct{}

func newLabelSet(labels []string) labelSet {
	if len(labels) == 0 {
		return nil
	}
	set := make(labelSet, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}

// allows returns true for every label if the set is empty.
func (s labelSet) allows(label string) bool {
	if s == nil {
		return true
	}
	_, found := s[label]
	return found
}

func newEdgeIterator(g *Graph, ids []string, labels []string) storage.Iterator[storage.Edge] {
	allowed := newLabelSet(labels)
	return &snapshotIterator[string, storage.Edge]{
		keys: ids,
		resolve: func(id string) (storage.Edge, bool) {
			e, found := g.edges[id]
			if !found || !allowed.allows(e.label) {
				return nil, false
			}
			return e, true
		},
	}
}

// hop is an incident edge and the endpoint on its far side.
type hop struct {
	edgeID string
	far    storage.Direction
}

func newAdjacentIterator(g *Graph, hops []hop, labels []string) storage.Iterator[storage.Vertex] {
	allowed := newLabelSet(labels)
	return &snapshotIterator[hop, storage.Vertex]{
		keys: hops,
		resolve: func(h hop) (storage.Vertex, bool) {
			e, found := g.edges[h.edgeID]
			if !found || !allowed.allows(e.label) {
				return nil, false
			}
			v, found := g.vertices[e.EndpointID(h.far)]
			if !found {
				return nil, false
			}
			return v, true
		},
	}
}
