package memgraph

import (
	"sort"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// valueKey identifies a property value by its tagged text form so that every
// supported value, NaN included, can be used as a map key.
type valueKey struct {
	tag  string
	text string
}

func keyOf(v pgraph.Value) (valueKey, error) {
	tag, text, err := pgraph.FormatValue(v)
	return valueKey{tag, text}, err
}

type bucket struct {
	value pgraph.Value
	ids   *orderedSet
}

type entryKey struct {
	key   string
	value valueKey
}

// index maps key -> value -> ordered set of element ids, plus the reverse map
// from element id to its entries so that removing an element is proportional to
// the entries it has.
type index struct {
	name     string
	kind     storage.ElementKind
	typ      storage.IndexType
	autoKeys map[string]struct{} // nil if every key is indexed
	g        *Graph

	buckets map[string]map[valueKey]*bucket
	reverse map[string]map[entryKey]struct{}
}

func newIndex(g *Graph, name string, kind storage.ElementKind, typ storage.IndexType, keys []string) *index {
	idx := &index{
		name:    name,
		kind:    kind,
		typ:     typ,
		g:       g,
		buckets: make(map[string]map[valueKey]*bucket),
		reverse: make(map[string]map[entryKey]struct{}),
	}
	if typ == storage.AutomaticIndex && keys != nil {
		idx.autoKeys = make(map[string]struct{}, len(keys))
		for _, key := range keys {
			idx.autoKeys[key] = struct{}{}
		}
	}
	return idx
}

func (idx *index) String() string {
	return idx.typ.String() + " " + idx.kind.String() + " index " + idx.name
}

func (idx *index) Name() string {
	return idx.name
}

func (idx *index) Kind() storage.ElementKind {
	return idx.kind
}

func (idx *index) Type() storage.IndexType {
	return idx.typ
}

// AutoIndexKeys returns the sorted indexed keys, or nil if every key is indexed.
func (idx *index) AutoIndexKeys() []string {
	if idx.autoKeys == nil {
		return nil
	}
	keys := make([]string, 0, len(idx.autoKeys))
	for key := range idx.autoKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (idx *index) covers(key string) bool {
	if idx.autoKeys == nil {
		return true
	}
	_, found := idx.autoKeys[key]
	return found
}

func (idx *index) sameKeys(keys []string) bool {
	if keys == nil || idx.autoKeys == nil {
		return keys == nil && idx.autoKeys == nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	if len(set) != len(idx.autoKeys) {
		return false
	}
	for key := range set {
		if _, found := idx.autoKeys[key]; !found {
			return false
		}
	}
	return true
}

func (idx *index) Put(key string, value pgraph.Value, e storage.Element) error {
	if idx.typ == storage.AutomaticIndex {
		return &pgraph.Error{Op: "Put", Kind: pgraph.ErrAutomaticIndex, Element: "index", ID: idx.name, Key: key}
	}
	id, err := idx.member("Put", e)
	if err != nil {
		return err
	}
	v, err := pgraph.NormalizeValue(value)
	if err != nil {
		return &pgraph.Error{Op: "Put", Kind: pgraph.ErrUnsupportedPropertyType, Element: "index", ID: idx.name, Key: key, Err: err}
	}
	return idx.insert(key, v, id)
}

func (idx *index) Remove(key string, value pgraph.Value, e storage.Element) error {
	if idx.typ == storage.AutomaticIndex {
		return &pgraph.Error{Op: "Remove", Kind: pgraph.ErrAutomaticIndex, Element: "index", ID: idx.name, Key: key}
	}
	if e == nil || e.Kind() != idx.kind {
		return &pgraph.Error{Op: "Remove", Kind: pgraph.ErrInvalidReference, Element: "index", ID: idx.name, Key: key}
	}
	v, err := pgraph.NormalizeValue(value)
	if err != nil {
		return &pgraph.Error{Op: "Remove", Kind: pgraph.ErrUnsupportedPropertyType, Element: "index", ID: idx.name, Key: key, Err: err}
	}
	return idx.retract(key, v, e.ID())
}

func (idx *index) Get(key string, value pgraph.Value) storage.Iterator[storage.Element] {
	var ids []string
	if b := idx.lookup(key, value); b != nil {
		ids = b.ids.snapshot()
	}
	g, kind := idx.g, idx.kind
	return &snapshotIterator[string, storage.Element]{
		keys: ids,
		resolve: func(id string) (storage.Element, bool) {
			return g.element(kind, id)
		},
	}
}

func (idx *index) Count(key string, value pgraph.Value) int64 {
	if b := idx.lookup(key, value); b != nil {
		return int64(b.ids.len())
	}
	return 0
}

func (idx *index) lookup(key string, value pgraph.Value) *bucket {
	v, err := pgraph.NormalizeValue(value)
	if err != nil {
		return nil
	}
	vk, err := keyOf(v)
	if err != nil {
		return nil
	}
	return idx.buckets[key][vk]
}

// Entries returns every membership sorted by key, value and element id.
func (idx *index) Entries() []storage.IndexEntry {
	type sortable struct {
		storage.IndexEntry
		vk valueKey
	}
	var all []sortable
	for key, values := range idx.buckets {
		for vk, b := range values {
			for _, id := range b.ids.snapshot() {
				all = append(all, sortable{storage.IndexEntry{Key: key, Value: b.value, ID: id}, vk})
			}
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.vk.tag != b.vk.tag {
			return a.vk.tag < b.vk.tag
		}
		if a.vk.text != b.vk.text {
			return a.vk.text < b.vk.text
		}
		return a.ID < b.ID
	})
	entries := make([]storage.IndexEntry, len(all))
	for i := range all {
		entries[i] = all[i].IndexEntry
	}
	return entries
}

// member checks that e is a live element of the indexed kind in this graph.
func (idx *index) member(op string, e storage.Element) (string, error) {
	if e == nil {
		return "", &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidReference, Element: idx.kind.String()}
	}
	if e.Kind() != idx.kind || !idx.g.owns(e) {
		return "", &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidReference, Element: e.Kind().String(), ID: e.ID()}
	}
	return e.ID(), nil
}

// insert is idempotent: an entry already present is left as is.
func (idx *index) insert(key string, v pgraph.Value, id string) error {
	vk, err := keyOf(v)
	if err != nil {
		return &pgraph.Error{Op: "insert", Kind: pgraph.ErrUnsupportedPropertyType, Element: idx.kind.String(), ID: id, Key: key, Err: err}
	}
	values, found := idx.buckets[key]
	if !found {
		values = make(map[valueKey]*bucket)
		idx.buckets[key] = values
	}
	b, found := values[vk]
	if !found {
		b = &bucket{value: v, ids: newOrderedSet()}
		values[vk] = b
	}
	b.ids.add(id)
	entries, found := idx.reverse[id]
	if !found {
		entries = make(map[entryKey]struct{})
		idx.reverse[id] = entries
	}
	entries[entryKey{key, vk}] = struct{}{}
	return nil
}

func (idx *index) retract(key string, v pgraph.Value, id string) error {
	vk, err := keyOf(v)
	if err != nil {
		return &pgraph.Error{Op: "retract", Kind: pgraph.ErrUnsupportedPropertyType, Element: idx.kind.String(), ID: id, Key: key, Err: err}
	}
	idx.drop(entryKey{key, vk}, id)
	return nil
}

func (idx *index) drop(ek entryKey, id string) {
	if values, found := idx.buckets[ek.key]; found {
		if b, found := values[ek.value]; found {
			b.ids.remove(id)
			if b.ids.len() == 0 {
				delete(values, ek.value)
			}
		}
		if len(values) == 0 {
			delete(idx.buckets, ek.key)
		}
	}
	if entries, found := idx.reverse[id]; found {
		delete(entries, ek)
		if len(entries) == 0 {
			delete(idx.reverse, id)
		}
	}
}

// removeElement drops every entry of an element.
func (idx *index) removeElement(id string) {
	entries := idx.reverse[id]
	for ek := range entries {
		idx.drop(ek, id)
	}
}

// indexElement adds the covered properties of an element to an automatic index.
func (idx *index) indexElement(id string, props properties) {
	for key, v := range props {
		if idx.covers(key) {
			idx.insert(key, v, id)
		}
	}
}

func (idx *index) clear() {
	idx.buckets = make(map[string]map[valueKey]*bucket)
	idx.reverse = make(map[string]map[entryKey]struct{})
}
