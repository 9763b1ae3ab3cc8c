package memgraph

import (
	"sort"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// properties is the property store of a single element.  It knows nothing about
// indices; callers capture the previous value returned by set and remove.
type properties map[string]pgraph.Value

func (p properties) get(key string) (pgraph.Value, bool) {
	v, found := p[key]
	return v, found
}

// set overwrites the value at key and returns the previous value, if any.
func (p properties) set(key string, value pgraph.Value) (old pgraph.Value, existed bool) {
	old, existed = p[key]
	p[key] = value
	return
}

func (p properties) remove(key string) (old pgraph.Value, existed bool) {
	old, existed = p[key]
	if existed {
		delete(p, key)
	}
	return
}

func (p properties) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

func (p properties) sortedKeys() []string {
	keys := p.keys()
	sort.Strings(keys)
	return keys
}
