package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// keyClass partitions the key space, one class per record family.
type keyClass byte

const (
	keyVertex keyClass = iota + 1
	keyVertexProperty
	keyEdge
	keyEdgeProperty
	keyMetadata
)

func (c keyClass) prefix() []byte {
	return []byte{byte(c)}
}

// elementKey is the class byte followed by the id.
func elementKey(class keyClass, id string) []byte {
	k := make([]byte, 0, 1+len(id))
	k = append(k, byte(class))
	return append(k, id...)
}

// propertyKey is the class byte, the uvarint length of the id, the id and the
// property key, so all properties of an element are contiguous.
func propertyKey(class keyClass, id, key string) []byte {
	k := make([]byte, 0, 1+binary.MaxVarintLen64+len(id)+len(key))
	k = append(k, byte(class))
	k = binary.AppendUvarint(k, uint64(len(id)))
	k = append(k, id...)
	return append(k, key...)
}

func decodePropertyKey(k []byte) (id, key string, err error) {
	if len(k) < 2 {
		return "", "", fmt.Errorf("%w: property key %x too short", pgraph.ErrMalformed, k)
	}
	n, size := binary.Uvarint(k[1:])
	start := 1 + size
	if size <= 0 || uint64(len(k)-start) < n {
		return "", "", fmt.Errorf("%w: bad id length in property key %x", pgraph.ErrMalformed, k)
	}
	end := start + int(n)
	return string(k[start:end]), string(k[end:]), nil
}
