package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// Metadata is the flat auxiliary state of a graph that is not carried by its
// elements: id allocator position, index definitions and manual index contents.
// Automatic index contents are not stored; they are rebuilt from element
// properties when the index is recreated after the elements are loaded.
type Metadata struct {
	InstanceID string
	CurrentID  uint64
	Indices    []IndexMetadata
}

// IndexMetadata describes one index.
type IndexMetadata struct {
	Name    string
	Kind    ElementKind
	Type    IndexType
	AllKeys bool     // automatic index over every property key
	Keys    []string // automatic index keys when AllKeys is false
	Entries []EntryMetadata
}

// EntryMetadata is one manual index membership with its value in tagged text form.
type EntryMetadata struct {
	Key   string
	Tag   string
	Value string
	ID    string
}

// ExtractMetadata captures the metadata of a graph.
func ExtractMetadata(g IndexableGraph) (*Metadata, error) {
	m := new(Metadata)
	if c, ok := g.(IDCounter); ok {
		m.CurrentID = c.CurrentID()
	}
	if ii, ok := g.(InstanceIdentifier); ok {
		m.InstanceID = ii.InstanceID()
	}
	for _, idx := range g.Indices() {
		im := IndexMetadata{
			Name: idx.Name(),
			Kind: idx.Kind(),
			Type: idx.Type(),
		}
		switch idx.Type() {
		case AutomaticIndex:
			ai, ok := idx.(AutoIndex)
			if !ok {
				return nil, fmt.Errorf("automatic index %q does not expose its keys", idx.Name())
			}
			keys := ai.AutoIndexKeys()
			im.AllKeys = keys == nil
			im.Keys = keys
		case ManualIndex:
			for _, entry := range idx.Entries() {
				tag, text, err := pgraph.FormatValue(entry.Value)
				if err != nil {
					return nil, &pgraph.Error{Op: "ExtractMetadata", Kind: pgraph.ErrUnsupportedPropertyType,
						Element: idx.Kind().String(), ID: entry.ID, Key: entry.Key, Err: err}
				}
				im.Entries = append(im.Entries, EntryMetadata{entry.Key, tag, text, entry.ID})
			}
		}
		m.Indices = append(m.Indices, im)
	}
	return m, nil
}

// Restore applies metadata to a graph whose elements have already been loaded.
// Existing indices with the same names are replaced.  A manual index entry naming
// an element that is not in the graph fails with pgraph.ErrDanglingReference.
func (m *Metadata) Restore(g IndexableGraph) error {
	if c, ok := g.(IDCounter); ok && m.CurrentID > c.CurrentID() {
		c.SetCurrentID(m.CurrentID)
	}
	if ii, ok := g.(InstanceIdentifier); ok && m.InstanceID != "" {
		ii.SetInstanceID(m.InstanceID)
	}
	existing := make(map[string]struct{})
	for _, idx := range g.Indices() {
		existing[idx.Name()] = struct{}{}
	}
	for _, im := range m.Indices {
		if _, found := existing[im.Name]; found {
			if err := g.DropIndex(im.Name); err != nil {
				return err
			}
		}
		switch im.Type {
		case AutomaticIndex:
			keys := im.Keys
			if im.AllKeys {
				keys = nil
			} else if keys == nil {
				keys = []string{}
			}
			if _, err := g.CreateAutomaticIndex(im.Name, im.Kind, keys); err != nil {
				return err
			}
		case ManualIndex:
			idx, err := g.CreateManualIndex(im.Name, im.Kind)
			if err != nil {
				return err
			}
			for _, entry := range im.Entries {
				elem, found := lookupElement(g, im.Kind, entry.ID)
				if !found {
					return &pgraph.Error{Op: "Restore", Kind: pgraph.ErrDanglingReference,
						Element: im.Kind.String(), ID: entry.ID, Key: entry.Key}
				}
				value, err := pgraph.ParseValue(entry.Tag, entry.Value)
				if err != nil {
					return &pgraph.Error{Op: "Restore", Kind: pgraph.ErrMalformed,
						Element: im.Kind.String(), ID: entry.ID, Key: entry.Key, Err: err}
				}
				if err := idx.Put(entry.Key, value, elem); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: index %q has unknown type %d", pgraph.ErrMalformed, im.Name, im.Type)
		}
	}
	return nil
}

func lookupElement(g GraphGetter, kind ElementKind, id string) (Element, bool) {
	switch kind {
	case VertexKind:
		if v, found := g.Vertex(id); found {
			return v, true
		}
	case EdgeKind:
		if e, found := g.Edge(id); found {
			return e, true
		}
	}
	return nil, false
}

// EncodeMetadata returns the serialized form of the metadata.
func EncodeMetadata(m *Metadata, compress pgraph.Compression, checksum pgraph.Checksum) ([]byte, error) {
	data, err := m.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	return pgraph.SerializeData(data, compress, checksum)
}

// DecodeMetadata parses the output of EncodeMetadata.
func DecodeMetadata(s []byte) (*Metadata, error) {
	data, _, err := pgraph.DeserializeData(s)
	if err != nil {
		return nil, err
	}
	m := new(Metadata)
	if _, err := m.UnmarshalMsg(data); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", pgraph.ErrMalformed, err)
	}
	return m, nil
}

// WriteMetadata writes the metadata stream of a graph.
func WriteMetadata(w io.Writer, g IndexableGraph, compress pgraph.Compression, checksum pgraph.Checksum) error {
	m, err := ExtractMetadata(g)
	if err != nil {
		return err
	}
	s, err := EncodeMetadata(m, compress, checksum)
	if err != nil {
		return err
	}
	_, err = w.Write(s)
	return err
}

// ReadMetadata reads a metadata stream and restores it into a graph.
func ReadMetadata(r io.Reader, g IndexableGraph) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	m, err := DecodeMetadata(buf.Bytes())
	if err != nil {
		return err
	}
	return m.Restore(g)
}
