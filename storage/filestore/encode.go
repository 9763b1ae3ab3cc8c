package filestore

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

type row struct {
	id, key string
	line    string
}

// dirRows are the rows of the four role files of one directory.
type dirRows map[string][]row

type tree map[string]dirRows

func (t tree) add(dir, file string, r row) {
	rows, found := t[dir]
	if !found {
		rows = make(dirRows)
		t[dir] = rows
	}
	rows[file] = append(rows[file], r)
}

func tabbed(fields ...string) string {
	for i, f := range fields {
		fields[i] = escape(f)
	}
	return strings.Join(fields, "\t")
}

func propertyRows(t tree, dir, file, local string, e storage.Element) error {
	keys := e.PropertyKeys()
	sort.Strings(keys)
	for _, key := range keys {
		value, _ := e.Property(key)
		tag, text, err := pgraph.FormatValue(value)
		if err != nil {
			return &pgraph.Error{Op: "Save", Kind: pgraph.ErrUnsupportedPropertyType, Element: e.Kind().String(), ID: e.ID(), Key: key, Err: err}
		}
		t.add(dir, file, row{local, key, tabbed(local, key, tag, text)})
	}
	return nil
}

// buildTree lays out every element of the graph by directory.
func buildTree(ctx context.Context, g storage.GraphGetter) (tree, error) {
	t := make(tree)
	t[""] = make(dirRows)
	for it := g.Vertices(); it.HasNext(); {
		v, err := it.Next()
		if err != nil {
			return nil, err
		}
		if err := checkID("Save", "vertex", v.ID()); err != nil {
			return nil, err
		}
		dir, local := splitID(v.ID())
		t.add(dir, verticesFile, row{id: local, line: escape(local)})
		if err := propertyRows(t, dir, vpropsFile, local, v); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for it := g.Edges(); it.HasNext(); {
		e, err := it.Next()
		if err != nil {
			return nil, err
		}
		if err := checkID("Save", "edge", e.ID()); err != nil {
			return nil, err
		}
		out, err := e.Vertex(storage.Out)
		if err != nil {
			return nil, err
		}
		in, err := e.Vertex(storage.In)
		if err != nil {
			return nil, err
		}
		dir, local := splitID(e.ID())
		line := tabbed(local, relativeRef(dir, out.ID()), relativeRef(dir, in.ID()), e.Label())
		t.add(dir, edgesFile, row{id: local, line: line})
		if err := propertyRows(t, dir, epropsFile, local, e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// writeTree writes the role files under root, which must not exist yet.
func writeTree(ctx context.Context, root string, t tree) error {
	dirs := make([]string, 0, len(t))
	for dir := range t {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(root, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0755); err != nil {
			return err
		}
		for file, rows := range t[dir] {
			sort.Slice(rows, func(i, j int) bool {
				if rows[i].id != rows[j].id {
					return rows[i].id < rows[j].id
				}
				return rows[i].key < rows[j].key
			})
			if err := writeRows(filepath.Join(path, file), rows); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRows(filename string, rows []row) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, r := range rows {
		w.WriteString(r.line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
