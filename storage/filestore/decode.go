package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

// listDirs returns every directory of the tree below root as slash-separated
// paths relative to root, parents before children.  Unknown regular files are
// skipped with a warning.
func listDirs(root string) ([]string, error) {
	dirs := []string{""}
	for i := 0; i < len(dirs); i++ {
		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dirs[i])))
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			name := entry.Name()
			switch {
			case entry.IsDir():
				if isRoleFile(name) {
					return nil, fmt.Errorf("%w: directory %q uses a reserved name", pgraph.ErrMalformed, path.Join(dirs[i], name))
				}
				dirs = append(dirs, path.Join(dirs[i], name))
			case !isRoleFile(name):
				pgraph.Warningf("ignoring unknown file %q in graph directory %s\n", name, root)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// readRows calls fn with the unescaped fields of every row of a role file.  A
// missing file has no rows.
func readRows(filename string, nfields int, fn func(fields []string) error) error {
	f, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for lineNum := 1; ; lineNum++ {
		line, readErr := r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		if line = strings.TrimSuffix(line, "\n"); line != "" {
			malformed := func(cause error) error {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrMalformed, Err: fmt.Errorf("%s:%d: %v", filename, lineNum, cause)}
			}
			fields := strings.Split(line, "\t")
			if len(fields) != nfields {
				return malformed(fmt.Errorf("expected %d fields, got %d", nfields, len(fields)))
			}
			for i := range fields {
				var err error
				if fields[i], err = unescape(fields[i]); err != nil {
					return malformed(err)
				}
			}
			if strings.ContainsRune(fields[0], '/') {
				return malformed(fmt.Errorf("local name %q contains '/'", fields[0]))
			}
			if err := fn(fields); err != nil {
				var perr *pgraph.Error
				if errors.As(err, &perr) && perr.Err == nil {
					perr.Err = fmt.Errorf("%s:%d", filename, lineNum)
				}
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

func setProperty(e storage.Element, fields []string) error {
	value, err := pgraph.ParseValue(fields[2], fields[3])
	if err != nil {
		kind := pgraph.ErrMalformed
		if errors.Is(err, pgraph.ErrUnsupportedPropertyType) {
			kind = pgraph.ErrUnsupportedPropertyType
		}
		return &pgraph.Error{Op: "Load", Kind: kind, Element: e.Kind().String(), ID: e.ID(), Key: fields[1], Err: err}
	}
	return e.SetProperty(fields[1], value)
}

// readTree adds the elements stored under root to g.  Vertices of every directory
// are read before any edge so that an edge may refer to a vertex anywhere in the
// tree.  A missing root is an empty graph.
func readTree(ctx context.Context, root string, g storage.Graph) error {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	dirs, err := listDirs(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		base := filepath.Join(root, filepath.FromSlash(dir))
		err := readRows(filepath.Join(base, verticesFile), 1, func(fields []string) error {
			_, err := g.AddVertex(joinID(dir, fields[0]))
			return err
		})
		if err != nil {
			return err
		}
		err = readRows(filepath.Join(base, vpropsFile), 4, func(fields []string) error {
			id := joinID(dir, fields[0])
			v, found := g.Vertex(id)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "vertex", ID: id, Key: fields[1]}
			}
			return setProperty(v, fields)
		})
		if err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		base := filepath.Join(root, filepath.FromSlash(dir))
		err := readRows(filepath.Join(base, edgesFile), 4, func(fields []string) error {
			id := joinID(dir, fields[0])
			outID, inID := resolveRef(dir, fields[1]), resolveRef(dir, fields[2])
			out, found := g.Vertex(outID)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "edge", ID: id,
					Err: fmt.Errorf("out vertex %q not found", outID)}
			}
			in, found := g.Vertex(inID)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "edge", ID: id,
					Err: fmt.Errorf("in vertex %q not found", inID)}
			}
			_, err := g.AddEdge(id, out, in, fields[3])
			return err
		})
		if err != nil {
			return err
		}
		err = readRows(filepath.Join(base, epropsFile), 4, func(fields []string) error {
			id := joinID(dir, fields[0])
			e, found := g.Edge(id)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "edge", ID: id, Key: fields[1]}
			}
			return setProperty(e, fields)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
