package filestore

import (
	"errors"
	"strings"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// Role files written in each directory of the graph tree.
const (
	verticesFile = "vertices"
	edgesFile    = "edges"
	vpropsFile   = "vprops"
	epropsFile   = "eprops"
)

func isRoleFile(name string) bool {
	switch name {
	case verticesFile, edgesFile, vpropsFile, epropsFile:
		return true
	}
	return false
}

// splitID divides an id at its last '/' into the directory that holds the
// element and the element's local name in that directory.
func splitID(id string) (dir, local string) {
	i := strings.LastIndexByte(id, '/')
	if i < 0 {
		return "", id
	}
	return id[:i], id[i+1:]
}

func joinID(dir, local string) string {
	if dir == "" {
		return local
	}
	return dir + "/" + local
}

// checkID verifies an id can be laid out as directories plus a local name.
func checkID(op, element, id string) error {
	bad := func(reason string) error {
		return &pgraph.Error{Op: op, Kind: pgraph.ErrInvalidID, Element: element, ID: id, Err: errors.New(reason)}
	}
	dir, local := splitID(id)
	if local == "" {
		return bad("empty local name")
	}
	if dir == "" {
		if strings.HasPrefix(id, "/") {
			return bad("empty directory name")
		}
		return nil
	}
	for _, name := range strings.Split(dir, "/") {
		switch {
		case name == "":
			return bad("empty directory name")
		case name == "." || name == "..":
			return bad("relative directory name")
		case isRoleFile(name):
			return bad("directory name " + name + " is reserved")
		case strings.ContainsAny(name, "\t\n\x00"):
			return bad("control character in directory name")
		}
	}
	return nil
}

// relativeRef writes an endpoint id relative to dir if it lies inside it, and
// as an absolute "/"-prefixed id otherwise.
func relativeRef(dir, id string) string {
	if dir == "" {
		return id
	}
	if strings.HasPrefix(id, dir+"/") {
		return id[len(dir)+1:]
	}
	return "/" + id
}

// resolveRef reverses relativeRef.
func resolveRef(dir, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return ref[1:]
	}
	return joinID(dir, ref)
}
