/*
	Package filestore implements a store that writes a graph as a tree of plain text
	files meant to be read and diffed by people.

	Under the configured path, the "graph" directory holds the elements.  Each
	directory of the tree has up to four files:

		vertices   one local id per line
		edges      local id, out vertex, in vertex, label
		vprops     local id, key, type tag, value
		eprops     local id, key, type tag, value

	Fields are separated by tabs and rows are sorted by local id then key.  Backslash,
	tab and newline inside fields are written as \\, \t and \n.  An id containing '/'
	is split at its last '/' into a directory path and a local name, so vertex
	"people/marko" is the line "marko" of graph/people/vertices.  Edge endpoints inside
	the edge's own directory are written relative to it; others are written as an
	absolute id with a leading '/'.

	The "metadata" file next to the graph directory holds id allocation and index
	definitions in the flat metadata encoding of the storage package.
*/
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blang/semver"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

const (
	graphDir     = "graph"
	metadataFile = "metadata"
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		pgraph.Errorf("Unable to make semver in filestore: %v\n", err)
	}
	e := Engine{"filestore", "Directory tree of sorted text files", ver}
	storage.RegisterEngine(e)
}

// --- Engine Implementation ------

type Engine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e Engine) GetName() string {
	return e.name
}

func (e Engine) GetDescription() string {
	return e.desc
}

func (e Engine) GetSemVer() semver.Version {
	return e.semver
}

func (e Engine) String() string {
	return fmt.Sprintf("%s [%s]", e.name, e.semver)
}

// NewStore returns a file store.  The passed Config must contain a "path" setting.
func (e Engine) NewStore(config pgraph.StoreConfig) (storage.Store, bool, error) {
	return e.newStore(config)
}

// Delete implements the TestableEngine interface by removing the store directory.
func (e Engine) Delete(config pgraph.StoreConfig) error {
	opts, err := parseConfig(config)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(opts.path); err != nil {
		return fmt.Errorf("can't delete file store %q: %v", opts.path, err)
	}
	return nil
}

type options struct {
	path     string
	compress pgraph.Compression
	checksum pgraph.Checksum
}

func parseConfig(config pgraph.StoreConfig) (opts options, err error) {
	var found bool
	opts.path, found, err = config.GetString("path")
	if err != nil {
		return
	}
	if !found {
		err = fmt.Errorf("%q must be specified for filestore configuration", "path")
		return
	}
	testing, _, err := config.GetBool("testing")
	if err != nil {
		return
	}
	if testing && !filepath.IsAbs(opts.path) {
		opts.path = filepath.Join(os.TempDir(), opts.path)
	}
	opts.compress = pgraph.Snappy
	name, found, err := config.GetString("compression")
	if err != nil {
		return
	}
	if found {
		if opts.compress, err = pgraph.ParseCompression(name); err != nil {
			return
		}
	}
	opts.checksum = pgraph.CRC32
	checksum, found, err := config.GetBool("checksum")
	if err != nil {
		return
	}
	if found && !checksum {
		opts.checksum = pgraph.NoChecksum
	}
	return
}

type fileStore struct {
	options
	config pgraph.StoreConfig
}

// newStore returns a file store, insuring a directory at the path.
func (e Engine) newStore(config pgraph.StoreConfig) (*fileStore, bool, error) {
	opts, err := parseConfig(config)
	if err != nil {
		return nil, false, err
	}

	var created bool
	if _, err := os.Stat(opts.path); os.IsNotExist(err) {
		pgraph.Infof("File store not already at path (%s). Creating ...\n", opts.path)
		if err := os.MkdirAll(opts.path, 0755); err != nil {
			return nil, false, err
		}
		created = true
	} else {
		pgraph.Infof("Found file store at %s (err = %v)\n", opts.path, err)
	}
	return &fileStore{options: opts, config: config}, created, nil
}

// ---- Store interface ------

func (fs *fileStore) String() string {
	return fmt.Sprintf("file store @ %s", fs.path)
}

func (fs *fileStore) Close() error {
	return nil
}

func (fs *fileStore) Equal(config pgraph.StoreConfig) bool {
	opts, err := parseConfig(config)
	if err != nil {
		return false
	}
	return config.Engine == "filestore" && opts.path == fs.path
}

// Load reads elements, then the metadata file if present.
func (fs *fileStore) Load(ctx context.Context, g storage.IndexableGraph) error {
	timedLog := pgraph.NewTimeLog()
	if err := readTree(ctx, filepath.Join(fs.path, graphDir), g); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(fs.path, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		timedLog.Infof("Loaded %s without metadata from %s", g, fs)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ReadMetadata(f, g); err != nil {
		return fmt.Errorf("reading %s metadata: %w", fs, err)
	}
	timedLog.Infof("Loaded %s from %s", g, fs)
	return nil
}

// Save writes the graph into fresh files and then swaps them in, so an
// encoding failure leaves the previous contents in place.
func (fs *fileStore) Save(ctx context.Context, g storage.IndexableGraph) error {
	timedLog := pgraph.NewTimeLog()
	t, err := buildTree(ctx, g)
	if err != nil {
		return err
	}
	meta, err := storage.ExtractMetadata(g)
	if err != nil {
		return err
	}
	encoded, err := storage.EncodeMetadata(meta, fs.compress, fs.checksum)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fs.path, 0755); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(fs.path, ".save-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)
	if err := writeTree(ctx, filepath.Join(staging, graphDir), t); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, metadataFile), encoded, 0644); err != nil {
		return err
	}

	graphPath := filepath.Join(fs.path, graphDir)
	if err := os.RemoveAll(graphPath); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(staging, graphDir), graphPath); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(staging, metadataFile), filepath.Join(fs.path, metadataFile)); err != nil {
		return err
	}
	timedLog.Infof("Saved %s to %s", g, fs)
	return nil
}
