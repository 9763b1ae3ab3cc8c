/*
	Package badger implements a store that keeps a graph snapshot in a BadgerDB
	database.  Each record family has its own key class: vertices, vertex properties,
	edges, edge properties and the flat metadata record.  Values are msgp records
	wrapped with the configured compression and checksum.
*/
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blang/semver"
	"github.com/dgraph-io/badger/v3"

	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		pgraph.Errorf("Unable to make semver in badger: %v\n", err)
	}
	e := Engine{"badger", "BadgerDB snapshot store", ver}
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

// NewStore returns a badger store. The passed Config must contain "path" string.
func (e Engine) NewStore(config pgraph.StoreConfig) (storage.Store, bool, error) {
	return e.newDB(config)
}

// Delete implements the TestableEngine interface by providing a way to dispose
// of testing databases.
func (e Engine) Delete(config pgraph.StoreConfig) error {
	path, err := parsePath(config)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("can't delete badger store %q: %v", path, err)
		}
	}
	return nil
}

func parsePath(config pgraph.StoreConfig) (path string, err error) {
	var found bool
	path, found, err = config.GetString("path")
	if err != nil {
		return
	}
	if !found {
		err = fmt.Errorf("%q must be specified for BadgerDB configuration", "path")
		return
	}
	testing, _, err := config.GetBool("testing")
	if err != nil {
		return
	}
	if testing && !filepath.IsAbs(path) {
		path = filepath.Join(os.TempDir(), path)
	}
	return
}

func parseEncoding(config pgraph.StoreConfig) (compress pgraph.Compression, checksum pgraph.Checksum, err error) {
	compress, checksum = pgraph.Snappy, pgraph.CRC32
	name, found, err := config.GetString("compression")
	if err != nil {
		return
	}
	if found {
		if compress, err = pgraph.ParseCompression(name); err != nil {
			return
		}
	}
	useChecksum, found, err := config.GetBool("checksum")
	if found && !useChecksum {
		checksum = pgraph.NoChecksum
	}
	return
}

// Periodically sync to prevent too many writes from being buffered
// if the process crashes.
func syncPeriodically(db *BadgerDB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-db.stopSyncCh:
			pgraph.Debugf("Stopping sync goroutine for badger @ %s\n", db.directory)
			return
		case <-ticker.C:
			db.bdp.Sync()
		}
	}
}

// newDB returns a Badger backend, creating one at path if it doesn't exist.
func (e Engine) newDB(config pgraph.StoreConfig) (*BadgerDB, bool, error) {
	path, err := parsePath(config)
	if err != nil {
		return nil, false, err
	}
	compress, checksum, err := parseEncoding(config)
	if err != nil {
		return nil, false, err
	}

	var created bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		pgraph.Infof("Database not already at path (%s). Creating directory...\n", path)
		created = true
		if err := os.MkdirAll(path, 0744); err != nil {
			return nil, true, fmt.Errorf("can't make directory at %s: %v", path, err)
		}
	} else {
		pgraph.Infof("Found directory at %s (err = %v)\n", path, err)
	}

	opts, err := getOptions(path, config.Config)
	if err != nil {
		return nil, false, err
	}
	opts.NumVersionsToKeep = 1

	pgraph.Infof("Opening badger @ path %s\n", path)
	bdp, err := badger.Open(*opts)
	if err != nil {
		return nil, false, err
	}
	db := &BadgerDB{
		directory:  path,
		config:     config,
		compress:   compress,
		checksum:   checksum,
		bdp:        bdp,
		stopSyncCh: make(chan struct{}),
	}
	go syncPeriodically(db)

	if created {
		return db, created, nil
	}
	metadataExists, err := db.metadataExists()
	if err != nil {
		db.Close()
		return nil, false, err
	}
	return db, !metadataExists, nil
}

// BadgerDB is a store holding one graph snapshot.
type BadgerDB struct {
	// Directory of datastore
	directory string

	// Config at time of Open()
	config pgraph.StoreConfig

	compress pgraph.Compression
	checksum pgraph.Checksum

	bdp *badger.DB

	// stopSyncCh is closed to stop the sync goroutine.
	stopSyncCh chan struct{}
}

func (db *BadgerDB) String() string {
	return fmt.Sprintf("badger @ %s", db.directory)
}

// Close closes the BadgerDB
func (db *BadgerDB) Close() error {
	if db == nil || db.bdp == nil {
		return nil
	}
	close(db.stopSyncCh)
	err := db.bdp.Close()
	db.bdp = nil
	pgraph.Infof("Closed Badger DB @ %s\n", db.directory)
	return err
}

// Equal returns true if the badger matches the given store configuration.
func (db *BadgerDB) Equal(config pgraph.StoreConfig) bool {
	path, err := parsePath(config)
	if err != nil {
		return false
	}
	return config.Engine == "badger" && db.directory == path
}

func (db *BadgerDB) metadataExists() (bool, error) {
	var found bool
	err := db.bdp.View(func(txn *badger.Txn) error {
		_, err := txn.Get(elementKey(keyMetadata, ""))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, err
}

func (db *BadgerDB) encode(m interface{ MarshalMsg([]byte) ([]byte, error) }) ([]byte, error) {
	data, err := m.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	return pgraph.SerializeData(data, db.compress, db.checksum)
}

func decode(value []byte, m interface{ UnmarshalMsg([]byte) ([]byte, error) }) error {
	data, _, err := pgraph.DeserializeData(value)
	if err != nil {
		return err
	}
	if _, err := m.UnmarshalMsg(data); err != nil {
		return fmt.Errorf("%w: %v", pgraph.ErrMalformed, err)
	}
	return nil
}

// Save replaces the database contents with the graph.
func (db *BadgerDB) Save(ctx context.Context, g storage.IndexableGraph) error {
	if db.bdp == nil {
		return fmt.Errorf("%s: %w", db, pgraph.ErrClosed)
	}
	timedLog := pgraph.NewTimeLog()
	meta, err := storage.ExtractMetadata(g)
	if err != nil {
		return err
	}
	metaValue, err := storage.EncodeMetadata(meta, db.compress, db.checksum)
	if err != nil {
		return err
	}
	if err := db.bdp.DropAll(); err != nil {
		return fmt.Errorf("clearing %s: %w", db, err)
	}

	wb := db.bdp.NewWriteBatch()
	numVertices, numEdges, err := db.writeGraph(ctx, wb, g, metaValue)
	if err != nil {
		wb.Cancel()
		return err
	}
	if err := wb.Flush(); err != nil {
		return err
	}
	timedLog.Infof("Saved %d vertices and %d edges to %s", numVertices, numEdges, db)
	return nil
}

func (db *BadgerDB) writeGraph(ctx context.Context, wb *badger.WriteBatch, g storage.IndexableGraph, metaValue []byte) (numVertices, numEdges int, err error) {
	putProperties := func(class keyClass, e storage.Element) error {
		for _, key := range e.PropertyKeys() {
			value, _ := e.Property(key)
			tag, text, err := pgraph.FormatValue(value)
			if err != nil {
				return &pgraph.Error{Op: "Save", Kind: pgraph.ErrUnsupportedPropertyType, Element: e.Kind().String(), ID: e.ID(), Key: key, Err: err}
			}
			v, err := db.encode(&propertyRecord{tag, text})
			if err != nil {
				return err
			}
			if err := wb.Set(propertyKey(class, e.ID(), key), v); err != nil {
				return err
			}
		}
		return nil
	}
	for it := g.Vertices(); it.HasNext(); numVertices++ {
		var v storage.Vertex
		if v, err = it.Next(); err != nil {
			return
		}
		if err = wb.Set(elementKey(keyVertex, v.ID()), []byte{}); err != nil {
			return
		}
		if err = putProperties(keyVertexProperty, v); err != nil {
			return
		}
	}
	if err = ctx.Err(); err != nil {
		return
	}
	for it := g.Edges(); it.HasNext(); numEdges++ {
		var e storage.Edge
		if e, err = it.Next(); err != nil {
			return
		}
		var out, in storage.Vertex
		if out, err = e.Vertex(storage.Out); err != nil {
			return
		}
		if in, err = e.Vertex(storage.In); err != nil {
			return
		}
		var value []byte
		if value, err = db.encode(&edgeRecord{out.ID(), in.ID(), e.Label()}); err != nil {
			return
		}
		if err = wb.Set(elementKey(keyEdge, e.ID()), value); err != nil {
			return
		}
		if err = putProperties(keyEdgeProperty, e); err != nil {
			return
		}
	}
	err = wb.Set(elementKey(keyMetadata, ""), metaValue)
	return
}

// Load adds the stored vertices, then edges, then restores metadata.
func (db *BadgerDB) Load(ctx context.Context, g storage.IndexableGraph) error {
	if db.bdp == nil {
		return fmt.Errorf("%s: %w", db, pgraph.ErrClosed)
	}
	timedLog := pgraph.NewTimeLog()
	err := db.bdp.View(func(txn *badger.Txn) error {
		scan := func(class keyClass, fn func(key, value []byte) error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			prefix := class.prefix()
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				value, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				if err := fn(item.KeyCopy(nil), value); err != nil {
					return err
				}
			}
			return nil
		}
		setProperty := func(lookup func(id string) (storage.Element, bool), kind string) func(k, v []byte) error {
			return func(k, v []byte) error {
				id, key, err := decodePropertyKey(k)
				if err != nil {
					return err
				}
				e, found := lookup(id)
				if !found {
					return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: kind, ID: id, Key: key}
				}
				var rec propertyRecord
				if err := decode(v, &rec); err != nil {
					return err
				}
				value, err := pgraph.ParseValue(rec.Tag, rec.Text)
				if err != nil {
					return &pgraph.Error{Op: "Load", Kind: pgraph.ErrMalformed, Element: kind, ID: id, Key: key, Err: err}
				}
				return e.SetProperty(key, value)
			}
		}

		err := scan(keyVertex, func(k, v []byte) error {
			_, err := g.AddVertex(string(k[1:]))
			return err
		})
		if err != nil {
			return err
		}
		err = scan(keyVertexProperty, setProperty(func(id string) (storage.Element, bool) {
			return g.Vertex(id)
		}, "vertex"))
		if err != nil {
			return err
		}
		err = scan(keyEdge, func(k, v []byte) error {
			id := string(k[1:])
			var rec edgeRecord
			if err := decode(v, &rec); err != nil {
				return err
			}
			out, found := g.Vertex(rec.Out)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "edge", ID: id,
					Err: fmt.Errorf("out vertex %q not found", rec.Out)}
			}
			in, found := g.Vertex(rec.In)
			if !found {
				return &pgraph.Error{Op: "Load", Kind: pgraph.ErrDanglingReference, Element: "edge", ID: id,
					Err: fmt.Errorf("in vertex %q not found", rec.In)}
			}
			_, err := g.AddEdge(id, out, in, rec.Label)
			return err
		})
		if err != nil {
			return err
		}
		err = scan(keyEdgeProperty, setProperty(func(id string) (storage.Element, bool) {
			return g.Edge(id)
		}, "edge"))
		if err != nil {
			return err
		}
		return scan(keyMetadata, func(k, v []byte) error {
			meta, err := storage.DecodeMetadata(v)
			if err != nil {
				return err
			}
			return meta.Restore(g)
		})
	})
	if err != nil {
		return err
	}
	timedLog.Infof("Loaded %s from %s", g, db)
	return nil
}
