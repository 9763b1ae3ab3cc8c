package badger

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/janelia-flyem/pgraph/pgraph"
)

func getOptions(path string, config pgraph.Config) (*badger.Options, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})

	readOnly, found, err := config.GetBool("ReadOnly")
	if err != nil {
		return nil, err
	}
	if found {
		opts.ReadOnly = readOnly
	}

	valueSizeThresh, found, err := config.GetInt("ValueThreshold")
	if err != nil {
		return nil, err
	}
	if found {
		opts = opts.WithValueThreshold(int64(valueSizeThresh))
	}

	vlogSize, found, err := config.GetInt("ValueLogFileSize")
	if err != nil {
		return nil, err
	}
	if found {
		opts = opts.WithValueLogFileSize(int64(vlogSize))
	}

	syncWrites, found, err := config.GetBool("SyncWrites")
	if err != nil {
		return nil, err
	}
	if found {
		opts = opts.WithSyncWrites(syncWrites)
	}
	return &opts, nil
}

// badgerLogger sends badger's own logging through the package log functions.
// Badger is chatty at Info, so its Info goes to Debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	pgraph.Errorf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	pgraph.Warningf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	pgraph.Debugf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	pgraph.Debugf("badger: "+format, args...)
}
