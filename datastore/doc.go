/*
Package datastore opens a graph from a TOML configuration file.

The [graph] table picks the storage engine and the [store] table is handed to that
engine as its configuration:

	[logging]
	logfile = "pgraph.log"
	max_log_size = 100
	max_log_age = 30

	[graph]
	engine = "filestore"
	default_indices = true

	[store]
	path = "data/graph"
	compression = "snappy"
	checksum = true
*/
package datastore
