package datastore

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// Config is the parsed TOML configuration of a graph datastore.
type Config struct {
	Logging pgraph.LogConfig
	Graph   GraphConfig
	Store   map[string]interface{}

	location string
}

// GraphConfig is the [graph] table.  An empty engine keeps the graph in memory only.
type GraphConfig struct {
	Engine         string
	DefaultIndices bool `toml:"default_indices"`
}

// LoadConfig decodes a TOML configuration file.  Relative paths in [logging] and
// [store] are resolved against the directory holding the file.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no TOML configuration file provided")
	}
	var c Config
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %v", err)
	}
	c.location = filename
	if err := c.convertPathsToAbsolute(filename); err != nil {
		return nil, fmt.Errorf("could not convert relative paths to absolute paths in TOML config: %v", err)
	}
	pgraph.Infof("Loaded configuration %s: engine %q\n", filename, c.Graph.Engine)
	return &c, nil
}

// Location returns the file the configuration was loaded from, if any.
func (c *Config) Location() string {
	return c.location
}

func (c *Config) convertPathsToAbsolute(configPath string) error {
	configDir := filepath.Dir(configPath)

	// [logging].logfile
	if c.Logging.Logfile != "" {
		path, err := pgraph.ConvertToAbsolute(c.Logging.Logfile, configDir)
		if err != nil {
			return fmt.Errorf("error converting logfile setting to absolute path: %v", err)
		}
		c.Logging.Logfile = path
	}

	// [store].path
	p, found := c.Store["path"]
	if !found {
		return nil
	}
	path, ok := p.(string)
	if !ok {
		return fmt.Errorf("don't understand path setting for store: %v", p)
	}
	absPath, err := pgraph.ConvertToAbsolute(path, configDir)
	if err != nil {
		return fmt.Errorf("error converting store.path to absolute path %q: %v", path, err)
	}
	c.Store["path"] = absPath
	return nil
}

// StoreConfig returns the [store] table as the configuration of the [graph] engine.
func (c *Config) StoreConfig() pgraph.StoreConfig {
	sc := pgraph.StoreConfig{
		Config: pgraph.NewConfig(),
		Engine: c.Graph.Engine,
	}
	sc.SetAll(c.Store)
	return sc
}
