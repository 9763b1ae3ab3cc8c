package pgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Config is a map of keyword to arbitrary data to specify configurations via keyword.
// Keys are case-insensitive.
type Config map[string]interface{}

func NewConfig() Config {
	return make(Config)
}

// Set sets a keyword, lowercasing it.
func (c Config) Set(key string, value interface{}) {
	c[strings.ToLower(key)] = value
}

// SetAll copies all settings from a map, e.g., a TOML table.
func (c Config) SetAll(values map[string]interface{}) {
	for k, v := range values {
		c.Set(k, v)
	}
}

// Keys returns the sorted keywords that have been set.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString returns a string setting.  If the setting is not present, found is false.
func (c Config) GetString(key string) (s string, found bool, err error) {
	var v interface{}
	if v, found = c[strings.ToLower(key)]; !found {
		return
	}
	var ok bool
	if s, ok = v.(string); !ok {
		err = fmt.Errorf("setting %q must be a string (%v)", key, v)
	}
	return
}

// GetBool returns a bool setting.  Strings "true" and "false" are accepted as well.
func (c Config) GetBool(key string) (b bool, found bool, err error) {
	var v interface{}
	if v, found = c[strings.ToLower(key)]; !found {
		return
	}
	switch x := v.(type) {
	case bool:
		b = x
	case string:
		switch strings.ToLower(x) {
		case "true":
			b = true
		case "false":
		default:
			err = fmt.Errorf("setting %q must be a bool (%v)", key, v)
		}
	default:
		err = fmt.Errorf("setting %q must be a bool (%v)", key, v)
	}
	return
}

// GetInt returns an integer setting.  TOML decodes integers as int64 so all
// integer kinds are accepted.
func (c Config) GetInt(key string) (i int, found bool, err error) {
	var v interface{}
	if v, found = c[strings.ToLower(key)]; !found {
		return
	}
	switch x := v.(type) {
	case int:
		i = x
	case int64:
		i = int(x)
	case int32:
		i = int(x)
	case float64:
		i = int(x)
	default:
		err = fmt.Errorf("setting %q must be an integer (%v)", key, v)
	}
	return
}

// StoreConfig is a store-specific configuration where each store implementation
// defines the types of parameters it accepts.
type StoreConfig struct {
	Config

	// Engine is a simple name describing the engine, e.g., "badger"
	Engine string
}

func (sc StoreConfig) String() string {
	var parts []string
	for _, k := range sc.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, sc.Config[k]))
	}
	return fmt.Sprintf("%s [%s]", sc.Engine, strings.Join(parts, " "))
}
