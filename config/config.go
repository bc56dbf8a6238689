// Package config is a simple key-value configuration store for process
// start-up parameters (log directory, object dictionary connection string,
// EEPROM backing file, ...). Values
// are always strings; callers own encoding of anything structured into one.
package config

import (
	"errors"
	"sync"

	"gopkg.in/yaml.v2"
)

// ErrKeyNotFound is returned by Get for a key that was never Set.
var ErrKeyNotFound = errors.New("config key not found")

// Config is a unified key-value configuration API, independent of where the
// values originally came from: flags, environment variables, a file loaded
// at start-up, or a MergeFrom of a previously Serialize-d config received
// from another component.
type Config interface {
	// Set sets the value for key, overwriting any existing value.
	Set(key, value string)
	// Get returns the value for key, or ErrKeyNotFound if it was never set.
	Get(key string) (string, error)
	// Serialize renders the config to a string that MergeFrom can parse.
	Serialize() (string, error)
	// MergeFrom parses a string produced by Serialize and merges it in,
	// overwriting values for keys that already exist.
	MergeFrom(string) error
}

type cfg struct {
	mu sync.RWMutex
	m  map[string]string
}

// New creates a new, empty Config.
func New() Config {
	return &cfg{m: make(map[string]string)}
}

func (c *cfg) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func (c *cfg) Get(key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (c *cfg) Serialize() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, err := yaml.Marshal(c.m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *cfg) MergeFrom(serialized string) error {
	var newM map[string]string
	if err := yaml.Unmarshal([]byte(serialized), &newM); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range newM {
		c.m[k] = v
	}
	return nil
}
