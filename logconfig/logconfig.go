// Package logconfig persists the list of per-source log verbosity settings
// a process starts up with, in a small versioned YAML file format. It is
// the file-system/EEPROM "section-system" component of the ambient stack:
// a real embedded target backs this with an EEPROM section rather than a
// POSIX file, but the on-disk (or on-EEPROM) format and the round-trip
// guarantee are the same either way (spec §8 property 9).
package logconfig

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// formatVersion is bumped whenever the on-disk layout changes in a way that
// is not backwards compatible; ReadLogSrcConfigFromFile refuses to load a
// file whose version it does not recognise.
const formatVersion = 1

// LogSrcConfig is the verbosity configuration for one named log source.
type LogSrcConfig struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type fileFormat struct {
	Version int            `yaml:"version"`
	Sources []LogSrcConfig `yaml:"sources"`
}

// WriteLogSrcConfigToFile serializes srcs to path in the versioned YAML
// format, overwriting any existing file.
func WriteLogSrcConfigToFile(path string, srcs []LogSrcConfig) error {
	ff := fileFormat{Version: formatVersion, Sources: srcs}
	b, err := yaml.Marshal(ff)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0o644)
}

// ReadLogSrcConfigFromFile reads back a file written by
// WriteLogSrcConfigToFile. Reading a path that does not exist is treated as
// an empty, freshly-formatted file system and returns (nil, nil), matching
// spec §8 property 9's "round-trip on an empty file system" case.
func ReadLogSrcConfigFromFile(path string) ([]LogSrcConfig, error) {
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ff fileFormat
	if err := yaml.Unmarshal(b, &ff); err != nil {
		return nil, err
	}
	if ff.Version != formatVersion {
		return nil, fmt.Errorf("logconfig: unsupported file format version %d (want %d)", ff.Version, formatVersion)
	}
	return ff.Sources, nil
}
