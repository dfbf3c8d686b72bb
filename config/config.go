// Package config implements the YAML config file parser
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/PowerDNS/snapshots/config/logger"
)

// DefaultDirectory is the name of the snapshot directory next to a test file
const DefaultDirectory = "__snapshots__"

// DefaultStorageType stores every snapshot as a plain file
const DefaultStorageType = "fs"

// Config is the config root object
type Config struct {
	// Directory is the snapshot directory. A relative path is taken relative
	// to the directory of the test source file.
	Directory string        `yaml:"directory"`
	Update    bool          `yaml:"update"` // Rewrite snapshots that do not match
	Storage   Storage       `yaml:"storage"`
	Log       logger.Config `yaml:"log"`

	// Set to current version by main
	Version string `yaml:"-"`
}

// Storage configures the simpleblob backend snapshots are stored in.
// For the 'fs' backend the root_path option is set to the snapshot directory.
type Storage struct {
	Type    string                 `yaml:"type"`
	Options map[string]interface{} `yaml:"options"`
}

// Check validates a Config instance
func (c Config) Check() error {
	if err := c.Log.Check(); err != nil {
		return err
	}
	if c.Directory == "" {
		return fmt.Errorf("directory: must not be empty")
	}
	if filepath.Clean(c.Directory) == "." {
		return fmt.Errorf("directory: must not be the test directory itself")
	}
	if c.Storage.Type == "" {
		return fmt.Errorf("storage.type: must not be empty")
	}
	if _, exists := c.Storage.Options["root_path"]; exists && c.Storage.Type == DefaultStorageType {
		return fmt.Errorf("storage.options.root_path: set by directory for the %s backend",
			DefaultStorageType)
	}
	return nil
}

// String returns the config as a YAML string
func (c Config) String() string {
	y, err := yaml.Marshal(c)
	if err != nil {
		logrus.Panicf("YAML marshal of config failed: %v", err) // Should never happen
	}
	return string(y)
}

// LoadYAML loads config from YAML. Any set value overwrites any existing value,
// but omitted keys are untouched.
func (c *Config) LoadYAML(yamlContents []byte, expandEnv bool) error {
	if expandEnv {
		yamlContents = []byte(os.ExpandEnv(string(yamlContents)))
	}
	return yaml.UnmarshalStrict(yamlContents, c)
}

// LoadYAMLFile loads config from a YAML file. Any set value overwrites any existing value,
// but omitted keys are untouched.
func (c *Config) LoadYAMLFile(fpath string, expandEnv bool) error {
	contents, err := os.ReadFile(fpath)
	if err != nil {
		return errors.Wrap(err, "open yaml file")
	}
	return c.LoadYAML(contents, expandEnv)
}

// Default returns a Config with default settings
func Default() Config {
	return Config{
		Directory: DefaultDirectory,
		Storage: Storage{
			Type: DefaultStorageType,
		},
		Log: logger.DefaultConfig,
	}
}
