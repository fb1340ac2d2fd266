// Package config holds the settings shared by the rsi tools.
package config

import (
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/split"
)

// FileName is the name of the configuration file looked up by Load.
const FileName = "rsi.yaml"

// Config holds all settings.
type Config struct {
	// License and Copyright are stamped on packages that are created or
	// imported.
	License   string `yaml:"license"`
	Copyright string `yaml:"copyright"`

	// Indent pretty-prints meta.json; 0 writes it compact. Parallelism
	// bounds how many states are packed at once.
	Indent      int    `yaml:"indent"`
	Parallelism int    `yaml:"parallelism"`
	Splitter    string `yaml:"splitter"`
	MakeParents bool   `yaml:"make_parents"`

	Fetch FetchConfig `yaml:"fetch"`
	Print PrintConfig `yaml:"print"`
	Web   WebConfig   `yaml:"web"`
}

// FetchConfig controls how remote source files are downloaded.
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// PrintConfig controls terminal previews.
type PrintConfig struct {
	Mode     string `yaml:"mode"`
	Blanks   bool   `yaml:"blanks"`
	Downsize bool   `yaml:"downsize"`
}

// WebConfig holds the preview server's settings.
type WebConfig struct {
	ListenAddress      string        `yaml:"listen_address"`
	DebugListenAddress string        `yaml:"debug_listen_address"`
	Root               string        `yaml:"root"`
	MaxAge             time.Duration `yaml:"max_age"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parallelism: 1,
		MakeParents: true,
		Fetch: FetchConfig{
			Timeout: 30 * time.Second,
		},
		Print: PrintConfig{
			Mode:   "24bit",
			Blanks: true,
		},
		Web: WebConfig{
			ListenAddress: ":8080",
			Root:          ".",
			MaxAge:        time.Hour,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return errors.Errorf("config: indent must not be negative, got %d", c.Indent)
	}
	if c.Parallelism < 1 {
		return errors.Errorf("config: parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.Splitter != "" {
		if _, err := split.ByName(c.Splitter); err != nil {
			return errors.Wrap(err, "config")
		}
	}
	if c.Fetch.Timeout < 0 {
		return errors.Errorf("config: fetch timeout must not be negative, got %v", c.Fetch.Timeout)
	}
	if c.Web.MaxAge < 0 {
		return errors.Errorf("config: web max age must not be negative, got %v", c.Web.MaxAge)
	}
	return nil
}
