package config

import (
	"flag"
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/paths"
)

// Flags are the command line overrides of a Config.
type Flags struct {
	fs *flag.FlagSet

	config      string
	license     string
	copyright   string
	indent      int
	parallelism int
	splitter    string
	makeParents bool

	fetchTimeout time.Duration

	printMode string
	blanks    bool
	downsize  bool

	listen      string
	debugListen string
	root        string
	maxAge      time.Duration
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}
	paths.SetupFilePathFlag(fs, FileName, "config", &f.config)
	fs.StringVar(&f.license, "license", d.License, "SPDX license identifier stamped on new packages")
	fs.StringVar(&f.copyright, "copyright", d.Copyright, "Copyright stamped on new packages")
	fs.IntVar(&f.indent, "indent", d.Indent, "Indent meta.json by this many spaces; 0 writes compact JSON")
	fs.IntVar(&f.parallelism, "parallelism", d.Parallelism, "Number of states packed at once")
	fs.StringVar(&f.splitter, "splitter", d.Splitter, "Split imported packages: simple, hyphen, underscore or number")
	fs.BoolVar(&f.makeParents, "make_parents", d.MakeParents, "Create missing parent directories of output packages")
	fs.DurationVar(&f.fetchTimeout, "fetch_timeout", d.Fetch.Timeout, "Timeout for downloading remote source files")
	fs.StringVar(&f.printMode, "print_mode", d.Print.Mode, "Terminal preview mode: 24bit, 256, none, iterm or rasterm")
	fs.BoolVar(&f.blanks, "blanks", d.Print.Blanks, "Print coloured blanks instead of ascii art")
	fs.BoolVar(&f.downsize, "downsize", d.Print.Downsize, "Shrink previews to fit the terminal")
	fs.StringVar(&f.listen, "listen_address", d.Web.ListenAddress, "Address the preview server listens on")
	fs.StringVar(&f.debugListen, "debug_listen_address", d.Web.DebugListenAddress, "Address serving /debug/requests; empty disables it")
	fs.StringVar(&f.root, "root", d.Web.Root, "Directory holding the *.rsi packages served")
	fs.DurationVar(&f.maxAge, "max_age", d.Web.MaxAge, "Cache-Control max-age of served images")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return f.config
}

// apply copies the flags that were set on the command line into cfg.
func (f *Flags) apply(cfg *Config) error {
	if !f.fs.Parsed() {
		return errors.New("config: flags applied before they were parsed")
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "license":
			cfg.License = f.license
		case "copyright":
			cfg.Copyright = f.copyright
		case "indent":
			cfg.Indent = f.indent
		case "parallelism":
			cfg.Parallelism = f.parallelism
		case "splitter":
			cfg.Splitter = f.splitter
		case "make_parents":
			cfg.MakeParents = f.makeParents
		case "fetch_timeout":
			cfg.Fetch.Timeout = f.fetchTimeout
		case "print_mode":
			cfg.Print.Mode = f.printMode
		case "blanks":
			cfg.Print.Blanks = f.blanks
		case "downsize":
			cfg.Print.Downsize = f.downsize
		case "listen_address":
			cfg.Web.ListenAddress = f.listen
		case "debug_listen_address":
			cfg.Web.DebugListenAddress = f.debugListen
		case "root":
			cfg.Web.Root = f.root
		case "max_age":
			cfg.Web.MaxAge = f.maxAge
		}
	})
	return nil
}
