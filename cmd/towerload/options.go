package main

import (
	"github.com/spf13/pflag"
	"github.com/ukaji3/towerload-go/internal/obs"
	"github.com/ukaji3/towerload-go/pkg/towerload"
	"go.uber.org/zap"
)

// baseOptions returns the run file options, or the defaults without one.
func baseOptions(g *globalFlags) (towerload.Options, error) {
	if g.config == "" {
		return towerload.DefaultOptions(), nil
	}
	return towerload.LoadConfig(g.config)
}

// cacheFlags select the reference-load cache.
type cacheFlags struct {
	backend string
	dir     string
	db      string
}

func (c *cacheFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.backend, "cache", "", "Cache backend: json, sqlite, none")
	fs.StringVar(&c.dir, "cache-dir", "", "Directory of <reference>_loads.json files")
	fs.StringVar(&c.db, "cache-db", "", "SQLite cache database")
}

// apply overrides opts with the flags set on the command line. A cache
// directory or database implies its backend unless --cache names one.
func (c *cacheFlags) apply(fs *pflag.FlagSet, opts *towerload.CacheOptions) {
	if fs.Changed("cache") {
		opts.Backend = towerload.CacheBackend(c.backend)
	}
	if fs.Changed("cache-dir") {
		opts.Dir = c.dir
		if !fs.Changed("cache") {
			opts.Backend = towerload.CacheJSON
		}
	}
	if fs.Changed("cache-db") {
		opts.DB = c.db
		if !fs.Changed("cache") {
			opts.Backend = towerload.CacheSQLite
		}
	}
}

func newLogger(g *globalFlags, opts towerload.LogOptions) (*zap.Logger, error) {
	level, format := opts.Level, opts.Format
	if g.logLevel != "" {
		level = g.logLevel
	}
	if g.logFormat != "" {
		format = g.logFormat
	}
	if level == "" {
		level = "info"
	}
	return obs.NewLogger(level, format)
}
