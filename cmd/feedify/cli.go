package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/GunioRobot/feedify/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

// CacheEntries is the administrative view of the persistent cache.
type CacheEntries interface {
	FindEntries(ctx context.Context, limit, offset int) ([]*sqlite.Entry, error)
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context) (int64, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Resolver  feedify.Resolver
	Inspector feedify.FeedInspector
	Entries   CacheEntries
	Registry  *prometheus.Registry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout   time.Duration `default:"10s" env:"FEEDIFY_TIMEOUT" help:"Per-request fetch timeout"`
	UserAgent string        `name:"user-agent" default:"feedify/1.0 (+https://github.com/GunioRobot/feedify)" env:"FEEDIFY_USER_AGENT" help:"User-Agent header sent with every request"`
	Retries   int           `default:"0" env:"FEEDIFY_RETRIES" help:"Transport retries for server errors and timeouts, with doubling backoff from 1s"`
	Rate      float64       `default:"0" env:"FEEDIFY_RATE" help:"Requests per second per host (0 for unlimited)"`
	Store     string        `default:"memory" enum:"none,memory,sqlite" env:"FEEDIFY_STORE" help:"Resolution cache backend (none, memory, sqlite)"`
	DB        string        `name:"db" default:"${default_db}" env:"FEEDIFY_DB" help:"SQLite database path"`
	CacheTTL  time.Duration `name:"cache-ttl" default:"168h" env:"FEEDIFY_CACHE_TTL" help:"How long resolved feeds are cached"`
	MaxDepth  int           `name:"max-depth" default:"20" env:"FEEDIFY_MAX_DEPTH" help:"Maximum number of pages visited per resolution"`
	Debug     bool          `env:"FEEDIFY_DEBUG" help:"Log every fetch, cache access and resolution"`

	Resolve ResolveCmd `cmd:"" help:"Resolve page URLs to their feeds"`
	Check   CheckCmd   `cmd:"" help:"Run a file of expected resolutions and report mismatches"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP redirect service"`
	Cache   CacheCmd   `cmd:"" help:"Inspect or purge the sqlite cache"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Page URLs to resolve"`
	File        string   `short:"f" type:"existingfile" help:"Read URLs from a file, one per line"`
	FromOPML    string   `name:"from-opml" type:"existingfile" help:"Read page URLs from an OPML file"`
	OPML        string   `name:"opml" help:"Write resolved feeds to an OPML file"`
	Inspect     bool     `short:"i" help:"Fetch each resolved feed and print its title"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent resolution limit"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	File        string `arg:"" type:"existingfile" help:"File of 'url expected' lines"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent resolution limit"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":4567" env:"FEEDIFY_ADDR" help:"Listen address"`
}

// CacheCmd groups the cache maintenance subcommands.
type CacheCmd struct {
	List  CacheListCmd  `cmd:"" help:"List cached resolutions"`
	Purge CachePurgeCmd `cmd:"" help:"Remove expired entries, or one key"`
}

// CacheListCmd is the "cache list" subcommand.
type CacheListCmd struct {
	Limit  int `short:"n" default:"50" help:"Maximum entries to show"`
	Offset int `default:"0" help:"Entries to skip"`
}

// CachePurgeCmd is the "cache purge" subcommand.
type CachePurgeCmd struct {
	Key string `arg:"" optional:"" help:"Delete this key instead of expired entries"`
}
