package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/GunioRobot/feedify/gofeed"
	"github.com/GunioRobot/feedify/goquery"
	feedhttp "github.com/GunioRobot/feedify/http"
	"github.com/GunioRobot/feedify/lru"
	feedprom "github.com/GunioRobot/feedify/prometheus"
	"github.com/GunioRobot/feedify/resolve"
	feedslog "github.com/GunioRobot/feedify/slog"
	"github.com/GunioRobot/feedify/sqlite"
	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the sqlite cache and the cache command.
	DB *sqlite.DB

	// Overrides for end-to-end testing.
	Fetcher feedify.Fetcher
	Store   feedify.Store
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("feedify"),
		kong.Description("Find the feed behind a web page."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"default_db": defaultDBPath()},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'feedify --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.wire(cli, kongCtx.Command(), deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire builds the fetch/resolve pipeline described by the global flags.
func (m *Main) wire(cli *CLI, command string, deps *Dependencies) error {
	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	deps.Logger = logger

	var fetcher feedify.Fetcher = m.Fetcher
	if fetcher == nil {
		opts := []feedhttp.Option{
			feedhttp.WithTimeout(cli.Timeout),
			feedhttp.WithUserAgent(cli.UserAgent),
		}
		if cli.Rate > 0 {
			opts = append(opts, feedhttp.WithLimiter(feedhttp.NewDomainLimiter(cli.Rate)))
		}
		fetcher = feedhttp.NewFetcher(opts...)
	}
	if cli.Debug {
		fetcher = feedslog.NewLoggingFetcher(fetcher, logger)
	}
	if cli.Retries > 0 {
		fetcher = feedhttp.NewRetryFetcher(fetcher, feedhttp.BackoffDelays(cli.Retries, time.Second), logger)
	}

	var resolver feedify.Resolver = resolve.NewResolver(fetcher, goquery.NewParser(),
		resolve.WithMaxDepth(cli.MaxDepth),
	)

	var entries *sqlite.Store
	if cli.Store == "sqlite" || strings.HasPrefix(command, "cache ") {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set FEEDIFY_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		entries = sqlite.NewStore(m.DB)
		deps.Entries = entries
	}

	store := m.Store
	if store == nil {
		switch cli.Store {
		case "memory":
			store = lru.NewStore(lru.WithMaxTTL(cli.CacheTTL))
		case "sqlite":
			store = entries
		}
	}
	if store != nil {
		if cli.Debug {
			store = feedslog.NewLoggingStore(store, logger)
		}
		resolver = resolve.NewCachedResolver(resolver, store, resolve.WithTTL(cli.CacheTTL))
	}

	if cli.Debug {
		resolver = feedslog.NewLoggingResolver(resolver, logger)
	}

	reg := prometheus.NewRegistry()
	deps.Registry = reg
	deps.Resolver = feedprom.NewInstrumentedResolver(resolver, reg)
	deps.Inspector = gofeed.NewInspector(fetcher)

	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "feedify.db"
	}
	dir := filepath.Join(home, ".feedify")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "feedify.db")
}
