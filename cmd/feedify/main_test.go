package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GunioRobot/feedify"
	main "github.com/GunioRobot/feedify/cmd/feedify"
	"github.com/GunioRobot/feedify/mock"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"resolve", "check", "serve", "cache"}

// siteFetcher serves a page at example.com whose alternate link points at
// /feed.xml.
func siteFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*feedify.FetchResult, error) {
			if strings.HasSuffix(url, "/feed.xml") {
				return &feedify.FetchResult{
					ContentType: "application/rss+xml",
					Body:        `<rss version="2.0"><channel><title>Example</title></channel></rss>`,
				}, nil
			}
			return &feedify.FetchResult{
				ContentType: "text/html; charset=utf-8",
				Body: `<html><head><title>Example</title>
					<link rel="alternate" type="application/rss+xml" href="/feed.xml">
					</head><body></body></html>`,
			}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"default_db": "feedify.db"},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help returns nil and shows kong output", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)
		require.NoError(t, err)

		helpOutput := stdout.String()
		for _, cmd := range allCommands {
			assert.Contains(t, helpOutput, cmd)
		}
		assert.Contains(t, helpOutput, "Usage:")
		assert.Contains(t, helpOutput, "Flags:")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("unknown command is an error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"frobnicate"}, stdout, stderr)
		require.Error(t, err)
	})

	t.Run("resolves through the wired pipeline", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = siteFetcher()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--store", "none", "resolve", "example.com/"}, stdout, stderr)
		require.NoError(t, err)

		assert.Equal(t, "example.com/\thttp://example.com/feed.xml\n", stdout.String())
	})

	t.Run("sqlite cache survives between runs", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "feedify.db")

		m := main.NewMain()
		m.Fetcher = siteFetcher()
		err := m.Run(context.Background(),
			[]string{"--store", "sqlite", "--db", dbPath, "resolve", "http://example.com/"},
			&bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		err = main.NewMain().Run(context.Background(),
			[]string{"--db", dbPath, "cache", "list"},
			stdout, &bytes.Buffer{})
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "http://example.com/")
		assert.Contains(t, stdout.String(), "http://example.com/feed.xml")
	})

	t.Run("serve returns nil when context is already cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := main.NewMain()
		m.Fetcher = siteFetcher()

		err := m.Run(ctx, []string{"--store", "none", "serve", "--addr", "127.0.0.1:0"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
	})
}
