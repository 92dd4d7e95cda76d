package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GunioRobot/feedify"
	main "github.com/GunioRobot/feedify/cmd/feedify"
	"github.com/GunioRobot/feedify/etree"
	"github.com/GunioRobot/feedify/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver resolves URLs found in feeds and fails with NoFeedError
// otherwise.
func mapResolver(feeds map[string]string) *mock.Resolver {
	return &mock.Resolver{
		ResolveFn: func(_ context.Context, rawURL string) (string, error) {
			if feed, ok := feeds[rawURL]; ok {
				return feed, nil
			}
			return "", &feedify.NoFeedError{URL: rawURL}
		},
	}
}

func TestResolveCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints results in input order", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: mapResolver(map[string]string{
				"http://a.example/": "http://a.example/feed",
				"http://b.example/": "http://b.example/atom.xml",
				"http://c.example/": "http://c.example/rss",
			}),
		}

		cmd := &main.ResolveCmd{
			URLs:        []string{"http://c.example/", "http://a.example/", "http://b.example/"},
			Concurrency: 2,
		}
		err := cmd.Run(deps)
		require.NoError(t, err)

		assert.Equal(t,
			"http://c.example/\thttp://c.example/rss\n"+
				"http://a.example/\thttp://a.example/feed\n"+
				"http://b.example/\thttp://b.example/atom.xml\n",
			stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("reports failures with their kind and returns error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: mapResolver(map[string]string{
				"http://a.example/": "http://a.example/feed",
			}),
		}

		cmd := &main.ResolveCmd{URLs: []string{"http://a.example/", "http://nothing.example/"}}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2")

		assert.Equal(t, "http://a.example/\thttp://a.example/feed\n", stdout.String())
		assert.Contains(t, stderr.String(), "http://nothing.example/\tNoFeed:")
	})

	t.Run("inspect adds the feed title", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Resolver: mapResolver(map[string]string{
				"http://a.example/": "http://a.example/feed",
			}),
			Inspector: &mock.FeedInspector{
				InspectFn: func(_ context.Context, feedURL string) (*feedify.FeedInfo, error) {
					return &feedify.FeedInfo{URL: feedURL, Title: "A's Blog"}, nil
				},
			},
		}

		cmd := &main.ResolveCmd{URLs: []string{"http://a.example/"}, Inspect: true}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "http://a.example/\thttp://a.example/feed\tA's Blog\n", stdout.String())
	})

	t.Run("inspect failure keeps the resolution", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: mapResolver(map[string]string{
				"http://a.example/": "http://a.example/feed",
			}),
			Inspector: &mock.FeedInspector{
				InspectFn: func(context.Context, string) (*feedify.FeedInfo, error) {
					return nil, errors.New("unparseable")
				},
			},
		}

		cmd := &main.ResolveCmd{URLs: []string{"http://a.example/"}, Inspect: true}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "http://a.example/\thttp://a.example/feed\t\n", stdout.String())
		assert.Contains(t, stderr.String(), "inspect: unparseable")
	})

	t.Run("reads URLs from a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.txt")
		require.NoError(t, os.WriteFile(path, []byte("# blogs\nhttp://a.example/\n\n  http://b.example/  # trailing\n"), 0o644))

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Resolver: mapResolver(map[string]string{
				"http://a.example/": "http://a.example/feed",
				"http://b.example/": "http://b.example/feed",
			}),
		}

		cmd := &main.ResolveCmd{File: path}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t,
			"http://a.example/\thttp://a.example/feed\n"+
				"http://b.example/\thttp://b.example/feed\n",
			stdout.String())
	})

	t.Run("writes and reads OPML", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "subs.opml")

		resolver := mapResolver(map[string]string{
			"http://a.example/": "http://a.example/feed",
		})
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Resolver: resolver,
		}

		cmd := &main.ResolveCmd{URLs: []string{"http://a.example/"}, OPML: out}
		require.NoError(t, cmd.Run(deps))

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		subs, err := etree.ReadOPML(f)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "http://a.example/", subs[0].PageURL)
		assert.Equal(t, "http://a.example/feed", subs[0].FeedURL)

		stdout := &bytes.Buffer{}
		deps.Stdout = stdout
		again := &main.ResolveCmd{FromOPML: out}
		require.NoError(t, again.Run(deps))
		assert.Equal(t, "http://a.example/\thttp://a.example/feed\n", stdout.String())
	})

	t.Run("no URLs is an error", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Resolver: mapResolver(nil),
		}

		err := (&main.ResolveCmd{}).Run(deps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no URLs given")
	})
}
