package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GunioRobot/feedify"
	"github.com/GunioRobot/feedify/etree"
	"golang.org/x/sync/errgroup"
)

// resolution is the outcome for one input URL.
type resolution struct {
	URL   string
	Feed  string
	Title string
	Err   error

	// InspectErr is set when the feed resolved but could not be read.
	InspectErr error
}

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	urls, err := c.inputs()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given. Pass URLs as arguments or use --file / --from-opml")
	}

	results := resolveAll(deps, urls, c.Concurrency, c.Inspect)

	failed := 0
	var subs []feedify.Subscription
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "%s\t%s: %s\n", r.URL, feedify.ErrorKind(r.Err), r.Err)
			continue
		}
		if r.InspectErr != nil {
			fmt.Fprintf(deps.Stderr, "%s\tinspect: %s\n", r.Feed, r.InspectErr)
		}
		if c.Inspect {
			fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", r.URL, r.Feed, r.Title)
		} else {
			fmt.Fprintf(deps.Stdout, "%s\t%s\n", r.URL, r.Feed)
		}
		subs = append(subs, feedify.Subscription{PageURL: r.URL, FeedURL: r.Feed, Title: r.Title})
	}

	if c.OPML != "" {
		if err := writeOPMLFile(c.OPML, subs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs could not be resolved", failed, len(results))
	}
	return nil
}

// inputs collects URLs from arguments, --file and --from-opml, in that order.
func (c *ResolveCmd) inputs() ([]string, error) {
	urls := append([]string(nil), c.URLs...)

	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		lines, err := readLines(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.File, err)
		}
		urls = append(urls, lines...)
	}

	if c.FromOPML != "" {
		f, err := os.Open(c.FromOPML)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		subs, err := etree.ReadOPML(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.FromOPML, err)
		}
		for _, s := range subs {
			if s.PageURL != "" {
				urls = append(urls, s.PageURL)
			} else {
				urls = append(urls, s.FeedURL)
			}
		}
	}

	return urls, nil
}

// resolveAll resolves urls with at most limit in flight and returns results
// in input order. A failed resolution never cancels the others.
func resolveAll(deps *Dependencies, urls []string, limit int, inspect bool) []resolution {
	results := make([]resolution, len(urls))

	g, ctx := errgroup.WithContext(deps.Ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range urls {
		g.Go(func() error {
			r := resolution{URL: u}
			r.Feed, r.Err = deps.Resolver.Resolve(ctx, u)
			if r.Err == nil && r.Feed == "" {
				r.Err = &feedify.NoFeedError{URL: u}
			}
			if r.Err == nil && inspect && deps.Inspector != nil {
				if info, err := deps.Inspector.Inspect(ctx, r.Feed); err != nil {
					r.InspectErr = err
				} else {
					r.Title = info.Title
				}
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// readLines returns the non-blank lines of r with '#' comments removed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func writeOPMLFile(path string, subs []feedify.Subscription) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return etree.WriteOPML(f, "feedify subscriptions", subs)
}
