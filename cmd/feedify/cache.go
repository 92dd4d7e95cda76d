package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/GunioRobot/feedify"
)

// Run executes the cache list command.
func (c *CacheListCmd) Run(deps *Dependencies) error {
	entries, err := deps.Entries.FindEntries(deps.Ctx, c.Limit, c.Offset)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", feedify.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached resolutions.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, e.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

// Run executes the cache purge command.
func (c *CachePurgeCmd) Run(deps *Dependencies) error {
	if c.Key != "" {
		if err := deps.Entries.Delete(deps.Ctx, c.Key); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", feedify.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted %s\n", c.Key)
		return nil
	}

	n, err := deps.Entries.Purge(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", feedify.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Purged %d expired entries\n", n)
	return nil
}
