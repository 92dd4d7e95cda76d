package main

import (
	"fmt"

	feedhttp "github.com/GunioRobot/feedify/http"
	feedprom "github.com/GunioRobot/feedify/prometheus"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	opts := []feedhttp.ServerOption{
		feedhttp.WithLogger(deps.Logger),
	}
	if deps.Registry != nil {
		opts = append(opts,
			feedhttp.WithMetricsHandler(feedprom.Handler(deps.Registry)),
			feedhttp.WithMiddleware(feedprom.NewHTTPMetrics(deps.Registry).Middleware),
		)
	}
	srv := feedhttp.NewServer(deps.Resolver, opts...)

	if err := srv.ListenAndServe(deps.Ctx, c.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	return nil
}
