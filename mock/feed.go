package mock

import (
	"context"

	"github.com/GunioRobot/feedify"
)

var _ feedify.FeedInspector = (*FeedInspector)(nil)

// FeedInspector is a mock implementation of feedify.FeedInspector.
type FeedInspector struct {
	InspectFn func(ctx context.Context, feedURL string) (*feedify.FeedInfo, error)
}

func (i *FeedInspector) Inspect(ctx context.Context, feedURL string) (*feedify.FeedInfo, error) {
	return i.InspectFn(ctx, feedURL)
}
