package mock_test

import (
	"context"
	"testing"

	"github.com/GunioRobot/feedify"
	"github.com/GunioRobot/feedify/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("delegates to FetchFn", func(t *testing.T) {
		t.Parallel()

		var calledWith string
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*feedify.FetchResult, error) {
				calledWith = url
				return &feedify.FetchResult{FinalURL: url, ContentType: "text/html"}, nil
			},
		}

		res, err := f.Fetch(context.Background(), "http://example.com")

		require.NoError(t, err)
		assert.Equal(t, "http://example.com", calledWith)
		assert.Equal(t, "text/html", res.ContentType)
	})
}

func TestStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ feedify.Store = &mock.Store{}
	var _ feedify.Resolver = &mock.Resolver{}
}
