package feedify_test

import (
	"testing"

	"github.com/GunioRobot/feedify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"passes http through unchanged", "http://example.com/blog", "http://example.com/blog"},
		{"adds scheme to bare host", "example.com", "http://example.com"},
		{"adds scheme to host and path", "blog.example/post", "http://blog.example/post"},
		{"strips leading slashes", "//example.com/a", "http://example.com/a"},
		{"trims whitespace", "  example.org \n", "http://example.org"},
		{"rewrites feed scheme", "feed://example.com/rss", "http://example.com/rss"},
		{"rewrites feed prefix before http", "feed:http://example.com/rss", "http://example.com/rss"},
		{"treats host and port as schemeless", "localhost:8080/x", "http://localhost:8080/x"},
		{"treats ip and port as schemeless", "127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"keeps upper case scheme", "HTTP://example.com", "HTTP://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := feedify.NormalizeURL(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"example.com", "feed://example.com/rss", " //a.example/b ", "http://x.example/?q=1"} {
		first, err := feedify.NormalizeURL(raw)
		require.NoError(t, err)

		second, err := feedify.NormalizeURL(first)
		require.NoError(t, err)

		assert.Equal(t, first, second, raw)
	}
}

func TestNormalizeURL_RejectsOtherSchemes(t *testing.T) {
	t.Parallel()

	t.Run("ftp", func(t *testing.T) {
		t.Parallel()

		_, err := feedify.NormalizeURL("ftp://x")

		var schemeErr *feedify.BadSchemeError
		require.ErrorAs(t, err, &schemeErr)
		assert.Equal(t, "ftp", schemeErr.Scheme)
	})

	t.Run("mailto", func(t *testing.T) {
		t.Parallel()

		_, err := feedify.NormalizeURL("mailto:someone@example.com")

		var schemeErr *feedify.BadSchemeError
		require.ErrorAs(t, err, &schemeErr)
		assert.Equal(t, "mailto", schemeErr.Scheme)
	})
}

func TestNormalizeURL_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "http://", "///"} {
		_, err := feedify.NormalizeURL(raw)

		require.Error(t, err, raw)
		assert.Equal(t, feedify.EINVALID, feedify.ErrorCode(err), raw)
	}
}

func TestResolveReference(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative path against base", func(t *testing.T) {
		t.Parallel()

		got, err := feedify.ResolveReference("http://example.com/blog/post", "/feed.xml")

		require.NoError(t, err)
		assert.Equal(t, "http://example.com/feed.xml", got)
	})

	t.Run("keeps absolute https links", func(t *testing.T) {
		t.Parallel()

		got, err := feedify.ResolveReference("http://example.com", "https://cdn.example.com/atom")

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/atom", got)
	})

	t.Run("drops fragment", func(t *testing.T) {
		t.Parallel()

		got, err := feedify.ResolveReference("http://example.com/", "rss#top")

		require.NoError(t, err)
		assert.Equal(t, "http://example.com/rss", got)
	})

	t.Run("rejects javascript links", func(t *testing.T) {
		t.Parallel()

		_, err := feedify.ResolveReference("http://example.com/", "javascript:void(0)")

		var schemeErr *feedify.BadSchemeError
		require.ErrorAs(t, err, &schemeErr)
		assert.Equal(t, "javascript", schemeErr.Scheme)
	})
}
