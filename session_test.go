package feedify_test

import (
	"testing"

	"github.com/GunioRobot/feedify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Visit(t *testing.T) {
	t.Parallel()

	t.Run("records visits in order", func(t *testing.T) {
		t.Parallel()

		s := feedify.NewSession("http://a")
		require.NoError(t, s.Visit("http://a"))
		require.NoError(t, s.Visit("http://b"))

		assert.Equal(t, []string{"http://a", "http://b"}, s.Visited())
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, "http://a", s.BaseURI)
	})

	t.Run("detects a cycle back to an earlier URL", func(t *testing.T) {
		t.Parallel()

		s := feedify.NewSession("http://a")
		require.NoError(t, s.Visit("http://a"))
		require.NoError(t, s.Visit("http://b"))

		err := s.Visit("http://a")

		var loop *feedify.LoopError
		require.ErrorAs(t, err, &loop)
		assert.Equal(t, []string{"http://a", "http://b", "http://a"}, loop.Visited)
	})

	t.Run("detects immediate repetition", func(t *testing.T) {
		t.Parallel()

		s := feedify.NewSession("http://a")
		require.NoError(t, s.Visit("http://a"))

		err := s.Visit("http://a")

		var loop *feedify.LoopError
		require.ErrorAs(t, err, &loop)
		assert.Equal(t, []string{"http://a", "http://a"}, loop.Visited)
	})

	t.Run("failed visit does not extend history", func(t *testing.T) {
		t.Parallel()

		s := feedify.NewSession("http://a")
		require.NoError(t, s.Visit("http://a"))
		require.Error(t, s.Visit("http://a"))

		assert.Equal(t, []string{"http://a"}, s.Visited())
	})
}
