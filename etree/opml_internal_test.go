package etree

import (
	"bytes"
	"testing"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOPML_Document(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	subs := []feedify.Subscription{
		{PageURL: "http://example.com", FeedURL: "http://example.com/feed.xml", Title: "Example"},
	}

	require.NoError(t, writeOPML(&buf, "feeds", subs, now))

	out := buf.String()
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<opml version="2.0">`)
	assert.Contains(t, out, `<title>feeds</title>`)
	assert.Contains(t, out, `<dateCreated>Thu, 15 Jan 2026 10:00:00 +0000</dateCreated>`)
	assert.Contains(t, out, `<outline type="rss" text="Example" title="Example" xmlUrl="http://example.com/feed.xml" htmlUrl="http://example.com"/>`)
}
