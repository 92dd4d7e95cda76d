package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/GunioRobot/feedify"
)

// kindRe matches an expectation that names an error kind rather than a feed.
var kindRe = regexp.MustCompile(`^[[:alnum:]]+$`)

// checkCase is one "from to" line of a check file.
type checkCase struct {
	Line int
	From string
	// Want is the expected feed URL, or an error kind when WantKind is set.
	Want     string
	WantKind bool
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	defer f.Close()

	cases, err := parseCheckFile(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	urls := make([]string, len(cases))
	for i, tc := range cases {
		urls[i] = tc.From
	}
	results := resolveAll(deps, urls, c.Concurrency, false)

	failing := 0
	for i, tc := range cases {
		if msg := tc.verify(results[i]); msg != "" {
			failing++
			fmt.Fprintf(deps.Stdout, "FAIL line %d: %s\n", tc.Line, msg)
		}
	}

	if failing > 0 {
		fmt.Fprintf(deps.Stdout, "Completed with %d of %d checks failing\n", failing, len(cases))
		return fmt.Errorf("%d checks failing", failing)
	}
	fmt.Fprintf(deps.Stdout, "Completed %d checks with none failing\n", len(cases))
	return nil
}

// verify returns a description of the mismatch, or "" when r meets the
// expectation.
func (tc checkCase) verify(r resolution) string {
	if tc.WantKind {
		if r.Err == nil {
			return fmt.Sprintf("expected %s to have no feed and fail with %s, but it maps to %s", tc.From, tc.Want, r.Feed)
		}
		if got := feedify.ErrorKind(r.Err); !kindMatches(tc.Want, got) {
			return fmt.Sprintf("expected %s to fail with %s, but it fails with %s (%s)", tc.From, tc.Want, got, r.Err)
		}
		return ""
	}
	if r.Err != nil {
		return fmt.Sprintf("expected %s to map to %s, but it fails with %s (%s)", tc.From, tc.Want, feedify.ErrorKind(r.Err), r.Err)
	}
	if r.Feed != tc.Want {
		return fmt.Sprintf("expected %s to map to %s, but it maps to %s", tc.From, tc.Want, r.Feed)
	}
	return ""
}

// parseCheckFile reads "from to" lines. Text after '#' is ignored.
func parseCheckFile(r io.Reader) ([]checkCase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var cases []checkCase
	for i, line := range strings.Split(string(data), "\n") {
		if j := strings.IndexByte(line, '#'); j >= 0 {
			line = line[:j]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, feedify.Errorf(feedify.EINVALID, "line %d: expected 'from to', got %q", i+1, strings.TrimSpace(line))
		}
		cases = append(cases, checkCase{
			Line:     i + 1,
			From:     fields[0],
			Want:     fields[1],
			WantKind: kindRe.MatchString(fields[1]),
		})
	}
	return cases, nil
}

// kindMatches compares an expected kind with an actual one, ignoring case and
// any Error or Exception suffix. "BloggerParseError" matches "BloggerParse".
func kindMatches(want, got string) bool {
	w, g := normalizeKind(want), normalizeKind(got)
	return w != "" && strings.HasPrefix(g, w)
}

func normalizeKind(kind string) string {
	k := strings.ToLower(kind)
	k = strings.TrimSuffix(k, "exception")
	k = strings.TrimSuffix(k, "error")
	return k
}
