package feedify

import "slices"

// Session holds the state of a single top-level resolution: the URL it
// started from and every URL visited since. A Session is owned by one
// resolution and must not be shared between goroutines.
type Session struct {
	// BaseURI is the first URL of the resolution. In-page candidate links are
	// resolved against it.
	BaseURI string

	visited []string
}

// NewSession returns a Session rooted at baseURI.
func NewSession(baseURI string) *Session {
	return &Session{BaseURI: baseURI}
}

// Visit records url as visited.
// Returns a LoopError if url was already visited in this session.
func (s *Session) Visit(url string) error {
	if slices.Contains(s.visited, url) {
		chain := append(slices.Clone(s.visited), url)
		return &LoopError{Visited: chain}
	}
	s.visited = append(s.visited, url)
	return nil
}

// Visited returns a copy of the visited URLs in order.
func (s *Session) Visited() []string {
	return slices.Clone(s.visited)
}

// Len returns the number of URLs visited so far.
func (s *Session) Len() int {
	return len(s.visited)
}
