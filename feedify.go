// Package feedify resolves an arbitrary web page URL to the URL of its
// syndication feed (Atom or RSS). It follows redirects, sniffs content types,
// mines HTML for feed candidates using a cascade of heuristics, detects
// cycles and reports ambiguity.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package feedify
