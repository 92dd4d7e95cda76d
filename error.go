package feedify

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	ECONFLICT    = "conflict"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("feedify error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// coder is implemented by the resolution errors below.
type coder interface {
	error
	ErrorCode() string
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var c coder
	if errors.As(err, &c) {
		return c.Error()
	}
	return "Internal error."
}

// ErrorKind returns the short name of the resolution error wrapped by err,
// such as "NoFeed" or "Loop". It returns "" for nil and "Error" for anything
// outside the resolution taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		badScheme  *BadSchemeError
		mime       *UnrecognisedMimeTypeError
		noFeed     *NoFeedError
		loop       *LoopError
		confused   *ConfusedError
		missing    *MissingPageError
		bloggerErr *BloggerParseError
	)
	switch {
	case errors.As(err, &badScheme):
		return "BadScheme"
	case errors.As(err, &mime):
		return "UnrecognisedMimeType"
	case errors.As(err, &noFeed):
		return "NoFeed"
	case errors.As(err, &loop):
		return "Loop"
	case errors.As(err, &confused):
		return "Confused"
	case errors.As(err, &missing):
		return "MissingPage"
	case errors.As(err, &bloggerErr):
		return "BloggerParse"
	}
	return "Error"
}

// BadSchemeError is returned when a URL uses a scheme other than http.
type BadSchemeError struct {
	Scheme string
}

func (e *BadSchemeError) Error() string {
	return fmt.Sprintf("unsupported URL scheme %q", e.Scheme)
}

// ErrorCode returns EINVALID.
func (e *BadSchemeError) ErrorCode() string { return EINVALID }

// UnrecognisedMimeTypeError is returned when a page is neither a feed nor HTML.
type UnrecognisedMimeTypeError struct {
	MimeType string
	URL      string
}

func (e *UnrecognisedMimeTypeError) Error() string {
	return fmt.Sprintf("don't know what to do with the mime type %q for the URL %s", e.MimeType, e.URL)
}

// ErrorCode returns EINVALID.
func (e *UnrecognisedMimeTypeError) ErrorCode() string { return EINVALID }

// NoFeedError is returned when every strategy came up empty.
type NoFeedError struct {
	URL string
}

func (e *NoFeedError) Error() string {
	return fmt.Sprintf("as best as we can determine there is no feed for %s", e.URL)
}

// ErrorCode returns ENOTFOUND.
func (e *NoFeedError) ErrorCode() string { return ENOTFOUND }

// LoopError is returned when a resolution comes back to a URL it already
// visited. Visited holds the full chain, ending with the repeated URL.
//
// It is also returned when a resolution visits more than MaxDepth URLs
// without repeating one. MaxDepth is zero for a true loop.
type LoopError struct {
	Visited  []string
	MaxDepth int
}

func (e *LoopError) Error() string {
	chain := strings.Join(e.Visited, " -> ")
	if e.MaxDepth > 0 {
		return fmt.Sprintf("gave up after visiting more than %d pages: %s", e.MaxDepth, chain)
	}
	return fmt.Sprintf("after traversing %s we seem to be back where we started", chain)
}

// ErrorCode returns ECONFLICT.
func (e *LoopError) ErrorCode() string { return ECONFLICT }

// ConfusedError is returned when a page offers too many plausible feeds to
// pick one safely.
type ConfusedError struct {
	Candidates []string
}

func (e *ConfusedError) Error() string {
	return fmt.Sprintf("found %d possible feeds and can't choose between them: %s",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// ErrorCode returns ECONFLICT.
func (e *ConfusedError) ErrorCode() string { return ECONFLICT }

// MissingPageError is returned when the host of a URL cannot be found.
type MissingPageError struct {
	URL string
	Err error
}

func (e *MissingPageError) Error() string {
	return fmt.Sprintf("the page %s does not exist", e.URL)
}

// Unwrap returns the underlying transport error.
func (e *MissingPageError) Unwrap() error { return e.Err }

// ErrorCode returns ENOTFOUND.
func (e *MissingPageError) ErrorCode() string { return ENOTFOUND }

// BloggerParseError is returned when a Blogger redirect page has no
// continue link to follow. HTML holds the page that could not be handled.
type BloggerParseError struct {
	HTML string
}

func (e *BloggerParseError) Error() string {
	return "something went wrong with our blogger html parsing"
}

// ErrorCode returns EINTERNAL.
func (e *BloggerParseError) ErrorCode() string { return EINTERNAL }
