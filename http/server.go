package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RedirectMaxAge is how long clients may cache a feed redirect.
const RedirectMaxAge = 7 * 24 * time.Hour

// DefaultShutdownTimeout bounds graceful shutdown of the server.
const DefaultShutdownTimeout = 5 * time.Second

// Server is the web front end. GET /feed/<url> redirects to the feed of
// <url>.
type Server struct {
	router   chi.Router
	resolver feedify.Resolver
	logger   *slog.Logger
	metrics  http.Handler
	extra    []func(http.Handler) http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetricsHandler exposes h at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMiddleware adds middleware that runs inside the built-in request ID,
// logging and recovery middleware.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		s.extra = append(s.extra, mw...)
	}
}

// NewServer constructs a Server with middleware and routes.
func NewServer(resolver feedify.Resolver, opts ...ServerOption) *Server {
	s := &Server{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.extra...)

	r.Get("/", s.index)
	r.Get("/healthz", s.healthz)
	r.Get("/feed", s.feedFromQuery)
	r.Get("/feed/*", s.feed)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := ctx.Err(); err != nil {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>feedify</title></head>
<body>
<h1>feedify</h1>
<p>Point a feed reader at <code>{{.}}/feed/example.com</code> and it will be redirected to the feed of example.com.</p>
<form action="/feed" method="get">
<input type="text" name="url" size="60" placeholder="http://example.com">
<input type="submit" value="Find feed">
</form>
</body>
</html>
`))

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, "http://"+r.Host); err != nil {
		s.logger.Error("render index failed", "err", err)
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) feedFromQuery(w http.ResponseWriter, r *http.Request) {
	s.redirectToFeed(w, r, r.URL.Query().Get("url"))
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "*")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	s.redirectToFeed(w, r, repairScheme(target))
}

func (s *Server) redirectToFeed(w http.ResponseWriter, r *http.Request, target string) {
	feed, err := s.resolver.Resolve(r.Context(), target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if feed == "" {
		http.Error(w, "url required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(RedirectMaxAge.Seconds())))
	w.Header().Set("ETag", fmt.Sprintf(`"%016x"`, xxhash.Sum64String(feed)))
	http.Redirect(w, r, feed, http.StatusFound)
}

// StatusCode maps an error to the HTTP status the front end answers with.
func StatusCode(err error) int {
	switch feedify.ErrorCode(err) {
	case feedify.EINVALID:
		return http.StatusBadRequest
	case feedify.ENOTFOUND:
		return http.StatusNotFound
	case feedify.ECONFLICT:
		return http.StatusConflict
	case feedify.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	msg := feedify.ErrorMessage(err)
	if code == http.StatusBadGateway {
		s.logger.Error("resolve failed",
			"request_id", RequestID(r.Context()),
			"kind", feedify.ErrorKind(err),
			"err", err,
		)
		msg = "could not reach the page"
	}
	http.Error(w, msg, code)
}

// repairScheme restores the second slash of a scheme that proxies and path
// cleaners collapse, so "http:/example.com" becomes "http://example.com".
func repairScheme(s string) string {
	for _, scheme := range []string{"http:/", "https:/", "feed:/"} {
		if hasPrefixFold(s, scheme) && !hasPrefixFold(s, scheme+"/") {
			return s[:len(scheme)] + "/" + s[len(scheme):]
		}
	}
	return s
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

type requestIDKey struct{}

// RequestID returns the request ID stored in ctx by the server.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic recovered", "request_id", RequestID(r.Context()), "err", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
