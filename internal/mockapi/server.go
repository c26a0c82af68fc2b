// Package mockapi is an in-memory implementation of the todo backend
// contract, used for local development and by the client tests.
package mockapi

import (
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	"github.com/fastygo/todo/pkg/httpcontext"
)

// Options configures the mock server.
type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	// WrapTaskList answers GET /api/tasks with {"data": [...]} instead of a bare array.
	WrapTaskList bool
	Name         string
}

type fault struct {
	method string
	path   string
	status int
	body   string
}

// Server serves the backend contract from a Store.
type Server struct {
	store    *Store
	opts     Options
	logger   *zap.Logger
	handler  fasthttp.RequestHandler
	http     *fasthttp.Server
	requests atomic.Int64

	mu     sync.Mutex
	faults []fault
}

func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("dev-secret")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Name == "" {
		opts.Name = "todo-mockapi"
	}

	s := &Server{
		store:  NewStore(),
		opts:   opts,
		logger: logger,
	}
	h := &handler{store: s.store, secret: opts.Secret, ttl: opts.TokenTTL, logger: logger}
	r := newRouter(h, JWTAuth(opts.Secret, logger), opts.WrapTaskList)
	s.handler = r.Handler
	s.http = &fasthttp.Server{
		Handler:      s.serve,
		Name:         opts.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	}
	return s
}

func (s *Server) serve(ctx *fasthttp.RequestCtx) {
	s.requests.Add(1)
	ctx.Response.Header.Set("X-Request-ID", httpcontext.RequestID(ctx))
	if f, ok := s.takeFault(string(ctx.Method()), string(ctx.Path())); ok {
		ctx.SetStatusCode(f.status)
		if strings.HasPrefix(strings.TrimSpace(f.body), "{") {
			ctx.Response.Header.SetContentType("application/json")
		}
		ctx.SetBodyString(f.body)
		return
	}
	s.handler(ctx)
	s.logger.Debug("request served",
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()))
}

// Fail makes the next request matching method and path answer with status and body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, path: path, status: status, body: body})
}

func (s *Server) takeFault(method, path string) (fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.faults {
		if f.method == method && f.path == path {
			s.faults = append(s.faults[:i], s.faults[i+1:]...)
			return f, true
		}
	}
	return fault{}, false
}

// Requests returns how many requests reached the server.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// IssueToken signs a token for userID the same way login does.
func (s *Server) IssueToken(userID int64, email string) (string, error) {
	return issueToken(s.opts.Secret, s.opts.TokenTTL, userID, email)
}

func (s *Server) ListenAndServe(addr string) error {
	return s.http.ListenAndServe(addr)
}

func (s *Server) Serve(ln net.Listener) error {
	return s.http.Serve(ln)
}

func (s *Server) Shutdown() error {
	return s.http.Shutdown()
}

// ServeInmemory serves on an in-memory listener and returns a dialer for
// fasthttp clients plus a stop function.
func (s *Server) ServeInmemory() (fasthttp.DialFunc, func()) {
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		if err := s.Serve(ln); err != nil {
			s.logger.Debug("in-memory server stopped", zap.Error(err))
		}
	}()
	dial := func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	stop := func() {
		_ = ln.Close()
	}
	return dial, stop
}
