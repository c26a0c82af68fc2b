package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	appLogger "github.com/fastygo/todo/pkg/logger"
)

// Config controls how the client reaches the backend.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxConns     int
	UserAgent    string
	// Dial overrides the network dialer, e.g. with an in-memory listener.
	Dial fasthttp.DialFunc
}

// Client talks to the todo backend over fasthttp. It holds no session
// state: every authenticated call takes the bearer token explicitly.
type Client struct {
	base    string
	http    *fasthttp.Client
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 16
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "todo-client"
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &fasthttp.Client{
			Name:            cfg.UserAgent,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			MaxConnsPerHost: cfg.MaxConns,
			Dial:            cfg.Dial,
		},
		adapter: httpcontext.NewAdapter(cfg.Timeout, cfg.UserAgent),
		logger:  logger,
	}
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string {
	return c.base
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) (response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return response{}, domain.WrapError(domain.ErrCodeInternal, "failed to encode request", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	ctx, deadline := c.adapter.Attach(ctx, req)
	log := appLogger.WithRequestID(ctx, c.logger).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	if err := ctx.Err(); err != nil {
		return response{}, domain.WrapError(domain.ErrCodeNetwork, domain.NetworkErrorMessage, err)
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		log.Warn("backend unreachable", zap.Error(err))
		return response{}, domain.WrapError(domain.ErrCodeNetwork, domain.NetworkErrorMessage, err)
	}

	out := response{
		status: resp.StatusCode(),
		body:   append([]byte(nil), resp.Body()...),
	}
	log.Debug("backend call finished",
		zap.Int("status", out.status),
		zap.Duration("took", time.Since(started)))
	return out, nil
}

// apiError turns a non-success response into a domain error whose message
// follows the backend error body, or fallback when the body says nothing.
func apiError(resp response, fallback string) error {
	apiErr := &transport.APIError{
		Status: resp.status,
		Body:   transport.ParseErrorBody(resp.body),
	}
	code := domain.ErrCodeAPI
	if resp.status == http.StatusUnauthorized {
		code = domain.ErrCodeUnauthorized
	}
	return domain.WrapError(code, apiErr.Body.MessageOr(fallback), apiErr)
}

// Ping checks the backend answers HTTP at all; any status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, fasthttp.MethodGet, "/health", "", nil)
	return err
}

func statusFallback(status int) string {
	return fmt.Sprintf("Error: %d", status)
}
