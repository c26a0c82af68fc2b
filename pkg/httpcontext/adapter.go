package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todo/pkg/logger"
)

// Adapter prepares outbound fasthttp requests from a stdlib context: it
// propagates a request ID and turns the context deadline into a fasthttp one.
type Adapter struct {
	timeout   time.Duration
	userAgent string
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration, userAgent string) *Adapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Attach ensures ctx carries a request ID, stamps it on req and returns the
// deadline the request must finish by.
func (a *Adapter) Attach(ctx context.Context, req *fasthttp.Request) (context.Context, time.Time) {
	if ctx == nil {
		ctx = context.Background()
	}

	reqID := appLogger.RequestID(ctx)
	if strings.TrimSpace(reqID) == "" {
		reqID = uuid.NewString()
		ctx = appLogger.ContextWithRequestID(ctx, reqID)
	}
	req.Header.Set("X-Request-ID", reqID)
	if a.userAgent != "" {
		req.Header.SetUserAgent(a.userAgent)
	}

	deadline := time.Now().Add(a.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return ctx, deadline
}

// RequestID reads the inbound request ID or generates one. Used by the mock API.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
