package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/mockapi"
)

func newTestClient(t *testing.T, opts mockapi.Options) (*Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New(opts, zaptest.NewLogger(t))
	dial, stop := srv.ServeInmemory()
	t.Cleanup(stop)
	c := New(Config{
		BaseURL: "http://mockapi/",
		Timeout: 2 * time.Second,
		Dial:    dial,
	}, zaptest.NewLogger(t))
	return c, srv
}

func TestRegisterAndLogin(t *testing.T) {
	c, _ := newTestClient(t, mockapi.Options{})
	ctx := context.Background()

	reg, err := c.Register(ctx, "a@b.co", "secret!12")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" || reg.User.Email() != "a@b.co" {
		t.Fatalf("unexpected register data %+v", reg)
	}

	login, err := c.Login(ctx, "a@b.co", "secret!12")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected token")
	}
}

func TestLoginErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"message", `{"message":"Account locked"}`, "Account locked"},
		{"raw", `"nope"`, "nope"},
		{"fallback", `{}`, "Login failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(t, mockapi.Options{})
			srv.Fail("POST", "/api/v1/auth/login", http.StatusBadRequest, tc.body)

			_, err := c.Login(context.Background(), "a@b.co", "x")
			if !domain.IsDomainError(err, domain.ErrCodeAPI) {
				t.Fatalf("expected API error, got %v", err)
			}
			if got := domain.Message(err); got != tc.want {
				t.Fatalf("message %q, want %q", got, tc.want)
			}
			var apiErr *transport.APIError
			if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
				t.Fatalf("expected wrapped APIError with status, got %v", err)
			}
		})
	}
}

func TestRegisterServerFailureEnvelope(t *testing.T) {
	c, _ := newTestClient(t, mockapi.Options{})

	// bcrypt refuses passwords longer than 72 bytes, which the mock API
	// reports as an internal failure.
	_, err := c.Register(context.Background(), "long@b.co", strings.Repeat("p", 73)+"!")
	if !domain.IsDomainError(err, domain.ErrCodeAPI) {
		t.Fatalf("expected api error, got %v", err)
	}
	if domain.Message(err) != "Could not create account" {
		t.Fatalf("expected message from the error envelope, got %q", domain.Message(err))
	}
	var apiErr *transport.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError || apiErr.Body.Shape != transport.ShapeMessage {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestLoginMissingToken(t *testing.T) {
	c, srv := newTestClient(t, mockapi.Options{})
	srv.Fail("POST", "/api/v1/auth/login", http.StatusOK, `{"data":{"user":{"id":1}}}`)

	_, err := c.Login(context.Background(), "a@b.co", "x")
	if !domain.IsDomainError(err, domain.ErrCodeInvalidResponse) {
		t.Fatalf("expected invalid response error, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	c := New(Config{
		BaseURL: "http://unreachable",
		Timeout: time.Second,
		Dial: func(addr string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		},
	}, zaptest.NewLogger(t))

	_, err := c.Login(context.Background(), "a@b.co", "x")
	if !domain.IsDomainError(err, domain.ErrCodeNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if domain.Message(err) != domain.NetworkErrorMessage {
		t.Fatalf("unexpected message %q", domain.Message(err))
	}
	if err := c.Ping(context.Background()); !domain.IsDomainError(err, domain.ErrCodeNetwork) {
		t.Fatalf("expected ping to fail, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	c, srv := newTestClient(t, mockapi.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListTasks(ctx, "t"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if srv.Requests() != 0 {
		t.Fatal("cancelled call must not reach the server")
	}
}

func TestTaskCRUD(t *testing.T) {
	for _, wrap := range []bool{false, true} {
		c, _ := newTestClient(t, mockapi.Options{WrapTaskList: wrap})
		ctx := context.Background()

		auth, err := c.Register(ctx, "a@b.co", "secret!12")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		token := auth.Token

		created, err := c.CreateTask(ctx, token, transport.TaskRequest{Title: "X", Description: "Y"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == 0 || created.CreatedAt == "" || created.Completed {
			t.Fatalf("unexpected created task %+v", created)
		}

		done := true
		updated, err := c.UpdateTask(ctx, token, created.ID, transport.TaskRequest{Title: "X2", Description: "Y", Completed: &done})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "X2" || !updated.Completed {
			t.Fatalf("unexpected updated task %+v", updated)
		}

		tasks, err := c.ListTasks(ctx, token)
		if err != nil {
			t.Fatalf("list (wrap=%v): %v", wrap, err)
		}
		if len(tasks) != 1 || tasks[0].ID != created.ID {
			t.Fatalf("unexpected list (wrap=%v) %+v", wrap, tasks)
		}

		if err := c.DeleteTask(ctx, token, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		err = c.DeleteTask(ctx, token, created.ID)
		if !domain.IsDomainError(err, domain.ErrCodeAPI) || domain.Message(err) != "Task not found" {
			t.Fatalf("expected not found api error, got %v", err)
		}
	}
}

func TestUnauthorizedTaskCall(t *testing.T) {
	c, _ := newTestClient(t, mockapi.Options{})
	_, err := c.ListTasks(context.Background(), "not.a.token")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
