package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fastygo/todo/api/client"
	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/mockapi"
)

type memoryTokens struct {
	mu      sync.Mutex
	token   string
	saveErr error
	clears  int
}

func (m *memoryTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memoryTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.token = ""
	return nil
}

func (m *memoryTokens) Close() error { return nil }

type fakeAPI struct {
	data  *transport.AuthData
	err   error
	calls int
}

func (f *fakeAPI) Login(context.Context, string, string) (*transport.AuthData, error) {
	f.calls++
	return f.data, f.err
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*transport.AuthData, error) {
	return f.Login(ctx, email, password)
}

func TestInitRestoresPersistedToken(t *testing.T) {
	tokens := &memoryTokens{token: makeToken(`{"user_id": 42, "email": "a@b.co"}`)}
	uc := New(&fakeAPI{}, tokens, zaptest.NewLogger(t))

	if !uc.Snapshot().Loading {
		t.Fatal("session must start loading")
	}
	if err := uc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	s := uc.Snapshot()
	if s.Loading || s.Token != tokens.token || s.UserID != "42" || s.User.Email() != "a@b.co" {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestInitDiscardsMalformedToken(t *testing.T) {
	tokens := &memoryTokens{token: "not-a-jwt"}
	uc := New(&fakeAPI{}, tokens, zaptest.NewLogger(t))

	if err := uc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	s := uc.Snapshot()
	if s.Loading || s.Token != "" || s.User != nil || !s.UserID.IsZero() {
		t.Fatalf("expected unauthenticated session, got %+v", s)
	}
	if tokens.token != "" || tokens.clears != 1 {
		t.Fatalf("expected persisted token removed, store=%+v", tokens)
	}
}

func TestInitRunsOnce(t *testing.T) {
	tokens := &memoryTokens{}
	uc := New(&fakeAPI{}, tokens, zaptest.NewLogger(t))
	_ = uc.Init(context.Background())

	tokens.token = makeToken(`{"user_id": 1}`)
	_ = uc.Init(context.Background())
	if uc.Snapshot().Authenticated() {
		t.Fatal("second Init must not reload storage")
	}
}

func TestLoginSuccess(t *testing.T) {
	token := makeToken(`{"user_id": 42}`)
	tokens := &memoryTokens{}
	uc := New(&fakeAPI{data: &transport.AuthData{Token: token, User: domain.User{"id": 1, "email": "a@b.co"}}}, tokens, zaptest.NewLogger(t))
	_ = uc.Init(context.Background())

	var seen []domain.Session
	unsubscribe := uc.Subscribe(func(s domain.Session) { seen = append(seen, s) })
	defer unsubscribe()

	if err := uc.Login(context.Background(), "a@b.co", "secret!12"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s := uc.Snapshot()
	if s.Token != token || s.UserID != "42" || s.Loading {
		t.Fatalf("unexpected session %+v", s)
	}
	if tokens.token != token {
		t.Fatal("token must be persisted")
	}
	if len(seen) != 2 || !seen[0].Loading || seen[1].Loading {
		t.Fatalf("expected loading then settled transitions, got %+v", seen)
	}
}

func TestLoginFallsBackToResponseUser(t *testing.T) {
	cases := []struct {
		name   string
		data   *transport.AuthData
		wantID domain.UserID
		nilUsr bool
	}{
		{"undecodable token", &transport.AuthData{Token: "opaque", User: domain.User{"id": 5.0, "email": "a@b.co"}}, "5", false},
		{"undecodable token without user", &transport.AuthData{Token: "opaque"}, "", true},
		{"claims without id", &transport.AuthData{Token: makeToken(`{"email":"a@b.co"}`), User: domain.User{"id": "u-9"}}, "u-9", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := New(&fakeAPI{data: tc.data}, &memoryTokens{}, zaptest.NewLogger(t))
			if err := uc.Login(context.Background(), "a@b.co", "x"); err != nil {
				t.Fatalf("login: %v", err)
			}
			s := uc.Snapshot()
			if s.Token != tc.data.Token || s.UserID != tc.wantID || (s.User == nil) != tc.nilUsr {
				t.Fatalf("unexpected session %+v", s)
			}
		})
	}
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	previous := makeToken(`{"user_id": 1}`)
	tokens := &memoryTokens{token: previous}
	apiErr := domain.NewError(domain.ErrCodeAPI, "Invalid credentials")
	uc := New(&fakeAPI{err: apiErr}, tokens, zaptest.NewLogger(t))
	_ = uc.Init(context.Background())
	before := uc.Snapshot()

	err := uc.Login(context.Background(), "a@b.co", "bad")
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	after := uc.Snapshot()
	if after.Token != before.Token || after.UserID != before.UserID || after.Loading {
		t.Fatalf("session changed on failure: before %+v after %+v", before, after)
	}
	if tokens.token != previous {
		t.Fatal("persisted token changed on failure")
	}
}

func TestLoginPersistFailure(t *testing.T) {
	tokens := &memoryTokens{saveErr: errors.New("disk full")}
	uc := New(&fakeAPI{data: &transport.AuthData{Token: makeToken(`{"user_id":1}`)}}, tokens, zaptest.NewLogger(t))
	err := uc.Login(context.Background(), "a@b.co", "x")
	if !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if uc.Snapshot().Authenticated() {
		t.Fatal("session must stay unauthenticated when the token cannot be saved")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	tokens := &memoryTokens{token: makeToken(`{"user_id": 1}`)}
	uc := New(&fakeAPI{}, tokens, zaptest.NewLogger(t))
	_ = uc.Init(context.Background())

	for i := 0; i < 2; i++ {
		if err := uc.Logout(context.Background()); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
		s := uc.Snapshot()
		if s.Token != "" || s.User != nil || s.UserID != "" {
			t.Fatalf("expected cleared session, got %+v", s)
		}
	}
	if tokens.token != "" {
		t.Fatal("persisted token must be cleared")
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	uc := New(&fakeAPI{}, &memoryTokens{}, zaptest.NewLogger(t))
	calls := 0
	unsubscribe := uc.Subscribe(func(domain.Session) { calls++ })
	_ = uc.Logout(context.Background())
	unsubscribe()
	_ = uc.Logout(context.Background())
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
}

func TestSessionAgainstMockAPI(t *testing.T) {
	srv := mockapi.New(mockapi.Options{}, zaptest.NewLogger(t))
	dial, stop := srv.ServeInmemory()
	defer stop()
	api := client.New(client.Config{BaseURL: "http://mockapi", Timeout: 2 * time.Second, Dial: dial}, zaptest.NewLogger(t))

	tokens := &memoryTokens{}
	uc := New(api, tokens, zaptest.NewLogger(t))
	ctx := context.Background()
	_ = uc.Init(ctx)

	if err := uc.Register(ctx, "a@b.co", "secret!12"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if uc.Snapshot().UserID != "1" || uc.Snapshot().User.Email() != "a@b.co" {
		t.Fatalf("unexpected session %+v", uc.Snapshot())
	}

	_ = uc.Logout(ctx)
	err := uc.Login(ctx, "a@b.co", "wrong")
	if domain.Message(err) != "Invalid credentials" {
		t.Fatalf("expected backend detail, got %v", err)
	}
	if err := uc.Login(ctx, "a@b.co", "secret!12"); err != nil {
		t.Fatalf("login: %v", err)
	}

	restored := New(api, tokens, zaptest.NewLogger(t))
	_ = restored.Init(ctx)
	if restored.Snapshot().UserID != "1" {
		t.Fatalf("expected session restored from storage, got %+v", restored.Snapshot())
	}
}
