package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// API is the subset of the backend client the session store needs.
type API interface {
	Login(ctx context.Context, email, password string) (*transport.AuthData, error)
	Register(ctx context.Context, email, password string) (*transport.AuthData, error)
}

// UseCase is the session store. It is built once at the application root
// and handed to whatever needs the session; state only changes through
// Init, Login, Register and Logout.
type UseCase struct {
	api    API
	tokens repository.TokenStore
	logger *zap.Logger

	initOnce sync.Once
	initErr  error

	mu      sync.RWMutex
	state   domain.Session
	nextSub int
	subs    map[int]func(domain.Session)
}

func New(api API, tokens repository.TokenStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		api:    api,
		tokens: tokens,
		logger: logger,
		state:  domain.Session{Loading: true},
		subs:   make(map[int]func(domain.Session)),
	}
}

// Init restores a persisted session. It runs once; later calls return the
// first result. A token that fails to decode is removed from storage.
func (uc *UseCase) Init(ctx context.Context) error {
	uc.initOnce.Do(func() {
		uc.initErr = uc.restore(ctx)
	})
	return uc.initErr
}

func (uc *UseCase) restore(ctx context.Context) error {
	defer uc.update(func(s *domain.Session) { s.Loading = false })

	token, err := uc.tokens.Load(ctx)
	if err != nil {
		uc.logger.Error("failed to read persisted token", zap.Error(err))
		return err
	}
	if token == "" {
		return nil
	}

	claims, err := DecodeToken(token)
	if err != nil {
		uc.logger.Warn("discarding undecodable persisted token", zap.Error(err))
		if clearErr := uc.tokens.Clear(ctx); clearErr != nil {
			uc.logger.Error("failed to clear persisted token", zap.Error(clearErr))
		}
		return nil
	}

	uc.update(func(s *domain.Session) {
		s.Token = token
		s.User = domain.User(claims)
		s.UserID = claims.UserID()
	})
	return nil
}

// Login authenticates against the backend and persists the returned token.
// On failure the session is left as it was.
func (uc *UseCase) Login(ctx context.Context, email, password string) error {
	return uc.authenticate(ctx, "login", email, password, uc.api.Login)
}

// Register creates an account; on success the user is signed in.
func (uc *UseCase) Register(ctx context.Context, email, password string) error {
	return uc.authenticate(ctx, "register", email, password, uc.api.Register)
}

type authCall func(ctx context.Context, email, password string) (*transport.AuthData, error)

func (uc *UseCase) authenticate(ctx context.Context, op, email, password string, call authCall) error {
	uc.update(func(s *domain.Session) { s.Loading = true })

	data, err := call(ctx, email, password)
	if err != nil {
		uc.logger.Warn("authentication failed", zap.String("operation", op), zap.Error(err))
		uc.update(func(s *domain.Session) { s.Loading = false })
		return err
	}

	if err := uc.tokens.Save(ctx, data.Token); err != nil {
		uc.logger.Error("failed to persist token", zap.String("operation", op), zap.Error(err))
		uc.update(func(s *domain.Session) { s.Loading = false })
		return domain.WrapError(domain.ErrCodeInternal, "could not save session", err)
	}

	user, userID := resolveUser(data, uc.logger)
	uc.update(func(s *domain.Session) {
		s.Token = data.Token
		s.User = user
		s.UserID = userID
		s.Loading = false
	})
	uc.logger.Info("signed in", zap.String("operation", op), zap.String("user_id", userID.String()))
	return nil
}

// resolveUser prefers the token claims and falls back to the user object of
// the response.
func resolveUser(data *transport.AuthData, logger *zap.Logger) (domain.User, domain.UserID) {
	claims, err := DecodeToken(data.Token)
	if err != nil {
		logger.Warn("token decode failed, using response user", zap.Error(err))
		if len(data.User) == 0 {
			return nil, ""
		}
		return data.User, data.User.ID()
	}

	userID := claims.UserID()
	if userID.IsZero() {
		userID = data.User.ID()
	}
	return domain.User(claims), userID
}

// Logout clears the persisted and in-memory session. It always clears
// memory; a storage failure is returned after the fact.
func (uc *UseCase) Logout(ctx context.Context) error {
	err := uc.tokens.Clear(ctx)
	if err != nil {
		uc.logger.Error("failed to clear persisted token", zap.Error(err))
	}
	uc.update(func(s *domain.Session) {
		s.Token = ""
		s.User = nil
		s.UserID = ""
	})
	return err
}

// Snapshot returns a copy of the current session.
func (uc *UseCase) Snapshot() domain.Session {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

// Subscribe calls fn after every session transition until the returned
// function is called.
func (uc *UseCase) Subscribe(fn func(domain.Session)) func() {
	if fn == nil {
		return func() {}
	}
	uc.mu.Lock()
	id := uc.nextSub
	uc.nextSub++
	uc.subs[id] = fn
	uc.mu.Unlock()

	return func() {
		uc.mu.Lock()
		delete(uc.subs, id)
		uc.mu.Unlock()
	}
}

func (uc *UseCase) update(mutate func(s *domain.Session)) {
	uc.mu.Lock()
	mutate(&uc.state)
	snapshot := uc.state
	subs := make([]func(domain.Session), 0, len(uc.subs))
	for _, fn := range uc.subs {
		subs = append(subs, fn)
	}
	uc.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
