package task

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
)

// API is the subset of the backend client the synchronizer needs.
type API interface {
	ListTasks(ctx context.Context, token string) ([]domain.Task, error)
	CreateTask(ctx context.Context, token string, req transport.TaskRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, token string, id int64, req transport.TaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, token string, id int64) error
}

// Session is the read side of the session store.
type Session interface {
	Snapshot() domain.Session
	Subscribe(fn func(domain.Session)) func()
}

// Notifier surfaces operation failures to the user.
type Notifier interface {
	Notify(kind domain.NotificationKind, message string)
}

// Synchronizer owns the task collection of the current session and keeps it
// consistent with the backend. Local state only changes after the server
// acknowledges a write.
type Synchronizer struct {
	api      API
	session  Session
	notifier Notifier
	logger   *zap.Logger

	mu          sync.Mutex
	tasks       []domain.Task
	owner       string
	gen         uint64
	loading     bool
	closed      bool
	unsubscribe func()
}

func New(api API, session Session, notifier Notifier, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		api:      api,
		session:  session,
		notifier: notifier,
		logger:   logger,
		owner:    session.Snapshot().Token,
	}
	s.unsubscribe = session.Subscribe(s.onSession)
	return s
}

// Close detaches from the session. Responses still in flight are dropped.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.gen++
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Synchronizer) onSession(state domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(state.Token)
}

// resetLocked discards the collection when it belongs to another token.
func (s *Synchronizer) resetLocked(token string) {
	if token == s.owner {
		return
	}
	s.owner = token
	s.tasks = nil
	s.gen++
}

// begin returns the token and generation an operation runs under; ok is
// false without a session.
func (s *Synchronizer) begin() (token string, gen uint64, ok bool) {
	token = s.session.Snapshot().Token
	if token == "" {
		return "", 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", 0, false
	}
	s.resetLocked(token)
	return token, s.gen, true
}

// commit applies fn unless the session changed or the synchronizer closed
// while the request was in flight.
func (s *Synchronizer) commit(gen uint64, op string, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		s.logger.Debug("dropping stale response", zap.String("operation", op))
		return false
	}
	fn()
	return true
}

func (s *Synchronizer) fail(op string, err error) error {
	s.logger.Error("task operation failed", zap.String("operation", op), zap.Error(err))
	if s.notifier != nil {
		s.notifier.Notify(domain.NotificationError, domain.Message(err))
	}
	return err
}

// Items returns a copy of the local collection in display order.
func (s *Synchronizer) Items() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Find returns the local copy of a task.
func (s *Synchronizer) Find(id int64) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

// Loading reports whether a List call is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Synchronizer) indexLocked(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// List replaces the local collection with the server's.
func (s *Synchronizer) List(ctx context.Context) error {
	token, gen, ok := s.begin()
	if !ok {
		return nil
	}
	s.setLoading(true)
	defer s.setLoading(false)

	tasks, err := s.api.ListTasks(ctx, token)
	if err != nil {
		return s.fail("list", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.commit(gen, "list", func() { s.tasks = tasks })
	return nil
}

// Create prepends the server-created task. Nothing is inserted before the
// server answers.
func (s *Synchronizer) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	token, gen, ok := s.begin()
	if !ok {
		return nil, nil
	}

	created, err := s.api.CreateTask(ctx, token, transport.TaskRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.commit(gen, "create", func() {
		s.tasks = append([]domain.Task{*created}, s.tasks...)
	})
	return created, nil
}

// Update sends a full update and replaces the local entry with the response.
func (s *Synchronizer) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	token, gen, ok := s.begin()
	if !ok {
		return nil, nil
	}

	updated, err := s.api.UpdateTask(ctx, token, id, transport.TaskRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.commit(gen, "update", func() { s.replaceLocked(id, *updated) })
	return updated, nil
}

// Delete removes the task once the server confirms.
func (s *Synchronizer) Delete(ctx context.Context, id int64) error {
	token, gen, ok := s.begin()
	if !ok {
		return nil
	}

	if err := s.api.DeleteTask(ctx, token, id); err != nil {
		return s.fail("delete", err)
	}
	s.commit(gen, "delete", func() {
		if i := s.indexLocked(id); i >= 0 {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		}
	})
	return nil
}

// ToggleCompletion flips the completed flag of a local task. Failures are
// surfaced like every other mutation; an id missing locally never reaches
// the network.
func (s *Synchronizer) ToggleCompletion(ctx context.Context, id int64) (*domain.Task, error) {
	token, gen, ok := s.begin()
	if !ok {
		return nil, nil
	}

	current, found := s.Find(id)
	if !found {
		s.logger.Warn("toggle on unknown task", zap.Int64("task_id", id))
		if s.notifier != nil {
			s.notifier.Notify(domain.NotificationWarning, domain.ErrTaskNotFoundLocal.Message)
		}
		return nil, domain.ErrTaskNotFoundLocal
	}

	completed := !current.Completed
	updated, err := s.api.UpdateTask(ctx, token, id, transport.TaskRequest{
		Title:       current.Title,
		Description: current.Description,
		Completed:   &completed,
	})
	if err != nil {
		return nil, s.fail("toggle", err)
	}
	s.commit(gen, "toggle", func() { s.replaceLocked(id, *updated) })
	return updated, nil
}

func (s *Synchronizer) replaceLocked(id int64, task domain.Task) {
	if i := s.indexLocked(id); i >= 0 {
		s.tasks[i] = task
	}
}
