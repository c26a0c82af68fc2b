package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/todo/domain"
)

type account struct {
	ID           int64
	Email        string
	PasswordHash []byte
}

type storedTask struct {
	domain.Task
	OwnerID int64
}

// Store keeps accounts and tasks in memory for the lifetime of the server.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	tasks    map[int64]*storedTask
	nextUser int64
	nextTask int64
	cost     int
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		tasks:    make(map[int64]*storedTask),
		cost:     bcrypt.MinCost,
		now:      time.Now,
	}
}

func (s *Store) timestamp() domain.Timestamp {
	return domain.Timestamp(s.now().UTC().Format(time.RFC3339Nano))
}

// Register fails with errEmailTaken when the email already has an account.
func (s *Store) Register(email, password string) (*account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return nil, errEmailTaken
	}
	s.nextUser++
	acc := &account{ID: s.nextUser, Email: key, PasswordHash: hash}
	s.accounts[key] = acc
	return acc, nil
}

func (s *Store) Authenticate(email, password string) (*account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	acc, ok := s.accounts[key]
	s.mu.Unlock()
	if !ok {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return acc, nil
}

// ListTasks returns the owner's tasks, newest first.
func (s *Store) ListTasks(ownerID int64) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t.Task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) CreateTask(ownerID int64, title, description string) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTask++
	ts := s.timestamp()
	t := &storedTask{
		Task: domain.Task{
			ID:          s.nextTask,
			Title:       title,
			Description: description,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		OwnerID: ownerID,
	}
	s.tasks[t.ID] = t
	return t.Task
}

func (s *Store) UpdateTask(ownerID, id int64, title, description string, completed *bool) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return domain.Task{}, errTaskNotFound
	}
	t.Title = title
	t.Description = description
	if completed != nil {
		t.Completed = *completed
	}
	t.UpdatedAt = s.timestamp()
	return t.Task, nil
}

func (s *Store) DeleteTask(ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return errTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
