package api

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/notifier"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// In-memory store implementations for handler tests. They honor the same
// sentinel error contracts as the real Postgres and Redis backends.

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User), nextID: 1}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	user.ID = s.nextID
	s.nextID++
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]int64)}
}

func (s *fakeSessionStore) Create(ctx context.Context, sid string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = userID
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, sid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.sessions[sid]
	if !ok {
		return 0, store.ErrSessionNotFound
	}
	return userID, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

type fakeTaskStore struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*domain.Task), nextID: 1}
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id, userID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *fakeTaskStore) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, task *domain.Task) (int64, error) {
	if err := task.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return 0, nil
	}

	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	clone := *task
	s.tasks[task.ID] = &clone
	return 1, nil
}

func (s *fakeTaskStore) SetStatus(ctx context.Context, id, userID int64, status domain.TaskStatus) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	clone := *t
	return &clone, nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

type fakeTaskCache struct {
	mu      sync.Mutex
	entries map[int64][]domain.Task

	gets        int
	sets        int
	invalidates int
}

func newFakeTaskCache() *fakeTaskCache {
	return &fakeTaskCache{entries: make(map[int64][]domain.Task)}
}

func (c *fakeTaskCache) Get(ctx context.Context, userID int64) ([]domain.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	tasks, ok := c.entries[userID]
	if !ok {
		return nil, store.ErrCacheMiss
	}
	return tasks, nil
}

func (c *fakeTaskCache) Set(ctx context.Context, userID int64, tasks []domain.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.entries[userID] = tasks
	return nil
}

func (c *fakeTaskCache) Invalidate(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidates++
	delete(c.entries, userID)
	return nil
}

func (c *fakeTaskCache) has(userID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[userID]
	return ok
}

// fakeDispatcher records dispatched jobs. Dispatch runs on a detached
// goroutine in the handler, so recording is synchronized and tests wait on
// the done channel.
type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []notifier.Job
	done chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{done: make(chan struct{}, 16)}
}

func (d *fakeDispatcher) Dispatch(job notifier.Job) {
	d.mu.Lock()
	d.jobs = append(d.jobs, job)
	d.mu.Unlock()
	d.done <- struct{}{}
}

func (d *fakeDispatcher) waitForJob(timeout time.Duration) (notifier.Job, bool) {
	select {
	case <-d.done:
	case <-time.After(timeout):
		return notifier.Job{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.jobs[len(d.jobs)-1], true
}

type fakeNotificationLog struct {
	mu      sync.Mutex
	entries map[int64][]domain.Notification
}

func newFakeNotificationLog() *fakeNotificationLog {
	return &fakeNotificationLog{entries: make(map[int64][]domain.Notification)}
}

func (l *fakeNotificationLog) Append(ctx context.Context, n *domain.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[n.UserID] = append([]domain.Notification{*n}, l.entries[n.UserID]...)
	return nil
}

func (l *fakeNotificationLog) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Notification(nil), l.entries[userID]...), nil
}

func (l *fakeNotificationLog) MarkRead(ctx context.Context, id, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries[userID] {
		if l.entries[userID][i].ID == id {
			l.entries[userID][i].Read = true
			return nil
		}
	}
	return store.ErrNotificationNotFound
}
