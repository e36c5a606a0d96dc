package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// Store is an in-memory stand-in for the PostgreSQL store. It enforces the
// same invariants the schema does: unique user emails, task user references
// that must exist, and cascade deletion of a user's tasks.
type Store struct {
	mu         sync.Mutex
	users      map[int64]domain.User
	tasks      map[int64]domain.Task
	nextUserID int64
	nextTaskID int64
	seq        int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users: make(map[int64]domain.User),
		tasks: make(map[int64]domain.Task),
	}
}

// now returns a strictly increasing timestamp so creation order is always
// well defined, even for writes within the same nanosecond.
func (s *Store) now() time.Time {
	s.seq++
	return time.Now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
}

// Users returns the store.UserStore view of the in-memory store.
func (s *Store) Users() store.UserStore {
	return &userStore{s}
}

// Tasks returns the store.TaskStore view of the in-memory store.
func (s *Store) Tasks() store.TaskStore {
	return &taskStore{s}
}

// tasksOf returns copies of the user's tasks in creation order.
func (s *Store) tasksOf(userID int64) []domain.Task {
	owned := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})
	return owned
}

type userStore struct{ s *Store }

var _ store.UserStore = (*userStore)(nil)

func (v *userStore) List(ctx context.Context) ([]domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	users := make([]domain.User, 0, len(v.s.users))
	for _, u := range v.s.users {
		u.Tasks = v.s.tasksOf(u.ID)
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (v *userStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u.Tasks = v.s.tasksOf(id)
	return &u, nil
}

func (v *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.users {
		if u.Email == email {
			u.Tasks = nil
			return &u, nil
		}
	}
	return nil, nil
}

func (v *userStore) Create(ctx context.Context, user *domain.User) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, u := range v.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
		}
	}

	v.s.nextUserID++
	user.ID = v.s.nextUserID
	now := v.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Tasks == nil {
		user.Tasks = make([]domain.Task, 0)
	}

	stored := *user
	stored.Tasks = nil
	v.s.users[user.ID] = stored
	return nil
}

func (v *userStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	u, ok := v.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	if patch.Email != nil {
		for _, other := range v.s.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, fmt.Errorf("%w: %s", store.ErrEmailExists, *patch.Email)
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	u.UpdatedAt = v.s.now()

	v.s.users[id] = u
	u.Tasks = v.s.tasksOf(id)
	return &u, nil
}

func (v *userStore) Delete(ctx context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(v.s.users, id)

	// Cascade, like the schema's ON DELETE CASCADE.
	for taskID, t := range v.s.tasks {
		if t.UserID == id {
			delete(v.s.tasks, taskID)
		}
	}
	return nil
}

type taskStore struct{ s *Store }

var _ store.TaskStore = (*taskStore)(nil)

// withUser returns a copy of t with its owner resolved.
func (v *taskStore) withUser(t domain.Task) domain.Task {
	if u, ok := v.s.users[t.UserID]; ok {
		u.Tasks = nil
		t.User = &u
	}
	return t
}

func (v *taskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	tasks := make([]domain.Task, 0)
	for _, t := range v.s.tasks {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		tasks = append(tasks, v.withUser(t))
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (v *taskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	t, ok := v.s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t = v.withUser(t)
	return &t, nil
}

func (v *taskStore) Create(ctx context.Context, task *domain.Task) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.users[task.UserID]; !ok {
		return fmt.Errorf("%w: user with ID %d not found",
			store.ErrInvalidEntity, task.UserID)
	}

	v.s.nextTaskID++
	task.ID = v.s.nextTaskID
	now := v.s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := *task
	stored.User = nil
	v.s.tasks[task.ID] = stored
	return nil
}

func (v *taskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	t, ok := v.s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.UserID != nil {
		if _, ok := v.s.users[*patch.UserID]; !ok {
			return nil, fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, *patch.UserID)
		}
		t.UserID = *patch.UserID
	}
	t.UpdatedAt = v.s.now()

	v.s.tasks[id] = t
	t = v.withUser(t)
	return &t, nil
}

func (v *taskStore) Delete(ctx context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(v.s.tasks, id)
	return nil
}
