// Package memory keeps users and tasks in process memory. It backs local
// development runs and tests; data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Store holds both collections behind one lock so a transaction sees a
// consistent snapshot.
type Store struct {
	mu    sync.RWMutex
	now   func() time.Time
	users []*models.User
	tasks []*models.Task
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

type txKey struct{}

// WithTx runs fn with the store locked and restores the previous contents
// if it fails or panics. Repository calls made with the ctx passed to fn
// run inside the transaction; calls from other goroutines wait for it.
// A nested WithTx joins the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, tasks := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.users, s.tasks = users, tasks
			panic(p)
		}
		if err != nil {
			s.users, s.tasks = users, tasks
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the write lock unless ctx belongs to a running transaction,
// which already holds it. The returned func releases what was taken.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// snapshot copies both collections. The caller holds s.mu.
func (s *Store) snapshot() ([]*models.User, []*models.Task) {
	users := make([]*models.User, len(s.users))
	for i, u := range s.users {
		users[i] = copyUser(u)
	}
	tasks := make([]*models.Task, len(s.tasks))
	for i, t := range s.tasks {
		tasks[i] = copyTask(t)
	}
	return users, tasks
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	return &c
}
