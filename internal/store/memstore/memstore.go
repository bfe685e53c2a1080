// Package memstore is an in-process Store used by tests and local runs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tasklists/internal/domain"
	"tasklists/internal/store"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	byEmail  map[string]string
	lists    map[string]*domain.TaskList
	seq      map[string]int // list id -> insertion sequence
	next     int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		byEmail:  make(map[string]string),
		lists:    make(map[string]*domain.TaskList),
		seq:      make(map[string]int),
	}
}

func (s *Store) CreateAccount(_ context.Context, acct *domain.Account, firstList *domain.TaskList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(acct.Email)
	if _, ok := s.byEmail[key]; ok {
		return domain.ErrEmailTaken
	}
	a := *acct
	s.accounts[a.ID] = &a
	s.byEmail[key] = a.ID
	if firstList != nil {
		s.putList(firstList)
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, uid string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	uid, ok := s.byEmail[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.GetAccount(ctx, uid)
}

func (s *Store) GetList(_ context.Context, id string) (*domain.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(l), nil
}

func (s *Store) ListsByOwner(_ context.Context, ownerID string) ([]*domain.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.TaskList
	for _, l := range s.lists {
		if l.OwnerID == ownerID {
			out = append(out, clone(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out, nil
}

func (s *Store) CreateList(_ context.Context, l *domain.TaskList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putList(l)
	return nil
}

func (s *Store) UpdateList(_ context.Context, id string, fn store.MutateFunc) (*domain.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := clone(cur)
	if err := fn(next); err != nil {
		return nil, err
	}
	s.lists[id] = clone(next)
	return next, nil
}

func (s *Store) DeleteList(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(s.lists, id)
	delete(s.seq, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// putList requires s.mu.
func (s *Store) putList(l *domain.TaskList) {
	s.lists[l.ID] = clone(l)
	s.next++
	s.seq[l.ID] = s.next
}

func clone(l *domain.TaskList) *domain.TaskList {
	cp := *l
	cp.Tasks = make([]domain.Task, len(l.Tasks))
	for i, t := range l.Tasks {
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			t.CompletedAt = &at
		}
		cp.Tasks[i] = t
	}
	return &cp
}
