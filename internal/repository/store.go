package repository

import (
	"context"

	"tasklists/internal/domain"
	"tasklists/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of store.Store.
type Store struct {
	db    *pgxpool.Pool
	users *UserRepository
	lists *ListRepository
}

var _ store.Store = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db:    db,
		users: NewUserRepository(db),
		lists: NewListRepository(db),
	}
}

func (s *Store) CreateAccount(ctx context.Context, acct *domain.Account, firstList *domain.TaskList) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Backend("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.users.create(ctx, tx, acct); err != nil {
		return domain.Backend("create account", err)
	}
	if firstList != nil {
		if err := s.lists.create(ctx, tx, firstList); err != nil {
			return domain.Backend("create first list", err)
		}
	}
	return domain.Backend("commit", tx.Commit(ctx))
}

func (s *Store) GetAccount(ctx context.Context, uid string) (*domain.Account, error) {
	a, err := s.users.GetByID(ctx, uid)
	return a, domain.Backend("get account", err)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := s.users.GetByEmail(ctx, email)
	return a, domain.Backend("get account by email", err)
}

func (s *Store) GetList(ctx context.Context, id string) (*domain.TaskList, error) {
	l, err := s.lists.GetByID(ctx, id)
	return l, domain.Backend("get list", err)
}

func (s *Store) ListsByOwner(ctx context.Context, ownerID string) ([]*domain.TaskList, error) {
	ls, err := s.lists.GetByOwner(ctx, ownerID)
	return ls, domain.Backend("lists by owner", err)
}

func (s *Store) CreateList(ctx context.Context, l *domain.TaskList) error {
	return domain.Backend("create list", s.lists.Create(ctx, l))
}

func (s *Store) UpdateList(ctx context.Context, id string, fn store.MutateFunc) (*domain.TaskList, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.Backend("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	l, err := s.lists.getForUpdate(ctx, tx, id)
	if err != nil {
		return nil, domain.Backend("lock list", err)
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.lists.save(ctx, tx, l); err != nil {
		return nil, domain.Backend("save list", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Backend("commit", err)
	}
	return l, nil
}

func (s *Store) DeleteList(ctx context.Context, ownerID, id string) error {
	return domain.Backend("delete list", s.lists.Delete(ctx, ownerID, id))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
