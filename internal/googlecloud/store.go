package googlecloud

import (
	"context"
	"errors"
	"time"

	"tasklists/internal/domain"
	"tasklists/internal/store"

	"cloud.google.com/go/datastore"
)

// Store implements store.Store on Datastore.
//
// ListsByOwner needs the composite index (owner_id ASC, created_at ASC) on
// kind TaskList.
type Store struct {
	*Client
}

var _ store.Store = (*Store)(nil)

func NewStore(c *Client) *Store {
	return &Store{Client: c}
}

func (s *Store) CreateAccount(ctx context.Context, acct *domain.Account, firstList *domain.TaskList) error {
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}
	if firstList != nil && firstList.CreatedAt.IsZero() {
		firstList.CreatedAt = acct.CreatedAt
	}

	_, err := s.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var reserved emailEntity
		err := tx.Get(emailKey(acct.Email), &reserved)
		switch {
		case err == nil:
			return domain.ErrEmailTaken
		case !errors.Is(err, datastore.ErrNoSuchEntity):
			return err
		}

		if _, err := tx.Put(emailKey(acct.Email), &emailEntity{UID: acct.ID}); err != nil {
			return err
		}
		if _, err := tx.Put(accountKey(acct.ID), toAccountEntity(acct)); err != nil {
			return err
		}
		if firstList != nil {
			if _, err := tx.Put(listKey(firstList.ID), toListEntity(firstList)); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr("create account", err)
}

func (s *Store) GetAccount(ctx context.Context, uid string) (*domain.Account, error) {
	var e accountEntity
	if err := s.ds.Get(ctx, accountKey(uid), &e); err != nil {
		return nil, wrapErr("get account", err)
	}
	return e.toDomain(uid), nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var reserved emailEntity
	if err := s.ds.Get(ctx, emailKey(email), &reserved); err != nil {
		return nil, wrapErr("get account by email", err)
	}
	return s.GetAccount(ctx, reserved.UID)
}

func (s *Store) GetList(ctx context.Context, id string) (*domain.TaskList, error) {
	var e listEntity
	if err := s.ds.Get(ctx, listKey(id), &e); err != nil {
		return nil, wrapErr("get list", err)
	}
	return e.toDomain(id), nil
}

func (s *Store) ListsByOwner(ctx context.Context, ownerID string) ([]*domain.TaskList, error) {
	q := datastore.NewQuery(KindTaskList).
		FilterField("owner_id", "=", ownerID).
		Order("created_at")

	var entities []listEntity
	keys, err := s.ds.GetAll(ctx, q, &entities)
	if err != nil {
		return nil, wrapErr("lists by owner", err)
	}

	out := make([]*domain.TaskList, 0, len(keys))
	for i, key := range keys {
		out = append(out, entities[i].toDomain(key.Name))
	}
	return out, nil
}

func (s *Store) CreateList(ctx context.Context, l *domain.TaskList) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := s.ds.Put(ctx, listKey(l.ID), toListEntity(l))
	return wrapErr("create list", err)
}

func (s *Store) UpdateList(ctx context.Context, id string, fn store.MutateFunc) (*domain.TaskList, error) {
	var updated *domain.TaskList
	_, err := s.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var e listEntity
		if err := tx.Get(listKey(id), &e); err != nil {
			return err
		}
		l := e.toDomain(id)
		if err := fn(l); err != nil {
			return err
		}
		if _, err := tx.Put(listKey(id), toListEntity(l)); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, wrapErr("update list", err)
	}
	return updated, nil
}

func (s *Store) DeleteList(ctx context.Context, ownerID, id string) error {
	_, err := s.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var e listEntity
		if err := tx.Get(listKey(id), &e); err != nil {
			return err
		}
		if e.OwnerID != ownerID {
			return domain.ErrNotFound
		}
		return tx.Delete(listKey(id))
	})
	return wrapErr("delete list", err)
}

func (s *Store) Ping(ctx context.Context) error {
	q := datastore.NewQuery(KindTaskList).KeysOnly().Limit(1)
	_, err := s.ds.GetAll(ctx, q, nil)
	return err
}
