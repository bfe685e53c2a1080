// Package store defines the document store behind lists and accounts.
package store

import (
	"context"

	"tasklists/internal/domain"
)

// MutateFunc edits a list document in place. Returning an error aborts the
// update and nothing is written.
type MutateFunc func(l *domain.TaskList) error

// Store persists accounts and task-list documents. Implementations return
// domain.ErrNotFound for missing records and wrap everything else.
type Store interface {
	// CreateAccount stores acct and its first list atomically.
	CreateAccount(ctx context.Context, acct *domain.Account, firstList *domain.TaskList) error
	GetAccount(ctx context.Context, uid string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	GetList(ctx context.Context, id string) (*domain.TaskList, error)
	// ListsByOwner returns the owner's lists in creation order.
	ListsByOwner(ctx context.Context, ownerID string) ([]*domain.TaskList, error)
	CreateList(ctx context.Context, l *domain.TaskList) error
	// UpdateList runs fn against the current document and writes the result
	// in one atomic step.
	UpdateList(ctx context.Context, id string, fn MutateFunc) (*domain.TaskList, error)
	// DeleteList removes the list if ownerID owns it.
	DeleteList(ctx context.Context, ownerID, id string) error

	Ping(ctx context.Context) error
}
