package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklists/internal/domain"
)

func TestStore_EmailIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, &domain.Account{ID: "u1", Email: "A@example.com"}, nil))

	err := s.CreateAccount(ctx, &domain.Account{ID: "u2", Email: "a@EXAMPLE.com"}, nil)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := s.GetAccountByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestStore_ListsInCreationOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.CreateList(ctx, &domain.TaskList{ID: id, OwnerID: "u1"}))
	}
	require.NoError(t, s.CreateList(ctx, &domain.TaskList{ID: "x", OwnerID: "u2"}))

	lists, err := s.ListsByOwner(ctx, "u1")
	require.NoError(t, err)
	var ids []string
	for _, l := range lists {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStore_UpdateListAbortsOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateList(ctx, &domain.TaskList{ID: "l", OwnerID: "u"}))

	boom := errors.New("boom")
	_, err := s.UpdateList(ctx, "l", func(l *domain.TaskList) error {
		l.Title = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	l, err := s.GetList(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, l.Title)

	_, err = s.UpdateList(ctx, "missing", func(*domain.TaskList) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReturnedListsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	at := int64(10)
	require.NoError(t, s.CreateList(ctx, &domain.TaskList{
		ID: "l", OwnerID: "u",
		Tasks: []domain.Task{{ID: "t", Completed: true, CompletedAt: &at}},
	}))

	l, err := s.GetList(ctx, "l")
	require.NoError(t, err)
	*l.Tasks[0].CompletedAt = 99
	l.Tasks[0].Title = "mutated"

	again, err := s.GetList(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *again.Tasks[0].CompletedAt)
	assert.Empty(t, again.Tasks[0].Title)
}

func TestStore_DeleteListChecksOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateList(ctx, &domain.TaskList{ID: "l", OwnerID: "u"}))

	assert.ErrorIs(t, s.DeleteList(ctx, "other", "l"), domain.ErrNotFound)
	require.NoError(t, s.DeleteList(ctx, "u", "l"))
	_, err := s.GetList(ctx, "l")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
