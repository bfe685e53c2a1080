package googlecloud

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklists/internal/domain"
)

func TestListEntity_CompletedAt(t *testing.T) {
	at := int64(1_700_000_000_000)
	l := &domain.TaskList{
		ID:      "l1",
		OwnerID: "u1",
		Tasks: []domain.Task{
			{ID: "open", CompleteBy: 5},
			{ID: "done", CompleteBy: 6, Completed: true, CompletedAt: &at},
		},
		TaskCount:      1,
		CompletedCount: 1,
	}

	got := toListEntity(l).toDomain("l1")
	require.Len(t, got.Tasks, 2)
	assert.Nil(t, got.Tasks[0].CompletedAt)
	require.NotNil(t, got.Tasks[1].CompletedAt)
	assert.Equal(t, at, *got.Tasks[1].CompletedAt)
	assert.Equal(t, 1, got.TaskCount)
}

func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("DATASTORE_EMULATOR_HOST") == "" {
		t.Skip("DATASTORE_EMULATOR_HOST not set")
	}
	client, err := NewClient(context.Background(), "tasklists-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client)
}

func TestStore_Emulator(t *testing.T) {
	st := newEmulatorStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	acct := &domain.Account{ID: uuid.NewString(), Email: uuid.NewString()[:8] + "@example.com", CreatedAt: now}
	first := &domain.TaskList{ID: uuid.NewString(), OwnerID: acct.ID, Title: domain.DefaultListTitle, CreatedAt: now}
	require.NoError(t, st.CreateAccount(ctx, acct, first))

	err := st.CreateAccount(ctx, &domain.Account{ID: uuid.NewString(), Email: acct.Email}, nil)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := st.GetAccountByEmail(ctx, acct.Email)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	updated, err := st.UpdateList(ctx, first.ID, func(l *domain.TaskList) error {
		l.Tasks = append(l.Tasks, domain.Task{ID: "t1", Title: "x", CompleteBy: now.UnixMilli()})
		l.TaskCount++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TaskCount)

	abort := domain.NewValidationError("title", "required")
	_, err = st.UpdateList(ctx, first.ID, func(l *domain.TaskList) error { return abort })
	assert.ErrorIs(t, err, abort)

	reread, err := st.GetList(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, reread.Tasks, 1)

	assert.ErrorIs(t, st.DeleteList(ctx, "someone-else", first.ID), domain.ErrNotFound)
	require.NoError(t, st.DeleteList(ctx, acct.ID, first.ID))
	_, err = st.GetList(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, st.Ping(ctx))
}
