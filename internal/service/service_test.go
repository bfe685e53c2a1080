package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
	"tasklists/internal/feed"
	"tasklists/internal/store/memstore"
)

var fixedNow = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store *memstore.Store
	auth  *AuthService
	tasks *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	jwt, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	tasks := NewTaskService(st, feed.NewLocalBroker(), NewAuditService(nil))
	tasks.SetClock(func() time.Time { return fixedNow })

	return &fixture{
		store: st,
		auth:  NewAuthService(st, jwt, NewMemoryRevoker()),
		tasks: tasks,
	}
}

func (f *fixture) signup(t *testing.T, email string) *Session {
	t.Helper()
	sess, err := f.auth.CreateAccount(context.Background(), email, "secret1", "secret1", "Tester")
	require.NoError(t, err)
	return sess
}

func TestCreateAccount_CreatesDefaultList(t *testing.T) {
	f := newFixture(t)
	sess := f.signup(t, "ann@example.com")

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ann@example.com", sess.Account.Email)

	p, err := f.tasks.GetProfile(context.Background(), sess.Account.ID)
	require.NoError(t, err)
	require.Len(t, p.TaskList, 1)
	assert.Equal(t, domain.DefaultListTitle, p.TaskList[0].Title)
	assert.Equal(t, domain.DefaultListEmoji, p.TaskList[0].Emoji)
	assert.Equal(t, 0, p.TaskList[0].TaskCount)
}

func TestCreateAccount_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name, email, pass, confirm string
	}{
		{"bad email", "not-an-email", "secret1", "secret1"},
		{"short password", "a@example.com", "abc", "abc"},
		{"mismatch", "a@example.com", "secret1", "secret2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.CreateAccount(ctx, tc.email, tc.pass, tc.confirm, "A")
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "dup@example.com")

	_, err := f.auth.CreateAccount(context.Background(), "DUP@example.com", "secret1", "secret1", "")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateAccount_DisplayNameDefaultsToMailbox(t *testing.T) {
	f := newFixture(t)
	sess, err := f.auth.CreateAccount(context.Background(), "bob@example.com", "secret1", "secret1", "  ")
	require.NoError(t, err)
	assert.Equal(t, "bob", sess.Account.DisplayName)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.signup(t, "carol@example.com")

	sess, err := f.auth.SignIn(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.Account.ID, sess.Account.ID)

	_, err = f.auth.SignIn(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSignOut_RevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "dave@example.com")

	claims, err := f.auth.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Account.ID, claims.UserID)

	_, err = f.auth.SignOut(ctx, sess.Token)
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestCreateList_DefaultEmoji(t *testing.T) {
	f := newFixture(t)
	uid := f.signup(t, "e@example.com").Account.ID

	l, err := f.tasks.CreateList(context.Background(), uid, " Groceries ", "")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", l.Title)
	assert.Equal(t, domain.NewListEmoji, l.Emoji)

	_, err = f.tasks.CreateList(context.Background(), uid, "   ", "🛒")
	assert.True(t, domain.IsValidation(err))

	_, err = f.tasks.CreateList(context.Background(), "", "x", "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestAddTask_InheritsEmojiAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "f@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "Work", "💼")
	require.NoError(t, err)

	due := fixedNow.Add(2 * time.Hour).UnixMilli()
	task, err := f.tasks.AddTask(ctx, uid, l.ID, "Write report", due, "")
	require.NoError(t, err)
	assert.Equal(t, "💼", task.Emoji)
	assert.Equal(t, l.ID, task.ParentID)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)

	other, err := f.tasks.AddTask(ctx, uid, l.ID, "Call", due, "📞")
	require.NoError(t, err)
	assert.Equal(t, "📞", other.Emoji)

	got, err := f.tasks.GetList(ctx, uid, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TaskCount)
	assert.Equal(t, 0, got.CompletedCount)
	assert.Equal(t, []string{task.ID, other.ID}, []string{got.Tasks[0].ID, got.Tasks[1].ID})
}

func TestAddTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "g@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "L", "")
	require.NoError(t, err)

	_, err = f.tasks.AddTask(ctx, uid, l.ID, "", fixedNow.UnixMilli(), "")
	assert.True(t, domain.IsValidation(err))

	_, err = f.tasks.AddTask(ctx, uid, l.ID, "title", 0, "")
	assert.True(t, domain.IsValidation(err))

	got, err := f.tasks.GetList(ctx, uid, l.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
}

func TestToggleTask_KeepsCountsInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "h@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "L", "")
	require.NoError(t, err)
	task, err := f.tasks.AddTask(ctx, uid, l.ID, "t", fixedNow.Add(time.Hour).UnixMilli(), "")
	require.NoError(t, err)

	toggled, err := f.tasks.ToggleTask(ctx, uid, l.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, fixedNow.UnixMilli(), *toggled.CompletedAt)

	got, err := f.tasks.GetList(ctx, uid, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TaskCount)
	assert.Equal(t, 1, got.CompletedCount)

	back, err := f.tasks.ToggleTask(ctx, uid, l.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)
	assert.Nil(t, back.CompletedAt)

	p, err := f.tasks.GetProfile(ctx, uid)
	require.NoError(t, err)
	for _, s := range p.TaskList {
		if s.ID == l.ID {
			assert.Equal(t, 1, s.TaskCount)
			assert.Equal(t, 0, s.CompletedCount)
		}
	}
}

func TestUpdateTaskCompletion_SameValueIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "i@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "L", "")
	require.NoError(t, err)
	task, err := f.tasks.AddTask(ctx, uid, l.ID, "t", fixedNow.Add(time.Hour).UnixMilli(), "")
	require.NoError(t, err)

	first, err := f.tasks.UpdateTaskCompletion(ctx, uid, l.ID, task.ID, true)
	require.NoError(t, err)
	stamp := *first.CompletedAt

	f.tasks.SetClock(func() time.Time { return fixedNow.Add(time.Hour) })
	again, err := f.tasks.UpdateTaskCompletion(ctx, uid, l.ID, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, stamp, *again.CompletedAt)

	_, err = f.tasks.UpdateTaskCompletion(ctx, uid, l.ID, "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOtherUsersListIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.signup(t, "owner@example.com").Account.ID
	intruder := f.signup(t, "intruder@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, owner, "Private", "")
	require.NoError(t, err)

	_, err = f.tasks.GetList(ctx, intruder, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tasks.AddTask(ctx, intruder, l.ID, "x", fixedNow.UnixMilli(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.tasks.DeleteList(ctx, intruder, l.ID), domain.ErrNotFound)
}

func TestDeleteList_RemovesSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "j@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "Temp", "")
	require.NoError(t, err)

	p, err := f.tasks.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.Len(t, p.TaskList, 2)

	require.NoError(t, f.tasks.DeleteList(ctx, uid, l.ID))

	p, err = f.tasks.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.Len(t, p.TaskList, 1)
	assert.NotEqual(t, l.ID, p.TaskList[0].ID)

	_, err = f.tasks.GetList(ctx, uid, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboardAndListView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signup(t, "k@example.com").Account.ID
	l, err := f.tasks.CreateList(ctx, uid, "L", "")
	require.NoError(t, err)

	_, err = f.tasks.AddTask(ctx, uid, l.ID, "soon", fixedNow.Add(time.Hour).UnixMilli(), "")
	require.NoError(t, err)
	_, err = f.tasks.AddTask(ctx, uid, l.ID, "late", fixedNow.Add(-time.Hour).UnixMilli(), "")
	require.NoError(t, err)
	_, err = f.tasks.AddTask(ctx, uid, l.ID, "tomorrow", fixedNow.Add(25*time.Hour).UnixMilli(), "")
	require.NoError(t, err)

	dash, err := f.tasks.Dashboard(ctx, uid, fixedNow)
	require.NoError(t, err)
	require.Len(t, dash.Today, 1)
	assert.Equal(t, "soon", dash.Today[0].Title)
	require.Len(t, dash.Upcoming, 1)
	assert.Equal(t, "tomorrow", dash.Upcoming[0].Title)

	_, view, err := f.tasks.ListView(ctx, uid, l.ID, fixedNow, categorize.OnDay(fixedNow))
	require.NoError(t, err)
	assert.Len(t, view.Overdue, 1)
	assert.Len(t, view.Incomplete, 1)
	assert.Empty(t, view.Completed)
}
