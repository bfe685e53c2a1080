package googlecloud

import (
	"strings"
	"time"

	"tasklists/internal/domain"

	"cloud.google.com/go/datastore"
)

type accountEntity struct {
	Email        string    `datastore:"email"`
	DisplayName  string    `datastore:"display_name,noindex"`
	PasswordHash string    `datastore:"password_hash,noindex"`
	CreatedAt    time.Time `datastore:"created_at"`
}

// emailEntity is keyed by the lower-cased address and reserves it.
type emailEntity struct {
	UID string `datastore:"uid,noindex"`
}

// taskEntity stores CompletedAt as 0 when the task is open.
type taskEntity struct {
	ID          string `datastore:"id,noindex"`
	Title       string `datastore:"title,noindex"`
	Emoji       string `datastore:"emoji,noindex"`
	CompleteBy  int64  `datastore:"complete_by,noindex"`
	Completed   bool   `datastore:"completed,noindex"`
	CompletedAt int64  `datastore:"completed_at,noindex"`
	ParentID    string `datastore:"parent_id,noindex"`
}

type listEntity struct {
	OwnerID        string       `datastore:"owner_id"`
	Title          string       `datastore:"title,noindex"`
	Emoji          string       `datastore:"emoji,noindex"`
	TaskCount      int          `datastore:"task_count,noindex"`
	CompletedCount int          `datastore:"completed_count,noindex"`
	Tasks          []taskEntity `datastore:"tasks,noindex"`
	CreatedAt      time.Time    `datastore:"created_at"`
}

func accountKey(uid string) *datastore.Key  { return datastore.NameKey(KindAccount, uid, nil) }
func emailKey(email string) *datastore.Key { return datastore.NameKey(KindEmail, strings.ToLower(email), nil) }
func listKey(id string) *datastore.Key     { return datastore.NameKey(KindTaskList, id, nil) }

func toAccountEntity(a *domain.Account) *accountEntity {
	return &accountEntity{
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
}

func (e *accountEntity) toDomain(uid string) *domain.Account {
	return &domain.Account{
		ID:           uid,
		Email:        e.Email,
		DisplayName:  e.DisplayName,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
	}
}

func toListEntity(l *domain.TaskList) *listEntity {
	e := &listEntity{
		OwnerID:        l.OwnerID,
		Title:          l.Title,
		Emoji:          l.Emoji,
		TaskCount:      l.TaskCount,
		CompletedCount: l.CompletedCount,
		Tasks:          make([]taskEntity, 0, len(l.Tasks)),
		CreatedAt:      l.CreatedAt,
	}
	for _, t := range l.Tasks {
		te := taskEntity{
			ID:         t.ID,
			Title:      t.Title,
			Emoji:      t.Emoji,
			CompleteBy: t.CompleteBy,
			Completed:  t.Completed,
			ParentID:   t.ParentID,
		}
		if t.CompletedAt != nil {
			te.CompletedAt = *t.CompletedAt
		}
		e.Tasks = append(e.Tasks, te)
	}
	return e
}

func (e *listEntity) toDomain(id string) *domain.TaskList {
	l := &domain.TaskList{
		ID:             id,
		OwnerID:        e.OwnerID,
		Title:          e.Title,
		Emoji:          e.Emoji,
		TaskCount:      e.TaskCount,
		CompletedCount: e.CompletedCount,
		Tasks:          make([]domain.Task, 0, len(e.Tasks)),
		CreatedAt:      e.CreatedAt,
	}
	for _, te := range e.Tasks {
		t := domain.Task{
			ID:         te.ID,
			Title:      te.Title,
			Emoji:      te.Emoji,
			CompleteBy: te.CompleteBy,
			Completed:  te.Completed,
			ParentID:   te.ParentID,
		}
		if te.Completed {
			at := te.CompletedAt
			t.CompletedAt = &at
		}
		l.Tasks = append(l.Tasks, t)
	}
	return l
}
