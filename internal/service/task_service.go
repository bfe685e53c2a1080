package service

import (
	"context"
	"strings"
	"time"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
	"tasklists/internal/feed"
	"tasklists/internal/logger"
	"tasklists/internal/store"

	"github.com/google/uuid"
)

// TaskService owns list and task operations for signed-in users. Every
// write is a single atomic list update followed by change events on the
// list and owner profile topics.
type TaskService struct {
	store store.Store
	feed  feed.Broker
	audit *AuditService
	now   func() time.Time
}

func NewTaskService(st store.Store, broker feed.Broker, audit *AuditService) *TaskService {
	if broker == nil {
		broker = feed.NewLocalBroker()
	}
	return &TaskService{store: st, feed: broker, audit: audit, now: time.Now}
}

// SetClock replaces the clock used for completion stamps.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TaskService) GetList(ctx context.Context, uid, listID string) (*domain.TaskList, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	l, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, domain.Backend("get list", err)
	}
	if l.OwnerID != uid {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// Lists returns the user's lists in creation order.
func (s *TaskService) Lists(ctx context.Context, uid string) ([]*domain.TaskList, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	lists, err := s.store.ListsByOwner(ctx, uid)
	if err != nil {
		return nil, domain.Backend("lists by owner", err)
	}
	return lists, nil
}

func (s *TaskService) CreateList(ctx context.Context, uid, title, emoji string) (*domain.TaskList, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		emoji = domain.NewListEmoji
	}

	l := &domain.TaskList{
		ID:        uuid.NewString(),
		OwnerID:   uid,
		Title:     title,
		Emoji:     emoji,
		Tasks:     []domain.Task{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, domain.Backend("create list", err)
	}

	ListsCreated.Inc()
	s.audit.LogList(ctx, uid, domain.AuditActionListCreate, l.ID, l.Title)
	s.publish(ctx, feed.KindChanged, feed.ProfileTopic(uid))
	return l, nil
}

// DeleteList removes the list. Its summary disappears from the profile with
// it.
func (s *TaskService) DeleteList(ctx context.Context, uid, listID string) error {
	if uid == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.store.DeleteList(ctx, uid, listID); err != nil {
		return domain.Backend("delete list", err)
	}

	ListsDeleted.Inc()
	s.audit.LogList(ctx, uid, domain.AuditActionListDelete, listID, "")
	s.publish(ctx, feed.KindDeleted, feed.ListTopic(listID))
	s.publish(ctx, feed.KindChanged, feed.ProfileTopic(uid))
	return nil
}

// AddTask appends a task to the list. An empty emoji inherits the list's.
func (s *TaskService) AddTask(ctx context.Context, uid, listID, title string, completeBy int64, emoji string) (*domain.Task, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if completeBy <= 0 {
		return nil, domain.NewValidationError("complete_by", "a due date is required")
	}

	var created domain.Task
	_, err := s.store.UpdateList(ctx, listID, func(l *domain.TaskList) error {
		if l.OwnerID != uid {
			return domain.ErrNotFound
		}
		t := domain.Task{
			ID:         uuid.NewString(),
			Title:      title,
			Emoji:      strings.TrimSpace(emoji),
			CompleteBy: completeBy,
			ParentID:   l.ID,
		}
		if t.Emoji == "" {
			t.Emoji = l.Emoji
		}
		l.Tasks = append(l.Tasks, t)
		categorize.ApplyCounts(l)
		created = t
		return nil
	})
	if err != nil {
		return nil, domain.Backend("add task", err)
	}

	TasksCreated.Inc()
	s.publishList(ctx, uid, listID)
	return &created, nil
}

// UpdateTaskCompletion sets the task's completed flag. Setting the current
// value again changes nothing.
func (s *TaskService) UpdateTaskCompletion(ctx context.Context, uid, listID, taskID string, completed bool) (*domain.Task, error) {
	return s.mutateTask(ctx, uid, listID, taskID, func(t domain.Task, now time.Time) domain.Task {
		return categorize.SetCompletion(t, completed, now)
	})
}

// ToggleTask flips the task's completed flag.
func (s *TaskService) ToggleTask(ctx context.Context, uid, listID, taskID string) (*domain.Task, error) {
	return s.mutateTask(ctx, uid, listID, taskID, categorize.ToggleCompletion)
}

func (s *TaskService) mutateTask(ctx context.Context, uid, listID, taskID string, apply func(domain.Task, time.Time) domain.Task) (*domain.Task, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var (
		result  domain.Task
		changed bool
	)
	_, err := s.store.UpdateList(ctx, listID, func(l *domain.TaskList) error {
		if l.OwnerID != uid {
			return domain.ErrNotFound
		}
		i := l.FindTask(taskID)
		if i < 0 {
			return domain.ErrNotFound
		}
		before := l.Tasks[i].Completed
		l.Tasks[i] = apply(l.Tasks[i], s.now())
		categorize.ApplyCounts(l)
		result = l.Tasks[i]
		changed = before != result.Completed
		return nil
	})
	if err != nil {
		return nil, domain.Backend("update task", err)
	}

	if changed {
		TaskCompletionChanges.WithLabelValues(boolLabel(result.Completed)).Inc()
		s.publishList(ctx, uid, listID)
	}
	return &result, nil
}

// GetProfile builds the profile from the account and its current lists.
func (s *TaskService) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	acct, err := s.store.GetAccount(ctx, uid)
	if err != nil {
		return nil, domain.Backend("get account", err)
	}
	lists, err := s.store.ListsByOwner(ctx, uid)
	if err != nil {
		return nil, domain.Backend("lists by owner", err)
	}
	return &domain.UserProfile{
		UID:         acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		TaskList:    categorize.Summaries(lists),
	}, nil
}

// Dashboard categorizes all of the user's lists against now.
func (s *TaskService) Dashboard(ctx context.Context, uid string, now time.Time) (categorize.DashboardView, error) {
	lists, err := s.Lists(ctx, uid)
	if err != nil {
		return categorize.DashboardView{}, err
	}
	return categorize.Dashboard(lists, now), nil
}

// ListView categorizes one list against now.
func (s *TaskService) ListView(ctx context.Context, uid, listID string, now time.Time, filter categorize.DateFilter) (*domain.TaskList, categorize.ListView, error) {
	l, err := s.GetList(ctx, uid, listID)
	if err != nil {
		return nil, categorize.ListView{}, err
	}
	return l, categorize.CategorizeList(l.Tasks, now, filter), nil
}

func (s *TaskService) publishList(ctx context.Context, uid, listID string) {
	s.publish(ctx, feed.KindChanged, feed.ListTopic(listID))
	s.publish(ctx, feed.KindChanged, feed.ProfileTopic(uid))
}

func (s *TaskService) publish(ctx context.Context, kind, topic string) {
	if err := s.feed.Publish(ctx, feed.NewEvent(topic, kind)); err != nil {
		logger.WithContext(ctx).Warn("publish change event failed", "topic", topic, "error", err)
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
