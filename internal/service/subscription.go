package service

import (
	"context"
	"errors"
	"sync"

	"tasklists/internal/domain"
	"tasklists/internal/feed"
	"tasklists/internal/logger"
)

// Unsubscribe stops a subscription. It blocks until any running callback
// has returned, and no callback starts afterwards. Calling it from inside a
// callback deadlocks.
type Unsubscribe func()

// ListObserver receives the list after every change. It receives nil once
// when the list is deleted, and nothing after that.
type ListObserver func(l *domain.TaskList)

// ProfileObserver receives the profile after every change.
type ProfileObserver func(p *domain.UserProfile)

// SubscribeList delivers the current list and then every later version
// until the returned Unsubscribe is called or ctx ends.
func (s *TaskService) SubscribeList(ctx context.Context, uid, listID string, onChange ListObserver) (Unsubscribe, error) {
	if _, err := s.GetList(ctx, uid, listID); err != nil {
		return nil, err
	}

	push := func(ctx context.Context) bool {
		l, err := s.store.GetList(ctx, listID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			onChange(nil)
			return true
		case err != nil:
			if ctx.Err() == nil {
				logger.WithContext(ctx).Warn("list subscription read failed", "list_id", listID, "error", err)
			}
			return false
		case l.OwnerID != uid:
			onChange(nil)
			return true
		}
		onChange(l)
		return false
	}
	return s.watch(ctx, "list", feed.ListTopic(listID), push), nil
}

// SubscribeProfile delivers the current profile and then every later
// version until the returned Unsubscribe is called or ctx ends.
func (s *TaskService) SubscribeProfile(ctx context.Context, uid string, onChange ProfileObserver) (Unsubscribe, error) {
	if _, err := s.GetProfile(ctx, uid); err != nil {
		return nil, err
	}

	push := func(ctx context.Context) bool {
		p, err := s.GetProfile(ctx, uid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return true
			}
			if ctx.Err() == nil {
				logger.WithContext(ctx).Warn("profile subscription read failed", "user_id", uid, "error", err)
			}
			return false
		}
		onChange(p)
		return false
	}
	return s.watch(ctx, "profile", feed.ProfileTopic(uid), push), nil
}

// watch subscribes to topic before the first read so no change between the
// read and the subscription is missed. push returns true to end the
// subscription.
func (s *TaskService) watch(parent context.Context, kind, topic string, push func(context.Context) bool) Unsubscribe {
	sub := s.feed.Subscribe(topic)
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	ActiveSubscriptions.WithLabelValues(kind).Inc()
	go func() {
		defer close(done)
		defer sub.Close()
		defer ActiveSubscriptions.WithLabelValues(kind).Dec()

		if push(ctx) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok || ctx.Err() != nil {
					return
				}
				if push(ctx) {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			sub.Close()
			<-done
		})
	}
}
