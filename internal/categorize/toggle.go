package categorize

import (
	"time"

	"tasklists/internal/domain"
)

// ToggleCompletion flips the completed flag. Completing stamps CompletedAt
// with now; un-completing clears it.
func ToggleCompletion(t domain.Task, now time.Time) domain.Task {
	t.Completed = !t.Completed
	if t.Completed {
		ms := now.UnixMilli()
		t.CompletedAt = &ms
	} else {
		t.CompletedAt = nil
	}
	return t
}

// SetCompletion moves t to the requested completion state. A task already in
// that state is returned unchanged, keeping its original CompletedAt.
func SetCompletion(t domain.Task, completed bool, now time.Time) domain.Task {
	if t.Completed == completed {
		return t
	}
	return ToggleCompletion(t, now)
}

// State is the view-time status of a task. Overdue is never persisted.
type State string

const (
	StatePending   State = "pending"
	StateOverdue   State = "overdue"
	StateCompleted State = "completed"
)

func StateOf(t domain.Task, now time.Time) State {
	switch {
	case t.Completed:
		return StateCompleted
	case isOverdue(t, now):
		return StateOverdue
	default:
		return StatePending
	}
}

// States maps task ids to their state at now.
func States(tasks []domain.Task, now time.Time) map[string]State {
	out := make(map[string]State, len(tasks))
	for _, t := range tasks {
		out[t.ID] = StateOf(t, now)
	}
	return out
}
