package domain

import "time"

// TaskList is a named collection of tasks owned by one account.
// TaskCount counts incomplete tasks, CompletedCount completed ones; both are
// rewritten together with Tasks so their sum always equals len(Tasks).
type TaskList struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Emoji          string    `json:"emoji"`
	TaskCount      int       `json:"task_count"`
	CompletedCount int       `json:"completed_count"`
	Tasks          []Task    `json:"tasks"`
	CreatedAt      time.Time `json:"created_at"`
}

// FindTask returns the index of the task with the given id, or -1.
func (l *TaskList) FindTask(id string) int {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// ListSummary is the per-list projection shown on the profile.
type ListSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Emoji          string `json:"emoji"`
	TaskCount      int    `json:"task_count"`
	CompletedCount int    `json:"completed_count"`
}

const (
	DefaultListTitle = "My First List"
	DefaultListEmoji = "📝"
	NewListEmoji     = "💪"
)
