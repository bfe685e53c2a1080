package domain

import "time"

// Task is one actionable item inside a TaskList.
// CompletedAt is set if and only if Completed is true.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Emoji       string `json:"emoji"`
	CompleteBy  int64  `json:"completeByTimestamp"` // epoch ms
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"` // epoch ms, nil while incomplete
	ParentID    string `json:"parentTaskId"`
}

// DueAt returns the deadline as a time in loc.
func (t Task) DueAt(loc *time.Location) time.Time {
	return time.UnixMilli(t.CompleteBy).In(loc)
}
