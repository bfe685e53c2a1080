package categorize

import "tasklists/internal/domain"

// Counts are the cached counters of a TaskList.
type Counts struct {
	TaskCount      int `json:"task_count"`
	CompletedCount int `json:"completed_count"`
}

// RecomputeCounts derives the counters from the authoritative task slice.
func RecomputeCounts(tasks []domain.Task) Counts {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return Counts{TaskCount: len(tasks) - completed, CompletedCount: completed}
}

// ApplyCounts rewrites l's counters from l.Tasks. Call it in the same write
// that changes the tasks.
func ApplyCounts(l *domain.TaskList) {
	c := RecomputeCounts(l.Tasks)
	l.TaskCount = c.TaskCount
	l.CompletedCount = c.CompletedCount
}
