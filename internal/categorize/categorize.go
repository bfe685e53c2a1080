// Package categorize turns flat task records into the buckets shown by the
// dashboard and list views. Every function is pure; calendar-day and minute
// comparisons happen in the location of the reference instant.
package categorize

import (
	"sort"
	"time"

	"tasklists/internal/domain"
)

// isOverdue compares at minute granularity: a task due within the current
// minute is not yet overdue.
func isOverdue(t domain.Task, now time.Time) bool {
	due := t.DueAt(now.Location())
	return due.Truncate(time.Minute).Before(now.Truncate(time.Minute))
}

// dayKey orders calendar days: yyyymmdd as an int.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func sortByDue(tasks []domain.Task) {
	sortStable(tasks, func(a, b domain.Task) bool { return a.CompleteBy < b.CompleteBy })
}

func sortByCompletedAt(tasks []domain.Task) {
	sortStable(tasks, func(a, b domain.Task) bool { return completedAt(a) < completedAt(b) })
}

func completedAt(t domain.Task) int64 {
	if t.CompletedAt == nil {
		return 0
	}
	return *t.CompletedAt
}

func sortStable(tasks []domain.Task, less func(a, b domain.Task) bool) {
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}
