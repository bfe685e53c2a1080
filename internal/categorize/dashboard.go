package categorize

import (
	"time"

	"tasklists/internal/domain"
)

// DashboardView holds the incomplete, not-yet-overdue tasks of every list,
// split by calendar day relative to the reference instant.
type DashboardView struct {
	Today    []domain.Task `json:"today"`
	Upcoming []domain.Task `json:"upcoming"`
}

// Dashboard flattens lists (nil entries are skipped), drops completed and
// overdue tasks and buckets the rest by due day, ascending by deadline.
//
// A task due earlier today whose minute has passed is overdue and therefore
// lands in neither bucket.
func Dashboard(lists []*domain.TaskList, now time.Time) DashboardView {
	var pending []domain.Task
	for _, l := range lists {
		if l == nil {
			continue
		}
		for _, t := range l.Tasks {
			if t.Completed || isOverdue(t, now) {
				continue
			}
			pending = append(pending, t)
		}
	}
	sortByDue(pending)

	view := DashboardView{Today: []domain.Task{}, Upcoming: []domain.Task{}}
	today := dayKey(now)
	for _, t := range pending {
		day := dayKey(t.DueAt(now.Location()))
		switch {
		case day == today:
			view.Today = append(view.Today, t)
		case day > today:
			view.Upcoming = append(view.Upcoming, t)
		}
	}
	return view
}
