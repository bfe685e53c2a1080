package categorize

import (
	"strings"
	"time"

	"tasklists/internal/domain"
)

// DateFilter restricts the incomplete bucket of a list view to one calendar
// day. The zero value lets every day through.
type DateFilter struct {
	onDay bool
	day   time.Time
}

// AllDates is the "show all" filter.
func AllDates() DateFilter { return DateFilter{} }

// OnDay keeps incomplete tasks due on the calendar day of t.
func OnDay(t time.Time) DateFilter { return DateFilter{onDay: true, day: t} }

func (f DateFilter) String() string {
	if !f.onDay {
		return "all"
	}
	return f.day.Format(time.DateOnly)
}

// ParseDateFilter accepts "", "all" or a YYYY-MM-DD date interpreted in loc.
func ParseDateFilter(s string, loc *time.Location) (DateFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllDates(), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return DateFilter{}, domain.NewValidationError("date", "expected YYYY-MM-DD or all")
	}
	return OnDay(day), nil
}

// ListView is the per-list breakdown shown on a list page.
type ListView struct {
	Completed  []domain.Task `json:"completed"`
	Incomplete []domain.Task `json:"incomplete"`
	Overdue    []domain.Task `json:"overdue"`
}

// CategorizeList partitions tasks into completed (by completion time),
// overdue and the remaining incomplete tasks (by deadline, optionally limited
// to the filter's day).
func CategorizeList(tasks []domain.Task, now time.Time, filter DateFilter) ListView {
	view := ListView{
		Completed:  []domain.Task{},
		Incomplete: []domain.Task{},
		Overdue:    []domain.Task{},
	}

	var filterDay int
	if filter.onDay {
		filterDay = dayKey(filter.day.In(now.Location()))
	}

	for _, t := range tasks {
		switch {
		case t.Completed:
			view.Completed = append(view.Completed, t)
		case isOverdue(t, now):
			view.Overdue = append(view.Overdue, t)
		case !filter.onDay || dayKey(t.DueAt(now.Location())) == filterDay:
			view.Incomplete = append(view.Incomplete, t)
		}
	}

	sortByCompletedAt(view.Completed)
	sortByDue(view.Incomplete)
	sortByDue(view.Overdue)
	return view
}
