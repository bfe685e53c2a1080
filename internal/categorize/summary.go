package categorize

import (
	"sort"

	"tasklists/internal/domain"
)

// Summaries projects lists into profile summaries, counting from each list's
// tasks rather than trusting stored counters.
func Summaries(lists []*domain.TaskList) []domain.ListSummary {
	out := make([]domain.ListSummary, 0, len(lists))
	for _, l := range lists {
		if l == nil {
			continue
		}
		c := RecomputeCounts(l.Tasks)
		out = append(out, domain.ListSummary{
			ID:             l.ID,
			Title:          l.Title,
			Emoji:          l.Emoji,
			TaskCount:      c.TaskCount,
			CompletedCount: c.CompletedCount,
		})
	}
	return out
}

// SortByOutstanding returns a copy ordered by descending TaskCount; ties keep
// creation order.
func SortByOutstanding(in []domain.ListSummary) []domain.ListSummary {
	out := append([]domain.ListSummary(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TaskCount > out[j].TaskCount })
	return out
}
