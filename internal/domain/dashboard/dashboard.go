package dashboard

import (
	"time"

	"github.com/uetodo/uetodo-api/internal/domain"
)

// WindowDays is the length of the activity histogram.
const WindowDays = 7

// Summary holds the headline counts.
//
// Remaining is Total minus Completed. Overdue tasks are a subset of the
// remaining ones and are not subtracted a second time.
type Summary struct {
	Total     int `json:"total_task"`
	Overdue   int `json:"total_overdue_tasks"`
	Completed int `json:"total_completed_tasks"`
	Remaining int `json:"total_remaining_tasks"`
}

// PriorityBreakdown counts overdue and completed tasks per priority label.
// Index i of Overdue and Completed corresponds to Categories[i].
type PriorityBreakdown struct {
	Categories [3]string `json:"categories"`
	Overdue    [3]int    `json:"overdue"`
	Completed  [3]int    `json:"completed"`
}

// Activity is the number of tasks started on each of the last seven days,
// oldest first. The final bucket is today.
type Activity struct {
	Days   [WindowDays]string `json:"days"`
	Counts [WindowDays]int    `json:"counts"`
}

// CompletedItem projects a finished task. CompletedAt is the task's last
// update time, which is when its status was flipped.
type CompletedItem struct {
	Name        string
	Description *string
	Priority    *string
	StartDate   *time.Time
	CompletedAt time.Time
}

// UpcomingItem projects an open task that is due today or later.
type UpcomingItem struct {
	Name        string
	Description *string
	Priority    *string
	StartDate   *time.Time
	DueDate     time.Time
}

// Overview lists completed and upcoming tasks in input order. Location is
// the zone the tasks were classified in; dates should be rendered in it.
type Overview struct {
	Completed []CompletedItem
	Upcoming  []UpcomingItem
	Location  *time.Location
}

// dateIn reduces t to midnight UTC of its calendar date in loc so that dates
// from different zones compare by day only.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// IsOverdue reports whether task is incomplete and its due date falls on a
// calendar day strictly before today.
func IsOverdue(task domain.Task, today time.Time, loc *time.Location) bool {
	loc = location(loc)
	if task.Status || task.DueDate == nil {
		return false
	}
	return dateIn(*task.DueDate, loc).Before(dateIn(today, loc))
}

// Summarize counts total, overdue, completed and remaining tasks.
func Summarize(tasks []domain.Task, now time.Time, loc *time.Location) Summary {
	s := Summary{Total: len(tasks)}
	for _, task := range tasks {
		if task.Status {
			s.Completed++
		}
		if IsOverdue(task, now, loc) {
			s.Overdue++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

// priorityIndex returns the position of label in domain.Priorities, or -1.
func priorityIndex(label *string) int {
	if label == nil {
		return -1
	}
	for i, p := range domain.Priorities {
		if p == *label {
			return i
		}
	}
	return -1
}

// Breakdown partitions completed and overdue tasks by priority. Tasks whose
// priority is missing or outside the known labels are skipped.
func Breakdown(tasks []domain.Task, now time.Time, loc *time.Location) PriorityBreakdown {
	b := PriorityBreakdown{Categories: domain.Priorities}
	for _, task := range tasks {
		i := priorityIndex(task.Priority)
		if i < 0 {
			continue
		}
		if task.Status {
			b.Completed[i]++
		}
		if IsOverdue(task, now, loc) {
			b.Overdue[i]++
		}
	}
	return b
}

// WeeklyActivity buckets tasks by the calendar day of their start date over
// today and the six preceding days. Tasks without a start date, or starting
// outside the window, are not counted.
func WeeklyActivity(tasks []domain.Task, now time.Time, loc *time.Location) Activity {
	loc = location(loc)
	today := dateIn(now, loc)
	first := today.AddDate(0, 0, -(WindowDays - 1))

	var a Activity
	for i := 0; i < WindowDays; i++ {
		a.Days[i] = first.AddDate(0, 0, i).Weekday().String()[:3]
	}

	for _, task := range tasks {
		if task.StartDate == nil {
			continue
		}
		start := dateIn(*task.StartDate, loc)
		if start.Before(first) || start.After(today) {
			continue
		}
		// Calendar days in UTC are exactly 24h apart, so the offset is exact.
		a.Counts[int(start.Sub(first).Hours()/24)]++
	}
	return a
}

// BuildOverview projects completed tasks and open tasks due today or later.
func BuildOverview(tasks []domain.Task, now time.Time, loc *time.Location) Overview {
	loc = location(loc)
	today := dateIn(now, loc)

	o := Overview{Completed: []CompletedItem{}, Upcoming: []UpcomingItem{}, Location: loc}
	for _, task := range tasks {
		switch {
		case task.Status:
			o.Completed = append(o.Completed, CompletedItem{
				Name:        task.Name,
				Description: task.Description,
				Priority:    task.Priority,
				StartDate:   task.StartDate,
				CompletedAt: task.UpdatedAt,
			})
		case task.DueDate != nil && !dateIn(*task.DueDate, loc).Before(today):
			o.Upcoming = append(o.Upcoming, UpcomingItem{
				Name:        task.Name,
				Description: task.Description,
				Priority:    task.Priority,
				StartDate:   task.StartDate,
				DueDate:     *task.DueDate,
			})
		}
	}
	return o
}
