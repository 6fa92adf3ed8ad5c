package analytics

import (
	"fmt"
	"time"

	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

// Aggregator recomputes analytics rollups from loaded task rows. All
// methods are pure functions of their inputs so they can be tested
// without a database.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Recompute updates the task rollups and streak in place from the
// user's full task set. Fields editable through the analytics update
// endpoint (scores, most productive day/hour, preferred duration) are
// never touched here. today should be the caller's notion of the
// current date; it is truncated to a date internally.
func (g *Aggregator) Recompute(analytics *UserAnalytics, tasks []task.Task, today time.Time) {
	today = dateOf(today)

	created := len(tasks)
	completed := 0
	completedToday := 0
	var durationSum, durationCount int

	for i := range tasks {
		t := &tasks[i]
		if !t.IsCompleted() {
			continue
		}
		completed++
		if t.CompletedAt != nil && dateOf(*t.CompletedAt).Equal(today) {
			completedToday++
		}
		if t.ActualDuration != nil {
			durationSum += *t.ActualDuration
			durationCount++
		}
	}

	analytics.TotalTasksCreated = created
	analytics.TotalTasksCompleted = completed

	if durationCount > 0 {
		hours := float64(durationSum) / float64(durationCount) / 60.0
		analytics.AvgCompletionTime = &hours
	} else {
		analytics.AvgCompletionTime = nil
	}

	g.advanceStreak(analytics, completedToday, today)
}

// advanceStreak applies the streak rules: a day with at least one
// completion either extends yesterday's streak or starts a new one.
// Gaps do not break the streak until the next completion day.
func (g *Aggregator) advanceStreak(analytics *UserAnalytics, completedToday int, today time.Time) {
	if analytics.LastActiveDate != nil && dateOf(*analytics.LastActiveDate).Equal(today) {
		return
	}
	if completedToday == 0 {
		return
	}

	yesterday := today.AddDate(0, 0, -1)
	if analytics.LastActiveDate != nil && dateOf(*analytics.LastActiveDate).Equal(yesterday) {
		analytics.CurrentStreak++
	} else {
		analytics.CurrentStreak = 1
	}
	analytics.LastActiveDate = &today

	if analytics.CurrentStreak > analytics.LongestStreak {
		analytics.LongestStreak = analytics.CurrentStreak
	}
}

// WeeklyTrends returns exactly four Monday-start week entries, the
// current week first. Completion rate is completed/created within the
// week, 0 when nothing was created.
func (g *Aggregator) WeeklyTrends(tasks []task.Task, today time.Time) []WeeklyTrend {
	today = dateOf(today)

	// Monday of the current week. Go's Weekday has Sunday=0.
	weekdayIndex := (int(today.Weekday()) + 6) % 7
	currentMonday := today.AddDate(0, 0, -weekdayIndex)

	trends := make([]WeeklyTrend, 0, 4)
	for i := 0; i < 4; i++ {
		weekStart := currentMonday.AddDate(0, 0, -i*7)
		weekEnd := weekStart.AddDate(0, 0, 7)

		var createdCount, completedCount int
		for j := range tasks {
			t := &tasks[j]
			if inRange(t.CreatedAt, weekStart, weekEnd) {
				createdCount++
			}
			if t.CompletedAt != nil && inRange(*t.CompletedAt, weekStart, weekEnd) {
				completedCount++
			}
		}

		rate := 0.0
		if createdCount > 0 {
			rate = float64(completedCount) / float64(createdCount) * 100
		}

		trends = append(trends, WeeklyTrend{
			Week:           fmt.Sprintf("Week %d", i+1),
			WeekStart:      weekStart.Format("2006-01-02"),
			TasksCreated:   createdCount,
			TasksCompleted: completedCount,
			CompletionRate: rate,
		})
	}
	return trends
}

func inRange(t, start, end time.Time) bool {
	d := dateOf(t)
	return !d.Before(start) && d.Before(end)
}
