package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

func completedTask(at time.Time, duration *int) task.Task {
	return task.Task{
		ID:             uuid.New(),
		Status:         task.TaskStatusCompleted,
		CompletedAt:    &at,
		ActualDuration: duration,
		CreatedAt:      at.Add(-time.Hour),
	}
}

func openTask(createdAt time.Time) task.Task {
	return task.Task{
		ID:        uuid.New(),
		Status:    task.TaskStatusTodo,
		CreatedAt: createdAt,
	}
}

func TestRecomputeTotals(t *testing.T) {
	g := NewAggregator()
	today := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	dur := 90

	tasks := []task.Task{
		completedTask(today.Add(-48*time.Hour), &dur),
		completedTask(today.Add(-24*time.Hour), nil),
		openTask(today.Add(-72 * time.Hour)),
	}

	analytics := &UserAnalytics{}
	g.Recompute(analytics, tasks, today)

	assert.Equal(t, 3, analytics.TotalTasksCreated)
	assert.Equal(t, 2, analytics.TotalTasksCompleted)
	assert.NotNil(t, analytics.AvgCompletionTime)
	assert.InDelta(t, 1.5, *analytics.AvgCompletionTime, 0.001)
}

func TestRecomputeNoTasks(t *testing.T) {
	g := NewAggregator()
	analytics := &UserAnalytics{}

	g.Recompute(analytics, nil, time.Now())

	assert.Equal(t, 0, analytics.TotalTasksCreated)
	assert.Equal(t, 0, analytics.TotalTasksCompleted)
	assert.Nil(t, analytics.AvgCompletionTime)
	assert.Equal(t, 0.0, analytics.CompletionRate())
	assert.Equal(t, 0, analytics.CurrentStreak)
}

func TestRecomputeLeavesEditableFieldsAlone(t *testing.T) {
	g := NewAggregator()
	today := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

	// Completions on a Tuesday morning must not drag the row toward
	// Tuesday/9am: these fields belong to the update endpoint.
	tuesday := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		completedTask(tuesday, nil),
		completedTask(tuesday.Add(time.Hour), nil),
		openTask(today),
	}

	analytics := &UserAnalytics{
		ProductivityScore:     88.5,
		ConsistencyScore:      40,
		MostProductiveDay:     "Friday",
		MostProductiveHour:    14,
		PreferredWorkDuration: 50,
	}
	g.Recompute(analytics, tasks, today)

	assert.Equal(t, 88.5, analytics.ProductivityScore)
	assert.Equal(t, 40.0, analytics.ConsistencyScore)
	assert.Equal(t, "Friday", analytics.MostProductiveDay)
	assert.Equal(t, 14, analytics.MostProductiveHour)
	assert.Equal(t, 50, analytics.PreferredWorkDuration)
	assert.Equal(t, 3, analytics.TotalTasksCreated)
	assert.Equal(t, 2, analytics.TotalTasksCompleted)
}

func TestCompletionRateZeroDivision(t *testing.T) {
	analytics := &UserAnalytics{TotalTasksCreated: 0, TotalTasksCompleted: 0}
	assert.Equal(t, 0.0, analytics.CompletionRate())

	analytics = &UserAnalytics{TotalTasksCreated: 4, TotalTasksCompleted: 3}
	assert.InDelta(t, 75.0, analytics.CompletionRate(), 0.001)
}

func TestStreakAdvance(t *testing.T) {
	g := NewAggregator()
	today := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)

	tests := []struct {
		name        string
		lastActive  *time.Time
		current     int
		longest     int
		tasks       []task.Task
		wantCurrent int
		wantLongest int
		wantActive  *time.Time
	}{
		{
			name:        "consecutive day extends streak",
			lastActive:  &yesterday,
			current:     3,
			longest:     5,
			tasks:       []task.Task{completedTask(today, nil)},
			wantCurrent: 4,
			wantLongest: 5,
			wantActive:  &today,
		},
		{
			name:        "gap restarts streak at one",
			lastActive:  &threeDaysAgo,
			current:     6,
			longest:     6,
			tasks:       []task.Task{completedTask(today, nil)},
			wantCurrent: 1,
			wantLongest: 6,
			wantActive:  &today,
		},
		{
			name:        "already updated today is a no-op",
			lastActive:  &today,
			current:     4,
			longest:     4,
			tasks:       []task.Task{completedTask(today, nil)},
			wantCurrent: 4,
			wantLongest: 4,
			wantActive:  &today,
		},
		{
			name:        "no completion today leaves streak alone",
			lastActive:  &threeDaysAgo,
			current:     6,
			longest:     6,
			tasks:       []task.Task{openTask(today)},
			wantCurrent: 6,
			wantLongest: 6,
			wantActive:  &threeDaysAgo,
		},
		{
			name:        "first ever completion",
			lastActive:  nil,
			current:     0,
			longest:     0,
			tasks:       []task.Task{completedTask(today, nil)},
			wantCurrent: 1,
			wantLongest: 1,
			wantActive:  &today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analytics := &UserAnalytics{
				CurrentStreak:  tt.current,
				LongestStreak:  tt.longest,
				LastActiveDate: tt.lastActive,
			}
			g.Recompute(analytics, tt.tasks, today)

			assert.Equal(t, tt.wantCurrent, analytics.CurrentStreak)
			assert.Equal(t, tt.wantLongest, analytics.LongestStreak)
			if tt.wantActive == nil {
				assert.Nil(t, analytics.LastActiveDate)
			} else {
				assert.NotNil(t, analytics.LastActiveDate)
				assert.Equal(t, dateOf(*tt.wantActive), dateOf(*analytics.LastActiveDate))
			}
			assert.LessOrEqual(t, analytics.CurrentStreak, analytics.LongestStreak)
		})
	}
}

func TestStreakNewRecordUpdatesLongest(t *testing.T) {
	g := NewAggregator()
	today := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	analytics := &UserAnalytics{
		CurrentStreak:  5,
		LongestStreak:  5,
		LastActiveDate: &yesterday,
	}
	g.Recompute(analytics, []task.Task{completedTask(today, nil)}, today)

	assert.Equal(t, 6, analytics.CurrentStreak)
	assert.Equal(t, 6, analytics.LongestStreak)
}

func TestWeeklyTrendsShape(t *testing.T) {
	g := NewAggregator()
	// A Friday; Monday of this week is 2026-08-24
	today := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	thisWeek := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC)

	tasks := []task.Task{
		completedTask(thisWeek, nil),
		openTask(thisWeek),
		completedTask(lastWeek, nil),
	}

	trends := g.WeeklyTrends(tasks, today)

	assert.Len(t, trends, 4)
	assert.Equal(t, "Week 1", trends[0].Week)
	assert.Equal(t, "2026-08-24", trends[0].WeekStart)
	assert.Equal(t, "Week 4", trends[3].Week)

	for _, trend := range trends {
		assert.GreaterOrEqual(t, trend.CompletionRate, 0.0)
		assert.LessOrEqual(t, trend.CompletionRate, 100.0)

		weekStart, err := time.Parse("2006-01-02", trend.WeekStart)
		assert.NoError(t, err)
		assert.Equal(t, time.Monday, weekStart.Weekday())
	}

	// This week: the completed task was created an hour before its
	// completion, still within the week, so 2 created, 1 completed.
	assert.Equal(t, 2, trends[0].TasksCreated)
	assert.Equal(t, 1, trends[0].TasksCompleted)
	assert.InDelta(t, 50.0, trends[0].CompletionRate, 0.001)
}

func TestWeeklyTrendsEmpty(t *testing.T) {
	g := NewAggregator()

	trends := g.WeeklyTrends(nil, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))

	assert.Len(t, trends, 4)
	for _, trend := range trends {
		assert.Equal(t, 0, trend.TasksCreated)
		assert.Equal(t, 0, trend.TasksCompleted)
		assert.Equal(t, 0.0, trend.CompletionRate)
	}
}
