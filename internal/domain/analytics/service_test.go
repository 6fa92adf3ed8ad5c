package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sushil23harsana/Task-management/internal/ai"
	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

type mockRepository struct {
	analytics   map[uuid.UUID]*UserAnalytics
	insights    map[uuid.UUID]*AIInsight
	sessions    []FocusSession
	predictions map[uuid.UUID]*TaskPrediction
	reports     []WeeklyReport

	lastActiveOnly bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		analytics:   make(map[uuid.UUID]*UserAnalytics),
		insights:    make(map[uuid.UUID]*AIInsight),
		predictions: make(map[uuid.UUID]*TaskPrediction),
	}
}

func (m *mockRepository) GetOrCreateUserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, bool, error) {
	if a, ok := m.analytics[userID]; ok {
		cp := *a
		return &cp, false, nil
	}
	a := &UserAnalytics{ID: uuid.New(), UserID: userID, MostProductiveDay: "Monday", MostProductiveHour: 9}
	m.analytics[userID] = a
	cp := *a
	return &cp, true, nil
}

func (m *mockRepository) SaveUserAnalytics(ctx context.Context, analytics *UserAnalytics) error {
	cp := *analytics
	m.analytics[analytics.UserID] = &cp
	return nil
}

func (m *mockRepository) ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error) {
	return m.reports, nil
}

func (m *mockRepository) CreateInsight(ctx context.Context, insight *AIInsight) error {
	if insight.ID == uuid.Nil {
		insight.ID = uuid.New()
	}
	insight.CreatedAt = time.Now()
	cp := *insight
	m.insights[insight.ID] = &cp
	return nil
}

func (m *mockRepository) ListInsights(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]AIInsight, error) {
	m.lastActiveOnly = activeOnly
	var out []AIInsight
	for _, i := range m.insights {
		if i.UserID != userID {
			continue
		}
		if activeOnly && i.IsDismissed {
			continue
		}
		out = append(out, *i)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) GetInsight(ctx context.Context, userID, insightID uuid.UUID) (*AIInsight, error) {
	i, ok := m.insights[insightID]
	if !ok || i.UserID != userID {
		return nil, ErrInsightNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *mockRepository) UpdateInsight(ctx context.Context, insight *AIInsight) error {
	if _, ok := m.insights[insight.ID]; !ok {
		return ErrInsightNotFound
	}
	cp := *insight
	m.insights[insight.ID] = &cp
	return nil
}

func (m *mockRepository) CountInsights(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, i := range m.insights {
		if i.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockRepository) CreateFocusSession(ctx context.Context, session *FocusSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	m.sessions = append(m.sessions, *session)
	return nil
}

func (m *mockRepository) ListFocusSessions(ctx context.Context, userID uuid.UUID, limit int) ([]FocusSession, error) {
	var out []FocusSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockRepository) ListFocusSessionsOn(ctx context.Context, userID uuid.UUID, date time.Time) ([]FocusSession, error) {
	var out []FocusSession
	for _, s := range m.sessions {
		if s.UserID == userID && s.StartTime.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockRepository) CreatePrediction(ctx context.Context, prediction *TaskPrediction) error {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}
	cp := *prediction
	m.predictions[prediction.ID] = &cp
	return nil
}

func (m *mockRepository) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]TaskPrediction, error) {
	var out []TaskPrediction
	for _, p := range m.predictions {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) GetPrediction(ctx context.Context, userID, predictionID uuid.UUID) (*TaskPrediction, error) {
	p, ok := m.predictions[predictionID]
	if !ok || p.UserID != userID {
		return nil, ErrPredictionNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) UpdatePrediction(ctx context.Context, prediction *TaskPrediction) error {
	if _, ok := m.predictions[prediction.ID]; !ok {
		return ErrPredictionNotFound
	}
	cp := *prediction
	m.predictions[prediction.ID] = &cp
	return nil
}

type mockTaskReader struct {
	tasks      []task.Task
	categories []task.Category
	err        error
}

func (m *mockTaskReader) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	return m.tasks, m.err
}

func (m *mockTaskReader) FindCategories(ctx context.Context) ([]task.Category, error) {
	return m.categories, nil
}

type mockClient struct {
	analyzeResult ai.AnalysisResult
	suggestResult ai.AnalysisResult

	analyzeCalls int
	suggestCalls int
	lastAnalyzed []ai.TaskSummary
	lastContext  ai.UserContext
}

func (m *mockClient) AnalyzeTaskProductivity(ctx context.Context, tasks []ai.TaskSummary) ai.AnalysisResult {
	m.analyzeCalls++
	m.lastAnalyzed = tasks
	return m.analyzeResult
}

func (m *mockClient) GenerateTaskSuggestions(ctx context.Context, userCtx ai.UserContext) ai.AnalysisResult {
	m.suggestCalls++
	m.lastContext = userCtx
	return m.suggestResult
}

func newAnalyticsService(repo Repository, tasks TaskReader, client InsightClient) *service {
	return &service{
		repo:       repo,
		tasks:      tasks,
		client:     client,
		aggregator: NewAggregator(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
}

func someTasks(n int, completed int) []task.Task {
	out := make([]task.Task, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		t := task.Task{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Task %d", i+1),
			Status:    task.TaskStatusTodo,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		if i < completed {
			done := now.Add(-time.Duration(i) * time.Minute)
			t.Status = task.TaskStatusCompleted
			t.CompletedAt = &done
		}
		out = append(out, t)
	}
	return out
}

func TestGenerateInsightsNeedsFiveTasks(t *testing.T) {
	client := &mockClient{}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{tasks: someTasks(4, 2)}, client)

	result, err := svc.GenerateInsights(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "Need at least 5 tasks for meaningful AI analysis", result.Message)
	assert.Equal(t, 0, result.InsightsGenerated)
	assert.Nil(t, result.Insight)
	assert.Equal(t, 0, client.analyzeCalls, "client should not be called")
}

func TestGenerateInsightsPersistsInsight(t *testing.T) {
	repo := newMockRepository()
	client := &mockClient{analyzeResult: ai.AnalysisResult{
		Status: ai.StatusOK,
		Data: map[string]any{
			"productivity_score":   float64(82),
			"completion_rate":      "75%",
			"most_productive_time": "morning",
			"task_patterns":        "steady output through the week",
			"recommendations":      []any{"Batch small tasks", "Protect your mornings"},
			"weekly_trend":         "upward",
			"focus_areas":          []any{"Planning ahead"},
		},
	}}
	svc := newAnalyticsService(repo, &mockTaskReader{tasks: someTasks(8, 6)}, client)
	userID := uuid.New()

	result, err := svc.GenerateInsights(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.InsightsGenerated)
	assert.NotNil(t, result.Insight)
	assert.Equal(t, fmt.Sprintf("Productivity Analysis - %s", time.Now().Format("January 2006")), result.Insight.Title)
	assert.Equal(t, 0.85, result.Insight.ConfidenceScore)
	assert.Equal(t, 8, result.Insight.TasksAnalyzed)
	assert.Contains(t, result.Insight.Content, "**Productivity Score:** 82/100")
	assert.Contains(t, result.Insight.Content, "**Completion Rate:** 75%")
	assert.Contains(t, result.Insight.Content, "**Most Productive Time:** morning")
	assert.Contains(t, result.Insight.Content, "• Batch small tasks\n• Protect your mornings")
	assert.Contains(t, result.Insight.Content, "**Weekly Trend:** upward")
	assert.Contains(t, result.Insight.Content, "• Planning ahead")

	stored, err := repo.GetInsight(context.Background(), userID, result.Insight.ID)
	assert.NoError(t, err)
	assert.Equal(t, InsightTypeProductivity, stored.InsightType)
}

func TestGenerateInsightsAnalyzesTaskSnapshot(t *testing.T) {
	catID := uuid.New()
	tasks := someTasks(6, 4)
	tasks[0].CategoryID = &catID
	estimate := 45
	tasks[0].EstimatedDuration = &estimate

	reader := &mockTaskReader{
		tasks:      tasks,
		categories: []task.Category{{ID: catID, Name: "Work"}},
	}
	client := &mockClient{analyzeResult: ai.AnalysisResult{
		Status: ai.StatusOK,
		Data:   map[string]any{"productivity_score": float64(70)},
	}}
	svc := newAnalyticsService(newMockRepository(), reader, client)

	_, err := svc.GenerateInsights(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, 1, client.analyzeCalls, "analysis must run exactly once")
	assert.Len(t, client.lastAnalyzed, 6)

	first := client.lastAnalyzed[0]
	assert.Equal(t, tasks[0].Title, first.Title)
	assert.Equal(t, "Work", first.Category)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, 45, *first.EstimatedDuration)
	assert.True(t, first.Completed)
	assert.NotNil(t, first.CompletedAt)
}

func TestGenerateInsightsContentDefaults(t *testing.T) {
	client := &mockClient{analyzeResult: ai.AnalysisResult{
		Status: ai.StatusFallback,
		Data: map[string]any{
			"productivity_score": float64(75),
			"completion_rate":    "Data analysis in progress",
			"recommendations":    []any{"Keep tracking your tasks consistently"},
			"analysis_text":      "no structured output",
		},
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{tasks: someTasks(5, 2)}, client)

	result, err := svc.GenerateInsights(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Contains(t, result.Insight.Content, "**Productivity Score:** 75/100")
	assert.Contains(t, result.Insight.Content, "**Most Productive Time:** N/A")
	assert.Contains(t, result.Insight.Content, "**Key Patterns:** N/A")
	assert.Contains(t, result.Insight.Content, "**Weekly Trend:** N/A")
	assert.Contains(t, result.Insight.Content, "• Keep tracking your tasks consistently")
}

func TestGenerateInsightsClientError(t *testing.T) {
	client := &mockClient{analyzeResult: ai.AnalysisResult{
		Status:  ai.StatusError,
		Message: "connection refused",
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{tasks: someTasks(10, 5)}, client)

	result, err := svc.GenerateInsights(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrInsightGenerationFailed)
	assert.Nil(t, result)
}

func TestSubmitInsightFeedbackSetsViewedOnce(t *testing.T) {
	repo := newMockRepository()
	svc := newAnalyticsService(repo, &mockTaskReader{}, &mockClient{})
	userID := uuid.New()

	insight := &AIInsight{UserID: userID, Title: "Test", Content: "body"}
	assert.NoError(t, repo.CreateInsight(context.Background(), insight))

	helpful := true
	updated, err := svc.SubmitInsightFeedback(context.Background(), userID, insight.ID, InsightFeedbackInput{IsHelpful: &helpful})
	assert.NoError(t, err)
	assert.NotNil(t, updated.ViewedAt)
	assert.NotNil(t, updated.IsHelpful)
	assert.True(t, *updated.IsHelpful)

	firstViewed := *updated.ViewedAt
	time.Sleep(5 * time.Millisecond)

	dismissed := true
	again, err := svc.SubmitInsightFeedback(context.Background(), userID, insight.ID, InsightFeedbackInput{IsDismissed: &dismissed})
	assert.NoError(t, err)
	assert.Equal(t, firstViewed, *again.ViewedAt, "viewed_at must not change on later feedback")
	assert.True(t, again.IsDismissed)
}

func TestSubmitInsightFeedbackEmptyPayload(t *testing.T) {
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{}, &mockClient{})

	_, err := svc.SubmitInsightFeedback(context.Background(), uuid.New(), uuid.New(), InsightFeedbackInput{})

	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestListInsightsFiltersDismissed(t *testing.T) {
	repo := newMockRepository()
	svc := newAnalyticsService(repo, &mockTaskReader{}, &mockClient{})
	userID := uuid.New()

	keep := &AIInsight{UserID: userID, Title: "Keep", Content: "x"}
	gone := &AIInsight{UserID: userID, Title: "Gone", Content: "y", IsDismissed: true}
	assert.NoError(t, repo.CreateInsight(context.Background(), keep))
	assert.NoError(t, repo.CreateInsight(context.Background(), gone))

	insights, err := svc.ListInsights(context.Background(), userID, 10)

	assert.NoError(t, err)
	assert.True(t, repo.lastActiveOnly)
	assert.Len(t, insights, 1)
	assert.Equal(t, "Keep", insights[0].Title)

	// Direct fetch still works for a dismissed insight
	fetched, err := svc.GetInsight(context.Background(), userID, gone.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Gone", fetched.Title)
}

func TestSuggestionsFallbackOn200(t *testing.T) {
	client := &mockClient{suggestResult: ai.AnalysisResult{
		Status:  ai.StatusError,
		Message: "timeout",
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{}, client)

	result, err := svc.Suggestions(context.Background(), uuid.New())

	assert.NoError(t, err, "suggestion failure must not surface an error")
	assert.Equal(t, "fallback", result.Source)
	assert.Len(t, result.Suggestions, 5)
	assert.Equal(t, "Review your current project status", result.Suggestions[0])
	assert.Equal(t, "Clean up your workspace", result.Suggestions[4])
}

func TestSuggestionsFromClient(t *testing.T) {
	client := &mockClient{suggestResult: ai.AnalysisResult{
		Status: ai.StatusOK,
		Items: []map[string]any{
			{"suggestion": "Write the release notes"},
			{"suggestion": "Water the plants"},
		},
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{}, client)

	result, err := svc.Suggestions(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "ai", result.Source)
	assert.Equal(t, []string{"Write the release notes", "Water the plants"}, result.Suggestions)
}

func TestSuggestionsKeepClientFallbackList(t *testing.T) {
	client := &mockClient{suggestResult: ai.AnalysisResult{
		Status: ai.StatusFallback,
		Items: []map[string]any{
			{"suggestion": "Review and organize your workspace"},
			{"suggestion": "Plan tomorrow's priorities"},
		},
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{}, client)

	result, err := svc.Suggestions(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "ai", result.Source)
	assert.Equal(t, []string{"Review and organize your workspace", "Plan tomorrow's priorities"}, result.Suggestions)
}

func TestSuggestionsBuildUserContext(t *testing.T) {
	catID := uuid.New()
	tasks := someTasks(12, 3)
	tasks[0].CategoryID = &catID
	tasks[3].CategoryID = &catID

	reader := &mockTaskReader{
		tasks:      tasks,
		categories: []task.Category{{ID: catID, Name: "Learning"}},
	}
	client := &mockClient{suggestResult: ai.AnalysisResult{Status: ai.StatusOK}}
	svc := newAnalyticsService(newMockRepository(), reader, client)

	_, err := svc.Suggestions(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Len(t, client.lastContext.RecentTasks, 10, "at most ten recent titles")
	assert.Equal(t, "Task 1", client.lastContext.RecentTasks[0])
	assert.Equal(t, []string{"Learning"}, client.lastContext.Categories, "category names are distinct")
	assert.Contains(t, []string{"morning", "afternoon", "evening"}, client.lastContext.CurrentTime)
}

func TestDashboardSuggestionGuard(t *testing.T) {
	client := &mockClient{suggestResult: ai.AnalysisResult{
		Status:  ai.StatusError,
		Message: "dial tcp: connection refused",
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{tasks: someTasks(3, 1)}, client)

	dashboard, err := svc.GetDashboard(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, dashboardFallbackSuggestions, dashboard.Suggestions)
	assert.Len(t, dashboard.WeeklyTrends, 4)
	assert.Len(t, dashboard.ScoreTrend, 7)
	assert.NotNil(t, dashboard.Analytics)
}

func TestDashboardKeepsClientFallbackSuggestions(t *testing.T) {
	client := &mockClient{suggestResult: ai.AnalysisResult{
		Status: ai.StatusFallback,
		Items: []map[string]any{
			{"suggestion": "Review and organize your workspace"},
			{"suggestion": "Take a 15-minute break"},
		},
	}}
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{tasks: someTasks(3, 1)}, client)

	dashboard, err := svc.GetDashboard(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, []string{"Review and organize your workspace", "Take a 15-minute break"}, dashboard.Suggestions,
		"a parse fallback still carries usable suggestions")
}

func TestGetOverviewDefaults(t *testing.T) {
	svc := newAnalyticsService(newMockRepository(), &mockTaskReader{}, &mockClient{})

	overview, err := svc.GetOverview(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "Monday", overview.BestDay)
	assert.Equal(t, 9, overview.BestHour)
	assert.Equal(t, 75.0, overview.WeeklyGoalProgress)
	assert.Equal(t, "upward", overview.MonthlySummary["productivity_trend"])
	assert.Equal(t, 0, overview.MonthlySummary["focus_hours"])
}

func TestGetOverviewRoundsScores(t *testing.T) {
	repo := newMockRepository()
	userID := uuid.New()
	repo.analytics[userID] = &UserAnalytics{
		ID:                uuid.New(),
		UserID:            userID,
		ProductivityScore: 82.4567,
	}
	svc := newAnalyticsService(repo, &mockTaskReader{tasks: someTasks(3, 2)}, &mockClient{})

	overview, err := svc.GetOverview(context.Background(), userID)

	assert.NoError(t, err)
	assert.InDelta(t, 82.46, overview.ProductivityScore, 1e-9)
	assert.InDelta(t, 66.67, overview.CompletionRate, 1e-9)
	assert.Equal(t, 3, overview.MonthlySummary["total_tasks"])
	assert.Equal(t, 2, overview.MonthlySummary["tasks_completed"])
}

func TestUpdateUserAnalyticsSurvivesRecompute(t *testing.T) {
	repo := newMockRepository()
	svc := newAnalyticsService(repo, &mockTaskReader{tasks: someTasks(6, 3)}, &mockClient{})
	userID := uuid.New()

	day := "Friday"
	hour := 14
	score := 88.5
	_, err := svc.UpdateUserAnalytics(context.Background(), userID, UpdateAnalyticsInput{
		MostProductiveDay:  &day,
		MostProductiveHour: &hour,
		ProductivityScore:  &score,
	})
	assert.NoError(t, err)

	// Reads recompute totals and streak but must leave the
	// user-edited fields alone.
	analytics, err := svc.GetUserAnalytics(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, "Friday", analytics.MostProductiveDay)
	assert.Equal(t, 14, analytics.MostProductiveHour)
	assert.Equal(t, 88.5, analytics.ProductivityScore)
	assert.Equal(t, 6, analytics.TotalTasksCreated)
	assert.Equal(t, 3, analytics.TotalTasksCompleted)
}

func TestRecordPredictionActual(t *testing.T) {
	repo := newMockRepository()
	svc := newAnalyticsService(repo, &mockTaskReader{}, &mockClient{})
	userID := uuid.New()

	prediction := &TaskPrediction{PredictedDuration: 60, PredictedDifficulty: DifficultyMedium}
	assert.NoError(t, svc.CreatePrediction(context.Background(), userID, prediction))

	updated, err := svc.RecordPredictionActual(context.Background(), userID, prediction.ID, 90, DifficultyHard, true)

	assert.NoError(t, err)
	assert.Equal(t, 90, *updated.ActualDuration)
	assert.Equal(t, DifficultyHard, *updated.ActualDifficulty)
	assert.True(t, *updated.WasCompleted)
	assert.InDelta(t, 50.0, *updated.PredictionAccuracy, 0.001)
}

func TestCreateFocusSessionDerivesDuration(t *testing.T) {
	repo := newMockRepository()
	svc := newAnalyticsService(repo, &mockTaskReader{}, &mockClient{})
	userID := uuid.New()

	start := time.Now().Add(-50 * time.Minute)
	end := time.Now()
	session := &FocusSession{StartTime: start, EndTime: &end}

	assert.NoError(t, svc.CreateFocusSession(context.Background(), userID, session))
	assert.InDelta(t, 50, session.DurationMinutes, 1)

	bad := 0
	err := svc.CreateFocusSession(context.Background(), userID, &FocusSession{StartTime: start, FocusScore: &bad})
	assert.ErrorIs(t, err, ErrInvalidSession)
}
