package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sushil23harsana/Task-management/internal/ai"
	"github.com/sushil23harsana/Task-management/internal/domain/task"
)

var (
	ErrInsightGenerationFailed = errors.New("insight generation failed")
	ErrInvalidFeedback         = errors.New("invalid feedback payload")
	ErrInvalidSession          = errors.New("invalid focus session")
	ErrInvalidPrediction       = errors.New("invalid prediction")
)

const minTasksForAnalysis = 5

// Suggestions shown on the dashboard when the AI client cannot help
var dashboardFallbackSuggestions = []string{
	"Take a short break",
	"Review your goals",
	"Plan tomorrow's priorities",
}

// Suggestions embedded in the suggestions response when the AI call
// itself fails
var suggestionFallbacks = []string{
	"Review your current project status",
	"Plan your next week's priorities",
	"Take a 15-minute break",
	"Update your task progress",
	"Clean up your workspace",
}

// InsightClient is the slice of the AI client the service depends on
type InsightClient interface {
	AnalyzeTaskProductivity(ctx context.Context, tasks []ai.TaskSummary) ai.AnalysisResult
	GenerateTaskSuggestions(ctx context.Context, userCtx ai.UserContext) ai.AnalysisResult
}

// TaskReader is the slice of the task repository the service needs
type TaskReader interface {
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]task.Task, error)
	FindCategories(ctx context.Context) ([]task.Category, error)
}

// UpdateAnalyticsInput carries the user-editable analytics fields
type UpdateAnalyticsInput struct {
	ProductivityScore     *float64
	ConsistencyScore      *float64
	MostProductiveDay     *string
	MostProductiveHour    *int
	PreferredWorkDuration *int
}

// InsightFeedbackInput is the allowed PATCH surface for an insight.
// Everything else on the record is immutable through the API.
type InsightFeedbackInput struct {
	IsHelpful   *bool
	IsDismissed *bool
}

// GenerateResult reports what an insight generation run produced
type GenerateResult struct {
	Message           string     `json:"message"`
	InsightsGenerated int        `json:"insights_generated"`
	Insight           *AIInsight `json:"insight,omitempty"`
}

// Dashboard is the aggregate payload for the dashboard endpoint
type Dashboard struct {
	Analytics       *UserAnalytics `json:"analytics"`
	CompletionRate  float64        `json:"completion_rate"`
	RecentInsights  []AIInsight    `json:"recent_insights"`
	TodaySessions   []FocusSession `json:"today_focus_sessions"`
	WeeklyTrends    []WeeklyTrend  `json:"weekly_trends"`
	Suggestions     []string       `json:"ai_suggestions"`
	ScoreTrend      []float64      `json:"score_trend"`
	MoodCorrelation map[string]any `json:"mood_correlation"`
}

// Overview is the compact stats payload for the overview endpoint
type Overview struct {
	TotalInsights      int64          `json:"total_insights"`
	ProductivityScore  float64        `json:"productivity_score"`
	CompletionRate     float64        `json:"completion_rate"`
	CurrentStreak      int            `json:"current_streak"`
	LongestStreak      int            `json:"longest_streak"`
	BestDay            string         `json:"best_day"`
	BestHour           int            `json:"best_hour"`
	WeeklyGoalProgress float64        `json:"weekly_goal_progress"`
	MonthlySummary     map[string]any `json:"monthly_summary"`
}

// SuggestionsResult carries the suggestion list plus whether it came
// from the static fallback.
type SuggestionsResult struct {
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}

// Service exposes the analytics domain operations
type Service interface {
	GetUserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error)
	UpdateUserAnalytics(ctx context.Context, userID uuid.UUID, input UpdateAnalyticsInput) (*UserAnalytics, error)

	GenerateInsights(ctx context.Context, userID uuid.UUID) (*GenerateResult, error)
	ListInsights(ctx context.Context, userID uuid.UUID, limit int) ([]AIInsight, error)
	GetInsight(ctx context.Context, userID, insightID uuid.UUID) (*AIInsight, error)
	SubmitInsightFeedback(ctx context.Context, userID, insightID uuid.UUID, input InsightFeedbackInput) (*AIInsight, error)

	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error)
	Suggestions(ctx context.Context, userID uuid.UUID) (*SuggestionsResult, error)

	ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error)

	CreateFocusSession(ctx context.Context, userID uuid.UUID, session *FocusSession) error
	ListFocusSessions(ctx context.Context, userID uuid.UUID, limit int) ([]FocusSession, error)

	CreatePrediction(ctx context.Context, userID uuid.UUID, prediction *TaskPrediction) error
	ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]TaskPrediction, error)
	RecordPredictionActual(ctx context.Context, userID, predictionID uuid.UUID, actualDuration int, actualDifficulty Difficulty, wasCompleted bool) (*TaskPrediction, error)
}

type service struct {
	repo       Repository
	tasks      TaskReader
	client     InsightClient
	aggregator *Aggregator
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, tasks TaskReader, client InsightClient, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		tasks:      tasks,
		client:     client,
		aggregator: NewAggregator(),
		logger:     logger,
		now:        time.Now,
	}
}

// loadFreshAnalytics gets or creates the row and recomputes it from
// the user's current tasks.
func (s *service) loadFreshAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, []task.Task, error) {
	analytics, created, err := s.repo.GetOrCreateUserAnalytics(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if created {
		s.logger.Info("Analytics record created", zap.String("user_id", userID.String()))
	}

	tasks, err := s.tasks.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	s.aggregator.Recompute(analytics, tasks, s.now())
	if err := s.repo.SaveUserAnalytics(ctx, analytics); err != nil {
		return nil, nil, err
	}
	return analytics, tasks, nil
}

func (s *service) GetUserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error) {
	analytics, _, err := s.loadFreshAnalytics(ctx, userID)
	return analytics, err
}

func (s *service) UpdateUserAnalytics(ctx context.Context, userID uuid.UUID, input UpdateAnalyticsInput) (*UserAnalytics, error) {
	analytics, _, err := s.repo.GetOrCreateUserAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ProductivityScore != nil {
		analytics.ProductivityScore = *input.ProductivityScore
	}
	if input.ConsistencyScore != nil {
		analytics.ConsistencyScore = *input.ConsistencyScore
	}
	if input.MostProductiveDay != nil {
		analytics.MostProductiveDay = *input.MostProductiveDay
	}
	if input.MostProductiveHour != nil {
		analytics.MostProductiveHour = *input.MostProductiveHour
	}
	if input.PreferredWorkDuration != nil {
		analytics.PreferredWorkDuration = *input.PreferredWorkDuration
	}

	if err := s.repo.SaveUserAnalytics(ctx, analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

func (s *service) GenerateInsights(ctx context.Context, userID uuid.UUID) (*GenerateResult, error) {
	tasks, err := s.tasks.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) < minTasksForAnalysis {
		return &GenerateResult{
			Message:           "Need at least 5 tasks for meaningful AI analysis",
			InsightsGenerated: 0,
		}, nil
	}

	result := s.client.AnalyzeTaskProductivity(ctx, s.taskSnapshot(ctx, tasks))
	if result.Status == ai.StatusError {
		s.logger.Error("Insight generation failed", zap.String("message", result.Message))
		return nil, fmt.Errorf("%w: %s", ErrInsightGenerationFailed, result.Message)
	}

	now := s.now()
	insight := &AIInsight{
		UserID:          userID,
		InsightType:     InsightTypeProductivity,
		Title:           fmt.Sprintf("Productivity Analysis - %s", now.Format("January 2006")),
		Content:         renderInsightContent(result.Data),
		ConfidenceScore: 0.85,
		DataPeriodStart: now.AddDate(0, 0, -30),
		DataPeriodEnd:   now,
		TasksAnalyzed:   len(tasks),
	}
	if err := s.repo.CreateInsight(ctx, insight); err != nil {
		return nil, err
	}

	s.logger.Info("Insight generated",
		zap.String("user_id", userID.String()),
		zap.String("insight_id", insight.ID.String()))

	return &GenerateResult{
		Message:           "Insights generated successfully",
		InsightsGenerated: 1,
		Insight:           insight,
	}, nil
}

// taskSnapshot maps task rows into the per-task shape the analysis
// prompt is built from.
func (s *service) taskSnapshot(ctx context.Context, tasks []task.Task) []ai.TaskSummary {
	names := s.categoryNames(ctx)

	summaries := make([]ai.TaskSummary, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		summary := ai.TaskSummary{
			Title:             t.Title,
			Status:            string(t.Status),
			Priority:          string(t.Priority),
			Completed:         t.IsCompleted(),
			CreatedAt:         t.CreatedAt,
			CompletedAt:       t.CompletedAt,
			EstimatedDuration: t.EstimatedDuration,
			ActualDuration:    t.ActualDuration,
		}
		if t.CategoryID != nil {
			summary.Category = names[*t.CategoryID]
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func (s *service) categoryNames(ctx context.Context) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	categories, err := s.tasks.FindCategories(ctx)
	if err != nil {
		s.logger.Warn("Category lookup failed", zap.Error(err))
		return names
	}
	for i := range categories {
		names[categories[i].ID] = categories[i].Name
	}
	return names
}

// renderInsightContent lays out the analysis fields as the stored
// insight body. Absent keys render as N/A; list fields become
// bulleted lines.
func renderInsightContent(data map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Productivity Score:** %s/100\n\n", analysisField(data, "productivity_score"))
	fmt.Fprintf(&sb, "**Completion Rate:** %s\n\n", analysisField(data, "completion_rate"))
	fmt.Fprintf(&sb, "**Most Productive Time:** %s\n\n", analysisField(data, "most_productive_time"))
	fmt.Fprintf(&sb, "**Key Patterns:** %s\n\n", analysisField(data, "task_patterns"))
	fmt.Fprintf(&sb, "**Recommendations:**\n%s\n\n", analysisBullets(data, "recommendations"))
	fmt.Fprintf(&sb, "**Weekly Trend:** %s\n\n", analysisField(data, "weekly_trend"))
	fmt.Fprintf(&sb, "**Focus Areas:**\n%s", analysisBullets(data, "focus_areas"))
	return sb.String()
}

func analysisField(data map[string]any, key string) string {
	value, ok := data[key]
	if !ok || value == nil {
		return "N/A"
	}
	if f, ok := value.(float64); ok && f == math.Trunc(f) {
		return fmt.Sprintf("%d", int(f))
	}
	return fmt.Sprintf("%v", value)
}

func analysisBullets(data map[string]any, key string) string {
	items, _ := data[key].([]any)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("• %v", item))
	}
	return strings.Join(lines, "\n")
}

func (s *service) ListInsights(ctx context.Context, userID uuid.UUID, limit int) ([]AIInsight, error) {
	return s.repo.ListInsights(ctx, userID, true, limit)
}

func (s *service) GetInsight(ctx context.Context, userID, insightID uuid.UUID) (*AIInsight, error) {
	return s.repo.GetInsight(ctx, userID, insightID)
}

// SubmitInsightFeedback applies the allowed feedback fields. The
// first feedback on an insight also marks it viewed; an existing
// viewed_at is never touched.
func (s *service) SubmitInsightFeedback(ctx context.Context, userID, insightID uuid.UUID, input InsightFeedbackInput) (*AIInsight, error) {
	if input.IsHelpful == nil && input.IsDismissed == nil {
		return nil, ErrInvalidFeedback
	}

	insight, err := s.repo.GetInsight(ctx, userID, insightID)
	if err != nil {
		return nil, err
	}

	if input.IsHelpful != nil {
		insight.IsHelpful = input.IsHelpful
	}
	if input.IsDismissed != nil {
		insight.IsDismissed = *input.IsDismissed
	}
	if insight.ViewedAt == nil {
		now := s.now()
		insight.ViewedAt = &now
	}

	if err := s.repo.UpdateInsight(ctx, insight); err != nil {
		return nil, err
	}
	return insight, nil
}

func (s *service) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	analytics, tasks, err := s.loadFreshAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights, err := s.repo.ListInsights(ctx, userID, true, 5)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListFocusSessionsOn(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	trends := s.aggregator.WeeklyTrends(tasks, s.now())

	suggestions := s.suggestionsWithGuard(ctx, s.buildUserContext(ctx, tasks))

	return &Dashboard{
		Analytics:       analytics,
		CompletionRate:  analytics.CompletionRate(),
		RecentInsights:  insights,
		TodaySessions:   sessions,
		WeeklyTrends:    trends,
		Suggestions:     suggestions,
		ScoreTrend:      scoreTrend(analytics.ProductivityScore),
		MoodCorrelation: map[string]any{"status": "insufficient_data"},
	}, nil
}

// buildUserContext assembles the suggestion prompt context: up to 10
// recent task titles, the distinct category names in use, and the
// coarse time of day. tasks must be ordered newest first.
func (s *service) buildUserContext(ctx context.Context, tasks []task.Task) ai.UserContext {
	var titles []string
	for i := 0; i < len(tasks) && len(titles) < 10; i++ {
		titles = append(titles, tasks[i].Title)
	}

	names := s.categoryNames(ctx)
	seen := make(map[string]bool)
	var categories []string
	for i := range tasks {
		if tasks[i].CategoryID == nil {
			continue
		}
		name, ok := names[*tasks[i].CategoryID]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		categories = append(categories, name)
	}

	return ai.UserContext{
		RecentTasks: titles,
		Categories:  categories,
		CurrentTime: timeOfDay(s.now()),
	}
}

// suggestionsWithGuard never fails: when the AI call itself errors
// the static dashboard list stands in. A fallback-status result still
// carries the client's own suggestion list and is used as-is.
func (s *service) suggestionsWithGuard(ctx context.Context, userCtx ai.UserContext) []string {
	result := s.client.GenerateTaskSuggestions(ctx, userCtx)
	if result.Status == ai.StatusError {
		out := make([]string, len(dashboardFallbackSuggestions))
		copy(out, dashboardFallbackSuggestions)
		return out
	}
	return extractSuggestions(result.Items)
}

func extractSuggestions(items []map[string]any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item["suggestion"].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// scoreTrend is a simplified 7-point series anchored at the current
// score. Historical sampling replaces this once score snapshots are
// persisted.
func scoreTrend(current float64) []float64 {
	trend := make([]float64, 7)
	for i := range trend {
		trend[i] = current
	}
	return trend
}

func timeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	analytics, _, err := s.loadFreshAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}

	insightCount, err := s.repo.CountInsights(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalInsights:      insightCount,
		ProductivityScore:  round2(analytics.ProductivityScore),
		CompletionRate:     round2(analytics.CompletionRate()),
		CurrentStreak:      analytics.CurrentStreak,
		LongestStreak:      analytics.LongestStreak,
		BestDay:            analytics.MostProductiveDay,
		BestHour:           analytics.MostProductiveHour,
		WeeklyGoalProgress: 75.0,
		MonthlySummary: map[string]any{
			"tasks_completed":    analytics.TotalTasksCompleted,
			"total_tasks":        analytics.TotalTasksCreated,
			"focus_hours":        0,
			"productivity_trend": "upward",
		},
	}, nil
}

// Suggestions asks the client for task suggestions built from the
// user's recent activity. A failed AI call still answers with the
// static list; a parse fallback carries the client's own list.
func (s *service) Suggestions(ctx context.Context, userID uuid.UUID) (*SuggestionsResult, error) {
	tasks, err := s.tasks.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := s.client.GenerateTaskSuggestions(ctx, s.buildUserContext(ctx, tasks))
	if result.Status == ai.StatusError {
		out := make([]string, len(suggestionFallbacks))
		copy(out, suggestionFallbacks)
		return &SuggestionsResult{
			Suggestions: out,
			Source:      "fallback",
		}, nil
	}
	return &SuggestionsResult{
		Suggestions: extractSuggestions(result.Items),
		Source:      "ai",
	}, nil
}

func (s *service) ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error) {
	return s.repo.ListWeeklyReports(ctx, userID, limit)
}

func (s *service) CreateFocusSession(ctx context.Context, userID uuid.UUID, session *FocusSession) error {
	if session.StartTime.IsZero() {
		return ErrInvalidSession
	}
	if session.FocusScore != nil && (*session.FocusScore < 1 || *session.FocusScore > 10) {
		return ErrInvalidSession
	}
	if session.EndTime != nil && session.DurationMinutes == 0 {
		session.DurationMinutes = int(session.EndTime.Sub(session.StartTime).Minutes())
	}

	session.UserID = userID
	return s.repo.CreateFocusSession(ctx, session)
}

func (s *service) ListFocusSessions(ctx context.Context, userID uuid.UUID, limit int) ([]FocusSession, error) {
	return s.repo.ListFocusSessions(ctx, userID, limit)
}

func (s *service) CreatePrediction(ctx context.Context, userID uuid.UUID, prediction *TaskPrediction) error {
	if prediction.PredictedDuration <= 0 {
		return ErrInvalidPrediction
	}
	if prediction.PredictedDifficulty != "" && !prediction.PredictedDifficulty.IsValid() {
		return ErrInvalidPrediction
	}

	prediction.UserID = userID
	return s.repo.CreatePrediction(ctx, prediction)
}

func (s *service) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]TaskPrediction, error) {
	return s.repo.ListPredictions(ctx, userID, limit)
}

// RecordPredictionActual fills in the real outcome and scores the
// original estimate. Accuracy is 100 minus the relative duration
// error, clamped at zero.
func (s *service) RecordPredictionActual(ctx context.Context, userID, predictionID uuid.UUID, actualDuration int, actualDifficulty Difficulty, wasCompleted bool) (*TaskPrediction, error) {
	if actualDuration < 0 || (actualDifficulty != "" && !actualDifficulty.IsValid()) {
		return nil, ErrInvalidPrediction
	}

	prediction, err := s.repo.GetPrediction(ctx, userID, predictionID)
	if err != nil {
		return nil, err
	}

	prediction.ActualDuration = &actualDuration
	if actualDifficulty != "" {
		prediction.ActualDifficulty = &actualDifficulty
	}
	prediction.WasCompleted = &wasCompleted

	if prediction.PredictedDuration > 0 {
		errRatio := float64(actualDuration-prediction.PredictedDuration) / float64(prediction.PredictedDuration)
		if errRatio < 0 {
			errRatio = -errRatio
		}
		accuracy := 100 - errRatio*100
		if accuracy < 0 {
			accuracy = 0
		}
		prediction.PredictionAccuracy = &accuracy
	}

	if err := s.repo.UpdatePrediction(ctx, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}
