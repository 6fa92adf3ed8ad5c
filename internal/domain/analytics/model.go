package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InsightType string

const (
	InsightTypeProductivity    InsightType = "productivity"
	InsightTypeTimeManagement  InsightType = "time_management"
	InsightTypeGoalSetting     InsightType = "goal_setting"
	InsightTypeWorkLifeBalance InsightType = "work_life_balance"
	InsightTypeMotivation      InsightType = "motivation"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// UserAnalytics is the per-user rollup of task activity. One row per
// user, created lazily on first read. The completion rate is always
// derived via CompletionRate and never stored.
type UserAnalytics struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_analytics_user"`

	TotalTasksCreated   int `json:"total_tasks_created" gorm:"default:0"`
	TotalTasksCompleted int `json:"total_tasks_completed" gorm:"default:0"`

	// Hours, nil until at least one completed task carries a duration
	AvgCompletionTime *float64 `json:"avg_completion_time,omitempty"`

	ProductivityScore float64 `json:"productivity_score" gorm:"default:0"`
	ConsistencyScore  float64 `json:"consistency_score" gorm:"default:0"`

	MostProductiveDay     string `json:"most_productive_day" gorm:"default:'Monday'"`
	MostProductiveHour    int    `json:"most_productive_hour" gorm:"default:9"`
	PreferredWorkDuration int    `json:"preferred_work_duration" gorm:"default:25"`

	CurrentStreak  int        `json:"current_streak" gorm:"default:0"`
	LongestStreak  int        `json:"longest_streak" gorm:"default:0"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletionRate returns the completed/created percentage, 0 when no
// tasks have been created yet.
func (a *UserAnalytics) CompletionRate() float64 {
	if a.TotalTasksCreated == 0 {
		return 0
	}
	return float64(a.TotalTasksCompleted) / float64(a.TotalTasksCreated) * 100
}

// WeeklyReport is a per-week summary, unique per user and Monday week
// start. Rows are persisted and listed but not yet produced by any
// endpoint; a scheduled writer will fill them in.
type WeeklyReport struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_report_user_week"`
	WeekStart time.Time `json:"week_start" gorm:"type:date;not null;uniqueIndex:idx_report_user_week"`
	WeekEnd   time.Time `json:"week_end" gorm:"type:date;not null"`

	TasksCompleted    int     `json:"tasks_completed" gorm:"default:0"`
	TasksCreated      int     `json:"tasks_created" gorm:"default:0"`
	CompletionRate    float64 `json:"completion_rate" gorm:"default:0"`
	ProductivityScore float64 `json:"productivity_score" gorm:"default:0"`

	AIInsights        datatypes.JSON `json:"ai_insights,omitempty" gorm:"type:jsonb"`
	AIRecommendations datatypes.JSON `json:"ai_recommendations,omitempty" gorm:"type:jsonb"`

	OverallMood   string `json:"overall_mood,omitempty"`
	EnergyPattern string `json:"energy_pattern,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AIInsight is a persisted piece of generated advice. IsHelpful is
// tri-state: nil until the user gives feedback.
type AIInsight struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_insight_user"`

	InsightType     InsightType `json:"insight_type" gorm:"not null;default:'productivity'"`
	Title           string      `json:"title" gorm:"not null"`
	Content         string      `json:"content" gorm:"type:text;not null"`
	ConfidenceScore float64     `json:"confidence_score" gorm:"default:0"`

	DataPeriodStart time.Time `json:"data_period_start" gorm:"type:date"`
	DataPeriodEnd   time.Time `json:"data_period_end" gorm:"type:date"`
	TasksAnalyzed   int       `json:"tasks_analyzed" gorm:"default:0"`

	IsHelpful   *bool      `json:"is_helpful,omitempty"`
	IsDismissed bool       `json:"is_dismissed" gorm:"default:false;index:idx_insight_dismissed"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_insight_created"`
}

// TaskPrediction is a forward estimate for a task with room to record
// the actual outcome afterwards.
type TaskPrediction struct {
	ID     uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_prediction_user"`
	TaskID *uuid.UUID `json:"task_id,omitempty" gorm:"type:uuid"`

	PredictedDuration    int        `json:"predicted_duration"` // minutes
	PredictedDifficulty  Difficulty `json:"predicted_difficulty" gorm:"not null;default:'medium'"`
	PredictedSuccessRate float64    `json:"predicted_success_rate" gorm:"default:0"`
	PredictionContext    string     `json:"prediction_context,omitempty" gorm:"type:text"`

	ActualDuration     *int        `json:"actual_duration,omitempty"`
	ActualDifficulty   *Difficulty `json:"actual_difficulty,omitempty"`
	WasCompleted       *bool       `json:"was_completed,omitempty"`
	PredictionAccuracy *float64    `json:"prediction_accuracy,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FocusSession records one block of focused work
type FocusSession struct {
	ID     uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_focus_user"`
	TaskID *uuid.UUID `json:"task_id,omitempty" gorm:"type:uuid"`

	StartTime       time.Time  `json:"start_time" gorm:"not null;index:idx_focus_start"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes" gorm:"default:0"`

	FocusScore    *int `json:"focus_score,omitempty"` // 1-10
	Interruptions int  `json:"interruptions" gorm:"default:0"`

	MoodBefore string `json:"mood_before,omitempty"`
	MoodAfter  string `json:"mood_after,omitempty"`
	TimeOfDay  string `json:"time_of_day,omitempty"`
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

// WeeklyTrend is one entry in the dashboard's 4-week trend series.
// Computed on the fly, never persisted.
type WeeklyTrend struct {
	Week           string  `json:"week"`
	WeekStart      string  `json:"week_start"`
	TasksCreated   int     `json:"tasks_created"`
	TasksCompleted int     `json:"tasks_completed"`
	CompletionRate float64 `json:"completion_rate"`
}

func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypeProductivity, InsightTypeTimeManagement, InsightTypeGoalSetting,
		InsightTypeWorkLifeBalance, InsightTypeMotivation:
		return true
	}
	return false
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (UserAnalytics) TableName() string {
	return "user_analytics"
}

func (WeeklyReport) TableName() string {
	return "weekly_reports"
}

func (AIInsight) TableName() string {
	return "ai_insights"
}

func (TaskPrediction) TableName() string {
	return "task_predictions"
}

func (FocusSession) TableName() string {
	return "focus_sessions"
}

func (a *UserAnalytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.MostProductiveDay == "" {
		a.MostProductiveDay = "Monday"
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return nil
}

func (a *UserAnalytics) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

func (r *WeeklyReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	return nil
}

func (i *AIInsight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.InsightType == "" {
		i.InsightType = InsightTypeProductivity
	}
	i.CreatedAt = time.Now()
	return nil
}

func (p *TaskPrediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PredictedDifficulty == "" {
		p.PredictedDifficulty = DifficultyMedium
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

func (p *TaskPrediction) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

func (f *FocusSession) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	return nil
}
