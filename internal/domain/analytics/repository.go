package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

var (
	ErrAnalyticsNotFound  = errors.New("analytics record not found")
	ErrInsightNotFound    = errors.New("insight not found")
	ErrPredictionNotFound = errors.New("prediction not found")
)

// Repository defines persistence for the analytics domain
type Repository interface {
	// User analytics
	GetOrCreateUserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, bool, error)
	SaveUserAnalytics(ctx context.Context, analytics *UserAnalytics) error

	// Weekly reports
	ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error)

	// Insights
	CreateInsight(ctx context.Context, insight *AIInsight) error
	ListInsights(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]AIInsight, error)
	GetInsight(ctx context.Context, userID, insightID uuid.UUID) (*AIInsight, error)
	UpdateInsight(ctx context.Context, insight *AIInsight) error
	CountInsights(ctx context.Context, userID uuid.UUID) (int64, error)

	// Focus sessions
	CreateFocusSession(ctx context.Context, session *FocusSession) error
	ListFocusSessions(ctx context.Context, userID uuid.UUID, limit int) ([]FocusSession, error)
	ListFocusSessionsOn(ctx context.Context, userID uuid.UUID, date time.Time) ([]FocusSession, error)

	// Predictions
	CreatePrediction(ctx context.Context, prediction *TaskPrediction) error
	ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]TaskPrediction, error)
	GetPrediction(ctx context.Context, userID, predictionID uuid.UUID) (*TaskPrediction, error)
	UpdatePrediction(ctx context.Context, prediction *TaskPrediction) error
}

type analyticsRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &analyticsRepository{db: db}
}

// GetOrCreateUserAnalytics returns the user's analytics row, creating
// a zero-valued one on first access. The bool reports whether a row
// was created by this call.
func (r *analyticsRepository) GetOrCreateUserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, bool, error) {
	var analytics UserAnalytics
	err := r.db.WithContext(ctx).First(&analytics, "user_id = ?", userID).Error
	if err == nil {
		return &analytics, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	analytics = UserAnalytics{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&analytics).Error; err != nil {
		return nil, false, err
	}
	return &analytics, true, nil
}

func (r *analyticsRepository) SaveUserAnalytics(ctx context.Context, analytics *UserAnalytics) error {
	return r.db.WithContext(ctx).Save(analytics).Error
}

func (r *analyticsRepository) ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]WeeklyReport, error) {
	var reports []WeeklyReport
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reports).Error
	return reports, err
}

func (r *analyticsRepository) CreateInsight(ctx context.Context, insight *AIInsight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}

func (r *analyticsRepository) ListInsights(ctx context.Context, userID uuid.UUID, activeOnly bool, limit int) ([]AIInsight, error) {
	var insights []AIInsight
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_dismissed = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&insights).Error
	return insights, err
}

func (r *analyticsRepository) GetInsight(ctx context.Context, userID, insightID uuid.UUID) (*AIInsight, error) {
	var insight AIInsight
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", insightID, userID).
		First(&insight)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, result.Error
	}
	return &insight, nil
}

func (r *analyticsRepository) UpdateInsight(ctx context.Context, insight *AIInsight) error {
	result := r.db.WithContext(ctx).Save(insight)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

func (r *analyticsRepository) CountInsights(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AIInsight{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CreateFocusSession(ctx context.Context, session *FocusSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *analyticsRepository) ListFocusSessions(ctx context.Context, userID uuid.UUID, limit int) ([]FocusSession, error) {
	var sessions []FocusSession
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

func (r *analyticsRepository) ListFocusSessionsOn(ctx context.Context, userID uuid.UUID, date time.Time) ([]FocusSession, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var sessions []FocusSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, dayStart, dayEnd).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *analyticsRepository) CreatePrediction(ctx context.Context, prediction *TaskPrediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *analyticsRepository) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]TaskPrediction, error) {
	var predictions []TaskPrediction
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&predictions).Error
	return predictions, err
}

func (r *analyticsRepository) GetPrediction(ctx context.Context, userID, predictionID uuid.UUID) (*TaskPrediction, error) {
	var prediction TaskPrediction
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", predictionID, userID).
		First(&prediction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, result.Error
	}
	return &prediction, nil
}

func (r *analyticsRepository) UpdatePrediction(ctx context.Context, prediction *TaskPrediction) error {
	result := r.db.WithContext(ctx).Save(prediction)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPredictionNotFound
	}
	return nil
}
