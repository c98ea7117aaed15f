package repository

import (
	"eduplay_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// AnalyticsRepository runs the aggregate queries behind the teacher
// dashboards. Read-only.
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// ClassSubjectStat is the per-subject aggregate for one class roster.
type ClassSubjectStat struct {
	Subject       string  `json:"subject"`
	AvgCompletion float64 `json:"avgCompletion"`
	AvgScore      float64 `json:"avgScore"`
	TopicsTouched int     `json:"topicsTouched"`
}

func (r *AnalyticsRepository) ClassSubjectStats(classID uint) ([]ClassSubjectStat, error) {
	var rows []ClassSubjectStat
	err := r.DB.Model(&model.ProgressRecord{}).
		Select("progress_records.subject, AVG(progress_records.completion) as avg_completion, AVG(progress_records.score) as avg_score, COUNT(*) as topics_touched").
		Joins("JOIN users ON users.id = progress_records.user_id").
		Where("users.class_id = ?", classID).
		Group("progress_records.subject").
		Scan(&rows).Error
	return rows, err
}

// StudentStanding summarizes one student for the class roster view.
type StudentStanding struct {
	UserID       uint   `json:"userId"`
	Name         string `json:"name"`
	TotalPoints  int    `json:"totalPoints"`
	CurrentLevel int    `json:"currentLevel"`
	StreakDays   int    `json:"streakDays"`
	Topics       int    `json:"topics"`
}

func (r *AnalyticsRepository) ClassStandings(classID uint) ([]StudentStanding, error) {
	var rows []StudentStanding
	err := r.DB.Table("users").
		Select("users.id as user_id, users.name, COALESCE(points_accounts.total_points, 0) as total_points, COALESCE(points_accounts.current_level, 1) as current_level, COALESCE(points_accounts.streak_days, 0) as streak_days, (SELECT COUNT(*) FROM progress_records WHERE progress_records.user_id = users.id) as topics").
		Joins("LEFT JOIN points_accounts ON points_accounts.user_id = users.id").
		Where("users.class_id = ? AND users.deleted_at IS NULL", classID).
		Order("total_points DESC").
		Scan(&rows).Error
	return rows, err
}

// SubjectPerformance is the platform-wide per-subject distribution.
type SubjectPerformance struct {
	Subject       string  `json:"subject"`
	Students      int     `json:"students"`
	AvgCompletion float64 `json:"avgCompletion"`
	AvgScore      float64 `json:"avgScore"`
	GamesPlayed   int     `json:"gamesPlayed"`
}

func (r *AnalyticsRepository) SubjectPerformance() ([]SubjectPerformance, error) {
	var rows []SubjectPerformance
	err := r.DB.Model(&model.ProgressRecord{}).
		Select("subject, COUNT(DISTINCT user_id) as students, AVG(completion) as avg_completion, AVG(score) as avg_score, (SELECT COUNT(*) FROM game_scores WHERE game_scores.subject = progress_records.subject) as games_played").
		Group("subject").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) ActiveStudentsSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("role = ? AND last_seen >= ?", model.Student, since).
		Count(&count).Error
	return count, err
}
