package model

import (
	"time"
)

// AchievementRule is the closed set of unlock rule kinds. Evaluation
// switches exhaustively on this; anything unknown falls back to the
// points_total threshold.
type AchievementRule string

const (
	RulePointsTotal   AchievementRule = "points_total"   // total points >= Threshold
	RuleStreakDays    AchievementRule = "streak_days"    // daily streak >= Threshold
	RuleUniqueGames   AchievementRule = "unique_games"   // distinct games played >= Threshold
	RuleHighScores    AchievementRule = "high_scores"    // game scores >= 90 count >= Threshold
	RuleSubjectTopics AchievementRule = "subject_topics" // topics completed in Subject >= Threshold
	RuleTopicsTotal   AchievementRule = "topics_total"   // topics completed overall >= Threshold
)

// Achievement is a static catalog entry, seeded at migration time and
// immutable afterwards except for admin-added custom rows.
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name           string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string          `gorm:"size:255" json:"description"`
	Icon           string          `gorm:"size:255" json:"icon"`
	Category       string          `gorm:"size:50" json:"category"`
	Rule           AchievementRule `gorm:"size:30;default:'points_total'" json:"rule"`
	Threshold      int             `gorm:"default:0" json:"threshold"`
	Subject        string          `gorm:"size:20" json:"subject,omitempty"` // only for subject_topics
	PointsRequired int             `gorm:"default:0" json:"pointsRequired"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records one unlock. The unique index makes grants
// idempotent at the store level.
// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"userId"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;not null" json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
