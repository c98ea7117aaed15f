package model

import (
	"time"
)

// PointsAccount is the one-per-student points ledger. TotalPoints never
// decreases and CurrentLevel is always total/100+1 after a mutation.
// swagger:model PointsAccount
type PointsAccount struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex;not null" json:"userId"`
	TotalPoints      int        `gorm:"default:0" json:"totalPoints"`
	CurrentLevel     int        `gorm:"default:1" json:"currentLevel"`
	MathPoints       int        `gorm:"default:0" json:"mathPoints"`
	EnglishPoints    int        `gorm:"default:0" json:"englishPoints"`
	SciencePoints    int        `gorm:"default:0" json:"sciencePoints"`
	ArtPoints        int        `gorm:"default:0" json:"artPoints"`
	StreakDays       int        `gorm:"default:0" json:"streakDays"`
	LastActivityDate *time.Time `json:"lastActivityDate"`
}

func (PointsAccount) TableName() string {
	return "points_accounts"
}

// LevelForPoints is the single source of truth for the leveling curve.
func LevelForPoints(total int) int {
	return total/100 + 1
}

// SubjectPoints flattens the per-subject columns into the API shape.
func (a *PointsAccount) SubjectPoints() map[string]int {
	return map[string]int{
		SubjectMath:    a.MathPoints,
		SubjectEnglish: a.EnglishPoints,
		SubjectScience: a.SciencePoints,
		SubjectArt:     a.ArtPoints,
	}
}

// SubjectPointsColumn maps a subject to its points_accounts column. Callers
// must have validated the subject; unknown subjects return "".
func SubjectPointsColumn(subject string) string {
	switch subject {
	case SubjectMath:
		return "math_points"
	case SubjectEnglish:
		return "english_points"
	case SubjectScience:
		return "science_points"
	case SubjectArt:
		return "art_points"
	}
	return ""
}
