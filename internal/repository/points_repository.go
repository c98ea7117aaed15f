package repository

import (
	"eduplay_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsRepository struct {
	DB *gorm.DB
}

func NewPointsRepository(db *gorm.DB) *PointsRepository {
	return &PointsRepository{DB: db}
}

func (r *PointsRepository) GetOrCreate(userID uint) (*model.PointsAccount, error) {
	var account model.PointsAccount
	err := r.DB.Where("user_id = ?", userID).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		account = model.PointsAccount{UserID: userID, CurrentLevel: 1}
		err = r.DB.Create(&account).Error
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ApplyDelta mutates one account under a row lock: total and subject
// points increment, level is recomputed from the fresh total, and the
// streak advances against today. Two concurrent awards for the same
// student serialize on the lock, so no update is lost.
func (r *PointsRepository) ApplyDelta(userID uint, subject string, delta int, today time.Time) (*model.PointsAccount, error) {
	var account model.PointsAccount

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite (test mode) has no FOR UPDATE; its writer lock already
		// serializes the transaction.
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		err := q.Where("user_id = ?", userID).First(&account).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			account = model.PointsAccount{UserID: userID, CurrentLevel: 1}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}

		today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

		account.TotalPoints += delta
		account.CurrentLevel = model.LevelForPoints(account.TotalPoints)
		switch subject {
		case model.SubjectMath:
			account.MathPoints += delta
		case model.SubjectEnglish:
			account.EnglishPoints += delta
		case model.SubjectScience:
			account.SciencePoints += delta
		case model.SubjectArt:
			account.ArtPoints += delta
		}

		account.StreakDays = nextStreak(account.StreakDays, account.LastActivityDate, today)
		account.LastActivityDate = &today

		return tx.Model(&model.PointsAccount{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":       account.TotalPoints,
				"current_level":      account.CurrentLevel,
				"math_points":        account.MathPoints,
				"english_points":     account.EnglishPoints,
				"science_points":     account.SciencePoints,
				"art_points":         account.ArtPoints,
				"streak_days":        account.StreakDays,
				"last_activity_date": account.LastActivityDate,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// nextStreak: same day keeps the streak, yesterday extends it, anything
// else (including first activity) starts over at 1. Day distance is
// computed on calendar dates pinned to UTC, so a 23-hour spring-forward
// day still counts as one day.
func nextStreak(current int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}
	ly, lm, ld := last.Date()
	ty, tm, td := today.Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	todayDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	switch int(todayDay.Sub(lastDay).Hours() / 24) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// LeaderboardRow is one ranked entry, joined with the user's profile.
type LeaderboardRow struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// TopBySubject returns the top accounts ordered by the given subject's
// points. An empty subject ranks by total points.
func (r *PointsRepository) TopBySubject(subject string, limit int) ([]LeaderboardRow, error) {
	column := "total_points"
	if subject != "" {
		column = model.SubjectPointsColumn(subject)
		if column == "" {
			return nil, gorm.ErrRecordNotFound
		}
	}

	var rows []LeaderboardRow
	err := r.DB.Table("points_accounts").
		Select("points_accounts.user_id, users.name, users.avatar, points_accounts."+column+" as points, points_accounts.current_level as level").
		Joins("JOIN users ON users.id = points_accounts.user_id").
		Where("users.deleted_at IS NULL").
		Order(column + " DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Rank is the 1-based position of a student by total points.
func (r *PointsRepository) Rank(userID uint) (int, error) {
	account, err := r.GetOrCreate(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = r.DB.Model(&model.PointsAccount{}).
		Where("total_points > ?", account.TotalPoints).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}
