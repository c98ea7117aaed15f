package repository

import (
	"eduplay_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) Catalog() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) FindByID(id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.First(&achievement, id).Error
	return &achievement, err
}

func (r *AchievementRepository) GrantedIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}

	granted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		granted[id] = true
	}
	return granted, nil
}

// Grant inserts one unlock. The unique (user, achievement) index plus
// ON CONFLICT DO NOTHING makes the call idempotent; the bool reports
// whether a row was actually inserted.
func (r *AchievementRepository) Grant(userID, achievementID uint) (bool, error) {
	grant := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *AchievementRepository) GrantsByUser(userID uint) ([]model.UserAchievement, error) {
	var grants []model.UserAchievement
	err := r.DB.Where("user_id = ?", userID).Order("earned_at DESC").Find(&grants).Error
	return grants, err
}
