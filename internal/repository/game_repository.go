package repository

import (
	"eduplay_backend/internal/model"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) ListGames() ([]model.Game, error) {
	var games []model.Game
	err := r.DB.Order("subject, name").Find(&games).Error
	return games, err
}

func (r *GameRepository) ListGamesBySubject(subject string) ([]model.Game, error) {
	var games []model.Game
	err := r.DB.Where("subject = ?", subject).Order("name").Find(&games).Error
	return games, err
}

func (r *GameRepository) FindGame(subject, gameID string) (*model.Game, error) {
	var game model.Game
	err := r.DB.Where("subject = ? AND game_id = ?", subject, gameID).First(&game).Error
	return &game, err
}

// UpdatePackageKey points a catalog row at a newly published asset bundle.
func (r *GameRepository) UpdatePackageKey(subject, gameID, key string) error {
	return r.DB.Model(&model.Game{}).
		Where("subject = ? AND game_id = ?", subject, gameID).
		Update("package_key", key).Error
}

// CreateScore appends one play attempt. Entries are never updated or
// deduplicated.
func (r *GameRepository) CreateScore(score *model.GameScore) error {
	return r.DB.Create(score).Error
}

func (r *GameRepository) BestScore(userID uint, gameID string) (int, error) {
	var best *int
	err := r.DB.Model(&model.GameScore{}).
		Select("MAX(score)").
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Scan(&best).Error
	if err != nil {
		return 0, err
	}
	if best == nil {
		return 0, nil
	}
	return *best, nil
}

func (r *GameRepository) CountPlays(userID uint, gameID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GameScore{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	return count, err
}

func (r *GameRepository) UniqueGamesPlayed(userID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.GameScore{}).
		Where("user_id = ?", userID).
		Distinct("game_id").
		Count(&count).Error
	return int(count), err
}

func (r *GameRepository) CountHighScores(userID uint, minScore int) (int, error) {
	var count int64
	err := r.DB.Model(&model.GameScore{}).
		Where("user_id = ? AND score >= ?", userID, minScore).
		Count(&count).Error
	return int(count), err
}

func (r *GameRepository) RecentScores(userID uint, limit int) ([]model.GameScore, error) {
	var scores []model.GameScore
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&scores).Error
	return scores, err
}
