package service

import (
	"context"
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/util"
	"eduplay_backend/pkg/monitoring"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"
)

type GameService struct {
	GameRepo           *repository.GameRepository
	PointsService      *PointsService
	AchievementService *AchievementService
	Storage            *StorageService
}

func NewGameService(
	gameRepo *repository.GameRepository,
	pointsService *PointsService,
	achievementService *AchievementService,
	storage *StorageService,
) *GameService {
	return &GameService{
		GameRepo:           gameRepo,
		PointsService:      pointsService,
		AchievementService: achievementService,
		Storage:            storage,
	}
}

// ScoreRequest is the submit-score payload.
// swagger:model ScoreRequest
type ScoreRequest struct {
	Score          int    `json:"score" binding:"min=0,max=1000"`
	LevelCompleted int    `json:"level_completed" binding:"min=0"`
	TimeTaken      int    `json:"time_taken" binding:"min=0"`
	GameData       string `json:"game_data"`
}

type ScoreResponse struct {
	PointsEarned    int                 `json:"pointsEarned"`
	IsNewRecord     bool                `json:"isNewRecord"`
	BestScore       int                 `json:"bestScore"`
	TotalPlays      int64               `json:"totalPlays"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

func (s *GameService) ListGames(subject string) ([]model.Game, error) {
	if subject == "" {
		return s.GameRepo.ListGames()
	}
	if !model.ValidSubject(subject) {
		return nil, util.ErrUnknownSubject
	}
	return s.GameRepo.ListGamesBySubject(subject)
}

func (s *GameService) GetGame(subject, gameID string) (*model.Game, error) {
	if !model.ValidSubject(subject) {
		return nil, util.ErrUnknownSubject
	}
	game, err := s.GameRepo.FindGame(subject, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnknownGame
		}
		return nil, err
	}
	return game, nil
}

// PackageURL resolves the downloadable offline asset bundle for a game.
func (s *GameService) PackageURL(ctx context.Context, subject, gameID string) (string, error) {
	game, err := s.GetGame(subject, gameID)
	if err != nil {
		return "", err
	}
	if game.PackageKey == "" {
		return "", util.ErrUnknownGame
	}
	return s.Storage.PackageURL(ctx, game.PackageKey)
}

// PublishPackage stores a new offline asset bundle for a game and points
// the catalog row at it. Clients pick it up on their next package fetch.
func (s *GameService) PublishPackage(ctx context.Context, subject, gameID string, reader io.Reader, size int64, contentType string) (string, error) {
	game, err := s.GetGame(subject, gameID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("games/%s/%s.zip", game.Subject, game.GameID)
	url, err := s.Storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.GameRepo.UpdatePackageKey(game.Subject, game.GameID, key); err != nil {
		return "", err
	}
	return url, nil
}

// SubmitScore appends the attempt, awards points and re-checks
// achievements. Every submission counts; entries are never deduplicated.
func (s *GameService) SubmitScore(userID uint, subject, gameID string, req ScoreRequest) (*ScoreResponse, error) {
	game, err := s.GetGame(subject, gameID)
	if err != nil {
		return nil, err
	}
	if req.Score < 0 || req.Score > 1000 {
		return nil, errors.New("score must be between 0 and 1000")
	}

	previousBest, err := s.GameRepo.BestScore(userID, game.GameID)
	if err != nil {
		return nil, err
	}

	points := GameScorePoints(req.Score, req.TimeTaken)

	entry := &model.GameScore{
		UserID:         userID,
		GameID:         game.GameID,
		Subject:        game.Subject,
		Score:          req.Score,
		LevelCompleted: req.LevelCompleted,
		TimeTaken:      req.TimeTaken,
		PointsEarned:   points,
		GameData:       req.GameData,
	}
	if err := s.GameRepo.CreateScore(entry); err != nil {
		return nil, err
	}

	if points > 0 {
		if _, err := s.PointsService.ApplyPoints(userID, game.Subject, points); err != nil {
			return nil, err
		}
		monitoring.PointsAwarded.WithLabelValues("game").Add(float64(points))
	}

	newAchievements, err := s.AchievementService.CheckAndAward(userID)
	if err != nil {
		return nil, err
	}

	totalPlays, err := s.GameRepo.CountPlays(userID, game.GameID)
	if err != nil {
		return nil, err
	}

	best := previousBest
	if req.Score > best {
		best = req.Score
	}

	return &ScoreResponse{
		PointsEarned:    points,
		IsNewRecord:     req.Score >= previousBest,
		BestScore:       best,
		TotalPlays:      totalPlays,
		NewAchievements: newAchievements,
	}, nil
}
