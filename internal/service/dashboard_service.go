package service

import (
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
)

type DashboardService struct {
	PointsService      *PointsService
	AchievementService *AchievementService
	ProgressRepo       *repository.ProgressRepository
	GameRepo           *repository.GameRepository
}

func NewDashboardService(
	pointsService *PointsService,
	achievementService *AchievementService,
	progressRepo *repository.ProgressRepository,
	gameRepo *repository.GameRepository,
) *DashboardService {
	return &DashboardService{
		PointsService:      pointsService,
		AchievementService: achievementService,
		ProgressRepo:       progressRepo,
		GameRepo:           gameRepo,
	}
}

type StudentDashboard struct {
	Account            *model.PointsAccount   `json:"account"`
	PointsToNextLevel  int                    `json:"pointsToNextLevel"`
	Rank               int                    `json:"rank"`
	RecentProgress     []model.ProgressRecord `json:"recentProgress"`
	RecentScores       []model.GameScore      `json:"recentScores"`
	RecentAchievements []EarnedAchievement    `json:"recentAchievements"`
}

func (s *DashboardService) GetStudentDashboard(userID uint) (*StudentDashboard, error) {
	account, err := s.PointsService.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.PointsService.Rank(userID)
	if err != nil {
		return nil, err
	}

	recentProgress, err := s.ProgressRepo.FindRecentByUser(userID, 5)
	if err != nil {
		return nil, err
	}

	recentScores, err := s.GameRepo.RecentScores(userID, 5)
	if err != nil {
		return nil, err
	}

	recentAchievements, err := s.AchievementService.RecentForUser(userID, 3)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{
		Account:            account,
		PointsToNextLevel:  account.CurrentLevel*100 - account.TotalPoints,
		Rank:               rank,
		RecentProgress:     recentProgress,
		RecentScores:       recentScores,
		RecentAchievements: recentAchievements,
	}, nil
}
