package service

import (
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/pkg/monitoring"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	PointsRepo      *repository.PointsRepository
	ProgressRepo    *repository.ProgressRepository
	GameRepo        *repository.GameRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	pointsRepo *repository.PointsRepository,
	progressRepo *repository.ProgressRepository,
	gameRepo *repository.GameRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		PointsRepo:      pointsRepo,
		ProgressRepo:    progressRepo,
		GameRepo:        gameRepo,
	}
}

// statsSnapshot is the aggregate view the rules evaluate against,
// computed fresh per evaluation.
type statsSnapshot struct {
	totalPoints     int
	streakDays      int
	topicsBySubject map[string]int
	topicsTotal     int
	uniqueGames     int
	highScores      int
}

func (s *AchievementService) snapshot(userID uint) (*statsSnapshot, error) {
	account, err := s.PointsRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.ProgressRepo.CompletedTopicsBySubject(userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range topics {
		total += n
	}

	uniqueGames, err := s.GameRepo.UniqueGamesPlayed(userID)
	if err != nil {
		return nil, err
	}

	highScores, err := s.GameRepo.CountHighScores(userID, 90)
	if err != nil {
		return nil, err
	}

	return &statsSnapshot{
		totalPoints:     account.TotalPoints,
		streakDays:      account.StreakDays,
		topicsBySubject: topics,
		topicsTotal:     total,
		uniqueGames:     uniqueGames,
		highScores:      highScores,
	}, nil
}

func ruleSatisfied(a *model.Achievement, stats *statsSnapshot) bool {
	switch a.Rule {
	case model.RuleStreakDays:
		return stats.streakDays >= a.Threshold
	case model.RuleUniqueGames:
		return stats.uniqueGames >= a.Threshold
	case model.RuleHighScores:
		return stats.highScores >= a.Threshold
	case model.RuleSubjectTopics:
		return stats.topicsBySubject[a.Subject] >= a.Threshold
	case model.RuleTopicsTotal:
		return stats.topicsTotal >= a.Threshold
	case model.RulePointsTotal:
		return stats.totalPoints >= a.PointsRequired
	default:
		// Custom admin-added rows without a recognized rule fall back to
		// the generic points threshold.
		return stats.totalPoints >= a.PointsRequired
	}
}

// CheckAndAward grants every catalog achievement the student now
// satisfies and returns only the ones granted by this call. Safe to run
// after every points-affecting event; grants are idempotent.
func (s *AchievementService) CheckAndAward(userID uint) ([]model.Achievement, error) {
	catalog, err := s.AchievementRepo.Catalog()
	if err != nil {
		return nil, err
	}

	granted, err := s.AchievementRepo.GrantedIDs(userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.snapshot(userID)
	if err != nil {
		return nil, err
	}

	newly := []model.Achievement{}
	for i := range catalog {
		a := catalog[i]
		if granted[a.ID] || !ruleSatisfied(&a, stats) {
			continue
		}
		inserted, err := s.AchievementRepo.Grant(userID, a.ID)
		if err != nil {
			return newly, err
		}
		if inserted {
			monitoring.AchievementsGranted.Inc()
			newly = append(newly, a)
		}
	}
	return newly, nil
}

// EarnedAchievement is a catalog entry with the student's unlock state.
type EarnedAchievement struct {
	model.Achievement
	Earned   bool   `json:"earned"`
	EarnedAt string `json:"earnedAt,omitempty"`
}

func (s *AchievementService) ListForUser(userID uint) ([]EarnedAchievement, error) {
	catalog, err := s.AchievementRepo.Catalog()
	if err != nil {
		return nil, err
	}

	grants, err := s.AchievementRepo.GrantsByUser(userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[uint]string, len(grants))
	for _, g := range grants {
		earnedAt[g.AchievementID] = g.EarnedAt.Format("2006-01-02 15:04:05")
	}

	list := make([]EarnedAchievement, len(catalog))
	for i, a := range catalog {
		at, earned := earnedAt[a.ID]
		list[i] = EarnedAchievement{Achievement: a, Earned: earned, EarnedAt: at}
	}
	return list, nil
}

// RecentForUser returns the newest unlocks joined with their catalog rows.
func (s *AchievementService) RecentForUser(userID uint, limit int) ([]EarnedAchievement, error) {
	grants, err := s.AchievementRepo.GrantsByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(grants) > limit {
		grants = grants[:limit]
	}

	recent := make([]EarnedAchievement, 0, len(grants))
	for _, g := range grants {
		a, err := s.AchievementRepo.FindByID(g.AchievementID)
		if err != nil {
			continue
		}
		recent = append(recent, EarnedAchievement{
			Achievement: *a,
			Earned:      true,
			EarnedAt:    g.EarnedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return recent, nil
}
