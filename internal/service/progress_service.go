package service

import (
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/util"
	"eduplay_backend/pkg/monitoring"
	"errors"
)

type ProgressService struct {
	ProgressRepo       *repository.ProgressRepository
	PointsService      *PointsService
	AchievementService *AchievementService
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	pointsService *PointsService,
	achievementService *AchievementService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:       progressRepo,
		PointsService:      pointsService,
		AchievementService: achievementService,
	}
}

// ProgressRequest is the submit-progress payload.
// swagger:model ProgressRequest
type ProgressRequest struct {
	Subject              string `json:"subject" binding:"required"`
	Topic                string `json:"topic" binding:"required"`
	CompletionPercentage int    `json:"completion_percentage" binding:"min=0,max=100"`
	Score                int    `json:"score" binding:"min=0,max=100"`
	TimeSpent            int    `json:"time_spent" binding:"min=0"`
}

type ProgressResult struct {
	Created    bool `json:"created"`
	Completion int  `json:"completion"`
	Score      int  `json:"score"`
	Attempts   int  `json:"attempts"`
}

type ProgressResponse struct {
	Progress        ProgressResult       `json:"progress"`
	PointsEarned    int                  `json:"pointsEarned"`
	Account         *model.PointsAccount `json:"account"`
	NewAchievements []model.Achievement  `json:"newAchievements"`
}

// RecordProgress upserts the progress row only; points and achievements
// are the composite SubmitProgress path.
func (s *ProgressService) RecordProgress(userID uint, req ProgressRequest) (*ProgressResult, error) {
	if !model.ValidSubject(req.Subject) {
		return nil, util.ErrUnknownSubject
	}
	if req.Topic == "" {
		return nil, errors.New("topic is required")
	}

	upsert, err := s.ProgressRepo.Upsert(userID, req.Subject, req.Topic, req.CompletionPercentage, req.Score, req.TimeSpent)
	if err != nil {
		return nil, err
	}
	return &ProgressResult{
		Created:    upsert.Created,
		Completion: upsert.Completion,
		Score:      upsert.Score,
		Attempts:   upsert.Attempts,
	}, nil
}

// SubmitProgress runs the full pipeline: upsert, compute the point delta,
// credit the account, then re-evaluate achievements. A non-positive
// repeat delta skips the points step entirely so totals never shrink.
func (s *ProgressService) SubmitProgress(userID uint, req ProgressRequest) (*ProgressResponse, error) {
	progress, err := s.RecordProgress(userID, req)
	if err != nil {
		return nil, err
	}

	delta := 0
	if progress.Created {
		delta = FirstCompletionPoints(req.CompletionPercentage, req.Score)
	} else {
		delta = RepeatUpdatePoints(req.CompletionPercentage)
	}

	var account *model.PointsAccount
	if delta > 0 {
		account, err = s.PointsService.ApplyPoints(userID, req.Subject, delta)
		if err != nil {
			return nil, err
		}
		monitoring.PointsAwarded.WithLabelValues("progress").Add(float64(delta))
	} else {
		delta = 0
		account, err = s.PointsService.GetAccount(userID)
		if err != nil {
			return nil, err
		}
	}

	newAchievements, err := s.AchievementService.CheckAndAward(userID)
	if err != nil {
		return nil, err
	}

	return &ProgressResponse{
		Progress:        *progress,
		PointsEarned:    delta,
		Account:         account,
		NewAchievements: newAchievements,
	}, nil
}

func (s *ProgressService) SubjectOverview(userID uint) ([]repository.SubjectSummary, error) {
	summaries, err := s.ProgressRepo.SummarizeByUser(userID)
	if err != nil {
		return nil, err
	}

	// Subjects the student never touched still show up with zeros.
	seen := make(map[string]bool, len(summaries))
	for _, s := range summaries {
		seen[s.Subject] = true
	}
	for _, subject := range model.Subjects {
		if !seen[subject] {
			summaries = append(summaries, repository.SubjectSummary{Subject: subject})
		}
	}
	return summaries, nil
}

func (s *ProgressService) TopicsForSubject(userID uint, subject string) ([]model.ProgressRecord, error) {
	if !model.ValidSubject(subject) {
		return nil, util.ErrUnknownSubject
	}
	return s.ProgressRepo.FindByUserAndSubject(userID, subject)
}
