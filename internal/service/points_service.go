package service

import (
	"context"
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/util"
	"eduplay_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheTTL = 60 * time.Second

type PointsService struct {
	PointsRepo *repository.PointsRepository
	Redis      *redis.Client // nil disables caching
}

func NewPointsService(pointsRepo *repository.PointsRepository, rdb *redis.Client) *PointsService {
	return &PointsService{
		PointsRepo: pointsRepo,
		Redis:      rdb,
	}
}

// FirstCompletionPoints rewards the first recorded attempt on a topic.
func FirstCompletionPoints(completion, score int) int {
	bonus := 5
	if score >= 80 {
		bonus = 20
	} else if score >= 60 {
		bonus = 10
	}
	return completion/10 + bonus
}

// RepeatUpdatePoints rewards a repeat attempt. Below 50% completion the
// formula goes non-positive; callers drop those deltas instead of
// shrinking a student's total.
func RepeatUpdatePoints(completion int) int {
	return (completion - 50) / 10 * 2
}

// GameScorePoints: base score/10, one tier bonus (+20 at 90, else +10 at
// 70), +5 for finishing under five minutes. Tiers are exclusive: 95 in
// 120s earns 9+20+5 = 34.
func GameScorePoints(score, timeTaken int) int {
	points := score / 10
	if score >= 90 {
		points += 20
	} else if score >= 70 {
		points += 10
	}
	if timeTaken > 0 && timeTaken < 300 {
		points += 5
	}
	return points
}

// ApplyPoints credits delta to the student's account and advances the
// daily streak. Deltas are pre-computed by the caller.
func (s *PointsService) ApplyPoints(userID uint, subject string, delta int) (*model.PointsAccount, error) {
	return s.PointsRepo.ApplyDelta(userID, subject, delta, time.Now())
}

func (s *PointsService) GetAccount(userID uint) (*model.PointsAccount, error) {
	return s.PointsRepo.GetOrCreate(userID)
}

func (s *PointsService) Rank(userID uint) (int, error) {
	return s.PointsRepo.Rank(userID)
}

// Leaderboard ranks students by subject points, or by total points when
// subject is empty. Results are cached in Redis for a minute; without a
// Redis client every call goes to the store.
func (s *PointsService) Leaderboard(subject string, limit int) ([]repository.LeaderboardRow, error) {
	if subject != "" && !model.ValidSubject(subject) {
		return nil, util.ErrUnknownSubject
	}
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	key := fmt.Sprintf("leaderboard:%s:%d", subject, limit)
	if s.Redis != nil {
		cached, err := s.Redis.Get(context.Background(), key).Result()
		if err == nil {
			var rows []repository.LeaderboardRow
			if json.Unmarshal([]byte(cached), &rows) == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.PointsRepo.TopBySubject(subject, limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.Redis.Set(context.Background(), key, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return rows, nil
}
