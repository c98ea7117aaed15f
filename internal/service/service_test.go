package service

import (
	"eduplay_backend/internal/config"
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/pkg/database"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the whole service graph against an in-memory store, with
// Redis disabled and local storage.
type testEnv struct {
	db          *gorm.DB
	uploads     string
	points      *PointsService
	achievement *AchievementService
	progress    *ProgressService
	game        *GameService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	progressRepo := repository.NewProgressRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	gameRepo := repository.NewGameRepository(db)

	points := NewPointsService(pointsRepo, nil)
	achievement := NewAchievementService(achievementRepo, pointsRepo, progressRepo, gameRepo)
	uploads := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: uploads}}}

	return &testEnv{
		db:          db,
		uploads:     uploads,
		points:      points,
		achievement: achievement,
		progress:    NewProgressService(progressRepo, points, achievement),
		game:        NewGameService(gameRepo, points, achievement, storage),
	}
}

func (e *testEnv) seedStudent(t *testing.T, name string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}
