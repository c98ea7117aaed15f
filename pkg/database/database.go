package database

import (
	"eduplay_backend/internal/config"
	"eduplay_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate runs AutoMigrate and seeds the static catalogs when empty. Also
// used by tests against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Class{},
		&model.ProgressRecord{},
		&model.PointsAccount{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Game{},
		&model.GameScore{},
	)
	if err != nil {
		return err
	}

	seedAchievements(db)
	seedGames(db)
	return nil
}

func seedAchievements(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Achievement{
		{Name: "First Steps", Description: "Complete your first topic", Icon: "footprints", Category: "progress", Rule: model.RuleTopicsTotal, Threshold: 1},
		{Name: "Daily Learner", Description: "Learn 7 days in a row", Icon: "calendar", Category: "streak", Rule: model.RuleStreakDays, Threshold: 7},
		{Name: "Unstoppable", Description: "Learn 30 days in a row", Icon: "flame", Category: "streak", Rule: model.RuleStreakDays, Threshold: 30},
		{Name: "Game Master", Description: "Play 5 different games", Icon: "gamepad", Category: "games", Rule: model.RuleUniqueGames, Threshold: 5},
		{Name: "High Scorer", Description: "Score 90 or more in 5 games", Icon: "trophy", Category: "games", Rule: model.RuleHighScores, Threshold: 5},
		{Name: "Math Whiz", Description: "Complete 10 math topics", Icon: "abacus", Category: "subject", Rule: model.RuleSubjectTopics, Threshold: 10, Subject: model.SubjectMath},
		{Name: "Word Wizard", Description: "Complete 10 english topics", Icon: "book", Category: "subject", Rule: model.RuleSubjectTopics, Threshold: 10, Subject: model.SubjectEnglish},
		{Name: "Young Scientist", Description: "Complete 10 science topics", Icon: "flask", Category: "subject", Rule: model.RuleSubjectTopics, Threshold: 10, Subject: model.SubjectScience},
		{Name: "Creative Mind", Description: "Complete 10 art topics", Icon: "palette", Category: "subject", Rule: model.RuleSubjectTopics, Threshold: 10, Subject: model.SubjectArt},
		{Name: "Rising Star", Description: "Earn 100 points", Icon: "star", Category: "points", Rule: model.RulePointsTotal, PointsRequired: 100},
		{Name: "Point Collector", Description: "Earn 500 points", Icon: "gem", Category: "points", Rule: model.RulePointsTotal, PointsRequired: 500},
		{Name: "Legend", Description: "Earn 2000 points", Icon: "crown", Category: "points", Rule: model.RulePointsTotal, PointsRequired: 2000},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
}

func seedGames(db *gorm.DB) {
	var count int64
	db.Model(&model.Game{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Game{
		{GameID: "number-rush", Subject: model.SubjectMath, Name: "Number Rush", Description: "Solve arithmetic against the clock", Icon: "calculator", MaxLevel: 10, PackageKey: "games/math/number-rush.zip"},
		{GameID: "fraction-pizza", Subject: model.SubjectMath, Name: "Fraction Pizza", Description: "Slice pizzas into fractions", Icon: "pizza", MaxLevel: 8, PackageKey: "games/math/fraction-pizza.zip"},
		{GameID: "word-builder", Subject: model.SubjectEnglish, Name: "Word Builder", Description: "Build words from falling letters", Icon: "blocks", MaxLevel: 12, PackageKey: "games/english/word-builder.zip"},
		{GameID: "story-scramble", Subject: model.SubjectEnglish, Name: "Story Scramble", Description: "Reorder sentences into a story", Icon: "scroll", MaxLevel: 6, PackageKey: "games/english/story-scramble.zip"},
		{GameID: "lab-explorer", Subject: model.SubjectScience, Name: "Lab Explorer", Description: "Run virtual experiments", Icon: "microscope", MaxLevel: 10, PackageKey: "games/science/lab-explorer.zip"},
		{GameID: "planet-hopper", Subject: model.SubjectScience, Name: "Planet Hopper", Description: "Tour the solar system", Icon: "rocket", MaxLevel: 9, PackageKey: "games/science/planet-hopper.zip"},
		{GameID: "color-mixer", Subject: model.SubjectArt, Name: "Color Mixer", Description: "Mix paints to match targets", Icon: "brush", MaxLevel: 7, PackageKey: "games/art/color-mixer.zip"},
		{GameID: "pixel-painter", Subject: model.SubjectArt, Name: "Pixel Painter", Description: "Recreate pixel art patterns", Icon: "grid", MaxLevel: 10, PackageKey: "games/art/pixel-painter.zip"},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
}
