package model

// Game is a static catalog entry describing one playable game.
// swagger:model Game
type Game struct {
	BaseModel
	GameID      string `gorm:"index:idx_subject_game,unique;size:50;not null" json:"gameId"`
	Subject     string `gorm:"index:idx_subject_game,unique;size:20;not null" json:"subject"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	MaxLevel    int    `gorm:"default:1" json:"maxLevel"`
	PackageKey  string `gorm:"size:255" json:"-"` // object key of the offline asset bundle
}

func (Game) TableName() string {
	return "games"
}

// GameScore is one play attempt. Rows are append-only; repeated plays of
// the same game each get their own row.
// swagger:model GameScore
type GameScore struct {
	BaseModel
	UserID         uint   `gorm:"index;not null" json:"userId"`
	GameID         string `gorm:"index;size:50;not null" json:"gameId"`
	Subject        string `gorm:"size:20;not null" json:"subject"`
	Score          int    `gorm:"not null" json:"score"`
	LevelCompleted int    `gorm:"default:0" json:"levelCompleted"`
	TimeTaken      int    `gorm:"default:0" json:"timeTaken"` // seconds
	PointsEarned   int    `gorm:"default:0" json:"pointsEarned"`
	GameData       string `gorm:"type:text" json:"gameData,omitempty"`
}

func (GameScore) TableName() string {
	return "game_scores"
}
