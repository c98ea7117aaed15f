package model

import (
	"time"
)

// ProgressRecord holds a student's best result for one topic. Completion
// and score only ever grow; attempts and time accumulate across updates.
// swagger:model ProgressRecord
type ProgressRecord struct {
	BaseModel
	UserID         uint      `gorm:"index:idx_user_subject_topic,unique;not null" json:"userId"`
	Subject        string    `gorm:"index:idx_user_subject_topic,unique;size:20;not null" json:"subject"`
	Topic          string    `gorm:"index:idx_user_subject_topic,unique;size:100;not null" json:"topic"`
	Completion     int       `gorm:"default:0" json:"completion"` // percent, 0-100
	Score          int       `gorm:"default:0" json:"score"`      // best score, 0-100
	TimeSpent      int       `gorm:"default:0" json:"timeSpent"`  // cumulative seconds
	Attempts       int       `gorm:"default:1" json:"attempts"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}
