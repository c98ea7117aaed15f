package repository

import (
	"eduplay_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// UpsertResult reports what Upsert did with an incoming attempt.
type UpsertResult struct {
	Created    bool
	Completion int
	Score      int
	Attempts   int
}

// Upsert applies best-of semantics for one (user, subject, topic) tuple:
// first attempt creates the row, later attempts accumulate time and
// attempts while completion and score keep the max seen.
func (r *ProgressRepository) Upsert(userID uint, subject, topic string, completion, score, timeSpent int) (*UpsertResult, error) {
	var result UpsertResult

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite (test mode) has no FOR UPDATE; its writer lock already
		// serializes the transaction.
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var record model.ProgressRecord
		err := q.Where("user_id = ? AND subject = ? AND topic = ?", userID, subject, topic).
			First(&record).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			record = model.ProgressRecord{
				UserID:         userID,
				Subject:        subject,
				Topic:          topic,
				Completion:     completion,
				Score:          score,
				TimeSpent:      timeSpent,
				Attempts:       1,
				LastAccessedAt: time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			result = UpsertResult{Created: true, Completion: completion, Score: score, Attempts: 1}
			return nil
		}

		if completion > record.Completion {
			record.Completion = completion
		}
		if score > record.Score {
			record.Score = score
		}
		record.TimeSpent += timeSpent
		record.Attempts++
		record.LastAccessedAt = time.Now()

		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		result = UpsertResult{Created: false, Completion: record.Completion, Score: record.Score, Attempts: record.Attempts}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	err := r.DB.Where("user_id = ?", userID).Order("last_accessed_at DESC").Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindByUserAndSubject(userID uint, subject string) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	err := r.DB.Where("user_id = ? AND subject = ?", userID, subject).Order("topic").Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindRecentByUser(userID uint, limit int) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	err := r.DB.Where("user_id = ?", userID).Order("last_accessed_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// CompletedTopicsBySubject counts fully completed topics per subject.
func (r *ProgressRepository) CompletedTopicsBySubject(userID uint) (map[string]int, error) {
	type row struct {
		Subject string
		Count   int
	}
	var rows []row
	err := r.DB.Model(&model.ProgressRecord{}).
		Select("subject, COUNT(*) as count").
		Where("user_id = ? AND completion >= 100", userID).
		Group("subject").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Subject] = r.Count
	}
	return counts, nil
}

// SubjectSummary aggregates a student's standing in one subject.
type SubjectSummary struct {
	Subject       string  `json:"subject"`
	Topics        int     `json:"topics"`
	Completed     int     `json:"completed"`
	AvgCompletion float64 `json:"avgCompletion"`
	AvgScore      float64 `json:"avgScore"`
	TimeSpent     int     `json:"timeSpent"`
}

func (r *ProgressRepository) SummarizeByUser(userID uint) ([]SubjectSummary, error) {
	var rows []SubjectSummary
	err := r.DB.Model(&model.ProgressRecord{}).
		Select("subject, COUNT(*) as topics, SUM(CASE WHEN completion >= 100 THEN 1 ELSE 0 END) as completed, AVG(completion) as avg_completion, AVG(score) as avg_score, SUM(time_spent) as time_spent").
		Where("user_id = ?", userID).
		Group("subject").
		Scan(&rows).Error
	return rows, err
}
