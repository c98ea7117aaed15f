package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesFirstAttempt(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	user := seedStudent(t, db, "Ada")

	result, err := repo.Upsert(user.ID, "math", "fractions", 60, 70, 120)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, 60, result.Completion)
	assert.Equal(t, 70, result.Score)
	assert.Equal(t, 1, result.Attempts)
}

func TestUpsertKeepsMaxRegardlessOfOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	// Low then high.
	low := seedStudent(t, db, "Low")
	_, err := repo.Upsert(low.ID, "math", "fractions", 60, 50, 100)
	require.NoError(t, err)
	result, err := repo.Upsert(low.ID, "math", "fractions", 80, 70, 100)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Completion)
	assert.Equal(t, 70, result.Score)

	// High then low arrives at the same stored values.
	high := seedStudent(t, db, "High")
	_, err = repo.Upsert(high.ID, "math", "fractions", 80, 70, 100)
	require.NoError(t, err)
	result, err = repo.Upsert(high.ID, "math", "fractions", 60, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Completion)
	assert.Equal(t, 70, result.Score)
}

func TestUpsertAccumulatesAttemptsAndTime(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	user := seedStudent(t, db, "Ada")

	_, err := repo.Upsert(user.ID, "science", "planets", 90, 90, 100)
	require.NoError(t, err)

	// A worse attempt still counts and still accumulates time.
	result, err := repo.Upsert(user.ID, "science", "planets", 40, 30, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 90, result.Completion)
	assert.Equal(t, 90, result.Score)

	records, err := repo.FindByUserAndSubject(user.ID, "science")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 150, records[0].TimeSpent)
}

func TestCompletedTopicsBySubject(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	user := seedStudent(t, db, "Ada")

	for _, topic := range []string{"fractions", "decimals"} {
		_, err := repo.Upsert(user.ID, "math", topic, 100, 90, 60)
		require.NoError(t, err)
	}
	// Not completed, must not count.
	_, err := repo.Upsert(user.ID, "math", "geometry", 70, 60, 60)
	require.NoError(t, err)
	_, err = repo.Upsert(user.ID, "art", "colors", 100, 80, 60)
	require.NoError(t, err)

	counts, err := repo.CompletedTopicsBySubject(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["math"])
	assert.Equal(t, 1, counts["art"])
	assert.Zero(t, counts["science"])
}

func TestSummarizeByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	user := seedStudent(t, db, "Ada")

	_, err := repo.Upsert(user.ID, "english", "verbs", 100, 80, 100)
	require.NoError(t, err)
	_, err = repo.Upsert(user.ID, "english", "nouns", 50, 60, 200)
	require.NoError(t, err)

	summaries, err := repo.SummarizeByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "english", s.Subject)
	assert.Equal(t, 2, s.Topics)
	assert.Equal(t, 1, s.Completed)
	assert.InDelta(t, 75.0, s.AvgCompletion, 0.001)
	assert.Equal(t, 300, s.TimeSpent)
}
