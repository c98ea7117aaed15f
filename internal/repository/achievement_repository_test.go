package repository

import (
	"eduplay_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAchievementRepository(db)
	user := seedStudent(t, db, "Ada")

	catalog, err := repo.Catalog()
	require.NoError(t, err)
	require.NotEmpty(t, catalog)
	target := catalog[0]

	inserted, err := repo.Grant(user.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Second grant is a no-op, not an error.
	inserted, err = repo.Grant(user.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, target.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGrantedIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewAchievementRepository(db)
	user := seedStudent(t, db, "Ada")

	catalog, err := repo.Catalog()
	require.NoError(t, err)
	require.True(t, len(catalog) >= 2)

	_, err = repo.Grant(user.ID, catalog[0].ID)
	require.NoError(t, err)
	_, err = repo.Grant(user.ID, catalog[1].ID)
	require.NoError(t, err)

	granted, err := repo.GrantedIDs(user.ID)
	require.NoError(t, err)
	assert.True(t, granted[catalog[0].ID])
	assert.True(t, granted[catalog[1].ID])
	assert.False(t, granted[catalog[2].ID])
}

func TestCatalogIsSeeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewAchievementRepository(db)

	catalog, err := repo.Catalog()
	require.NoError(t, err)
	assert.NotEmpty(t, catalog)

	byName := make(map[string]model.Achievement, len(catalog))
	for _, a := range catalog {
		byName[a.Name] = a
	}
	assert.Equal(t, model.RuleStreakDays, byName["Daily Learner"].Rule)
	assert.Equal(t, 7, byName["Daily Learner"].Threshold)
	assert.Equal(t, model.RuleUniqueGames, byName["Game Master"].Rule)
}
