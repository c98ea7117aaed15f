package service

import (
	"eduplay_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProgressFirstCompletion(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	resp, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject:              "math",
		Topic:                "fractions",
		CompletionPercentage: 100,
		Score:                85,
		TimeSpent:            60,
	})
	require.NoError(t, err)

	assert.True(t, resp.Progress.Created)
	assert.Equal(t, 30, resp.PointsEarned) // 100/10 + 20
	assert.Equal(t, 30, resp.Account.TotalPoints)
	assert.Equal(t, 1, resp.Account.CurrentLevel)
	assert.Equal(t, 30, resp.Account.MathPoints)
	assert.Equal(t, 1, resp.Account.StreakDays)

	// Completing the first topic unlocks First Steps in the same request.
	names := make([]string, 0, len(resp.NewAchievements))
	for _, a := range resp.NewAchievements {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, "First Steps")
}

func TestSubmitProgressRepeatEarnsReducedPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	_, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "math", Topic: "fractions", CompletionPercentage: 100, Score: 85,
	})
	require.NoError(t, err)

	resp, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "math", Topic: "fractions", CompletionPercentage: 100, Score: 90,
	})
	require.NoError(t, err)

	assert.False(t, resp.Progress.Created)
	assert.Equal(t, 10, resp.PointsEarned) // (100-50)/10 * 2
	assert.Equal(t, 40, resp.Account.TotalPoints)
	assert.Equal(t, 2, resp.Progress.Attempts)
}

func TestSubmitProgressNonPositiveDeltaLeavesTotalsUnchanged(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	first, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "math", Topic: "fractions", CompletionPercentage: 100, Score: 85,
	})
	require.NoError(t, err)

	// A weak repeat attempt computes a negative delta; it is dropped, not
	// subtracted.
	resp, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "math", Topic: "fractions", CompletionPercentage: 30, Score: 10,
	})
	require.NoError(t, err)

	assert.Zero(t, resp.PointsEarned)
	assert.Equal(t, first.Account.TotalPoints, resp.Account.TotalPoints)
	// Stored bests survive the weak attempt, but the attempt still counts.
	assert.Equal(t, 100, resp.Progress.Completion)
	assert.Equal(t, 85, resp.Progress.Score)
	assert.Equal(t, 2, resp.Progress.Attempts)
}

func TestSubmitProgressRejectsUnknownSubject(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	_, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "history", Topic: "rome", CompletionPercentage: 50,
	})
	assert.ErrorIs(t, err, util.ErrUnknownSubject)
}

func TestSubjectOverviewZeroFillsUntouchedSubjects(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	_, err := env.progress.SubmitProgress(user.ID, ProgressRequest{
		Subject: "math", Topic: "fractions", CompletionPercentage: 80, Score: 70,
	})
	require.NoError(t, err)

	summaries, err := env.progress.SubjectOverview(user.ID)
	require.NoError(t, err)
	assert.Len(t, summaries, 4)

	subjects := make(map[string]bool, len(summaries))
	for _, s := range summaries {
		subjects[s.Subject] = true
	}
	for _, want := range []string{"math", "english", "science", "art"} {
		assert.True(t, subjects[want], "missing subject %s", want)
	}
}
