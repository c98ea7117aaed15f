package service

import (
	"eduplay_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstCompletionPoints(t *testing.T) {
	tests := []struct {
		name       string
		completion int
		score      int
		want       int
	}{
		{"full completion high score", 100, 85, 30},
		{"full completion mid score", 100, 65, 20},
		{"full completion low score", 100, 30, 15},
		{"score boundary 80", 50, 80, 25},
		{"score boundary 60", 50, 60, 15},
		{"just under 60", 50, 59, 10},
		{"zero everything", 0, 0, 5},
		{"truncating division", 47, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstCompletionPoints(tt.completion, tt.score))
		})
	}
}

func TestRepeatUpdatePoints(t *testing.T) {
	tests := []struct {
		name       string
		completion int
		want       int
	}{
		{"full completion", 100, 10},
		{"eighty", 80, 6},
		{"at the pivot", 50, 0},
		{"just above pivot", 59, 0},
		{"sixty", 60, 2},
		{"below pivot goes negative", 30, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepeatUpdatePoints(tt.completion))
		})
	}
}

func TestGameScorePoints(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		timeTaken int
		want      int
	}{
		{"high score fast", 95, 120, 34}, // 9 + 20 + 5
		{"high score slow", 95, 400, 29},
		{"boundary 90 takes top tier only", 90, 0, 29},
		{"boundary 70", 70, 0, 17},
		{"just under 70", 69, 0, 6},
		{"zero time gets no speed bonus", 50, 0, 5},
		{"speed bonus boundary", 50, 299, 10},
		{"at five minutes no bonus", 50, 300, 5},
		{"zero score fast still rewards speed", 0, 100, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GameScorePoints(tt.score, tt.timeTaken))
		})
	}
}

func TestLeaderboardWithoutRedis(t *testing.T) {
	env := newTestEnv(t)

	ada := env.seedStudent(t, "Ada")
	ben := env.seedStudent(t, "Ben")
	_, err := env.points.ApplyPoints(ada.ID, "math", 150)
	require.NoError(t, err)
	_, err = env.points.ApplyPoints(ben.ID, "science", 90)
	require.NoError(t, err)

	// Nil Redis client: every call must fall through to the store.
	rows, err := env.points.Leaderboard("", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0].Name)
	assert.Equal(t, 150, rows[0].Points)
	assert.Equal(t, 2, rows[0].Level)

	rows, err = env.points.Leaderboard("science", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ben", rows[0].Name)
	assert.Equal(t, 90, rows[0].Points)
}

func TestLeaderboardRejectsUnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.points.Leaderboard("history", 10)
	assert.ErrorIs(t, err, util.ErrUnknownSubject)
}

func TestLeaderboardClampsLimit(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		user := env.seedStudent(t, name)
		_, err := env.points.ApplyPoints(user.ID, "math", 10)
		require.NoError(t, err)
	}

	// Missing limit falls back to the default of 10.
	rows, err := env.points.Leaderboard("", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	// Oversized limits clamp to 100, they do not shrink the result.
	rows, err = env.points.Leaderboard("", 500)
	require.NoError(t, err)
	assert.Len(t, rows, 12)

	rows, err = env.points.Leaderboard("", 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
