package service

import (
	"context"
	"eduplay_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScoreAwardsTieredPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	resp, err := env.game.SubmitScore(user.ID, "math", "number-rush", ScoreRequest{
		Score: 95, LevelCompleted: 3, TimeTaken: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 34, resp.PointsEarned) // 9 + 20 + 5
	assert.True(t, resp.IsNewRecord)       // first play is always a record
	assert.Equal(t, 95, resp.BestScore)
	assert.EqualValues(t, 1, resp.TotalPlays)

	account, err := env.points.GetAccount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 34, account.TotalPoints)
	assert.Equal(t, 34, account.MathPoints)
}

func TestSubmitScoreRecordSemantics(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	_, err := env.game.SubmitScore(user.ID, "math", "number-rush", ScoreRequest{Score: 95})
	require.NoError(t, err)

	// Lower score: counted, but not a record.
	resp, err := env.game.SubmitScore(user.ID, "math", "number-rush", ScoreRequest{Score: 80})
	require.NoError(t, err)
	assert.False(t, resp.IsNewRecord)
	assert.Equal(t, 95, resp.BestScore)
	assert.EqualValues(t, 2, resp.TotalPlays)

	// Tying the best counts as a record.
	resp, err = env.game.SubmitScore(user.ID, "math", "number-rush", ScoreRequest{Score: 95})
	require.NoError(t, err)
	assert.True(t, resp.IsNewRecord)
	assert.EqualValues(t, 3, resp.TotalPlays)
}

func TestSubmitScoreEveryPlayAppends(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	for i := 0; i < 3; i++ {
		_, err := env.game.SubmitScore(user.ID, "art", "color-mixer", ScoreRequest{Score: 50})
		require.NoError(t, err)
	}

	resp, err := env.game.SubmitScore(user.ID, "art", "color-mixer", ScoreRequest{Score: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 4, resp.TotalPlays)
}

func TestSubmitScoreUnknownGame(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t, "Ada")

	_, err := env.game.SubmitScore(user.ID, "math", "no-such-game", ScoreRequest{Score: 50})
	assert.ErrorIs(t, err, util.ErrUnknownGame)

	_, err = env.game.SubmitScore(user.ID, "history", "number-rush", ScoreRequest{Score: 50})
	assert.ErrorIs(t, err, util.ErrUnknownSubject)
}

func TestListGamesBySubject(t *testing.T) {
	env := newTestEnv(t)

	games, err := env.game.ListGames("math")
	require.NoError(t, err)
	require.NotEmpty(t, games)
	for _, g := range games {
		assert.Equal(t, "math", g.Subject)
	}

	all, err := env.game.ListGames("")
	require.NoError(t, err)
	assert.True(t, len(all) > len(games))
}

func TestPackageURLUsesStorageProvider(t *testing.T) {
	env := newTestEnv(t)

	url, err := env.game.PackageURL(context.Background(), "math", "number-rush")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/games/math/number-rush.zip", url)
}

func TestPublishPackageStoresBundle(t *testing.T) {
	env := newTestEnv(t)

	body := "bundle-bytes"
	url, err := env.game.PublishPackage(context.Background(), "science", "lab-explorer",
		strings.NewReader(body), int64(len(body)), "application/zip")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/games/science/lab-explorer.zip", url)

	data, err := os.ReadFile(filepath.Join(env.uploads, "games", "science", "lab-explorer.zip"))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	// The catalog row now resolves to the published bundle.
	resolved, err := env.game.PackageURL(context.Background(), "science", "lab-explorer")
	require.NoError(t, err)
	assert.Equal(t, url, resolved)
}

func TestPublishPackageUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.game.PublishPackage(context.Background(), "science", "no-such-game",
		strings.NewReader("x"), 1, "application/zip")
	assert.ErrorIs(t, err, util.ErrUnknownGame)
}
