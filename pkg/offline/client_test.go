package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "offline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// deadServer returns a base URL that refuses connections.
func deadServer(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	return srv.URL
}

func TestSubmitProgressOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/progress", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"pointsEarned":30}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", newTestStore(t))
	result, err := client.SubmitProgress(context.Background(), &ProgressSubmission{
		Subject: "math", Topic: "fractions", CompletionPercentage: 100, Score: 85,
	})
	require.NoError(t, err)

	assert.False(t, result.Queued)
	assert.Contains(t, string(result.Body), "pointsEarned")

	pending, err := client.Store.PendingCount()
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSubmitProgressQueuesOnTransportFailure(t *testing.T) {
	client := NewClient(deadServer(t), "token-123", newTestStore(t))

	result, err := client.SubmitProgress(context.Background(), &ProgressSubmission{
		Subject: "math", Topic: "fractions", CompletionPercentage: 80,
	})
	require.NoError(t, err)
	assert.True(t, result.Queued)

	// Exactly one item, carrying the original payload.
	items, err := client.Store.Pending()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kindProgress, items[0].Kind)
	assert.Equal(t, "/api/students/progress", items[0].Path)
	assert.Contains(t, string(items[0].Payload), `"completion_percentage":80`)
	assert.NotEmpty(t, items[0].ID)
}

func TestSubmitScoreQueuesOnTransportFailure(t *testing.T) {
	client := NewClient(deadServer(t), "token-123", newTestStore(t))

	result, err := client.SubmitGameScore(context.Background(), "math", "number-rush", &ScoreSubmission{
		Score: 95, TimeTaken: 120,
	})
	require.NoError(t, err)
	assert.True(t, result.Queued)

	items, err := client.Store.Pending()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kindGameScore, items[0].Kind)
	assert.Equal(t, "/api/games/math/number-rush/score", items[0].Path)
}

func TestSubmitProgressRejectionIsNotQueued(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown subject"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", newTestStore(t))
	_, err := client.SubmitProgress(context.Background(), &ProgressSubmission{
		Subject: "history", Topic: "rome", CompletionPercentage: 50,
	})
	require.Error(t, err)

	// The server saw and rejected it; replaying would just fail again.
	pending, err := client.Store.PendingCount()
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestGetJSONCachesAndFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalPoints":120,"currentLevel":2}`))
	}))

	store := newTestStore(t)
	client := NewClient(srv.URL, "token-123", store)

	var online map[string]int
	require.NoError(t, client.GetJSON(context.Background(), "/api/students/points", &online))
	assert.Equal(t, 120, online["totalPoints"])

	// Go offline: the cached body serves the same read.
	srv.Close()
	var cached map[string]int
	require.NoError(t, client.GetJSON(context.Background(), "/api/students/points", &cached))
	assert.Equal(t, 120, cached["totalPoints"])
	assert.Equal(t, 2, cached["currentLevel"])

	// A path never fetched has nothing to fall back to.
	var miss map[string]int
	err := client.GetJSON(context.Background(), "/api/students/dashboard", &miss)
	assert.ErrorIs(t, err, ErrNoCachedData)
}

func TestContentRetention(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.SaveContent("games/math/number-rush.zip", []byte("fresh"), now.Add(-time.Hour)))
	require.NoError(t, store.SaveContent("games/art/color-mixer.zip", []byte("stale"), now.Add(-8*24*time.Hour)))

	data, err := store.Content("games/math/number-rush.zip", DefaultContentRetention, now)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), data)

	// Entries past the retention window are purged lazily on read.
	_, err = store.Content("games/art/color-mixer.zip", DefaultContentRetention, now)
	assert.ErrorIs(t, err, ErrNoCachedData)
}

func TestDownloadContentStoresPackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("zip-bytes"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", newTestStore(t))
	require.NoError(t, client.DownloadContent(context.Background(), "games/math/number-rush.zip", srv.URL+"/uploads/games/math/number-rush.zip"))

	data, err := client.Content("games/math/number-rush.zip")
	require.NoError(t, err)
	assert.Equal(t, []byte("zip-bytes"), data)
}
