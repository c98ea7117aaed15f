package offline

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrNoCachedData is returned by reads when the network is unavailable and
// the response cache has no entry for the path.
var ErrNoCachedData = errors.New("offline: no cached data")

const (
	kindProgress  = "progress"
	kindGameScore = "game_score"

	// DefaultContentRetention bounds how long downloaded game packages are
	// kept before the lazy purge removes them.
	DefaultContentRetention = 7 * 24 * time.Hour
)

// ProgressSubmission mirrors the submit-progress request body.
type ProgressSubmission struct {
	Subject              string `json:"subject"`
	Topic                string `json:"topic"`
	CompletionPercentage int    `json:"completion_percentage"`
	Score                int    `json:"score,omitempty"`
	TimeSpent            int    `json:"time_spent,omitempty"`
}

// ScoreSubmission mirrors the submit-score request body.
type ScoreSubmission struct {
	Score          int    `json:"score"`
	LevelCompleted int    `json:"level_completed,omitempty"`
	TimeTaken      int    `json:"time_taken,omitempty"`
	GameData       string `json:"game_data,omitempty"`
}

// SubmitResult reports how a mutation was handled. When Queued is true the
// request never reached the server and will be replayed by a later sweep;
// Body is nil in that case.
type SubmitResult struct {
	Queued bool
	Body   []byte
}

// Client wraps the backend REST API with offline queueing and read caching.
// Safe for concurrent use; sweeps are single-flight.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Store      *Store
	Retention  time.Duration

	sweeping chan struct{}
}

func NewClient(baseURL, token string, store *Store) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Store:      store,
		Retention:  DefaultContentRetention,
		sweeping:   make(chan struct{}, 1),
	}
}

// SubmitProgress posts a progress update. A transport failure enqueues the
// payload and returns Queued=true; an HTTP rejection (4xx/5xx) is an error
// and is not queued.
func (c *Client) SubmitProgress(ctx context.Context, sub *ProgressSubmission) (*SubmitResult, error) {
	return c.submit(ctx, kindProgress, "/api/students/progress", sub)
}

// SubmitGameScore posts a game score with the same queue-on-transport-failure
// behaviour as SubmitProgress.
func (c *Client) SubmitGameScore(ctx context.Context, subject, gameID string, sub *ScoreSubmission) (*SubmitResult, error) {
	path := fmt.Sprintf("/api/games/%s/%s/score", subject, gameID)
	return c.submit(ctx, kindGameScore, path, sub)
}

func (c *Client) submit(ctx context.Context, kind, path string, payload interface{}) (*SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	respBody, status, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		// Transport failure: save the mutation for the next sweep.
		item := &QueueItem{
			ID:         uuid.NewString(),
			Kind:       kind,
			Method:     http.MethodPost,
			Path:       path,
			Payload:    body,
			EnqueuedAt: time.Now().UTC(),
		}
		if qErr := c.Store.Enqueue(item); qErr != nil {
			return nil, qErr
		}
		return &SubmitResult{Queued: true}, nil
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("offline: server rejected %s: status %d", path, status)
	}
	return &SubmitResult{Body: respBody}, nil
}

// GetJSON fetches path and decodes the response into out. On a transport
// failure it falls back to the last cached body for the path, and reports
// ErrNoCachedData on a cache miss.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	body, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		cached, _, cacheErr := c.Store.CachedResponse(path)
		if cacheErr == sql.ErrNoRows {
			return ErrNoCachedData
		}
		if cacheErr != nil {
			return cacheErr
		}
		return json.Unmarshal(cached, out)
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("offline: server rejected %s: status %d", path, status)
	}

	if err := c.Store.CacheResponse(path, body, time.Now().UTC()); err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// DownloadContent fetches a game package from its (presigned or local) URL
// and stores it for offline play under key.
func (c *Client) DownloadContent(ctx context.Context, key, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("offline: content download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return c.Store.SaveContent(key, data, time.Now().UTC())
}

// Content returns a previously downloaded package, honouring the retention
// window.
func (c *Client) Content(key string) ([]byte, error) {
	return c.Store.Content(key, c.Retention, time.Now().UTC())
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return respBody, resp.StatusCode, nil
}
