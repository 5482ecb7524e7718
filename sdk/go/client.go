package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"finlearn/core"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the FinLearn HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAuthToken adds an Authorization: Bearer token header to all requests (HTTP + WS).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if strings.TrimSpace(token) != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAPIKey adds an X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// WithHeader sets an arbitrary header applied to HTTP and WS calls.
func WithHeader(k, v string) Option {
	return func(c *Client) {
		if k != "" {
			c.headers.Set(k, v)
		}
	}
}

// StartGuestSession opens the guest progress slot.
func (c *Client) StartGuestSession(ctx context.Context) (core.Progress, error) {
	var p core.Progress
	err := c.do(ctx, http.MethodPost, "/session/guest", nil, &p)
	return p, err
}

// Login opens the account slot for a user id.
func (c *Client) Login(ctx context.Context, userID string) (core.Progress, error) {
	if strings.TrimSpace(userID) == "" {
		return core.Progress{}, ErrEmptyUserID
	}
	var p core.Progress
	err := c.do(ctx, http.MethodPost, "/session/login", map[string]string{"user_id": userID}, &p)
	return p, err
}

// Logout closes the active session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/session/logout", nil, nil)
}

// GetProgress fetches the active progress record.
func (c *Client) GetProgress(ctx context.Context) (core.Progress, error) {
	var p core.Progress
	err := c.do(ctx, http.MethodGet, "/progress", nil, &p)
	return p, err
}

// Lessons fetches the catalog annotated with unlock and completion state.
func (c *Client) Lessons(ctx context.Context) ([]LessonRow, error) {
	var rows []LessonRow
	err := c.do(ctx, http.MethodGet, "/lessons", nil, &rows)
	return rows, err
}

// CompleteLesson records a lesson completion.
func (c *Client) CompleteLesson(ctx context.Context, lessonID string) (Mutation, error) {
	var m Mutation
	err := c.do(ctx, http.MethodPost, "/lessons/"+url.PathEscape(lessonID)+"/complete", nil, &m)
	return m, err
}

// Quiz fetches the question set for a lesson, without the answer key.
func (c *Client) Quiz(ctx context.Context, lessonID string) ([]QuizQuestion, error) {
	var qs []QuizQuestion
	err := c.do(ctx, http.MethodGet, "/lessons/"+url.PathEscape(lessonID)+"/quiz", nil, &qs)
	return qs, err
}

// SubmitQuiz grades selected option indexes against a lesson's quiz.
func (c *Client) SubmitQuiz(ctx context.Context, lessonID string, selections []int) (QuizOutcome, error) {
	var out QuizOutcome
	err := c.do(ctx, http.MethodPost, "/lessons/"+url.PathEscape(lessonID)+"/quiz",
		map[string]any{"selections": selections}, &out)
	return out, err
}

// DailyChallenges fetches today's challenge set.
func (c *Client) DailyChallenges(ctx context.Context) ([]core.ChallengeInstance, error) {
	var cs []core.ChallengeInstance
	err := c.do(ctx, http.MethodGet, "/challenges", nil, &cs)
	return cs, err
}

// WeeklyChallenges fetches the derived weekly challenge view.
func (c *Client) WeeklyChallenges(ctx context.Context) ([]core.ChallengeInstance, error) {
	var cs []core.ChallengeInstance
	err := c.do(ctx, http.MethodGet, "/challenges/weekly", nil, &cs)
	return cs, err
}

// ClaimChallenge claims a completed daily challenge.
func (c *Client) ClaimChallenge(ctx context.Context, challengeID string) (Mutation, error) {
	var m Mutation
	err := c.do(ctx, http.MethodPost, "/challenges/"+url.PathEscape(challengeID)+"/claim", nil, &m)
	return m, err
}

// EndMonth runs one simulator month. Pass the zero Simulation to start fresh.
func (c *Client) EndMonth(ctx context.Context, sim core.Simulation, alloc core.Allocation) (SimOutcome, error) {
	var out SimOutcome
	err := c.do(ctx, http.MethodPost, "/simulator/month",
		map[string]any{"simulation": sim, "allocation": alloc}, &out)
	return out, err
}

// Leaderboard fetches the ranked standings including the active learner.
func (c *Client) Leaderboard(ctx context.Context) ([]Ranking, error) {
	var rows []Ranking
	err := c.do(ctx, http.MethodGet, "/leaderboard", nil, &rows)
	return rows, err
}

// Friends fetches the roster and suggested connections.
func (c *Client) Friends(ctx context.Context) (FriendsPage, error) {
	var page FriendsPage
	err := c.do(ctx, http.MethodGet, "/friends", nil, &page)
	return page, err
}

// AddFriend adds a friend by referral code.
func (c *Client) AddFriend(ctx context.Context, code string) (Mutation, error) {
	var m Mutation
	err := c.do(ctx, http.MethodPost, "/friends", map[string]string{"code": code}, &m)
	return m, err
}

// Health probes /healthz.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &hs)
	return hs, err
}

// SubscribeEvents connects to the WebSocket stream and emits core.Event values.
// The returned channel closes when ctx is done or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan core.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, c.headers)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Event, 32)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				var evt core.Event
				if err := conn.ReadJSON(&evt); err != nil {
					return
				}
				select {
				case out <- evt:
				default:
					// drop if consumer is slow
				}
			}
		}
	}()
	return out, nil
}

// do issues a JSON request against the API and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Code != "" {
			apiErr.Status = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) applyHeaders(r *http.Request) {
	for k, vals := range c.headers {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		// leave as-is for custom schemes
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
