package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	wsadapter "finlearn/adapters/websocket"
	"finlearn/content"
	"finlearn/core"
	"finlearn/engine"
	"finlearn/leaderboard"
	"finlearn/realtime"
	"finlearn/social"
)

// Options configures the HTTP API surface.
type Options struct {
	// PathPrefix, if set, is prepended to all routes (e.g., "/api").
	PathPrefix string
	// AllowCORSOrigin, if non-empty, enables basic CORS with the given origin (use "*" for any).
	AllowCORSOrigin string
	// APIKeys, if non-empty, enables static API key auth via Authorization: Bearer or X-API-Key.
	APIKeys []string
	// RateLimitEnabled toggles rate limiting.
	RateLimitEnabled bool
	// RateLimitRPM is the allowed requests per minute per client key.
	RateLimitRPM int
	// RateLimitBurst defines burst capacity.
	RateLimitBurst int
}

// NewMux builds an http.Handler exposing the learning REST API and WebSocket stream.
// Routes:
//   - POST {prefix}/session/guest
//   - POST {prefix}/session/login        {"user_id": "..."}
//   - POST {prefix}/session/logout
//   - GET  {prefix}/progress
//   - GET  {prefix}/lessons
//   - POST {prefix}/lessons/{id}/complete
//   - GET  {prefix}/lessons/{id}/quiz
//   - POST {prefix}/lessons/{id}/quiz    {"selections": [0, 1, 2]}
//   - GET  {prefix}/challenges
//   - GET  {prefix}/challenges/weekly
//   - POST {prefix}/challenges/{id}/claim
//   - POST {prefix}/simulator/month      {"simulation": {...}, "allocation": {...}}
//   - GET  {prefix}/leaderboard
//   - GET  {prefix}/friends
//   - POST {prefix}/friends              {"code": "..."}
//   - GET  {prefix}/healthz
//   - WS   {prefix}/ws
func NewMux(svc *engine.ProgressService, hub *realtime.Hub, board leaderboard.Board, opts Options) http.Handler {
	mux := http.NewServeMux()

	route := func(path string) string { return withPrefix(opts.PathPrefix, path) }

	mux.HandleFunc(route("/healthz"), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "healthy"})
	})

	// WebSocket events
	if hub != nil {
		mux.Handle(route("/ws"), wsadapter.Handler(hub))
	}

	mux.HandleFunc(route("/session/guest"), func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
			return
		}
		p, err := svc.LoginAsGuest(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, p)
	})

	mux.HandleFunc(route("/session/login"), func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
			return
		}
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with user_id", nil)
			return
		}
		p, err := svc.Login(r.Context(), body.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user", err.Error(), nil)
			return
		}
		writeJSON(w, p)
	})

	mux.HandleFunc(route("/session/logout"), func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
			return
		}
		svc.Logout()
		writeJSON(w, map[string]any{"ok": true})
	})

	mux.HandleFunc(route("/progress"), func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProgress(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, p)
	})

	mux.HandleFunc(route("/lessons"), func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProgress(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, lessonCatalog(p))
	})

	mux.HandleFunc(route("/lessons/"), func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path, opts.PathPrefix)
		if len(parts) != 3 {
			writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
			return
		}
		lessonID := parts[1]
		switch {
		case parts[2] == "complete" && r.Method == http.MethodPost:
			p, effects, err := svc.CompleteLesson(r.Context(), lessonID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{"progress": p, "effects": effects})
		case parts[2] == "quiz" && r.Method == http.MethodGet:
			questions, ok := content.QuizFor(lessonID)
			if !ok {
				writeError(w, http.StatusNotFound, "unknown_lesson", "no quiz for lesson", nil)
				return
			}
			writeJSON(w, quizView(questions))
		case parts[2] == "quiz" && r.Method == http.MethodPost:
			var body struct {
				Selections []int `json:"selections"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with selections", nil)
				return
			}
			result, p, effects, err := svc.SubmitQuiz(r.Context(), lessonID, body.Selections)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{"result": result, "progress": p, "effects": effects})
		default:
			writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
		}
	})

	mux.HandleFunc(route("/challenges"), func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProgress(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, p.DailyChallenges)
	})

	mux.HandleFunc(route("/challenges/"), func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path, opts.PathPrefix)
		switch {
		case len(parts) == 2 && parts[1] == "weekly" && r.Method == http.MethodGet:
			weekly, err := svc.WeeklyChallenges(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, weekly)
		case len(parts) == 3 && parts[2] == "claim" && r.Method == http.MethodPost:
			p, effects, err := svc.ClaimChallenge(r.Context(), parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{"progress": p, "effects": effects})
		default:
			writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
		}
	})

	mux.HandleFunc(route("/simulator/month"), func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
			return
		}
		var body struct {
			Simulation *core.Simulation `json:"simulation"`
			Allocation core.Allocation  `json:"allocation"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with simulation and allocation", nil)
			return
		}
		sim := core.NewSimulation()
		if body.Simulation != nil {
			sim = *body.Simulation
		}
		nextSim, res, p, effects, err := svc.EndMonth(r.Context(), sim, body.Allocation)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"simulation": nextSim,
			"result":     res,
			"progress":   p,
			"effects":    effects,
		})
	})

	mux.HandleFunc(route("/leaderboard"), func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProgress(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, leaderboard.Standings(board, p))
	})

	mux.HandleFunc(route("/friends"), func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			p, err := svc.GetProgress(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{
				"friends":     social.Roster(p),
				"suggestions": social.Suggestions(p),
			})
		case http.MethodPost:
			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with code", nil)
				return
			}
			p, effects, err := svc.AddFriend(r.Context(), body.Code)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{"progress": p, "effects": effects})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET or POST", nil)
		}
	})

	var handler http.Handler = mux
	if opts.AllowCORSOrigin != "" {
		handler = withCORS(handler, opts.AllowCORSOrigin)
	}
	if len(opts.APIKeys) > 0 {
		handler = withAPIKeyAuth(handler, opts.APIKeys)
	}
	if opts.RateLimitEnabled && opts.RateLimitRPM > 0 && opts.RateLimitBurst > 0 {
		handler = withRateLimit(handler, opts.RateLimitRPM, opts.RateLimitBurst)
	}
	return handler
}

// lessonRow is a catalog entry annotated with the learner's state.
type lessonRow struct {
	content.Lesson
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
}

func lessonCatalog(p core.Progress) []lessonRow {
	rows := make([]lessonRow, len(content.Lessons))
	for i, l := range content.Lessons {
		rows[i] = lessonRow{Lesson: l, Unlocked: l.Unlocked(p), Completed: p.HasLesson(l.ID)}
	}
	return rows
}

// questionView strips the answer key before questions leave the server.
type questionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

func quizView(questions []content.Question) []questionView {
	out := make([]questionView, len(questions))
	for i, q := range questions {
		out[i] = questionView{Prompt: q.Prompt, Options: q.Options}
	}
	return out
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "no_session", err.Error(), nil)
	case errors.Is(err, engine.ErrUnknownLesson):
		writeError(w, http.StatusNotFound, "unknown_lesson", err.Error(), nil)
	case errors.Is(err, engine.ErrLessonLocked):
		writeError(w, http.StatusForbidden, "lesson_locked", err.Error(), nil)
	case errors.Is(err, core.ErrOverBudget):
		writeError(w, http.StatusBadRequest, "over_budget", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}

// Helpers

func withPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	if prefix[len(prefix)-1] == '/' {
		return prefix[:len(prefix)-1] + path
	}
	return prefix + path
}

// pathParts strips the prefix and splits the remaining path on '/'.
func pathParts(path, prefix string) []string {
	path = strings.TrimPrefix(path, prefix)
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Code: code, Message: msg, Details: details})
}

// withCORS wraps a handler with a minimal CORS policy.
func withCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAPIKeyAuth enforces a shared API key list.
func withAPIKeyAuth(next http.Handler, apiKeys []string) http.Handler {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		k = strings.TrimSpace(k)
		if k != "" {
			allowed[k] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := extractAPIKey(r)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing API key", nil)
			return
		}
		if _, ok := allowed[key]; !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies a simple token-bucket limiter per client key.
func withRateLimit(next http.Handler, rpm int, burst int) http.Handler {
	limiter := newRateLimiter(rpm, burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !limiter.allow(key) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractAPIKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return ""
}

// clientKey uses API key if present, otherwise remote IP.
func clientKey(r *http.Request) string {
	if key := extractAPIKey(r); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type rateLimiter struct {
	rpm   float64
	burst float64
	mu    sync.Mutex
	b     map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

func newRateLimiter(rpm, burst int) *rateLimiter {
	return &rateLimiter{
		rpm:   float64(rpm),
		burst: float64(burst),
		b:     make(map[string]*bucket),
	}
}

func (l *rateLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.b[key]
	if !ok {
		l.b[key] = &bucket{tokens: l.burst - 1, last: now}
		return true
	}

	elapsed := now.Sub(b.last).Minutes()
	b.tokens += elapsed * l.rpm
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	if b.tokens < 1 {
		b.last = now
		return false
	}
	b.tokens--
	b.last = now
	return true
}
