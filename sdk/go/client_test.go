package sdk

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	mem "finlearn/adapters/memory"
	"finlearn/api/httpapi"
	"finlearn/core"
	"finlearn/engine"
	"finlearn/leaderboard"
	"finlearn/progression"
	"finlearn/realtime"
)

// newTestServer runs the real API surface against in-memory storage.
func newTestServer(t *testing.T) (*httptest.Server, *realtime.Hub) {
	t.Helper()
	hub := realtime.NewHub()
	svc := progression.New(
		progression.WithStorage(mem.New()),
		progression.WithRealtime(hub),
		progression.WithDispatchMode(engine.DispatchSync),
		progression.WithLogger(slog.Default()),
	)
	t.Cleanup(svc.Close)
	handler := httpapi.NewMux(svc, hub, leaderboard.NewSeededBoard(), httpapi.Options{PathPrefix: "/api"})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, hub
}

func TestClient_LessonFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()

	p, err := client.StartGuestSession(ctx)
	if err != nil {
		t.Fatalf("guest session: %v", err)
	}
	if !p.Guest || p.XP != 0 {
		t.Fatalf("unexpected fresh record: %+v", p)
	}

	rows, err := client.Lessons(ctx)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(rows) != 6 || !rows[0].Unlocked || rows[0].Completed {
		t.Fatalf("unexpected catalog: %+v", rows)
	}

	m, err := client.CompleteLesson(ctx, "money-basics-1")
	if err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if m.Progress.XP != 75 {
		t.Fatalf("expected 75 XP, got %d", m.Progress.XP)
	}
	if len(m.Effects.NewBadges) != 1 || m.Effects.NewBadges[0].ID != "first-lesson" {
		t.Fatalf("expected first-lesson badge: %+v", m.Effects)
	}
}

func TestClient_LockedLessonError(t *testing.T) {
	srv, _ := newTestServer(t)

	client, _ := NewClient(srv.URL + "/api")
	ctx := context.Background()
	if _, err := client.StartGuestSession(ctx); err != nil {
		t.Fatalf("guest session: %v", err)
	}

	_, err := client.CompleteLesson(ctx, "investing-1")
	var apiErr *APIError
	if err == nil || !errors.As(err, &apiErr) || apiErr.Code != "lesson_locked" {
		t.Fatalf("expected lesson_locked error, got %v", err)
	}
}

func TestClient_QuizAndChallenges(t *testing.T) {
	srv, _ := newTestServer(t)

	client, _ := NewClient(srv.URL + "/api")
	ctx := context.Background()
	if _, err := client.StartGuestSession(ctx); err != nil {
		t.Fatalf("guest session: %v", err)
	}

	questions, err := client.Quiz(ctx, "money-basics-1")
	if err != nil || len(questions) != 3 {
		t.Fatalf("quiz: %v %d", err, len(questions))
	}

	out, err := client.SubmitQuiz(ctx, "money-basics-1", []int{0, 3, 0})
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}
	if !out.Result.Passed || out.Result.Score != 3 {
		t.Fatalf("unexpected result: %+v", out.Result)
	}

	daily, err := client.DailyChallenges(ctx)
	if err != nil || len(daily) != 3 {
		t.Fatalf("daily challenges: %v %d", err, len(daily))
	}
	weekly, err := client.WeeklyChallenges(ctx)
	if err != nil || len(weekly) != 3 {
		t.Fatalf("weekly challenges: %v %d", err, len(weekly))
	}
}

func TestClient_SimulatorAndLeaderboard(t *testing.T) {
	srv, _ := newTestServer(t)

	client, _ := NewClient(srv.URL + "/api")
	ctx := context.Background()
	if _, err := client.StartGuestSession(ctx); err != nil {
		t.Fatalf("guest session: %v", err)
	}

	out, err := client.EndMonth(ctx, core.NewSimulation(), core.Allocation{Spending: 6000, Saving: 2000, Investing: 1000})
	if err != nil {
		t.Fatalf("end month: %v", err)
	}
	if out.Simulation.Month != 2 || out.Result.XPEarned != 90 {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	rows, err := client.Leaderboard(ctx)
	if err != nil || len(rows) != 9 {
		t.Fatalf("leaderboard: %v %d", err, len(rows))
	}

	health, err := client.Health(ctx)
	if err != nil || health.Status != "healthy" {
		t.Fatalf("health: %+v err=%v", health, err)
	}
}

func TestClient_SubscribeEvents(t *testing.T) {
	srv, hub := newTestServer(t)

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, err := client.SubscribeEvents(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// give the server-side subscriber a moment to attach
	time.Sleep(10 * time.Millisecond)
	hub.Broadcast(context.Background(), core.NewXPAdded("alice", 10, 10))

	select {
	case evt := <-events:
		if evt.Type != core.EventXPAdded {
			t.Fatalf("unexpected event type: %s", evt.Type)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
