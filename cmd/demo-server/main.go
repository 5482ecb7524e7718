package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	mem "finlearn/adapters/memory"
	"finlearn/api/httpapi"
	"finlearn/engine"
	"finlearn/leaderboard"
	"finlearn/progression"
	"finlearn/realtime"
)

// A minimal dev server: in-memory storage, guest session opened at boot, and
// the full REST surface on :8080 with no auth.
func main() {
	// Use readable text logging for development/demo
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(textHandler))

	hub := realtime.NewHub()
	svc := progression.New(
		progression.WithStorage(mem.New()),
		progression.WithRealtime(hub),
		progression.WithDispatchMode(engine.DispatchAsync),
	)

	if _, err := svc.LoginAsGuest(context.Background()); err != nil {
		slog.Error("opening guest session", "error", err)
		os.Exit(1)
	}

	handler := httpapi.NewMux(svc, hub, leaderboard.NewSeededBoard(), httpapi.Options{
		AllowCORSOrigin: "*",
	})

	slog.Info("starting demo server on :8080")

	if err := http.ListenAndServe(":8080", handler); err != nil {
		slog.Error("demo server crashed", "error", err)
		os.Exit(1)
	}
}
