// Package progression is the embedding-friendly front door: it assembles the
// engine, storage, and optional sinks behind a small functional-options API.
package progression

import (
	"context"
	"log/slog"
	"time"

	mem "finlearn/adapters/memory"
	"finlearn/analytics"
	"finlearn/core"
	"finlearn/engine"
	"finlearn/realtime"
)

// Option configures the service builder.
type Option func(*config)

type config struct {
	storage engine.Storage
	mode    engine.DispatchMode
	hub     *realtime.Hub
	hooks   []analytics.Hook
	logger  *slog.Logger
	clock   func() time.Time
}

// WithStorage sets the persistence adapter.
func WithStorage(s engine.Storage) Option { return func(c *config) { c.storage = s } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all progression events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithHooks attaches analytics hooks to the event stream.
func WithHooks(hooks ...analytics.Hook) Option {
	return func(c *config) { c.hooks = append(c.hooks, hooks...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithClock overrides the time source (tests use a fixed clock).
func WithClock(now func() time.Time) Option { return func(c *config) { c.clock = now } }

// eventTypes lists every event the engine publishes, for sinks that want the
// whole stream.
var eventTypes = []core.EventType{
	core.EventXPAdded,
	core.EventLevelUp,
	core.EventBadgeEarned,
	core.EventChallengeClaimed,
	core.EventStreakExtended,
	core.EventLessonCompleted,
	core.EventQuizSubmitted,
	core.EventMonthEnded,
}

// New builds a configured ProgressService. If not provided, defaults are used:
//   - storage: in-memory
//   - dispatch: async
//   - clock: time.Now
func New(opts ...Option) *engine.ProgressService {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.storage == nil {
		cfg.storage = mem.New()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	bus := engine.NewEventBus(cfg.mode)
	svc := engine.NewProgressService(cfg.storage, bus, cfg.logger, cfg.clock)

	if cfg.hub != nil {
		for _, typ := range eventTypes {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
	}
	if len(cfg.hooks) > 0 {
		bridge := analytics.NewBridge(cfg.hooks...)
		for _, typ := range eventTypes {
			bus.Subscribe(typ, func(_ context.Context, e core.Event) { bridge.OnEvent(e) })
		}
	}
	return svc
}
