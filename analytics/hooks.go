package analytics

import (
	"sync"
	"time"

	"finlearn/core"
)

// Hook receives domain events for KPI aggregation.
type Hook interface {
	OnEvent(e core.Event)
}

// BridgeHook bridges an event source to multiple hooks.
type BridgeHook struct{ hooks []Hook }

func NewBridge(hooks ...Hook) *BridgeHook { return &BridgeHook{hooks: hooks} }

func (b *BridgeHook) OnEvent(e core.Event) {
	for _, h := range b.hooks {
		h.OnEvent(e)
	}
}

// DAU tracks daily active learners.
type DAU struct {
	mu   sync.Mutex
	days map[string]map[string]struct{}
}

func NewDAU() *DAU { return &DAU{days: map[string]map[string]struct{}{}} }

func (d *DAU) OnEvent(e core.Event) {
	day := e.Time.UTC().Format("2006-01-02")
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.days[day]
	if m == nil {
		m = map[string]struct{}{}
		d.days[day] = m
	}
	m[e.UserID] = struct{}{}
}

func (d *DAU) Count(day string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.days[day])
}

var _ Hook = (*DAU)(nil)
var _ Hook = (*BridgeHook)(nil)

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }
