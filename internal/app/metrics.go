package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks event loop timings.
type Metrics struct {
	// Event handling
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMaxNs   atomic.Int64

	// Redraws
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	// Failed key bindings
	actionErrors atomic.Uint64

	// Config reloads
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent records screen event handling time.
func (m *Metrics) RecordEvent(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)

	for {
		old := m.eventMaxNs.Load()
		if ns <= old {
			break
		}
		if m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRender records redraw time.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// RecordActionError counts a failed key binding.
func (m *Metrics) RecordActionError() {
	m.actionErrors.Add(1)
}

// RecordReload counts a config reload.
func (m *Metrics) RecordReload(ok bool) {
	m.reloads.Add(1)
	if !ok {
		m.reloadErrors.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	eventCount := m.eventCount.Load()
	renderCount := m.renderCount.Load()

	var avgEventNs int64
	if eventCount > 0 {
		avgEventNs = m.eventTotalNs.Load() / int64(eventCount)
	}

	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		EventCount:   eventCount,
		AvgEventNs:   avgEventNs,
		MaxEventNs:   m.eventMaxNs.Load(),
		RenderCount:  renderCount,
		AvgRenderNs:  avgRenderNs,
		ActionErrors: m.actionErrors.Load(),
		Reloads:      m.reloads.Load(),
		ReloadErrors: m.reloadErrors.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	EventCount   uint64
	AvgEventNs   int64
	MaxEventNs   int64
	RenderCount  uint64
	AvgRenderNs  int64
	ActionErrors uint64
	Reloads      uint64
	ReloadErrors uint64
}

// AvgEvent returns the mean event handling time.
func (s MetricsSnapshot) AvgEvent() time.Duration {
	return time.Duration(s.AvgEventNs)
}

// AvgRender returns the mean redraw time.
func (s MetricsSnapshot) AvgRender() time.Duration {
	return time.Duration(s.AvgRenderNs)
}
