package app

import (
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	s := m.Snapshot()
	if s.EventCount != 0 || s.RenderCount != 0 {
		t.Errorf("fresh snapshot = %+v", s)
	}
	if s.AvgEvent() != 0 || s.AvgRender() != 0 {
		t.Error("averages of nothing should be zero")
	}
}

func TestMetrics_RecordEvent(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent(10 * time.Millisecond)
	m.RecordEvent(30 * time.Millisecond)
	m.RecordEvent(20 * time.Millisecond)

	s := m.Snapshot()
	if s.EventCount != 3 {
		t.Errorf("EventCount = %d, want 3", s.EventCount)
	}
	if s.AvgEvent() != 20*time.Millisecond {
		t.Errorf("AvgEvent() = %v, want 20ms", s.AvgEvent())
	}
	if s.MaxEventNs != int64(30*time.Millisecond) {
		t.Errorf("MaxEventNs = %d, want 30ms", s.MaxEventNs)
	}
}

func TestMetrics_RecordRender(t *testing.T) {
	m := NewMetrics()
	m.RecordRender(4 * time.Millisecond)
	m.RecordRender(2 * time.Millisecond)

	s := m.Snapshot()
	if s.RenderCount != 2 {
		t.Errorf("RenderCount = %d, want 2", s.RenderCount)
	}
	if s.AvgRender() != 3*time.Millisecond {
		t.Errorf("AvgRender() = %v, want 3ms", s.AvgRender())
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordActionError()
	m.RecordReload(true)
	m.RecordReload(false)

	s := m.Snapshot()
	if s.ActionErrors != 1 {
		t.Errorf("ActionErrors = %d, want 1", s.ActionErrors)
	}
	if s.Reloads != 2 || s.ReloadErrors != 1 {
		t.Errorf("Reloads = %d, ReloadErrors = %d, want 2 and 1", s.Reloads, s.ReloadErrors)
	}
}
