package infra

import (
	"testing"
	"time"
)

func TestTickGate_FirstRunWaitsForInterval(t *testing.T) {
	g := NewTickGate()
	runs := 0
	g.SchedulePeriodic(time.Hour, func() { runs++ })

	g.Tick()
	g.Tick()

	if runs != 0 {
		t.Fatalf("expected no run before interval, got %d", runs)
	}
}

func TestTickGate_RunsAtMostOncePerInterval(t *testing.T) {
	g := NewTickGate()
	runs := 0
	g.SchedulePeriodic(5*time.Millisecond, func() { runs++ })

	time.Sleep(10 * time.Millisecond)
	g.Tick()
	g.Tick()
	g.Tick()

	if runs != 1 {
		t.Fatalf("expected exactly one run, got %d", runs)
	}
}

func TestTickGate_IgnoresNonPositiveInterval(t *testing.T) {
	g := NewTickGate()
	g.SchedulePeriodic(0, func() {})
	g.SchedulePeriodic(-time.Second, func() {})
	if g.Len() != 0 {
		t.Fatalf("expected no jobs, got %d", g.Len())
	}
}
