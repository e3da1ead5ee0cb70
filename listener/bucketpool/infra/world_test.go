package infra

import (
	"testing"

	"event-fanout/listener/bucketpool/domain"
)

func TestWorld_SpawnKillLiveness(t *testing.T) {
	w := NewWorld()
	m := w.Spawn("zone")

	if m == 0 {
		t.Fatalf("expected non-zero handle")
	}
	if !w.IsAlive(m) {
		t.Fatalf("expected spawned entity to be alive")
	}
	if !w.Kill(m) {
		t.Fatalf("expected first kill to succeed")
	}
	if w.Kill(m) {
		t.Fatalf("expected second kill to report false")
	}
	if w.IsAlive(m) {
		t.Fatalf("expected killed entity to be dead")
	}
}

func TestWorld_EnumerateFiltersByScopeInOrder(t *testing.T) {
	w := NewWorld()
	a := w.Spawn("zone")
	w.Spawn("other")
	c := w.Spawn("zone")

	got := w.Enumerate("zone")
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("expected [%d %d], got %v", a, c, got)
	}
	if w.Population() != 3 {
		t.Fatalf("expected population 3, got %d", w.Population())
	}
}

func TestWorld_OnEnteredScopeNotifiesOutsideLock(t *testing.T) {
	w := NewWorld()
	var seen []domain.Member
	w.OnEnteredScope("zone", func(m domain.Member) {
		// consulta o próprio world dentro do callback
		if !w.IsAlive(m) {
			t.Errorf("expected %v alive inside callback", m)
		}
		seen = append(seen, m)
	})

	m := w.Spawn("zone")
	w.Spawn("other")

	if len(seen) != 1 || seen[0] != m {
		t.Fatalf("expected [%v], got %v", m, seen)
	}
}
